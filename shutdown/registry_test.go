package shutdown

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRegistry_Order(t *testing.T) {
	registry := NewRegistry()
	var order []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}

	registry.Register("logger", 90, record("logger"))
	registry.Register("ledger", 20, record("ledger"))
	registry.Register("progress", 10, record("progress"))
	registry.Register("temp-images", 30, record("temp-images"))
	registry.Register("temp-metadata", 30, record("temp-metadata"))

	want := []string{"progress", "ledger", "temp-images", "temp-metadata", "logger"}
	if got := registry.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if err := registry.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("execution order = %v, want %v", order, want)
	}
}

func TestRegistry_ErrorsJoined(t *testing.T) {
	registry := NewRegistry()
	errLedger := errors.New("ledger busy")
	ran := false

	registry.Register("ledger", 20, func(context.Context) error { return errLedger })
	registry.Register("logger", 90, func(context.Context) error {
		ran = true
		return errors.New("sync failed")
	})

	err := registry.Run(context.Background())
	if !errors.Is(err, errLedger) {
		t.Errorf("Run() error = %v, want it to wrap ledger error", err)
	}
	if !strings.Contains(err.Error(), "logger: sync failed") {
		t.Errorf("Run() error = %q, want logger failure named", err)
	}
	if !ran {
		t.Error("later handlers should run after a failure")
	}
}

func TestRegistry_RunOnce(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	registry.Register("once", 0, func(context.Context) error {
		calls++
		return nil
	})

	registry.Run(context.Background())
	registry.Run(context.Background())
	registry.Register("late", 0, func(context.Context) error {
		calls++
		return nil
	})

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if registry.Count() != 1 {
		t.Errorf("late registration should be ignored, count = %d", registry.Count())
	}
}
