package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestOperationTracker_StartDone(t *testing.T) {
	tracker := NewOperationTracker()

	if !tracker.Start() {
		t.Fatal("Start should succeed on open tracker")
	}
	if tracker.ActiveCount() != 1 {
		t.Errorf("expected 1 active, got %d", tracker.ActiveCount())
	}
	tracker.Done()
	if tracker.ActiveCount() != 0 {
		t.Errorf("expected 0 active, got %d", tracker.ActiveCount())
	}
}

func TestOperationTracker_Close(t *testing.T) {
	tracker := NewOperationTracker()
	tracker.Close()

	if !tracker.IsClosed() {
		t.Error("tracker should report closed")
	}
	if tracker.Start() {
		t.Error("Start should fail on closed tracker")
	}
}

func TestOperationTracker_WaitCompletes(t *testing.T) {
	tracker := NewOperationTracker()
	tracker.Start()

	go func() {
		time.Sleep(20 * time.Millisecond)
		tracker.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := tracker.Wait(ctx); err != nil {
		t.Errorf("Wait() error = %v", err)
	}
}

func TestOperationTracker_WaitTimeout(t *testing.T) {
	tracker := NewOperationTracker()
	tracker.Start()
	defer tracker.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := tracker.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}

func TestOperationTracker_WaitEmpty(t *testing.T) {
	if err := NewOperationTracker().Wait(context.Background()); err != nil {
		t.Errorf("Wait() on idle tracker error = %v", err)
	}
}
