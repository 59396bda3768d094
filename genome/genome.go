// Package genome builds accepted trait combinations one at a time.
//
// A genome moves through Sampling, ConstraintCheck and UniquenessCheck until
// it is Accepted. The loop is explicit and every piece of cross-attempt state
// lives in RunState, which the caller owns for the whole batch.
package genome

import (
	"strconv"
	"strings"
)

// Trait is one layer's chosen value.
type Trait struct {
	Layer string
	Value string
}

// Genome is an accepted trait combination. Traits hold one entry per layer in
// config layer order. A Genome is never mutated after acceptance.
type Genome struct {
	TokenID int
	Traits  []Trait
}

// Value returns the value chosen for layer.
func (g Genome) Value(layer string) (string, bool) {
	for _, t := range g.Traits {
		if t.Layer == layer {
			return t.Value, true
		}
	}
	return "", false
}

// Values returns the chosen values in layer order.
func (g Genome) Values() []string {
	out := make([]string, len(g.Traits))
	for i, t := range g.Traits {
		out[i] = t.Value
	}
	return out
}

// Pairs renders traits as "layer=value" for logs.
func (g Genome) Pairs() []string {
	out := make([]string, len(g.Traits))
	for i, t := range g.Traits {
		out[i] = t.Layer + "=" + t.Value
	}
	return out
}

// Key identifies the trait mapping independent of token id. Layer order is
// fixed by the config, so values alone identify the mapping.
func (g Genome) Key() string {
	return key(g.Values())
}

// key length-prefixes each value so no separator can collide with content.
func key(values []string) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
