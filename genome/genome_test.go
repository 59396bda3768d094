package genome

import "testing"

func TestGenome_Accessors(t *testing.T) {
	g := Genome{TokenID: 3, Traits: []Trait{{"Background", "Red"}, {"Hat", "Cap"}}}

	if v, ok := g.Value("Hat"); !ok || v != "Cap" {
		t.Errorf("Value(Hat) = %q, %v", v, ok)
	}
	if _, ok := g.Value("Eyes"); ok {
		t.Error("Value(Eyes) should not be found")
	}
	if p := g.Pairs(); len(p) != 2 || p[0] != "Background=Red" {
		t.Errorf("Pairs() = %v", p)
	}
}

func TestGenome_KeyIgnoresTokenID(t *testing.T) {
	a := Genome{TokenID: 1, Traits: []Trait{{"A", "x"}, {"B", "y"}}}
	b := Genome{TokenID: 2, Traits: []Trait{{"A", "x"}, {"B", "y"}}}
	if a.Key() != b.Key() {
		t.Error("same mapping should share a key")
	}
}

func TestKey_NoSeparatorCollision(t *testing.T) {
	if key([]string{"a:b", "c"}) == key([]string{"a", "b:c"}) {
		t.Error("keys collided")
	}
	if key([]string{"ab", ""}) == key([]string{"a", "b"}) {
		t.Error("keys collided")
	}
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		Sampling:        "sampling",
		ConstraintCheck: "constraint_check",
		UniquenessCheck: "uniqueness_check",
		Accepted:        "accepted",
		State(42):       "unknown",
	}
	for s, want := range tests {
		if s.String() != want {
			t.Errorf("State(%d).String() = %q, want %q", int(s), s.String(), want)
		}
	}
}

func TestRunState_Seen(t *testing.T) {
	s := NewRunState()
	g := Genome{Traits: []Trait{{"A", "x"}}}
	if s.Seen(g) {
		t.Error("empty state should not have seen anything")
	}
	s.accept(g.Key())
	if !s.Seen(g) || s.AcceptedCount() != 1 {
		t.Error("accepted genome should be seen")
	}
}
