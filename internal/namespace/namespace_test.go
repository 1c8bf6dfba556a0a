package namespace

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMap(t *testing.T) {
	seed := map[string]string{"b": "2", "a": "1"}
	m := NewMap(seed)

	// The seed must be copied, not aliased.
	seed["c"] = "3"
	if _, ok := m.Lookup("c"); ok {
		t.Error("NewMap() aliased the seed map")
	}

	if err := m.Set("a", "10"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := m.Set("empty", ""); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if v, ok := m.Lookup("empty"); !ok || v != "" {
		t.Errorf("Lookup(empty) = %q, %v; want \"\", true", v, ok)
	}
	if diff := cmp.Diff([]string{"a", "b", "empty"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	want := map[string]string{"a": "10", "b": "2", "empty": ""}
	if diff := cmp.Diff(want, m.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("PROPMERGE_TEST_EXISTING", "x")
	e := Env{Prefix: "PROPMERGE_TEST_"}

	if v, ok := e.Lookup("EXISTING"); !ok || v != "x" {
		t.Errorf("Lookup(EXISTING) = %q, %v; want \"x\", true", v, ok)
	}
	if _, ok := e.Lookup("MISSING"); ok {
		t.Error("Lookup(MISSING) reported a value")
	}

	// Register cleanup through t.Setenv before Set writes the variable.
	t.Setenv("PROPMERGE_TEST_NEW", "")
	if err := e.Set("NEW", "y"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, _ := e.Lookup("NEW"); v != "y" {
		t.Errorf("Lookup(NEW) = %q, want %q", v, "y")
	}

	if diff := cmp.Diff([]string{"EXISTING", "NEW"}, e.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}
