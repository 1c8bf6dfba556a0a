// Package namespace provides the process-wide property store that external
// property files are merged into.
//
// Two stores are provided: Map, an in-memory store owned by the host's
// startup sequence, and Env, which reads and writes the process environment.
// Neither store performs locking; they are populated during single-threaded
// startup.
package namespace

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Namespace is a mutable key/value property store.
type Namespace interface {
	// Lookup returns the value stored under key and whether it is present.
	Lookup(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Keys returns all keys in lexicographic order.
	Keys() []string
}

// Map is an in-memory Namespace.
type Map struct {
	values map[string]string
}

// NewMap returns a Map seeded with a copy of initial.
func NewMap(initial map[string]string) *Map {
	m := &Map{values: make(map[string]string, len(initial))}
	for k, v := range initial {
		m.values[k] = v
	}
	return m
}

func (m *Map) Lookup(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the stored values.
func (m *Map) Snapshot() map[string]string {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Env is a Namespace backed by the process environment. When Prefix is set,
// every key is stored as Prefix+key and Keys only reports prefixed variables
// with the prefix removed.
type Env struct {
	Prefix string
}

func (e Env) Lookup(key string) (string, bool) {
	return os.LookupEnv(e.Prefix + key)
}

func (e Env) Set(key, value string) error {
	if err := os.Setenv(e.Prefix+key, value); err != nil {
		return fmt.Errorf("cannot set environment variable %s: %w", e.Prefix+key, err)
	}
	return nil
}

func (e Env) Keys() []string {
	var keys []string
	for _, kv := range os.Environ() {
		name, _, found := strings.Cut(kv, "=")
		if !found || !strings.HasPrefix(name, e.Prefix) {
			continue
		}
		keys = append(keys, strings.TrimPrefix(name, e.Prefix))
	}
	sort.Strings(keys)
	return keys
}
