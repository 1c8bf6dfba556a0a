// Package placeholder substitutes ${key} references in registered
// configuration properties with values from a property namespace.
package placeholder

import (
	"log/slog"
	"strings"

	"github.com/redhatinsights/propmerge/internal/namespace"
)

// Registry holds configuration properties whose values may contain
// ${key} placeholders. Registration order is preserved.
type Registry struct {
	names  []string
	values map[string]string
	logger *slog.Logger
}

// NewRegistry creates an empty Registry. A nil logger uses slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		values: make(map[string]string),
		logger: logger,
	}
}

// Register records a configuration property. Registering an existing name
// replaces its value and keeps its original position.
func (r *Registry) Register(name, value string) {
	if _, ok := r.values[name]; !ok {
		r.names = append(r.names, name)
	}
	r.values[name] = value
}

// Value returns the current value of a registered property.
func (r *Registry) Value(name string) (string, bool) {
	v, ok := r.values[name]
	return v, ok
}

// Names returns registered property names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// ReplaceProperties rewrites every registered value, resolving placeholders
// against ns. Placeholders naming keys missing from ns are left untouched.
func (r *Registry) ReplaceProperties(ns namespace.Namespace) {
	for _, name := range r.names {
		old := r.values[name]
		replaced := Expand(old, ns.Lookup)
		if replaced == old {
			continue
		}
		r.logger.Debug("replaced placeholders", "property", name, "value", replaced)
		r.values[name] = replaced
	}
}

// Expand returns s with each ${key} replaced by lookup(key). Unknown keys and
// unterminated placeholders are copied verbatim.
func Expand(s string, lookup func(string) (string, bool)) string {
	if !strings.Contains(s, "${") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			b.WriteString(s)
			break
		}
		end += start + 2

		b.WriteString(s[:start])
		key := s[start+2 : end]
		if v, ok := lookup(key); ok && key != "" {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : end+1])
		}
		s = s[end+1:]
	}
	return b.String()
}
