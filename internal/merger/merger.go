package merger

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/redhatinsights/propmerge/internal/lifecycle"
	"github.com/redhatinsights/propmerge/internal/namespace"
)

// SlotCount is the capacity of the slot table; valid indexes are 0..SlotCount-1.
const SlotCount = 100

// ReplaceSystemPropertiesKey names the namespace property that, when "true",
// makes every effective merge notify the Substituter.
const ReplaceSystemPropertiesKey = "propmerge.replace-system-properties"

// Substituter resolves ${key} placeholders in already registered
// configuration properties once the namespace has been updated.
type Substituter interface {
	ReplaceProperties(ns namespace.Namespace)
}

// Slot is one populated position of the slot table.
type Slot struct {
	Index int
	Path  string
}

// PropertyMerger loads property files from an indexed slot table and merges
// them into a Namespace at most once, unless a reload is forced.
type PropertyMerger struct {
	slots     [SlotCount]string
	overwrite bool
	loadFirst bool
	loaded    bool

	ns            namespace.Namespace
	substituter   Substituter
	replaceToggle func() bool
	logger        *slog.Logger
}

// Option configures a PropertyMerger.
type Option func(*PropertyMerger)

// WithLogger sets the logger used to report merge outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(m *PropertyMerger) {
		m.logger = logger
	}
}

// WithOverwrite sets the initial overwrite policy.
func WithOverwrite(overwrite bool) Option {
	return func(m *PropertyMerger) {
		m.overwrite = overwrite
	}
}

// WithLoadFirst sets the initial load-first flag.
func WithLoadFirst(loadFirst bool) Option {
	return func(m *PropertyMerger) {
		m.loadFirst = loadFirst
	}
}

// WithSubstituter sets the collaborator notified after a merge when the
// replace toggle is on.
func WithSubstituter(s Substituter) Option {
	return func(m *PropertyMerger) {
		m.substituter = s
	}
}

// WithReplaceToggle replaces the default toggle, which reads
// ReplaceSystemPropertiesKey from the namespace. The toggle is evaluated on
// every effective merge.
func WithReplaceToggle(toggle func() bool) Option {
	return func(m *PropertyMerger) {
		m.replaceToggle = toggle
	}
}

// New creates a PropertyMerger writing into ns. Overwrite is enabled by default.
func New(ns namespace.Namespace, opts ...Option) *PropertyMerger {
	m := &PropertyMerger{
		overwrite: true,
		ns:        ns,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.replaceToggle == nil {
		m.replaceToggle = m.namespaceToggle
	}
	return m
}

// Configure stores path in slot index, replacing any previous path. An index
// outside the slot table is logged and ignored. A slot set after an
// effective merge is stored but is only read by a forced reload.
func (m *PropertyMerger) Configure(index int, path string) {
	if index < 0 || index >= SlotCount {
		m.logger.Warn("file index out of range, not set",
			"index", index, "key", fileKey(index), "max", SlotCount-1)
		return
	}
	if m.loaded {
		m.logger.Warn("property files already loaded, slot applies only to a forced reload",
			"index", index, "path", path)
	}
	m.slots[index] = path
}

// Slot returns the path stored at index, or "" for an unset or invalid slot.
func (m *PropertyMerger) Slot(index int) string {
	if index < 0 || index >= SlotCount {
		return ""
	}
	return m.slots[index]
}

// Slots returns the populated slots in ascending index order.
func (m *PropertyMerger) Slots() []Slot {
	var out []Slot
	for i, p := range m.slots {
		if p != "" {
			out = append(out, Slot{Index: i, Path: p})
		}
	}
	return out
}

// SetOverwrite sets whether a loaded value replaces an existing non-empty
// namespace entry.
func (m *PropertyMerger) SetOverwrite(overwrite bool) { m.overwrite = overwrite }

// Overwrite reports the current overwrite policy.
func (m *PropertyMerger) Overwrite() bool { return m.overwrite }

// SetLoadFirst records whether the host wants the merge triggered during
// configuration parsing. It does not trigger anything by itself.
func (m *PropertyMerger) SetLoadFirst(loadFirst bool) { m.loadFirst = loadFirst }

// LoadFirst reports the value recorded by SetLoadFirst.
func (m *PropertyMerger) LoadFirst() bool { return m.loadFirst }

// Loaded reports whether an effective merge has completed.
func (m *PropertyMerger) Loaded() bool { return m.loaded }

// SetLoaded overrides the loaded state.
func (m *PropertyMerger) SetLoaded(loaded bool) { m.loaded = loaded }

// LifecycleEvent merges on the before-init checkpoint.
func (m *PropertyMerger) LifecycleEvent(e lifecycle.Event) {
	if e.Type == lifecycle.BeforeInit {
		m.Merge(false)
	}
}

// Merge loads every populated slot in ascending index order and applies the
// properties to the namespace. After the first effective merge further calls
// are no-ops; force resets the loaded state and merges again.
//
// Failures on one file are logged and never stop the remaining slots.
func (m *PropertyMerger) Merge(force bool) {
	if force && m.loaded {
		m.logger.Warn("forcing external property files to be loaded again")
		m.loaded = false
	}
	if m.loaded {
		m.logger.Warn("external property files have already been loaded")
		return
	}

	logger := m.logger.With("run", uuid.NewString())
	for _, path := range m.slots {
		if path == "" {
			continue
		}
		props, ok := readPropertyFile(logger, path)
		if !ok {
			continue
		}
		logger.Debug("loading properties", "path", path)
		for _, key := range props.Keys() {
			value, ok := props.Get(key)
			if !ok {
				continue
			}
			m.apply(logger, key, value)
		}
	}

	if m.replaceToggle() {
		if m.substituter != nil {
			m.substituter.ReplaceProperties(m.ns)
		} else {
			logger.Warn("placeholder replacement requested but no substituter is configured")
		}
	}

	m.loaded = true
}

func (m *PropertyMerger) apply(logger *slog.Logger, key, value string) {
	if existing, ok := m.ns.Lookup(key); ok && existing != "" {
		if !m.overwrite {
			logger.Warn("overwrite is disabled and property already exists, not setting",
				"key", key, "existing", existing, "value", value)
			return
		}
		logger.Debug("overwriting property", "key", key, "value", value)
	}
	if err := m.ns.Set(key, value); err != nil {
		logger.Error("failed to set property", "key", key, "error", err)
	}
}

func (m *PropertyMerger) namespaceToggle() bool {
	v, _ := m.ns.Lookup(ReplaceSystemPropertiesKey)
	return strings.EqualFold(v, "true")
}
