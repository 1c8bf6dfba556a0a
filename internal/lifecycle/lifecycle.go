// Package lifecycle delivers startup notifications to registered listeners.
package lifecycle

import "sync"

// EventType identifies a point in the host's startup sequence.
type EventType string

const (
	BeforeInit  EventType = "before_init"
	AfterInit   EventType = "after_init"
	BeforeStart EventType = "before_start"
	AfterStart  EventType = "after_start"
)

// Event is delivered to every listener when the lifecycle reaches a checkpoint.
type Event struct {
	Type EventType
	Data any
}

// Listener receives lifecycle events.
type Listener interface {
	LifecycleEvent(Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) LifecycleEvent(e Event) { f(e) }

// Lifecycle keeps an ordered list of listeners.
type Lifecycle struct {
	mu        sync.Mutex
	listeners []Listener
}

// New creates an empty Lifecycle.
func New() *Lifecycle {
	return &Lifecycle{listeners: make([]Listener, 0)}
}

// AddListener registers l. Listeners are notified in registration order.
func (lc *Lifecycle) AddListener(l Listener) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.listeners = append(lc.listeners, l)
}

// Fire notifies every listener synchronously on the calling goroutine.
func (lc *Lifecycle) Fire(t EventType, data any) {
	lc.mu.Lock()
	listeners := make([]Listener, len(lc.listeners))
	copy(listeners, lc.listeners)
	lc.mu.Unlock()

	e := Event{Type: t, Data: data}
	for _, l := range listeners {
		l.LifecycleEvent(e)
	}
}
