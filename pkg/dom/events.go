package dom

import (
	"reflect"
	"slices"
)

// EventPhase is the dispatch phase an event is in.
type EventPhase uint8

const (
	PhaseNone EventPhase = iota
	PhaseCapture
	PhaseTarget
	PhaseBubble
)

// nonBubbling lists event types that skip the bubble phase.
var nonBubbling = map[string]bool{
	"blur":       true,
	"focus":      true,
	"load":       true,
	"error":      true,
	"resize":     true,
	"scroll":     true,
	"mouseenter": true,
	"mouseleave": true,
}

// Event is dispatched through the tree by Node.Dispatch.
type Event struct {
	Type          string
	Bubbles       bool
	Target        *Node
	CurrentTarget *Node
	Phase         EventPhase

	// Detail carries event-specific data set by whoever fires the event.
	Detail map[string]any

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates an event. Bubbling follows the host's rules for the type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: !nonBubbling[typ]}
}

// StopPropagation prevents further propagation after the current node.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// EventListener receives dispatched events. Implementations should be
// comparable (usually pointers) so they can be removed again.
type EventListener interface {
	HandleEvent(e *Event)
}

type listenerEntry struct {
	typ      string
	listener EventListener
	capture  bool
}

func sameListener(a, b EventListener) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

func (n *Node) findListener(typ string, l EventListener, capture bool) int {
	for i, e := range n.listeners {
		if e.typ == typ && e.capture == capture && sameListener(e.listener, l) {
			return i
		}
	}
	return -1
}

// AddEventListener registers l for typ. Registering the same listener for
// the same type and phase twice is a no-op.
func (n *Node) AddEventListener(typ string, l EventListener, capture bool) {
	if n.findListener(typ, l, capture) >= 0 {
		return
	}
	n.listeners = append(n.listeners, listenerEntry{typ: typ, listener: l, capture: capture})
	n.doc.emit(Mutation{Op: OpAddListener, Target: n, Name: typ})
}

// RemoveEventListener unregisters l.
func (n *Node) RemoveEventListener(typ string, l EventListener, capture bool) {
	i := n.findListener(typ, l, capture)
	if i < 0 {
		return
	}
	n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
	n.doc.emit(Mutation{Op: OpRemoveListener, Target: n, Name: typ})
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	count := 0
	for _, e := range n.listeners {
		if e.typ == typ {
			count++
		}
	}
	return count
}

// ListenerTypes returns the event types n has listeners for, in
// registration order and without duplicates.
func (n *Node) ListenerTypes() []string {
	var types []string
	for _, e := range n.listeners {
		if !slices.Contains(types, e.typ) {
			types = append(types, e.typ)
		}
	}
	return types
}

// Dispatch fires e at n: capture listeners from the root down, listeners on
// n itself, then bubble listeners back up when the event bubbles. It
// returns false when a listener called PreventDefault.
func (n *Node) Dispatch(e *Event) bool {
	e.Target = n
	e.stopped = false

	var path []*Node
	for p := n.parent; p != nil; p = p.parent {
		path = append(path, p)
	}

	e.Phase = PhaseCapture
	for i := len(path) - 1; i >= 0 && !e.stopped; i-- {
		path[i].invoke(e, true, false)
	}

	if !e.stopped {
		e.Phase = PhaseTarget
		n.invoke(e, true, true)
	}

	if e.Bubbles {
		e.Phase = PhaseBubble
		for _, p := range path {
			if e.stopped {
				break
			}
			p.invoke(e, false, true)
		}
	}

	e.Phase = PhaseNone
	e.CurrentTarget = nil
	return !e.defaultPrevented
}

func (n *Node) invoke(e *Event, capture, bubble bool) {
	entries := make([]listenerEntry, len(n.listeners))
	copy(entries, n.listeners)

	e.CurrentTarget = n
	for _, entry := range entries {
		if entry.typ != e.Type {
			continue
		}
		if (entry.capture && !capture) || (!entry.capture && !bubble) {
			continue
		}
		entry.listener.HandleEvent(e)
	}
}
