package reconcile

import (
	"regexp"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Phase is where an instance is in its lifecycle.
type Phase uint8

const (
	PhaseNew Phase = iota
	PhaseMounting
	PhaseMounted
	PhaseUpdating
	PhaseUnmounting
	PhaseUnmounted
)

// String returns the string representation of the Phase.
func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "New"
	case PhaseMounting:
		return "Mounting"
	case PhaseMounted:
		return "Mounted"
	case PhaseUpdating:
		return "Updating"
	case PhaseUnmounting:
		return "Unmounting"
	case PhaseUnmounted:
		return "Unmounted"
	default:
		return "Unknown"
	}
}

// Instance is one mounted occurrence of a Class.
type Instance struct {
	rt    *Runtime
	class *Class
	comp  Component

	props vdom.Props
	state State
	ctx   Context

	prevProps    vdom.Props
	prevState    State
	prevCtx      Context
	hasPrevProps bool
	hasPrevState bool
	hasPrevCtx   bool

	base     *dom.Node
	nextBase *dom.Node

	dirty bool
	phase Phase

	// child is the nested instance when this one renders another Class
	// directly; parent is the reverse link.
	child  *Instance
	parent *Instance

	renderCallbacks []func()

	key    string
	ref    vdom.RefFunc
	linked map[string]func(*dom.Event)
	pooled bool
}

// disabled reports whether the instance must ignore prop updates and
// render requests right now.
func (i *Instance) disabled() bool {
	switch i.phase {
	case PhaseMounting, PhaseUpdating, PhaseUnmounting, PhaseUnmounted:
		return true
	}
	return false
}

// Class returns the instance's class.
func (i *Instance) Class() *Class { return i.class }

// Component returns the value the class constructed.
func (i *Instance) Component() Component { return i.comp }

// Props returns the current props.
func (i *Instance) Props() vdom.Props { return i.props }

// State returns the current state. Mutate it through SetState.
func (i *Instance) State() State { return i.state }

// Context returns the current context.
func (i *Instance) Context() Context { return i.ctx }

// Base returns the host root the instance rendered, or nil when it is not
// mounted.
func (i *Instance) Base() *dom.Node { return i.base }

// Phase returns the lifecycle phase.
func (i *Instance) Phase() Phase { return i.phase }

// Key returns the key the instance was described with.
func (i *Instance) Key() string { return i.key }

// Dirty reports whether a render is pending.
func (i *Instance) Dirty() bool { return i.dirty }

// InitState replaces the state. Call it from a Class constructor.
func (i *Instance) InitState(s State) {
	i.state = s.clone()
}

// SetState merges partial into the state and queues a render. It never
// renders itself: renders requested by several SetState calls before the
// queue flushes are coalesced into one, which sees the merged state.
// Callbacks run after that render, most recent first.
//
// With the default scheduler the queue flushes when the next runtime call
// returns (Render, Flush, Batch or a dispatched event); other schedulers
// decide for themselves.
func (i *Instance) SetState(partial State, callbacks ...func()) {
	i.UpdateState(func(State, vdom.Props) State { return partial }, callbacks...)
}

// UpdateState is SetState with the partial state computed from the current
// state and props.
func (i *Instance) UpdateState(fn func(state State, props vdom.Props) State, callbacks ...func()) {
	if !i.hasPrevState {
		i.prevState = i.state.clone()
		i.hasPrevState = true
	}
	for k, v := range fn(i.state, i.props) {
		i.state[k] = v
	}
	i.renderCallbacks = append(i.renderCallbacks, callbacks...)
	i.rt.enqueueRender(i)
}

// ForceUpdate renders the instance synchronously, skipping
// ShouldComponentUpdate.
func (i *Instance) ForceUpdate(callbacks ...func()) error {
	r := i.rt
	return r.run("forceUpdate", false, func() {
		i.renderCallbacks = append(i.renderCallbacks, callbacks...)
		r.renderComponent(i, ForceRender, false, false)
	})
}

var checkableType = regexp.MustCompile(`^che|rad`)

// LinkState returns an event handler that writes a value from the event
// into state under key. Dotted keys such as "form.name" write into nested
// maps. The value is taken from eventPath, a dotted path into the event's
// Detail, when given; otherwise from the target's checked field for
// checkboxes and radios, or its value field. Handlers are cached per key
// and path.
func (i *Instance) LinkState(key, eventPath string) func(*dom.Event) {
	cacheKey := key + "\x00" + eventPath
	if h, ok := i.linked[cacheKey]; ok {
		return h
	}
	h := func(e *dom.Event) {
		i.SetState(i.linkedState(key, linkedValue(e, eventPath)))
	}
	if i.linked == nil {
		i.linked = make(map[string]func(*dom.Event))
	}
	i.linked[cacheKey] = h
	return h
}

func linkedValue(e *dom.Event, eventPath string) any {
	if eventPath != "" {
		return delve(e.Detail, eventPath)
	}
	t := e.Target
	if t == nil || !t.IsElement() {
		return nil
	}
	if typ, _ := t.GetAttribute("type"); checkableType.MatchString(typ) {
		return t.Field("checked")
	}
	return t.Field("value")
}

func delve(m map[string]any, path string) any {
	var cur any = m
	for _, seg := range strings.Split(path, ".") {
		next, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = next[seg]
	}
	return cur
}

func (i *Instance) linkedState(key string, value any) State {
	path := strings.Split(key, ".")
	out := State{}
	obj := map[string]any(out)
	for n, seg := range path[:len(path)-1] {
		next, ok := obj[seg].(map[string]any)
		if !ok {
			next = map[string]any{}
			if existing, ok := i.state[seg].(map[string]any); ok && n == 0 {
				for k, v := range existing {
					next[k] = v
				}
			}
			obj[seg] = next
		}
		obj = next
	}
	obj[path[len(path)-1]] = value
	return out
}
