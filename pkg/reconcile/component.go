package reconcile

import (
	"github.com/vango-dev/vtree/pkg/vdom"
)

// State is an instance's local state. SetState merges into it shallowly.
type State map[string]any

// Context is the implicit data passed from an instance to its whole
// subtree. Providers extend it with ChildContextProvider.
type Context map[string]any

func (c Context) clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

func (s State) clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Component is the value a Class constructs for each mounted instance.
type Component interface {
	Render(props vdom.Props, state State, ctx Context) *vdom.VNode
}

// Optional lifecycle methods. The runtime calls the ones a Component
// implements.
type (
	WillMounter interface{ ComponentWillMount() }
	DidMounter  interface{ ComponentDidMount() }

	WillReceivePropser interface {
		ComponentWillReceiveProps(next vdom.Props, ctx Context)
	}

	// ShouldUpdater can veto a render by returning false. It is not
	// consulted for ForceUpdate.
	ShouldUpdater interface {
		ShouldComponentUpdate(next vdom.Props, nextState State, ctx Context) bool
	}

	WillUpdater interface {
		ComponentWillUpdate(next vdom.Props, nextState State, ctx Context)
	}

	DidUpdater interface {
		ComponentDidUpdate(prev vdom.Props, prevState State, prevCtx Context)
	}

	WillUnmounter interface{ ComponentWillUnmount() }
	DidUnmounter  interface{ ComponentDidUnmount() }

	// ChildContextProvider adds entries to the context seen by the
	// instance's subtree.
	ChildContextProvider interface {
		ChildContext() Context
	}
)

type behavior struct {
	name         string
	defaultProps vdom.Props
}

// BehaviorName implements vdom.Behavior.
func (b *behavior) BehaviorName() string { return b.name }

// BehaviorOption configures a Func or Class.
type BehaviorOption func(*behavior)

// DefaultProps fills in props that a description leaves unset.
func DefaultProps(p vdom.Props) BehaviorOption {
	return func(b *behavior) {
		b.defaultProps = p
	}
}

// Func is a stateless component. It is expanded in place during a diff and
// never gets an Instance.
type Func struct {
	behavior
	render func(props vdom.Props, ctx Context) *vdom.VNode
}

// NewFunc creates a stateless component.
func NewFunc(name string, render func(props vdom.Props, ctx Context) *vdom.VNode, opts ...BehaviorOption) *Func {
	f := &Func{behavior: behavior{name: name}, render: render}
	for _, opt := range opts {
		opt(&f.behavior)
	}
	return f
}

// Class is a stateful component. construct is called once per instance,
// with props and context already set, and may seed state with InitState.
type Class struct {
	behavior
	construct func(inst *Instance) Component
}

// NewClass creates a stateful component.
func NewClass(name string, construct func(inst *Instance) Component, opts ...BehaviorOption) *Class {
	c := &Class{behavior: behavior{name: name}, construct: construct}
	for _, opt := range opts {
		opt(&c.behavior)
	}
	return c
}

// Stateless wraps a render function as a Class whose instances have no
// lifecycle methods.
func Stateless(name string, render func(props vdom.Props, state State, ctx Context) *vdom.VNode, opts ...BehaviorOption) *Class {
	return NewClass(name, func(*Instance) Component { return renderFunc(render) }, opts...)
}

type renderFunc func(props vdom.Props, state State, ctx Context) *vdom.VNode

func (f renderFunc) Render(props vdom.Props, state State, ctx Context) *vdom.VNode {
	return f(props, state, ctx)
}
