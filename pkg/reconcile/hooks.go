package reconcile

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Hooks are runtime-wide extension points. Nil fields are skipped.
type Hooks struct {
	// VNode sees every element and component description the runtime
	// reconciles, including those returned by components, once per
	// Render, Flush or Batch call. Text descriptions are skipped.
	VNode func(v *vdom.VNode)

	// AfterMount runs before an instance's ComponentDidMount.
	AfterMount func(inst *Instance)

	// AfterUpdate runs after an instance's ComponentDidUpdate.
	AfterUpdate func(inst *Instance)

	// BeforeUnmount runs before an instance's ComponentWillUnmount.
	BeforeUnmount func(inst *Instance)

	// Event may replace an event before handlers see it. Returning nil
	// keeps the original.
	Event func(e *dom.Event) *dom.Event

	// DebounceRendering replaces the scheduler for queued renders.
	DebounceRendering func(flush func())

	// Error receives errors from renders nobody is waiting on, such as a
	// scheduled flush. Without it they are logged.
	Error func(err error)
}

// SetHooks replaces the runtime's hooks.
func (r *Runtime) SetHooks(h Hooks) {
	r.hooks = h
}

// seeVNode passes desc to the VNode hook unless this runtime call has
// already shown it.
func (r *Runtime) seeVNode(desc *vdom.VNode) {
	if r.hooks.VNode == nil || desc.IsText() {
		return
	}
	if _, ok := r.seen[desc]; ok {
		return
	}
	if r.seen == nil {
		r.seen = make(map[*vdom.VNode]struct{})
	}
	r.seen[desc] = struct{}{}
	r.hooks.VNode(desc)
}
