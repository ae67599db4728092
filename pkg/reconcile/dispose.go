package reconcile

import (
	"github.com/vango-dev/vtree/pkg/dom"
)

// collectNode detaches n and, for elements, pools it for reuse. The
// pooled node keeps its attributes and snapshot but not its listeners, ref,
// raw markup or component ownership.
func (r *Runtime) collectNode(n *dom.Node) {
	n.Remove()
	if !n.IsElement() {
		return
	}
	st := stateOf(n)
	st.component, st.class = nil, nil
	r.detachListeners(n, st)
	if st.attrs != nil {
		delete(st.attrs, "ref")
		delete(st.attrs, "dangerouslySetInnerHTML")
	}
	r.pools.pushNode(poolKey(st.tag, n.Namespace() == dom.NamespaceSVG), n, st)
}

// recollectNodeTree disposes n and its subtree. With unmountOnly the nodes
// are left where they are and only refs and instances are released.
func (r *Runtime) recollectNodeTree(n *dom.Node, unmountOnly bool) {
	if inst := componentOf(n); inst != nil {
		r.unmountComponent(inst, !unmountOnly)
		return
	}
	releaseRef(n)
	if !unmountOnly {
		r.collectNode(n)
	}
	if n.ChildCount() > 0 {
		r.removeOrphanedChildren(n.Children(), unmountOnly)
	}
}

// removeOrphanedChildren disposes nodes last to first, skipping nil
// entries.
func (r *Runtime) removeOrphanedChildren(nodes []*dom.Node, unmountOnly bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if nodes[i] != nil {
			r.recollectNodeTree(nodes[i], unmountOnly)
		}
	}
}

// unmountComponent tears down inst and the instances it wraps. With remove
// the host root is detached and inst is pooled so a later instance of the
// same class can reuse the root. An instance is unmounted at most once.
func (r *Runtime) unmountComponent(inst *Instance, remove bool) {
	if inst.phase == PhaseUnmounting || inst.phase == PhaseUnmounted {
		return
	}
	if r.hooks.BeforeUnmount != nil {
		r.hooks.BeforeUnmount(inst)
	}
	base := inst.base
	inst.phase = PhaseUnmounting

	if u, ok := inst.comp.(WillUnmounter); ok {
		u.ComponentWillUnmount()
	}
	inst.base = nil

	if inner := inst.child; inner != nil {
		r.unmountComponent(inner, remove)
	} else if base != nil {
		releaseRef(base)
		inst.nextBase = base
		if remove {
			base.Remove()
			r.pools.pushComponent(inst)
		}
		r.removeOrphanedChildren(base.Children(), !remove)
	}

	if inst.ref != nil {
		inst.ref(nil)
	}
	if u, ok := inst.comp.(DidUnmounter); ok {
		u.ComponentDidUnmount()
	}
	inst.phase = PhaseUnmounted
	r.metrics.ComponentUnmounted(inst.class.name)
}
