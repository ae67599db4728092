package reconcile

import (
	"reflect"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// createComponent constructs a new instance of class. When an unmounted
// instance of the same class is pooled, the new instance inherits its old
// root as nextBase and the pooled instance is dropped.
func (r *Runtime) createComponent(class *Class, props vdom.Props, ctx Context) *Instance {
	inst := &Instance{
		rt:    r,
		class: class,
		props: props,
		state: State{},
		ctx:   ctx,
		dirty: true,
	}
	inst.comp = class.construct(inst)
	if inst.comp == nil {
		throw(errors.New("E005").WithDetailf("%s constructed a nil component", class.name))
	}

	recycled := false
	if pooled := r.pools.popComponent(class); pooled != nil {
		inst.nextBase = pooled.nextBase
		pooled.nextBase = nil
		recycled = true
		r.stats.ComponentsRecycled++
	}
	r.stats.ComponentsCreated++
	r.metrics.ComponentCreated(class.name, recycled)
	return inst
}

// setComponentProps hands new props and context to inst and, depending on
// mode, renders it now or queues it.
func (r *Runtime) setComponentProps(inst *Instance, props vdom.Props, mode RenderMode, ctx Context, mountAll bool) {
	if inst.disabled() {
		return
	}
	mounting := inst.base == nil || mountAll
	r.receiveProps(inst, props, ctx, mounting)

	if mode != NoRender {
		if mode == SyncRender || r.syncComponentUpdates || inst.base == nil {
			r.renderComponent(inst, SyncRender, mountAll, false)
		} else {
			r.enqueueRender(inst)
		}
	}

	if inst.ref != nil {
		inst.ref(inst.comp)
	}
}

// receiveProps runs the will-mount or will-receive-props hook and stores
// the new props. The instance ignores nested prop updates while it runs.
func (r *Runtime) receiveProps(inst *Instance, props vdom.Props, ctx Context, mounting bool) {
	prev := inst.phase
	if mounting {
		inst.phase = PhaseMounting
	} else {
		inst.phase = PhaseUpdating
	}
	defer func() { inst.phase = prev }()

	inst.ref = refOf(props["ref"])
	delete(props, "ref")
	inst.key = vdom.KeyOf(props["key"])
	delete(props, "key")

	if mounting {
		if m, ok := inst.comp.(WillMounter); ok {
			m.ComponentWillMount()
		}
	} else if m, ok := inst.comp.(WillReceivePropser); ok {
		m.ComponentWillReceiveProps(props, ctx)
	}

	if ctx != nil && !sameContext(ctx, inst.ctx) {
		if !inst.hasPrevCtx {
			inst.prevCtx = inst.ctx
			inst.hasPrevCtx = true
		}
		inst.ctx = ctx
	}
	if !inst.hasPrevProps {
		inst.prevProps = inst.props
		inst.hasPrevProps = true
	}
	inst.props = props
}

// renderComponent renders inst and reconciles its host root.
//
// isChild is set when inst is rendered by another instance that returned
// it directly; the outer instance then owns the root's back-pointer.
func (r *Runtime) renderComponent(inst *Instance, mode RenderMode, mountAll, isChild bool) {
	if inst.disabled() {
		return
	}

	props, state, ctx := inst.props, inst.state, inst.ctx
	prevProps, prevState, prevCtx := props, state, ctx
	if inst.hasPrevProps {
		prevProps = inst.prevProps
	}
	if inst.hasPrevState {
		prevState = inst.prevState
	}
	if inst.hasPrevCtx {
		prevCtx = inst.prevCtx
	}
	isUpdate := inst.base != nil
	nextBase := inst.nextBase
	initialBase := inst.base
	if initialBase == nil {
		initialBase = nextBase
	}
	initialChild := inst.child
	skip := false

	if isUpdate {
		inst.props, inst.state, inst.ctx = prevProps, prevState, prevCtx
		if mode != ForceRender {
			if s, ok := inst.comp.(ShouldUpdater); ok && !s.ShouldComponentUpdate(props, state, ctx) {
				skip = true
			}
		}
		if !skip {
			if w, ok := inst.comp.(WillUpdater); ok {
				w.ComponentWillUpdate(props, state, ctx)
			}
		}
		inst.props, inst.state, inst.ctx = props, state, ctx
	}

	inst.prevProps, inst.prevState, inst.prevCtx = nil, nil, nil
	inst.hasPrevProps, inst.hasPrevState, inst.hasPrevCtx = false, false, false
	inst.nextBase = nil
	inst.dirty = false

	if !skip {
		r.stats.Renders++
		r.metrics.ComponentRendered(inst.class.name, mode)

		rendered := inst.comp.Render(props, state, ctx)
		if p, ok := inst.comp.(ChildContextProvider); ok {
			extended := ctx.clone()
			for k, v := range p.ChildContext() {
				extended[k] = v
			}
			ctx = extended
		}
		rendered = r.expandStateless(rendered, ctx)

		var (
			child     *Instance
			toUnmount *Instance
			base      *dom.Node
		)

		if rendered.IsComponent() {
			class, ok := rendered.Type.(*Class)
			if !ok {
				throw(unknownBehavior(rendered))
			}
			childProps := nodeProps(rendered, class.defaultProps)
			if rendered.Key != "" {
				childProps["key"] = rendered.Key
			}
			child = initialChild

			if child != nil && child.class == class {
				r.setComponentProps(child, childProps, SyncRender, ctx, false)
			} else {
				toUnmount = child
				r.checkChainDepth(inst)

				child = r.createComponent(class, childProps, ctx)
				if child.nextBase == nil {
					child.nextBase = nextBase
				}
				child.parent = inst
				inst.child = child
				r.setComponentProps(child, childProps, NoRender, ctx, false)
				r.renderComponent(child, SyncRender, mountAll, true)
			}
			base = child.base
		} else {
			cbase := initialBase
			toUnmount = initialChild
			if toUnmount != nil {
				cbase = nil
				inst.child = nil
			}

			if initialBase != nil || mode == SyncRender {
				if st := peek(cbase); st != nil {
					st.component = nil
				}
				var parent, anchor *dom.Node
				if initialBase != nil {
					parent = initialBase.Parent()
					anchor = initialBase.NextSibling()
				}
				base = r.diff(cbase, rendered, ctx, mountAll || !isUpdate, parent, true)

				// Keep a replaced root where the old one was.
				if parent != nil && base != nil && base != initialBase && toUnmount == nil &&
					base.Parent() == parent && anchor != nil && anchor.Parent() == parent && base.NextSibling() != anchor {
					parent.InsertBefore(base, anchor)
				}
			}
		}

		if initialBase != nil && base != initialBase && child != initialChild {
			if bp := initialBase.Parent(); bp != nil && base != bp {
				bp.ReplaceChild(base, initialBase)
				if toUnmount == nil {
					if st := peek(initialBase); st != nil {
						st.component = nil
					}
					r.recollectNodeTree(initialBase, false)
				}
			}
		}

		if toUnmount != nil {
			r.unmountComponent(toUnmount, base != initialBase)
		}

		inst.base = base
		if base != nil {
			inst.phase = PhaseMounted
			if !isChild {
				owner := inst
				for p := inst.parent; p != nil; p = p.parent {
					owner = p
					p.base = base
				}
				st := stateOf(base)
				st.component = owner
				st.class = owner.class
			}
		}
	}

	if !isUpdate || mountAll {
		r.mounts = append(r.mounts, inst)
	} else if !skip {
		if u, ok := inst.comp.(DidUpdater); ok {
			u.ComponentDidUpdate(prevProps, prevState, prevCtx)
		}
		if r.hooks.AfterUpdate != nil {
			r.hooks.AfterUpdate(inst)
		}
	}

	for len(inst.renderCallbacks) > 0 {
		cb := inst.renderCallbacks[len(inst.renderCallbacks)-1]
		inst.renderCallbacks = inst.renderCallbacks[:len(inst.renderCallbacks)-1]
		cb()
	}

	if r.diffLevel == 0 && !isChild {
		r.flushMounts()
	}
}

// buildComponentFromVNode reconciles existing against a Class
// description. An instance that already owns existing, directly or
// through the instances it wraps, is updated in place; otherwise a new
// instance is created and may morph existing.
func (r *Runtime) buildComponentFromVNode(existing *dom.Node, desc *vdom.VNode, class *Class, ctx Context, mountAll bool) *dom.Node {
	inst := componentOf(existing)
	oldDom := existing
	isDirectOwner := inst != nil && peek(existing).class == class
	isOwner := isDirectOwner
	props := nodeProps(desc, class.defaultProps)
	if desc.Key != "" {
		props["key"] = desc.Key
	}

	for inst != nil && !isOwner {
		inst = inst.parent
		if inst != nil {
			isOwner = inst.class == class
		}
	}

	if inst != nil && isOwner && (!mountAll || inst.child != nil) {
		r.setComponentProps(inst, props, AsyncRender, ctx, mountAll)
		return inst.base
	}

	if inst != nil && !isDirectOwner {
		r.unmountComponent(inst, true)
		existing, oldDom = nil, nil
	}

	inst = r.createComponent(class, props, ctx)
	if existing != nil && inst.nextBase == nil {
		inst.nextBase = existing
		oldDom = nil
	}
	r.setComponentProps(inst, props, SyncRender, ctx, mountAll)
	out := inst.base

	if oldDom != nil && out != oldDom {
		if st := peek(oldDom); st != nil {
			st.component = nil
		}
		r.recollectNodeTree(oldDom, false)
	}
	return out
}

// checkChainDepth stops a chain of instances that keep rendering new
// instances.
func (r *Runtime) checkChainDepth(inst *Instance) {
	depth := 0
	for p := inst; p != nil; p = p.parent {
		depth++
	}
	if depth >= r.maxDepth {
		throw(errors.New("E004").WithDetailf("%s is nested %d deep", inst.class.name, depth))
	}
}

// sameContext reports whether a and b are the same map, not merely equal
// ones.
func sameContext(a, b Context) bool {
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}
