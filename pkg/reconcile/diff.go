package reconcile

import (
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// diff reconciles existing against desc. It is the only place the diff
// level is tracked: the outermost call decides SVG mode from parent and,
// unless it is rendering a component's root, runs mount callbacks when it
// finishes.
func (r *Runtime) diff(existing *dom.Node, desc *vdom.VNode, ctx Context, mountAll bool, parent *dom.Node, componentRoot bool) *dom.Node {
	if r.diffLevel == 0 {
		r.svgMode = parent != nil && parent.Namespace() == dom.NamespaceSVG
		r.bindDocument(existing, parent)
	}
	r.diffLevel++

	out := r.idiff(existing, desc, ctx, mountAll)
	if out != nil && parent != nil && out.Parent() != parent {
		parent.AppendChild(out)
	}

	r.diffLevel--
	if r.diffLevel == 0 && !componentRoot {
		r.flushMounts()
	}
	return out
}

// idiff reconciles one node and returns the node that now represents
// desc, which may be a new node.
func (r *Runtime) idiff(existing *dom.Node, desc *vdom.VNode, ctx Context, mountAll bool) *dom.Node {
	ref := desc.Ref()
	desc = r.expandStateless(desc, ctx)

	if desc.IsText() {
		text := ""
		if desc != nil {
			text = desc.Text
		}
		if existing != nil {
			if existing.IsText() && existing.Parent() != nil {
				if existing.Data() != text {
					existing.SetData(text)
				}
				return existing
			}
			r.recollectNodeTree(existing, false)
		}
		r.stats.NodesCreated++
		r.metrics.NodeCreated("#text", false)
		return r.doc.CreateTextNode(text)
	}

	switch desc.Kind {
	case vdom.KindComponent:
		class, ok := desc.Type.(*Class)
		if !ok {
			throw(unknownBehavior(desc))
		}
		return r.buildComponentFromVNode(existing, desc, class, ctx, mountAll)
	case vdom.KindElement:
	default:
		throw(errors.New("E001").WithDetailf("kind %d", desc.Kind))
	}

	prevSvg := r.svgMode
	defer func() { r.svgMode = prevSvg }()
	if desc.Tag == "svg" {
		r.svgMode = true
	}

	out := existing
	if existing == nil {
		out = r.createNode(desc.Tag)
	} else if !isNamedNode(existing, desc.Tag) {
		out = r.createNode(desc.Tag)
		for existing.FirstChild() != nil {
			out.AppendChild(existing.FirstChild())
		}
		r.recollectNodeTree(existing, false)
	}

	// foreignObject is an SVG element whose children are HTML.
	if desc.Tag == "foreignObject" {
		r.svgMode = false
	}

	st := stateOf(out)
	st.key = desc.Key
	vchildren := desc.Children
	if _, raw := innerHTML(desc.Props["dangerouslySetInnerHTML"]); raw {
		// Raw markup owns the children. Dispose whatever was there before
		// it took over.
		if st.attrs == nil || st.attrs["dangerouslySetInnerHTML"] == nil {
			r.removeOrphanedChildren(out.Children(), false)
		}
	} else if len(vchildren) == 1 && vchildren[0] != nil && vchildren[0].Kind == vdom.KindText &&
		out.ChildCount() == 1 && out.FirstChild().IsText() {
		if t := out.FirstChild(); t.Data() != vchildren[0].Text {
			t.SetData(vchildren[0].Text)
		}
	} else if len(vchildren) > 0 || out.FirstChild() != nil {
		r.innerDiffNode(out, vchildren, ctx, mountAll)
	}

	if st.attrs == nil {
		st.attrs = vdom.Props{}
		for _, a := range out.Attributes() {
			st.attrs[a.QualifiedName()] = a.Value
		}
	}
	r.diffAttributes(out, desc.Props, st.attrs)

	if ref != nil {
		st.attrs["ref"] = ref
		ref(out)
	}
	return out
}

// expandStateless calls Func components until desc is something else.
func (r *Runtime) expandStateless(desc *vdom.VNode, ctx Context) *vdom.VNode {
	r.seeVNode(desc)
	for depth := 0; desc.IsComponent(); depth++ {
		if desc.Type == nil {
			throw(errors.New("E002"))
		}
		f, ok := desc.Type.(*Func)
		if !ok {
			return desc
		}
		if depth >= r.maxDepth {
			throw(errors.New("E003").WithDetailf("%s expanded %d times", f.name, depth))
		}
		desc = f.render(nodeProps(desc, f.defaultProps), ctx)
		r.seeVNode(desc)
	}
	return desc
}

func unknownBehavior(desc *vdom.VNode) *errors.TreeError {
	if desc.Type == nil {
		return errors.New("E002")
	}
	return errors.New("E007").WithDetailf("%T", desc.Type)
}

// nodeProps builds the props a component sees: a copy of the description's
// props plus children and defaults.
func nodeProps(desc *vdom.VNode, defaults vdom.Props) vdom.Props {
	props := desc.Props.Clone()
	props["children"] = desc.Children
	for k, v := range defaults {
		if _, ok := props[k]; !ok {
			props[k] = v
		}
	}
	return props
}

// createNode returns a pooled element named tag, or a new one.
func (r *Runtime) createNode(tag string) *dom.Node {
	name := strings.ToLower(tag)
	n := r.pools.popNode(poolKey(name, r.svgMode), r.doc)
	if n != nil {
		r.stats.NodesRecycled++
		r.metrics.NodeCreated(name, true)
	} else {
		if r.svgMode {
			n = r.doc.CreateElementNS(dom.NamespaceSVG, tag)
		} else {
			n = r.doc.CreateElement(tag)
		}
		r.stats.NodesCreated++
		r.metrics.NodeCreated(name, false)
	}
	stateOf(n).tag = name
	return n
}

// isNamedNode reports whether n is an element created for tag.
func isNamedNode(n *dom.Node, tag string) bool {
	if !n.IsElement() {
		return false
	}
	if st := peek(n); st != nil && st.tag == strings.ToLower(tag) {
		return true
	}
	return strings.EqualFold(n.Tag(), tag)
}

// isSameNodeType reports whether n can be reused for desc. Stateless
// components match anything since their output type is unknown.
func isSameNodeType(n *dom.Node, desc *vdom.VNode) bool {
	if desc.IsText() {
		return n.IsText()
	}
	switch desc.Kind {
	case vdom.KindElement:
		return isNamedNode(n, desc.Tag)
	case vdom.KindComponent:
		if _, ok := desc.Type.(*Func); ok {
			return true
		}
		st := peek(n)
		return st != nil && st.class != nil && vdom.Behavior(st.class) == desc.Type
	}
	return false
}
