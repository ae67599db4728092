package reconcile

import (
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// keyOf returns the key a host child was rendered with: its instance's key
// for component roots, otherwise the key of its last description.
func keyOf(n *dom.Node) string {
	st := peek(n)
	switch {
	case st == nil:
		return ""
	case st.component != nil:
		return st.component.key
	}
	return st.key
}

// innerDiffNode reconciles the children of n against vchildren.
//
// Existing children are split into keyed and unkeyed. A keyed description
// claims the child with its key; an unkeyed one claims the first
// unclaimed unkeyed child of the same type. Claimed children are diffed
// and moved into position; whatever is left over is disposed.
func (r *Runtime) innerDiffNode(n *dom.Node, vchildren []*vdom.VNode, ctx Context, mountAll bool) {
	original := n.Children()
	keyed := make(map[string]*dom.Node)
	var keyOrder []string
	var children []*dom.Node

	for _, c := range original {
		key := ""
		if len(vchildren) > 0 {
			key = keyOf(c)
		}
		if _, dup := keyed[key]; key != "" && !dup {
			keyed[key] = c
			keyOrder = append(keyOrder, key)
		} else {
			children = append(children, c)
		}
	}

	lo, hi := 0, len(children)
	for i, vchild := range vchildren {
		var child *dom.Node

		if key := vchildKey(vchild); key != "" {
			if c, ok := keyed[key]; ok {
				child = c
				delete(keyed, key)
			}
		} else if lo < hi {
			for j := lo; j < hi; j++ {
				c := children[j]
				if c == nil || !isSameNodeType(c, vchild) {
					continue
				}
				child = c
				children[j] = nil
				if j == hi-1 {
					hi--
				}
				if j == lo {
					lo++
				}
				break
			}
			if child == nil && lo < hi && vchild.IsComponent() && mountAll {
				child = children[lo]
				children[lo] = nil
				lo++
			}
		}

		child = r.idiff(child, vchild, ctx, mountAll)
		if child != nil && child != n && child != n.ChildAt(i) {
			n.InsertBefore(child, n.ChildAt(i))
		}
	}

	for _, key := range keyOrder {
		if c, ok := keyed[key]; ok {
			r.recollectNodeTree(c, false)
		}
	}
	if lo < hi {
		r.removeOrphanedChildren(children, false)
	}
}

func vchildKey(v *vdom.VNode) string {
	if v == nil {
		return ""
	}
	return v.Key
}
