package reconcile

import (
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// nodeState is what the runtime remembers about a host node. It lives in
// the node's slot.
type nodeState struct {
	// attrs is the snapshot of the props last applied to the node; nil
	// until the node is first diffed.
	attrs vdom.Props

	// component is the outermost instance whose root this node is, and
	// class its class.
	component *Instance
	class     *Class

	// tag is the lowercased tag name the node was created for.
	tag string

	// key is the key of the description last applied.
	key string

	// listeners maps event names to the handlers the proxy calls.
	listeners map[string]any

	pooled bool
}

// peek returns the node's state without creating it.
func peek(n *dom.Node) *nodeState {
	if n == nil {
		return nil
	}
	st, _ := n.Slot().(*nodeState)
	return st
}

// stateOf returns the node's state, creating it on first use.
func stateOf(n *dom.Node) *nodeState {
	if st := peek(n); st != nil {
		return st
	}
	st := &nodeState{}
	if n.IsElement() {
		st.tag = strings.ToLower(n.Tag())
	}
	n.SetSlot(st)
	return st
}

// componentOf returns the instance whose root n is.
func componentOf(n *dom.Node) *Instance {
	if st := peek(n); st != nil {
		return st.component
	}
	return nil
}

// releaseRef calls the ref recorded for n, if any, with nil.
func releaseRef(n *dom.Node) {
	st := peek(n)
	if st == nil || st.attrs == nil {
		return
	}
	if ref := refOf(st.attrs["ref"]); ref != nil {
		ref(nil)
	}
}

func refOf(v any) vdom.RefFunc {
	switch fn := v.(type) {
	case vdom.RefFunc:
		return fn
	case func(any):
		return fn
	}
	return nil
}
