package vdom

import "fmt"

// H builds a description node. identity is either a tag name or a Behavior.
//
// Children may be *VNode values, scalars (strings, numbers, true) or slices
// of either, nested to any depth. Slices are flattened, nil and false are
// dropped, and runs of adjacent scalars are coalesced into a single text
// node. When no children are passed, props["children"] is used instead; the
// "children" entry never survives into the returned node's Props.
func H(identity any, props Props, children ...any) *VNode {
	node := &VNode{}
	switch id := identity.(type) {
	case string:
		node.Kind = KindElement
		node.Tag = id
	case Behavior:
		node.Kind = KindComponent
		node.Type = id
	default:
		panic(fmt.Sprintf("vdom: H identity must be a tag name or a Behavior, got %T", identity))
	}

	if fallback, ok := props["children"]; ok {
		if len(children) == 0 && fallback != nil {
			children = []any{fallback}
		}
		props = props.Clone()
		delete(props, "children")
	}

	var f flattener
	for _, child := range children {
		f.add(child)
	}
	node.Children = f.finish()

	if props != nil {
		node.Props = props
		node.Key = KeyOf(props["key"])
	}
	return node
}

// flattener accumulates children in order, merging adjacent scalars.
type flattener struct {
	out     []*VNode
	pending []byte
	simple  bool
}

func (f *flattener) add(child any) {
	switch c := child.(type) {
	case nil:
	case bool:
		if c {
			f.text("true")
		}
	case string:
		f.text(c)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f.text(Stringify(c))
	case *VNode:
		if c != nil {
			f.node(c)
		}
	case []*VNode:
		for _, n := range c {
			f.add(n)
		}
	case []any:
		for _, n := range c {
			f.add(n)
		}
	case []string:
		for _, n := range c {
			f.add(n)
		}
	default:
		panic(fmt.Sprintf("vdom: unsupported child type %T", child))
	}
}

func (f *flattener) text(s string) {
	f.pending = append(f.pending, s...)
	f.simple = true
}

func (f *flattener) node(n *VNode) {
	f.flush()
	f.out = append(f.out, n)
}

func (f *flattener) flush() {
	if f.simple {
		f.out = append(f.out, Text(string(f.pending)))
		f.pending = f.pending[:0]
		f.simple = false
	}
}

func (f *flattener) finish() []*VNode {
	f.flush()
	return f.out
}
