package dom

import (
	"strings"

	"github.com/vango-dev/vtree/internal/errors"
)

// NodeType distinguishes elements, text nodes and the document root.
type NodeType uint8

const (
	ElementNode NodeType = iota + 1
	TextNode
	DocumentNode
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case DocumentNode:
		return "Document"
	default:
		return "Unknown"
	}
}

// Namespaces understood by the host tree.
const (
	NamespaceHTML   = "http://www.w3.org/1999/xhtml"
	NamespaceSVG    = "http://www.w3.org/2000/svg"
	NamespaceMathML = "http://www.w3.org/1998/Math/MathML"
	NamespaceXLink  = "http://www.w3.org/1999/xlink"
	NamespaceXML    = "http://www.w3.org/XML/1998/namespace"
)

// Document owns a tree of nodes and hands out node IDs.
type Document struct {
	root      *Node
	nextID    uint64
	observers []*observer
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.newNode(DocumentNode, "#document", "")
	return d
}

// Root returns the document node. It accepts element children like any
// element and is a valid mount parent.
func (d *Document) Root() *Node {
	return d.root
}

// CreateElement creates a detached HTML element.
func (d *Document) CreateElement(tag string) *Node {
	return d.CreateElementNS(NamespaceHTML, tag)
}

// CreateElementNS creates a detached element in the given namespace.
func (d *Document) CreateElementNS(ns, tag string) *Node {
	if ns == "" {
		ns = NamespaceHTML
	}
	if ns == NamespaceHTML {
		tag = strings.ToLower(tag)
	}
	n := d.newNode(ElementNode, tag, ns)
	n.style = &Style{owner: n}
	d.emit(Mutation{Op: OpCreate, Target: n, Name: tag, Namespace: ns})
	return n
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(data string) *Node {
	n := d.newNode(TextNode, "#text", "")
	n.data = data
	d.emit(Mutation{Op: OpCreate, Target: n, Value: data})
	return n
}

func (d *Document) newNode(typ NodeType, tag, ns string) *Node {
	d.nextID++
	return &Node{doc: d, id: d.nextID, typ: typ, tag: tag, ns: ns}
}

// Node is an element, text node or document root.
type Node struct {
	doc      *Document
	id       uint64
	typ      NodeType
	tag      string
	ns       string
	data     string
	parent   *Node
	children []*Node

	attrs     []Attribute
	style     *Style
	fields    map[string]any
	listeners []listenerEntry

	slot any
}

// ID returns the document-unique identifier stamped at creation.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// Tag returns the tag name as created ("#text" for text nodes). HTML tags
// are lowercase; foreign tags keep their case (e.g. "foreignObject").
func (n *Node) Tag() string { return n.tag }

// Namespace returns the element namespace URI.
func (n *Node) Namespace() string { return n.ns }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.typ == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.typ == TextNode }

// Slot returns the opaque value the reconciler attached to n.
func (n *Node) Slot() any { return n.slot }

// SetSlot attaches an opaque value to n. It is not a mutation of the tree.
func (n *Node) SetSlot(v any) { n.slot = v }

// Data returns the text of a text node.
func (n *Node) Data() string { return n.data }

// SetData replaces the text of a text node.
func (n *Node) SetData(s string) {
	n.data = s
	n.doc.emit(Mutation{Op: OpSetText, Target: n, Value: s})
}

// TextContent returns the concatenated text of n and its descendants.
func (n *Node) TextContent() string {
	if n.typ == TextNode {
		return n.data
	}
	var b strings.Builder
	var walk func(*Node)
	walk = func(c *Node) {
		if c.typ == TextNode {
			b.WriteString(c.data)
			return
		}
		for _, cc := range c.children {
			walk(cc)
		}
	}
	walk(n)
	return b.String()
}

// Parent returns the parent node, or nil when detached.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a snapshot of the child list.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the child at index i, or nil when out of range.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// FirstChild returns the first child or nil.
func (n *Node) FirstChild() *Node { return n.ChildAt(0) }

// LastChild returns the last child or nil.
func (n *Node) LastChild() *Node { return n.ChildAt(len(n.children) - 1) }

// Index returns n's position among its siblings, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// NextSibling returns the following sibling or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildAt(n.Index() + 1)
}

// PreviousSibling returns the preceding sibling or nil.
func (n *Node) PreviousSibling() *Node {
	if n.parent == nil {
		return nil
	}
	return n.parent.ChildAt(n.Index() - 1)
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// AppendChild moves child to the end of n's children.
func (n *Node) AppendChild(child *Node) *Node {
	return n.InsertBefore(child, nil)
}

// InsertBefore moves child immediately before ref, or to the end when ref
// is nil. A child attached elsewhere is detached first. It panics with an
// E042 error on hierarchy violations.
func (n *Node) InsertBefore(child, ref *Node) *Node {
	n.checkInsert(child, ref)
	if ref == child {
		ref = child.NextSibling()
	}
	child.detach()

	i := len(n.children)
	if ref != nil {
		i = ref.Index()
	}
	n.children = append(n.children, nil)
	copy(n.children[i+1:], n.children[i:])
	n.children[i] = child
	child.parent = n

	n.doc.emit(Mutation{Op: OpInsert, Target: child, Parent: n, Before: ref})
	return child
}

// ReplaceChild puts newChild in old's position and detaches old.
func (n *Node) ReplaceChild(newChild, old *Node) *Node {
	if old == nil || old.parent != n {
		panic(errors.New("E042").WithDetail("replaced node is not a child of this node"))
	}
	if newChild == old {
		return old
	}
	n.InsertBefore(newChild, old)
	n.RemoveChild(old)
	return old
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) *Node {
	if child == nil || child.parent != n {
		panic(errors.New("E042").WithDetail("removed node is not a child of this node"))
	}
	child.detach()
	n.doc.emit(Mutation{Op: OpRemove, Target: child, Parent: n})
	return child
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	i := n.Index()
	copy(p.children[i:], p.children[i+1:])
	p.children[len(p.children)-1] = nil
	p.children = p.children[:len(p.children)-1]
	n.parent = nil
}

func (n *Node) checkInsert(child, ref *Node) {
	switch {
	case child == nil:
		panic(errors.New("E042").WithDetail("cannot insert a nil node"))
	case n.typ == TextNode:
		panic(errors.New("E042").WithDetail("text nodes cannot have children"))
	case child.typ == DocumentNode:
		panic(errors.New("E042").WithDetail("the document node cannot be inserted"))
	case child.doc != n.doc:
		panic(errors.New("E042").WithDetail("node belongs to another document"))
	case child.Contains(n):
		panic(errors.New("E042").WithDetail("a node cannot be inserted into its own subtree"))
	case ref != nil && ref.parent != n:
		panic(errors.New("E042").WithDetail("reference node is not a child of this node"))
	}
}
