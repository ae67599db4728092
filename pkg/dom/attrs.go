package dom

import "strings"

// Attribute is one element attribute. Name is the local name; Namespace is
// empty for ordinary attributes.
type Attribute struct {
	Namespace string
	Name      string
	Value     string
}

// QualifiedName returns the attribute name with a conventional prefix for
// the xlink and xml namespaces.
func (a Attribute) QualifiedName() string {
	switch a.Namespace {
	case NamespaceXLink:
		return "xlink:" + a.Name
	case NamespaceXML:
		return "xml:" + a.Name
	}
	return a.Name
}

// Attributes returns a snapshot of the element's attributes in insertion
// order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// GetAttribute returns the value of a non-namespaced attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	return n.GetAttributeNS("", name)
}

// HasAttribute reports whether a non-namespaced attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets a non-namespaced attribute. Setting "style" replaces
// the style declaration.
func (n *Node) SetAttribute(name, value string) {
	n.SetAttributeNS("", name, value)
}

// RemoveAttribute removes a non-namespaced attribute.
func (n *Node) RemoveAttribute(name string) {
	n.RemoveAttributeNS("", name)
}

// GetAttributeNS returns the value of a namespaced attribute.
func (n *Node) GetAttributeNS(ns, name string) (string, bool) {
	if i := n.attrIndex(ns, name); i >= 0 {
		return n.attrs[i].Value, true
	}
	return "", false
}

// SetAttributeNS sets a namespaced attribute.
func (n *Node) SetAttributeNS(ns, name, value string) {
	if n.typ != ElementNode {
		return
	}
	name = n.normalizeAttr(ns, name)
	if ns == "" && name == "style" {
		n.style.parse(value)
		n.putAttr("", "style", n.style.CSSText())
		n.doc.emit(Mutation{Op: OpSetAttr, Target: n, Name: name, Value: value})
		return
	}
	n.putAttr(ns, name, value)
	n.doc.emit(Mutation{Op: OpSetAttr, Target: n, Name: name, Namespace: ns, Value: value})
}

// RemoveAttributeNS removes a namespaced attribute. Removing an absent
// attribute is not a mutation.
func (n *Node) RemoveAttributeNS(ns, name string) {
	if n.typ != ElementNode {
		return
	}
	name = n.normalizeAttr(ns, name)
	if !n.dropAttr(ns, name) {
		return
	}
	if ns == "" && name == "style" {
		n.style.props = nil
	}
	n.doc.emit(Mutation{Op: OpRemoveAttr, Target: n, Name: name, Namespace: ns})
}

func (n *Node) normalizeAttr(ns, name string) string {
	if ns == "" && n.ns == NamespaceHTML {
		return strings.ToLower(name)
	}
	return name
}

func (n *Node) attrIndex(ns, name string) int {
	name = n.normalizeAttr(ns, name)
	for i, a := range n.attrs {
		if a.Namespace == ns && a.Name == name {
			return i
		}
	}
	return -1
}

// putAttr and dropAttr change attributes without emitting mutations; field
// and style reflection goes through them.
func (n *Node) putAttr(ns, name, value string) {
	if i := n.attrIndex(ns, name); i >= 0 {
		n.attrs[i].Value = value
		return
	}
	n.attrs = append(n.attrs, Attribute{Namespace: ns, Name: name, Value: value})
}

func (n *Node) dropAttr(ns, name string) bool {
	i := n.attrIndex(ns, name)
	if i < 0 {
		return false
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	return true
}
