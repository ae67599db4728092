package vdom

import (
	"fmt"
	"strconv"
	"strings"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComponent              // Behavioral node (function or class)
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// VNode describes one desired tree node. A VNode is never modified once
// constructed; the reconciler only reads it.
type VNode struct {
	Kind     VKind    // Node type
	Tag      string   // Element tag name (e.g., "div")
	Type     Behavior // For KindComponent
	Props    Props    // Attributes, event handlers and component props
	Children []*VNode // Child nodes
	Key      string   // Reconciliation key, "" for none
	Text     string   // For KindText
}

// Behavior is the identity of a component description. Two component
// descriptions are the same type only when their Behaviors are the same
// value, so implementations are expected to be pointers.
type Behavior interface {
	BehaviorName() string
}

// Props holds attributes, event handlers and component props.
type Props map[string]any

// Clone returns a shallow copy of the props. A nil receiver yields an
// empty, non-nil map.
func (p Props) Clone() Props {
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String returns the prop as a string, stringifying scalars.
func (p Props) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	return Stringify(v)
}

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// EventHandler represents an event handler.
type EventHandler struct {
	Event   string // "onclick", "oninput", etc.
	Handler any    // Function to call
}

// RefFunc receives the host node (for elements) or the component value (for
// components) after mount, and nil when it is released.
type RefFunc func(target any)

// InnerHTML is the value of the dangerouslySetInnerHTML prop.
type InnerHTML struct {
	HTML string
}

// StyleMap is a structured style value. Numeric values get a "px" suffix
// unless the property is unit-less.
type StyleMap map[string]any

// ClassMap is a structured class value; keys with a true value are emitted.
type ClassMap map[string]bool

// IsText reports whether v describes a text node. A nil description counts
// as empty text.
func (v *VNode) IsText() bool {
	return v == nil || v.Kind == KindText
}

// IsComponent reports whether v is a behavioral description.
func (v *VNode) IsComponent() bool {
	return v != nil && v.Kind == KindComponent
}

// Identity returns a readable identity for logs and errors.
func (v *VNode) Identity() string {
	switch {
	case v == nil:
		return "#text"
	case v.Kind == KindElement:
		return v.Tag
	case v.Kind == KindText:
		return "#text"
	case v.Kind == KindComponent && v.Type != nil:
		return v.Type.BehaviorName()
	default:
		return v.Kind.String()
	}
}

// Ref returns the ref callback requested by the description, if any.
func (v *VNode) Ref() RefFunc {
	if v == nil {
		return nil
	}
	switch fn := v.Props["ref"].(type) {
	case RefFunc:
		return fn
	case func(any):
		return fn
	}
	return nil
}

// SameType reports whether two descriptions are same-typed: both text, both
// elements with case-insensitively equal tags, or both components with the
// identical behavior.
func SameType(a, b *VNode) bool {
	if a.IsText() || b.IsText() {
		return a.IsText() && b.IsText()
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindComponent {
		return a.Type == b.Type
	}
	return strings.EqualFold(a.Tag, b.Tag)
}

// KeyOf converts a key prop to its string form. Nil and "" mean no key.
func KeyOf(v any) string {
	if v == nil {
		return ""
	}
	return Stringify(v)
}

// Stringify renders a scalar the way text children and keys see it.
func Stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
