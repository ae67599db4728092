package vdom

import "fmt"

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// IfElse returns the first node if condition is true, the second otherwise.
func IfElse(condition bool, ifTrue, ifFalse *VNode) *VNode {
	if condition {
		return ifTrue
	}
	return ifFalse
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to children. Nil results are dropped by the element
// constructors.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		result = append(result, fn(item, i))
	}
	return result
}

// Key sets the reconciliation key.
func Key(key any) Attr {
	return Attr{Key: "key", Value: key}
}

// Ref registers a callback receiving the mounted host node or component.
func Ref(fn func(target any)) Attr {
	return Attr{Key: "ref", Value: RefFunc(fn)}
}

// C creates a component description from a behavior, mixing Attrs and
// children the same way element constructors do.
func C(b Behavior, args ...any) *VNode {
	return build(b, args)
}
