// Package vdom provides the description layer for vtree.
//
// A description is an immutable tree of VNode values stating what the host
// tree should look like. The reconciler in package reconcile compares a
// description against the live host tree and applies the difference.
//
// # Core Types
//
// VNode is either an element (Tag), a text node (Text) or a component
// (Type, a Behavior). Props holds attributes, event handlers and component
// props; Key is taken from props["key"].
//
// # Construction
//
// H is the low-level constructor:
//
//	H("ul", Props{"class": "list"},
//	    H("li", Props{"key": "a"}, "first"),
//	    H("li", Props{"key": "b"}, "second", " ", 2),
//	)
//
// Children are flattened, nil and false are dropped and adjacent scalars
// are merged into one text node. The element helpers wrap H and accept Attr
// and EventHandler values mixed with children:
//
//	Div(Class("card"), ID("main"),
//	    H1("Title"),
//	    P("Content"),
//	    OnClick(handler),
//	)
package vdom
