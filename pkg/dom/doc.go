// Package dom is the mutable host tree the reconciler writes to.
//
// A Document owns element and text nodes. Nodes carry attributes (with
// optional namespaces), an inline Style declaration, typed fields such as
// value and checked, and an event-listener table with capture/bubble
// dispatch. Every node gets a document-unique ID at creation that never
// changes, which makes identity checks in tests trivial.
//
// Every change is reported to observers as a Mutation. Record collects
// them for tests; the preview server streams them to browsers.
//
// Tree operations panic with an E042 error on hierarchy violations, like
// golang.org/x/net/html does for misuse. Field assignment instead returns
// an error matching ErrFieldRejected so callers can choose to ignore it.
//
// Markup is parsed with golang.org/x/net/html:
//
//	nodes, err := dom.ParseFragment(doc, parent, `<p class="x">hi</p>`)
package dom
