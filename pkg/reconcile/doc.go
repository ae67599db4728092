// Package reconcile turns vdom descriptions into a live dom tree and keeps
// it in sync as descriptions change.
//
// The entry point is Runtime.Render:
//
//	rt := reconcile.New()
//	root, err := rt.Render(vdom.Div(vdom.Class("app"), "hello"), body, nil)
//
// Rendering again with the previous root as the merge target patches the
// existing nodes in place instead of rebuilding them. Children are matched
// by key first and by type second, so keyed children keep their identity
// across reorders.
//
// # Components
//
// A Func is a stateless component: a function from props and context to a
// description. A Class constructs a Component per mounted instance; the
// Instance owns state, props, context and the host subtree it rendered.
// Lifecycle methods are discovered through optional interfaces such as
// DidMounter and ShouldUpdater.
//
// State changes made with Instance.SetState are coalesced: each dirty
// instance is queued once, and the queue is flushed by the Runtime's
// scheduler, so several SetState calls in one turn cause one render. The
// default scheduler flushes when the next Render, Flush, Batch or event
// dispatch returns.
//
// # Recycling
//
// Removed host elements are pooled by tag name and reused for the next
// element with the same name. Unmounted class instances are pooled by
// class so a later instance of the same class can morph the old subtree
// instead of building a new one. WithPoolLimit bounds both pools.
//
// # Concurrency
//
// A Runtime and the documents it renders into are not safe for concurrent
// use. Run all calls on one goroutine, for example a schedule.Loop.
package reconcile
