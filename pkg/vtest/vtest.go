package vtest

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/render"
	"github.com/vango-dev/vtree/pkg/schedule"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// Harness is an isolated runtime rendering into a fresh document. Deferred
// renders wait on a manual scheduler until Flush is called, and every host
// mutation is recorded.
type Harness struct {
	t testing.TB

	Runtime   *reconcile.Runtime
	Scheduler *schedule.Manual
	Doc       *dom.Document
	Body      *dom.Node
	Recorder  *dom.Recorder

	root *dom.Node
}

// New creates a harness. Options are applied after the harness defaults
// (manual scheduler, discarded logs), so they may replace them.
//
// Example:
//
//	h := vtest.New(t)
//	h.Render(vdom.C(Counter))
//	h.ExpectHTML("<span>0</span>")
func New(t testing.TB, opts ...reconcile.Option) *Harness {
	t.Helper()
	sched := schedule.NewManual()
	doc := dom.NewDocument()
	body := doc.CreateElement("body")
	doc.Root().AppendChild(body)

	defaults := []reconcile.Option{
		reconcile.WithScheduler(sched),
		reconcile.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		reconcile.WithDocument(doc),
	}
	h := &Harness{
		t:         t,
		Runtime:   reconcile.New(append(defaults, opts...)...),
		Scheduler: sched,
		Doc:       doc,
		Body:      body,
		Recorder:  dom.Record(doc),
	}
	t.Cleanup(h.Recorder.Stop)
	return h
}

// Render diffs desc against the current root, mounting it on first use.
// The test fails if the runtime returns an error.
func (h *Harness) Render(desc *vdom.VNode) *dom.Node {
	h.t.Helper()
	root, err := h.Runtime.Render(desc, h.Body, h.root)
	if err != nil {
		h.t.Fatalf("Render() error: %v", err)
	}
	h.root = root
	return root
}

// Root returns the node produced by the last Render.
func (h *Harness) Root() *dom.Node {
	return h.root
}

// Flush runs every deferred render and returns the number of scheduled
// tasks that ran.
func (h *Harness) Flush() int {
	return h.Scheduler.Run()
}

// Mutations returns the mutations recorded since the last Reset.
func (h *Harness) Mutations() []dom.Mutation {
	return h.Recorder.Mutations
}

// Count returns how many recorded mutations have the given op.
func (h *Harness) Count(op dom.MutationOp) int {
	return h.Recorder.Count(op)
}

// Reset forgets recorded mutations.
func (h *Harness) Reset() {
	h.Recorder.Reset()
}

// HTML renders the body's children.
func (h *Harness) HTML() string {
	h.t.Helper()
	var buf bytes.Buffer
	if err := render.NewRenderer(render.RendererConfig{}).RenderChildren(&buf, h.Body); err != nil {
		h.t.Fatalf("render: %v", err)
	}
	return buf.String()
}

// ExpectHTML asserts that the body's children render to want.
func (h *Harness) ExpectHTML(want string) {
	h.t.Helper()
	if got := h.HTML(); got != want {
		h.t.Errorf("HTML mismatch:\n got: %s\nwant: %s", truncate(got, 500), truncate(want, 500))
	}
}

// ExpectNoMutations asserts that nothing touched the document since the
// last Reset.
func (h *Harness) ExpectNoMutations() {
	h.t.Helper()
	if n := len(h.Recorder.Mutations); n != 0 {
		h.t.Errorf("expected no mutations, got %d; first: %s %s", n, h.Recorder.Mutations[0].Op, describe(h.Recorder.Mutations[0].Target))
	}
}

// RenderToString mounts desc in a throwaway document and returns its HTML.
// It returns "" when rendering fails.
//
// Example:
//
//	html := vtest.RenderToString(resume.Header(data))
func RenderToString(desc *vdom.VNode) string {
	doc := dom.NewDocument()
	rt := reconcile.New(
		reconcile.WithScheduler(schedule.NewManual()),
		reconcile.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	root, err := rt.Render(desc, doc.Root(), nil)
	if err != nil {
		return ""
	}
	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(root)
	if err != nil {
		return ""
	}
	return html
}

// ExpectContains asserts that rendered output contains expected substring.
//
// Example:
//
//	vtest.ExpectContains(t, resume.Job(job), "Senior Engineer")
func ExpectContains(t testing.TB, desc *vdom.VNode, expected string) {
	t.Helper()
	html := RenderToString(desc)
	if !strings.Contains(html, expected) {
		t.Errorf("expected rendered output to contain %q, got:\n%s", expected, truncate(html, 500))
	}
}

// ExpectNotContains asserts that rendered output does not contain substring.
func ExpectNotContains(t testing.TB, desc *vdom.VNode, unexpected string) {
	t.Helper()
	html := RenderToString(desc)
	if strings.Contains(html, unexpected) {
		t.Errorf("expected rendered output to NOT contain %q, got:\n%s", unexpected, truncate(html, 500))
	}
}

// ExpectElement asserts that rendered output contains a specific tag.
func ExpectElement(t testing.TB, desc *vdom.VNode, tag string) {
	t.Helper()
	html := RenderToString(desc)
	if !strings.Contains(html, "<"+tag) {
		t.Errorf("expected rendered output to contain <%s> element, got:\n%s", tag, truncate(html, 500))
	}
}

// ExpectAttribute asserts that rendered output contains an attribute value.
func ExpectAttribute(t testing.TB, desc *vdom.VNode, attr, value string) {
	t.Helper()
	html := RenderToString(desc)
	needle := attr + `="` + value + `"`
	if !strings.Contains(html, needle) {
		t.Errorf("expected attribute %s=%q not found, got:\n%s", attr, value, truncate(html, 500))
	}
}

func describe(n *dom.Node) string {
	switch {
	case n == nil:
		return "<nil>"
	case n.IsText():
		return "#text"
	default:
		return "<" + n.Tag() + ">"
	}
}

// truncate truncates a string to max length with ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
