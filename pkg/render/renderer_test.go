package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/vtree/pkg/dom"
)

// parse builds a detached tree under a <div> from markup.
func parse(t *testing.T, markup string) *dom.Node {
	t.Helper()
	doc := dom.NewDocument()
	root := doc.CreateElement("div")
	if err := root.SetInnerHTML(markup); err != nil {
		t.Fatalf("SetInnerHTML() error: %v", err)
	}
	return root
}

func TestRenderChildrenRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "nested elements",
			markup: `<ul class="list"><li>one</li><li>two</li></ul>`,
			want:   `<ul class="list"><li>one</li><li>two</li></ul>`,
		},
		{
			name:   "text escaping",
			markup: `<p>a &lt; b &amp; c</p>`,
			want:   `<p>a &lt; b &amp; c</p>`,
		},
		{
			name:   "attribute escaping",
			markup: `<a href="/q?a=1&amp;b=2" title="say &quot;hi&quot;">x</a>`,
			want:   `<a href="/q?a=1&amp;b=2" title="say &quot;hi&quot;">x</a>`,
		},
		{
			name:   "void and boolean",
			markup: `<input type="checkbox" disabled><br>`,
			want:   `<input type="checkbox" disabled><br>`,
		},
		{
			name:   "svg self-closing",
			markup: `<svg viewBox="0 0 1 1"><circle r="1"></circle></svg>`,
			want:   `<svg viewBox="0 0 1 1"><circle r="1"/></svg>`,
		},
		{
			name:   "raw text",
			markup: `<script>if (a < b) {}</script>`,
			want:   `<script>if (a < b) {}</script>`,
		},
	}

	r := NewRenderer(RendererConfig{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.RenderChildren(&buf, parse(t, tt.markup)); err != nil {
				t.Fatalf("RenderChildren() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderToStringIncludesRoot(t *testing.T) {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("id", "app")
	div.Style().Set("color", "red")
	div.AppendChild(doc.CreateTextNode("hi"))
	doc.Root().AppendChild(div)

	r := NewRenderer(RendererConfig{})
	got, err := r.RenderToString(div)
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	if want := `<div id="app" style="color: red">hi</div>`; got != want {
		t.Errorf("RenderToString() = %q, want %q", got, want)
	}

	whole, err := r.RenderToString(doc.Root())
	if err != nil {
		t.Fatalf("RenderToString(root) error: %v", err)
	}
	if whole != got {
		t.Errorf("document render = %q, want %q", whole, got)
	}

	if out, _ := r.RenderToString(nil); out != "" {
		t.Errorf("nil node rendered %q", out)
	}
}

func TestPrettyRender(t *testing.T) {
	root := parse(t, `<section><h2>Work</h2><p>Built <em>things</em></p></section>`)
	r := NewRenderer(RendererConfig{Pretty: true})

	got, err := r.RenderToString(root.FirstChild())
	if err != nil {
		t.Fatalf("RenderToString() error: %v", err)
	}
	want := strings.Join([]string{
		"<section>",
		"  <h2>Work</h2>",
		"  <p>",
		"    Built ",
		"    <em>things</em>",
		"  </p>",
		"</section>",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestLiveFields(t *testing.T) {
	root := parse(t, `<input value="a"><input type="checkbox" checked><select><option>x</option></select><textarea>old</textarea>`)
	input, box := root.ChildAt(0), root.ChildAt(1)
	option := root.ChildAt(2).FirstChild()
	area := root.ChildAt(3)

	mustSet := func(n *dom.Node, name string, v any) {
		t.Helper()
		if err := n.SetField(name, v); err != nil {
			t.Fatalf("SetField(%s) error: %v", name, err)
		}
	}
	mustSet(input, "value", "typed")
	mustSet(box, "checked", false)
	mustSet(option, "selected", true)
	mustSet(area, "value", "new")

	markup := func(cfg RendererConfig) string {
		var buf bytes.Buffer
		if err := NewRenderer(cfg).RenderChildren(&buf, root); err != nil {
			t.Fatalf("RenderChildren() error: %v", err)
		}
		return buf.String()
	}

	wantDefaults := `<input value="a"><input type="checkbox" checked><select><option>x</option></select><textarea>old</textarea>`
	if diff := cmp.Diff(wantDefaults, markup(RendererConfig{})); diff != "" {
		t.Errorf("default output mismatch (-want +got):\n%s", diff)
	}

	wantLive := `<input value="typed"><input type="checkbox"><select><option selected>x</option></select><textarea>new</textarea>`
	if diff := cmp.Diff(wantLive, markup(RendererConfig{LiveFields: true})); diff != "" {
		t.Errorf("live output mismatch (-want +got):\n%s", diff)
	}
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestRenderStopsOnWriteError(t *testing.T) {
	root := parse(t, `<p>one</p><p>two</p>`)
	w := &failingWriter{after: 2}

	err := NewRenderer(RendererConfig{}).RenderChildren(w, root)
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("RenderChildren() error = %v, want disk full", err)
	}
}
