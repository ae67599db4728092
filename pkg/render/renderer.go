package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/vtree/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Text inside inline elements is never re-flowed.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// LiveFields writes the current value, checked and selected state of
	// form controls instead of their markup defaults.
	LiveFields bool
}

// Renderer serialises host trees to HTML.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders n and its subtree to an HTML string.
func (r *Renderer) RenderToString(n *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams n and its subtree to w. A nil node writes nothing.
func (r *Renderer) RenderToWriter(w io.Writer, n *dom.Node) error {
	out := &writer{w: w}
	r.renderNode(out, n, 0)
	return out.err
}

// RenderChildren writes the children of n without n itself, like
// innerHTML.
func (r *Renderer) RenderChildren(w io.Writer, n *dom.Node) error {
	out := &writer{w: w}
	if n != nil {
		for _, c := range n.Children() {
			r.renderNode(out, c, 0)
		}
	}
	return out.err
}

// writer keeps the first write error so the render walk need not check
// every call.
type writer struct {
	w   io.Writer
	err error
}

func (o *writer) str(s string) {
	if o.err == nil {
		_, o.err = io.WriteString(o.w, s)
	}
}

func (o *writer) printf(format string, args ...any) {
	if o.err == nil {
		_, o.err = fmt.Fprintf(o.w, format, args...)
	}
}

func (r *Renderer) renderNode(w *writer, n *dom.Node, depth int) {
	if n == nil || w.err != nil {
		return
	}
	switch n.Type() {
	case dom.TextNode:
		r.renderText(w, n)
	case dom.ElementNode:
		r.renderElement(w, n, depth)
	case dom.DocumentNode:
		for _, c := range n.Children() {
			r.renderNode(w, c, depth)
		}
	default:
		w.err = fmt.Errorf("render: unknown node type %v", n.Type())
	}
}

func (r *Renderer) renderText(w *writer, n *dom.Node) {
	if p := n.Parent(); p != nil && isRawText(p.Tag()) {
		w.str(n.Data())
		return
	}
	w.str(escapeHTML(n.Data()))
}

func (r *Renderer) renderElement(w *writer, n *dom.Node, depth int) {
	tag := n.Tag()
	html := n.Namespace() == dom.NamespaceHTML

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}
	w.str("<")
	w.str(tag)
	r.renderAttributes(w, n, html)

	if html && isVoidElement(tag) {
		w.str(">")
		r.newline(w)
		return
	}
	if !html && n.ChildCount() == 0 {
		w.str("/>")
		r.newline(w)
		return
	}
	w.str(">")

	if r.config.LiveFields && tag == "textarea" {
		if v, _ := n.Field("value").(string); v != "" {
			w.str(escapeHTML(v))
			w.printf("</%s>", tag)
			r.newline(w)
			return
		}
	}

	block := r.config.Pretty && !isInlineElement(tag) && hasElementChild(n)
	if block {
		w.str("\n")
	}
	for _, c := range n.Children() {
		if block && c.IsText() {
			if strings.TrimSpace(c.Data()) == "" {
				continue
			}
			r.writeIndent(w, depth+1)
			r.renderText(w, c)
			w.str("\n")
			continue
		}
		if block {
			r.renderNode(w, c, depth+1)
		} else {
			r.renderInline(w, c)
		}
	}
	if block {
		r.writeIndent(w, depth)
	}
	w.printf("</%s>", tag)
	r.newline(w)
}

// renderInline renders a subtree without any pretty-printing whitespace.
func (r *Renderer) renderInline(w *writer, n *dom.Node) {
	if !r.config.Pretty {
		r.renderNode(w, n, 0)
		return
	}
	flat := *r
	flat.config.Pretty = false
	flat.renderNode(w, n, 0)
}

// renderAttributes writes attributes in insertion order.
func (r *Renderer) renderAttributes(w *writer, n *dom.Node, html bool) {
	attrs := n.Attributes()
	if r.config.LiveFields && html {
		attrs = liveAttributes(n, attrs)
	}
	for _, a := range attrs {
		name := a.QualifiedName()
		if html && a.Value == "" && isBooleanAttr(name) {
			w.str(" ")
			w.str(name)
			continue
		}
		w.printf(` %s="%s"`, name, escapeAttr(a.Value))
	}
}

// liveAttributes replaces the markup defaults of form controls with their
// current field values.
func liveAttributes(n *dom.Node, attrs []dom.Attribute) []dom.Attribute {
	var live map[string]any
	switch n.Tag() {
	case "input":
		live = map[string]any{"value": n.Field("value"), "checked": n.Field("checked")}
	case "option":
		live = map[string]any{"selected": n.Field("selected")}
	default:
		return attrs
	}

	out := make([]dom.Attribute, 0, len(attrs)+len(live))
	seen := make(map[string]bool, len(live))
	for _, a := range attrs {
		v, ok := live[a.Name]
		if !ok || a.Namespace != "" {
			out = append(out, a)
			continue
		}
		seen[a.Name] = true
		if attr, keep := liveAttr(a.Name, v); keep {
			out = append(out, attr)
		}
	}
	for _, name := range []string{"value", "checked", "selected"} {
		v, ok := live[name]
		if !ok || seen[name] {
			continue
		}
		if attr, keep := liveAttr(name, v); keep {
			out = append(out, attr)
		}
	}
	return out
}

func liveAttr(name string, v any) (dom.Attribute, bool) {
	switch x := v.(type) {
	case bool:
		return dom.Attribute{Name: name}, x
	case string:
		return dom.Attribute{Name: name, Value: x}, x != ""
	}
	return dom.Attribute{}, false
}

func hasElementChild(n *dom.Node) bool {
	for _, c := range n.Children() {
		if c.IsElement() {
			return true
		}
	}
	return false
}

func (r *Renderer) newline(w *writer) {
	if r.config.Pretty {
		w.str("\n")
	}
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w *writer, depth int) {
	w.str(strings.Repeat(r.config.Indent, depth))
}
