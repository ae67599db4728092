package render

import (
	"io"

	"github.com/vango-dev/vtree/pkg/dom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Body is rendered inside <body>. With BodyChildren set only its
	// children are written, so a mount point can stand in for the body.
	Body         *dom.Node
	BodyChildren bool

	// Title is the page title
	Title string

	// Lang is the language attribute for the html element
	// Defaults to "en" if not specified
	Lang string

	// Meta contains meta tags for the page
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.)
	Links []LinkTag

	// StyleSheets contains paths to external stylesheets
	StyleSheets []string

	// Styles contains inline CSS styles
	Styles []string

	// Scripts are written in the head when deferred or async, and at the
	// end of the body otherwise.
	Scripts []ScriptTag
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel   string // rel attribute
	Href  string // href attribute
	Type  string // type attribute
	Media string // media attribute
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string // src attribute
	Module bool   // type="module"
	Defer  bool   // defer attribute
	Async  bool   // async attribute
	Inline string // inline script content
}

// RenderPage renders a complete HTML document to the given writer.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	out := &writer{w: w}
	r.renderDocumentStart(out, page)
	r.renderBody(out, page)
	return out.err
}

func (r *Renderer) renderDocumentStart(w *writer, page PageData) {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	w.str("<!DOCTYPE html>\n")
	w.printf("<html lang=\"%s\">\n", escapeAttr(lang))
	r.renderHead(w, page)
}

func (r *Renderer) renderBody(w *writer, page PageData) {
	w.str("<body>\n")
	if page.BodyChildren && page.Body != nil {
		for _, c := range page.Body.Children() {
			r.renderNode(w, c, 0)
		}
	} else {
		r.renderNode(w, page.Body, 0)
	}
	if !r.config.Pretty && page.Body != nil {
		w.str("\n")
	}
	for _, script := range page.Scripts {
		if !script.Defer && !script.Async {
			renderScriptTag(w, script)
		}
	}
	w.str("</body>\n</html>\n")
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w *writer, page PageData) {
	w.str("<head>\n")
	w.str("  <meta charset=\"utf-8\">\n")
	w.str("  <meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	if page.Title != "" {
		w.printf("  <title>%s</title>\n", escapeHTML(page.Title))
	}
	for _, meta := range page.Meta {
		renderMetaTag(w, meta)
	}
	for _, link := range page.Links {
		renderLinkTag(w, link)
	}
	for _, href := range page.StyleSheets {
		w.printf("  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href))
	}
	for _, style := range page.Styles {
		w.printf("  <style>%s</style>\n", style)
	}
	for _, script := range page.Scripts {
		if script.Defer || script.Async {
			renderScriptTag(w, script)
		}
	}
	w.str("</head>\n")
}

// optionalAttr writes name="value" when value is set.
func optionalAttr(w *writer, name, value string) {
	if value != "" {
		w.printf(` %s="%s"`, name, escapeAttr(value))
	}
}

func renderMetaTag(w *writer, meta MetaTag) {
	w.str("  <meta")
	optionalAttr(w, "name", meta.Name)
	optionalAttr(w, "property", meta.Property)
	optionalAttr(w, "http-equiv", meta.HTTPEquiv)
	optionalAttr(w, "content", meta.Content)
	w.str(">\n")
}

func renderLinkTag(w *writer, link LinkTag) {
	w.str("  <link")
	optionalAttr(w, "rel", link.Rel)
	optionalAttr(w, "href", link.Href)
	optionalAttr(w, "type", link.Type)
	optionalAttr(w, "media", link.Media)
	w.str(">\n")
}

func renderScriptTag(w *writer, script ScriptTag) {
	w.str("  <script")
	optionalAttr(w, "src", script.Src)
	if script.Module {
		w.str(` type="module"`)
	}
	if script.Defer {
		w.str(" defer")
	}
	if script.Async {
		w.str(" async")
	}
	w.str(">")
	w.str(script.Inline)
	w.str("</script>\n")
}
