// Package render serialises host trees to HTML.
//
// It is the output side of the reconciler: once a description has been
// reconciled into a dom.Document, render writes that tree as markup:
//
//   - Text and attribute escaping
//   - Void elements (input, br, img, ...) without closing tags
//   - Boolean attributes (disabled, checked, ...) written without a value
//   - Self-closing SVG elements
//   - Unescaped script and style content
//   - Optional pretty printing
//   - Optional serialisation of live form state (value, checked, selected)
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(root)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Title: "Jane Doe",
//	    Body:  mount,
//	    BodyChildren: true,
//	}
//	err := renderer.RenderPage(w, page)
//
// StreamingRenderer does the same but flushes the head to the client
// before serialising the body.
package render
