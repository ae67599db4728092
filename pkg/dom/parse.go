package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vtree/internal/errors"
)

// ParseFragment parses markup as the content of context and returns the
// resulting detached nodes. A nil context parses as the content of <body>.
func ParseFragment(d *Document, context *Node, markup string) ([]*Node, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	if context != nil && context.typ == ElementNode {
		ctx = &html.Node{
			Type:      html.ElementNode,
			Data:      context.tag,
			DataAtom:  atom.Lookup([]byte(context.tag)),
			Namespace: shortNamespace(context.ns),
		}
	}

	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, errors.New("E041").Wrap(err)
	}

	nodes := make([]*Node, 0, len(parsed))
	for _, p := range parsed {
		if n := convert(d, p); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// SetInnerHTML replaces n's children with the parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	if n.typ == TextNode {
		return errors.New("E042").WithDetail("text nodes cannot have children")
	}
	nodes, err := ParseFragment(n.doc, n, markup)
	if err != nil {
		return err
	}
	for len(n.children) > 0 {
		n.RemoveChild(n.children[len(n.children)-1])
	}
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// convert copies an x/net/html node into the document. Comments, doctypes
// and other non-content nodes are dropped.
func convert(d *Document, p *html.Node) *Node {
	switch p.Type {
	case html.TextNode:
		return d.CreateTextNode(p.Data)
	case html.ElementNode:
		n := d.CreateElementNS(longNamespace(p.Namespace), p.Data)
		for _, a := range p.Attr {
			ns := ""
			switch a.Namespace {
			case "xlink":
				ns = NamespaceXLink
			case "xml":
				ns = NamespaceXML
			}
			n.SetAttributeNS(ns, a.Key, a.Val)
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if cn := convert(d, c); cn != nil {
				n.AppendChild(cn)
			}
		}
		return n
	}
	return nil
}

func shortNamespace(ns string) string {
	switch ns {
	case NamespaceSVG:
		return "svg"
	case NamespaceMathML:
		return "math"
	}
	return ""
}

func longNamespace(ns string) string {
	switch ns {
	case "svg":
		return NamespaceSVG
	case "math":
		return NamespaceMathML
	}
	return NamespaceHTML
}
