package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses markup in the context of n (an element, shadow root
// or document) and returns the resulting top-level nodes, detached and owned
// by n's document. Comments and doctypes are dropped.
func ParseFragment(context Node, markup string) ([]Node, error) {
	doc := context
	if !doc.IsDocument() {
		doc = context.OwnerDocument()
	}
	if doc.IsZero() {
		return nil, ErrNotDocument
	}
	name := "body"
	if context.IsElement() {
		name = context.LocalName()
	}
	ctx := &html.Node{Type: html.ElementNode, Data: name, DataAtom: atom.Lookup([]byte(name))}
	parsed, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}
	nodes := make([]Node, 0, len(parsed))
	for _, p := range parsed {
		if n, ok := importHTML(doc, p); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// LoadHTML parses a complete HTML document from r and appends its root
// element to doc, the way a parser inserts into a loading document. Mutation
// observers watching doc see a single insertion of the root element.
func (t *Tree) LoadHTML(doc Node, r io.Reader) error {
	if !doc.IsDocument() || doc.tree != t {
		return ErrNotDocument
	}
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		n, ok := importHTML(doc, c)
		if !ok {
			continue
		}
		if err := doc.AppendChild(n); err != nil {
			return err
		}
	}
	return nil
}

func importHTML(doc Node, h *html.Node) (Node, bool) {
	t := doc.tree
	switch h.Type {
	case html.ElementNode:
		el := t.newElement(doc.id, h.Data)
		r := el.rec()
		for _, a := range h.Attr {
			r.attrs = append(r.attrs, Attr{Namespace: a.Namespace, Name: a.Key, Value: a.Val})
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if child, ok := importHTML(doc, c); ok {
				t.appendRaw(el.id, child.id)
			}
		}
		return el, true
	case html.TextNode:
		return t.newText(doc.id, h.Data), true
	default:
		return Node{}, false
	}
}

// InnerHTML serializes the light children of n.
func (n Node) InnerHTML() string {
	var buf bytes.Buffer
	for _, c := range n.Children() {
		if h := exportHTML(c); h != nil {
			_ = html.Render(&buf, h)
		}
	}
	return buf.String()
}

// OuterHTML serializes n and its light descendants.
func (n Node) OuterHTML() string {
	h := exportHTML(n)
	if h == nil {
		return ""
	}
	var buf bytes.Buffer
	_ = html.Render(&buf, h)
	return buf.String()
}

func exportHTML(n Node) *html.Node {
	switch n.Type() {
	case TextNode:
		return &html.Node{Type: html.TextNode, Data: n.Text()}
	case ElementNode:
		h := &html.Node{
			Type:     html.ElementNode,
			Data:     n.LocalName(),
			DataAtom: atom.Lookup([]byte(n.LocalName())),
		}
		for _, a := range n.Attributes() {
			h.Attr = append(h.Attr, html.Attribute{Namespace: a.Namespace, Key: a.Name, Val: a.Value})
		}
		for _, c := range n.Children() {
			if ch := exportHTML(c); ch != nil {
				h.AppendChild(ch)
			}
		}
		return h
	default:
		return nil
	}
}
