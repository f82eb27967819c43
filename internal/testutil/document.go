package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/customelements/dom"
)

// DocumentBuilder builds a document from body markup with fluent chaining.
// Example:
//
//	tree, doc := NewDocumentBuilder().Body(`<x-a id="1"></x-a>`).Build(t)
type DocumentBuilder struct {
	body string
	opts []func(o *dom.DocumentOptions)
}

// NewDocumentBuilder creates a builder for an empty, complete document with a
// browsing context.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{}
}

// Body sets the markup placed inside <body> (chainable).
func (b *DocumentBuilder) Body(markup string) *DocumentBuilder {
	b.body = markup
	return b
}

// Loading starts the document in the loading ready state (chainable).
func (b *DocumentBuilder) Loading() *DocumentBuilder {
	b.opts = append(b.opts, func(o *dom.DocumentOptions) { o.ReadyState = dom.ReadyStateLoading })
	return b
}

// WithoutBrowsingContext creates the document without a browsing context (chainable).
func (b *DocumentBuilder) WithoutBrowsingContext() *DocumentBuilder {
	b.opts = append(b.opts, func(o *dom.DocumentOptions) { o.BrowsingContext = false })
	return b
}

// Build parses the markup into a new tree and returns the tree and document.
func (b *DocumentBuilder) Build(t testing.TB) (*dom.Tree, dom.Node) {
	t.Helper()
	tree := dom.NewTree()
	doc := tree.NewDocument(b.opts...)
	markup := "<!doctype html><html><head></head><body>" + b.body + "</body></html>"
	require.NoError(t, tree.LoadHTML(doc, strings.NewReader(markup)))
	return tree, doc
}

// ByID returns the first element below root (shadow roots included) whose id
// attribute equals id. It fails the test when none exists.
func ByID(t testing.TB, root dom.Node, id string) dom.Node {
	t.Helper()
	var found dom.Node
	dom.WalkDeepDescendantElements(root, func(el dom.Node) {
		if !found.IsZero() {
			return
		}
		if v, ok := el.GetAttribute("id"); ok && v == id {
			found = el
		}
	}, nil)
	require.False(t, found.IsZero(), "no element with id %q", id)
	return found
}

// Body returns the <body> element of doc.
func Body(t testing.TB, doc dom.Node) dom.Node {
	t.Helper()
	var body dom.Node
	dom.WalkElements(doc, func(el dom.Node) {
		if body.IsZero() && el.LocalName() == "body" {
			body = el
		}
	})
	require.False(t, body.IsZero(), "document has no body")
	return body
}
