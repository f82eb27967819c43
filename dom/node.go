package dom

import "strings"

// Node is a comparable handle to a node in a Tree. The zero Node means "no
// node"; every accessor on it returns a zero value.
type Node struct {
	tree *Tree
	id   NodeID
}

// IsZero reports whether n refers to no node.
func (n Node) IsZero() bool { return n.tree == nil || n.id == 0 }

// ID returns the arena index of the node.
func (n Node) ID() NodeID { return n.id }

// Tree returns the arena the node belongs to.
func (n Node) Tree() *Tree { return n.tree }

func (n Node) rec() *record {
	if n.tree == nil {
		return nil
	}
	return n.tree.rec(n.id)
}

func (n Node) handle(id NodeID) Node {
	if id == 0 {
		return Node{}
	}
	return Node{tree: n.tree, id: id}
}

// Type returns the node type, or 0 for the zero Node.
func (n Node) Type() NodeType {
	if r := n.rec(); r != nil {
		return r.typ
	}
	return 0
}

// IsElement reports whether n is an element.
func (n Node) IsElement() bool { return n.Type() == ElementNode }

// IsDocument reports whether n is a document.
func (n Node) IsDocument() bool { return n.Type() == DocumentNode }

// LocalName returns the lower-cased tag name of an element.
func (n Node) LocalName() string {
	if r := n.rec(); r != nil {
		return r.localName
	}
	return ""
}

// Text returns the character data of a text node.
func (n Node) Text() string {
	if r := n.rec(); r != nil {
		return r.data
	}
	return ""
}

// TextContent concatenates the character data of all light descendants.
func (n Node) TextContent() string {
	var sb strings.Builder
	var collect func(Node)
	collect = func(c Node) {
		if c.Type() == TextNode {
			sb.WriteString(c.Text())
			return
		}
		for _, gc := range c.Children() {
			collect(gc)
		}
	}
	collect(n)
	return sb.String()
}

// Parent returns the parent node, or the zero Node.
func (n Node) Parent() Node {
	if r := n.rec(); r != nil {
		return n.handle(r.parent)
	}
	return Node{}
}

// Children returns a snapshot of the child list.
func (n Node) Children() []Node {
	r := n.rec()
	if r == nil || len(r.children) == 0 {
		return nil
	}
	out := make([]Node, len(r.children))
	for i, id := range r.children {
		out[i] = n.handle(id)
	}
	return out
}

// FirstChild returns the first child, or the zero Node.
func (n Node) FirstChild() Node {
	r := n.rec()
	if r == nil || len(r.children) == 0 {
		return Node{}
	}
	return n.handle(r.children[0])
}

// NextSibling returns the following sibling, or the zero Node.
func (n Node) NextSibling() Node {
	p := n.Parent()
	if p.IsZero() {
		return Node{}
	}
	siblings := p.rec().children
	if i := indexOf(siblings, n.id); i >= 0 && i+1 < len(siblings) {
		return n.handle(siblings[i+1])
	}
	return Node{}
}

// OwnerDocument returns the document the node belongs to. Documents return
// the zero Node.
func (n Node) OwnerDocument() Node {
	if r := n.rec(); r != nil {
		return n.handle(r.owner)
	}
	return Node{}
}

// ShadowRoot returns the shadow root hosted by an element, if any.
func (n Node) ShadowRoot() Node {
	if r := n.rec(); r != nil {
		return n.handle(r.shadow)
	}
	return Node{}
}

// Host returns the host element of a shadow root.
func (n Node) Host() Node {
	if r := n.rec(); r != nil {
		return n.handle(r.host)
	}
	return Node{}
}

// Import returns the document imported by a <link rel="import"> element.
func (n Node) Import() Node {
	if r := n.rec(); r != nil {
		return n.handle(r.importDoc)
	}
	return Node{}
}

// IsConnected reports whether the node is reachable from a document,
// crossing from shadow roots to their hosts.
func (n Node) IsConnected() bool {
	cur := n
	for !cur.IsZero() {
		r := cur.rec()
		if r.typ == DocumentNode {
			return true
		}
		if r.parent != 0 {
			cur = cur.handle(r.parent)
			continue
		}
		cur = cur.handle(r.host)
	}
	return false
}

// Contains reports whether other is an inclusive light-tree descendant of n.
func (n Node) Contains(other Node) bool {
	if n.IsZero() || other.tree != n.tree {
		return false
	}
	for cur := other; !cur.IsZero(); cur = cur.Parent() {
		if cur == n {
			return true
		}
	}
	return false
}

// GetAttribute returns the value of the attribute with the given qualified
// name and whether it is present.
func (n Node) GetAttribute(name string) (string, bool) {
	r := n.rec()
	if r == nil {
		return "", false
	}
	name = strings.ToLower(name)
	for _, a := range r.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// GetAttributeNS returns the value of a namespaced attribute.
func (n Node) GetAttributeNS(namespace, name string) (string, bool) {
	r := n.rec()
	if r == nil {
		return "", false
	}
	for _, a := range r.attrs {
		if a.Namespace == namespace && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttributes reports whether the element carries any attribute.
func (n Node) HasAttributes() bool {
	r := n.rec()
	return r != nil && len(r.attrs) > 0
}

// Attributes returns a copy of the attribute list in insertion order.
func (n Node) Attributes() []Attr {
	r := n.rec()
	if r == nil || len(r.attrs) == 0 {
		return nil
	}
	out := make([]Attr, len(r.attrs))
	copy(out, r.attrs)
	return out
}

// DocumentID returns the unique identifier assigned to a document.
func (n Node) DocumentID() string {
	if d := n.docState(); d != nil {
		return d.id
	}
	return ""
}

func (n Node) docState() *documentState {
	if r := n.rec(); r != nil {
		return r.doc
	}
	return nil
}

// HasBrowsingContext reports whether the document has an execution context.
func (n Node) HasBrowsingContext() bool {
	d := n.docState()
	return d != nil && d.browsingContext
}

// ReadyState returns the loading state of a document.
func (n Node) ReadyState() ReadyState {
	if d := n.docState(); d != nil {
		return d.readyState
	}
	return ""
}

// IsImportDocument reports whether the document was reached through an
// import link.
func (n Node) IsImportDocument() bool {
	d := n.docState()
	return d != nil && d.importDocument
}

// HasRegistry reports whether the document is associated with a custom
// element registry.
func (n Node) HasRegistry() bool {
	d := n.docState()
	return d != nil && d.hasRegistry
}

// ImportLoadHandled reports whether the load of an import document has been
// processed.
func (n Node) ImportLoadHandled() bool {
	d := n.docState()
	return d != nil && d.loadHandled
}
