package dom

import (
	"fmt"
	"strings"
)

// CreateElement creates a detached element owned by the document n.
func (n Node) CreateElement(localName string) (Node, error) {
	if !n.IsDocument() {
		return Node{}, ErrNotDocument
	}
	return n.tree.newElement(n.id, localName), nil
}

// CreateTextNode creates a detached text node owned by the document n.
func (n Node) CreateTextNode(data string) (Node, error) {
	if !n.IsDocument() {
		return Node{}, ErrNotDocument
	}
	return n.tree.newText(n.id, data), nil
}

// CreateDocumentFragment creates an empty fragment owned by the document n.
func (n Node) CreateDocumentFragment() (Node, error) {
	if !n.IsDocument() {
		return Node{}, ErrNotDocument
	}
	return n.tree.newFragment(n.id, 0), nil
}

// AttachShadow creates a shadow root for the element n.
func (n Node) AttachShadow() (Node, error) {
	r := n.rec()
	if r == nil || r.typ != ElementNode {
		return Node{}, ErrNotElement
	}
	if r.shadow != 0 {
		return Node{}, ErrShadowExists
	}
	root := n.tree.newFragment(r.owner, n.id)
	r.shadow = root.id
	return root, nil
}

// AppendChild appends child to n. Fragments are emptied into n.
func (n Node) AppendChild(child Node) error {
	return n.InsertBefore(child, Node{})
}

// InsertBefore inserts child into n before ref, or at the end when ref is
// the zero Node. A child that already has a parent is moved; a child owned by
// another document is adopted.
func (n Node) InsertBefore(child, ref Node) error {
	if err := n.validateInsert(child, ref); err != nil {
		return err
	}
	if ref == child {
		ref = child.NextSibling()
	}
	var moved []Node
	if child.Type() == FragmentNode {
		moved = child.Children()
		if len(moved) == 0 {
			return nil
		}
		fr := child.rec()
		fr.children = nil
		n.tree.notify(MutationRecord{Target: child, Removed: moved})
	} else {
		if p := child.Parent(); !p.IsZero() {
			p.detach(child)
			n.tree.notify(MutationRecord{Target: p, Removed: []Node{child}})
		}
		moved = []Node{child}
	}
	owner := n.id
	if !n.IsDocument() {
		owner = n.rec().owner
	}
	r := n.rec()
	at := len(r.children)
	if !ref.IsZero() {
		if i := indexOf(r.children, ref.id); i >= 0 {
			at = i
		}
	}
	ids := make([]NodeID, len(moved))
	for i, m := range moved {
		ids[i] = m.id
		m.rec().parent = n.id
		n.tree.setOwner(m.id, owner)
	}
	r.children = append(r.children[:at], append(ids, r.children[at:]...)...)
	n.tree.notify(MutationRecord{Target: n, Added: moved})
	return nil
}

func (n Node) validateInsert(child, ref Node) error {
	switch n.Type() {
	case DocumentNode, ElementNode, FragmentNode:
	default:
		return fmt.Errorf("%w: %s cannot have children", ErrHierarchy, n.Type())
	}
	if child.IsZero() {
		return fmt.Errorf("%w: missing child", ErrHierarchy)
	}
	if child.tree != n.tree || (!ref.IsZero() && ref.tree != n.tree) {
		return ErrWrongTree
	}
	if child.IsDocument() || child.Host() != (Node{}) {
		return fmt.Errorf("%w: %s cannot be inserted", ErrHierarchy, child.Type())
	}
	if child.Contains(n) {
		return fmt.Errorf("%w: node is an ancestor of the parent", ErrHierarchy)
	}
	if !ref.IsZero() && ref.Parent() != n {
		return ErrNotFound
	}
	return nil
}

// RemoveChild detaches child from n.
func (n Node) RemoveChild(child Node) error {
	if child.IsZero() || child.Parent() != n {
		return ErrNotFound
	}
	n.detach(child)
	n.tree.notify(MutationRecord{Target: n, Removed: []Node{child}})
	return nil
}

// ReplaceChild replaces oldChild with newChild.
func (n Node) ReplaceChild(newChild, oldChild Node) error {
	if oldChild.IsZero() || oldChild.Parent() != n {
		return ErrNotFound
	}
	if newChild == oldChild {
		return nil
	}
	if err := n.InsertBefore(newChild, oldChild); err != nil {
		return err
	}
	return n.RemoveChild(oldChild)
}

// ReplaceChildren removes every child of n and appends nodes in order.
func (n Node) ReplaceChildren(nodes ...Node) error {
	for _, c := range nodes {
		if err := n.validateInsert(c, Node{}); err != nil {
			return err
		}
	}
	if old := n.Children(); len(old) > 0 {
		for _, c := range old {
			n.detach(c)
		}
		n.tree.notify(MutationRecord{Target: n, Removed: old})
	}
	for _, c := range nodes {
		if err := n.AppendChild(c); err != nil {
			return err
		}
	}
	return nil
}

func (n Node) detach(child Node) {
	r := n.rec()
	if i := indexOf(r.children, child.id); i >= 0 {
		r.children = append(r.children[:i], r.children[i+1:]...)
	}
	child.rec().parent = 0
}

// Adopt moves node (and its shadow-including subtree) into the document n,
// removing it from its current parent first.
func (n Node) Adopt(node Node) error {
	if !n.IsDocument() {
		return ErrNotDocument
	}
	if node.tree != n.tree {
		return ErrWrongTree
	}
	if node.IsDocument() {
		return fmt.Errorf("%w: documents cannot be adopted", ErrHierarchy)
	}
	if p := node.Parent(); !p.IsZero() {
		if err := p.RemoveChild(node); err != nil {
			return err
		}
	}
	n.tree.setOwner(node.id, n.id)
	return nil
}

func (t *Tree) setOwner(id, owner NodeID) {
	r := t.nodes[id]
	if r.owner == owner {
		return
	}
	r.owner = owner
	for _, c := range r.children {
		t.setOwner(c, owner)
	}
	if r.shadow != 0 {
		t.setOwner(r.shadow, owner)
	}
}

// SetAttribute sets the value of the attribute with the given name. Names are
// lower-cased.
func (n Node) SetAttribute(name, value string) error {
	return n.setAttr("", strings.ToLower(name), value)
}

// SetAttributeNS sets the value of a namespaced attribute.
func (n Node) SetAttributeNS(namespace, name, value string) error {
	return n.setAttr(namespace, name, value)
}

func (n Node) setAttr(namespace, name, value string) error {
	r := n.rec()
	if r == nil || r.typ != ElementNode {
		return ErrNotElement
	}
	for i := range r.attrs {
		if r.attrs[i].Namespace == namespace && r.attrs[i].Name == name {
			r.attrs[i].Value = value
			return nil
		}
	}
	r.attrs = append(r.attrs, Attr{Namespace: namespace, Name: name, Value: value})
	return nil
}

// RemoveAttribute removes the attribute with the given qualified name and
// reports whether it was present.
func (n Node) RemoveAttribute(name string) bool {
	r := n.rec()
	if r == nil {
		return false
	}
	name = strings.ToLower(name)
	for i, a := range r.attrs {
		if a.Name == name {
			r.attrs = append(r.attrs[:i], r.attrs[i+1:]...)
			return true
		}
	}
	return false
}

// SetReadyState updates the loading state of a document.
func (n Node) SetReadyState(s ReadyState) error {
	d := n.docState()
	if d == nil {
		return ErrNotDocument
	}
	d.readyState = s
	return nil
}

// MarkImportDocument flags a document as reached through an import link.
func (n Node) MarkImportDocument() {
	if d := n.docState(); d != nil {
		d.importDocument = true
	}
}

// SetHasRegistry associates (or disassociates) a document with a registry.
func (n Node) SetHasRegistry(v bool) {
	if d := n.docState(); d != nil {
		d.hasRegistry = v
	}
}

// MarkImportLoadHandled records that the load of an import document has been
// processed.
func (n Node) MarkImportLoadHandled() {
	if d := n.docState(); d != nil {
		d.loadHandled = true
	}
}

// SetImport links an import document to a <link rel="import"> element.
func (n Node) SetImport(doc Node) error {
	r := n.rec()
	if r == nil || r.typ != ElementNode {
		return ErrNotElement
	}
	if !doc.IsZero() && !doc.IsDocument() {
		return ErrNotDocument
	}
	r.importDoc = doc.id
	return nil
}

// OnLoad registers a listener invoked by DispatchLoad.
func (n Node) OnLoad(fn func()) {
	if r := n.rec(); r != nil {
		r.onLoad = append(r.onLoad, fn)
	}
}

// DispatchLoad invokes the load listeners registered on n, in registration
// order.
func (n Node) DispatchLoad() {
	r := n.rec()
	if r == nil {
		return
	}
	listeners := append([]func(){}, r.onLoad...)
	for _, fn := range listeners {
		fn()
	}
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
