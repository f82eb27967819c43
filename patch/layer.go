package patch

import (
	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
	"github.com/hupe1980/customelements/engine"
	"github.com/hupe1980/customelements/logging"
)

// Layer performs tree mutations and tells the engine about them.
//
// Only mutations made through the Layer produce reactions. Mutations applied
// to dom nodes directly are seen by a ConstructionObserver while the document
// loads, and by nothing afterwards.
type Layer struct {
	engine *engine.Engine
	logger logging.Logger

	// depth is non-zero while a Layer operation mutates the tree.
	depth int
}

// New creates a Layer for e. It logs through e's logger.
func New(e *engine.Engine) *Layer {
	return &Layer{engine: e, logger: e.Logger()}
}

// Engine returns the engine the layer reports to.
func (l *Layer) Engine() *engine.Engine { return l.engine }

// Mutating reports whether a Layer operation is in progress.
func (l *Layer) Mutating() bool { return l.depth > 0 }

func (l *Layer) enter() func() {
	l.depth++
	return func() { l.depth-- }
}

// AppendChild appends child to parent.
func (l *Layer) AppendChild(parent, child dom.Node) error {
	return l.InsertBefore(parent, child, dom.Node{})
}

// InsertBefore inserts child into parent before ref.
//
// The children of an inserted fragment are connected one by one when parent
// is connected. Any other node that was connected before the move is
// disconnected first, then connected again if parent is connected.
func (l *Layer) InsertBefore(parent, child, ref dom.Node) error {
	defer l.enter()()

	if child.Type() == dom.FragmentNode {
		inserted := child.Children()
		if err := parent.InsertBefore(child, ref); err != nil {
			return err
		}
		if !parent.IsConnected() {
			return nil
		}
		for _, n := range inserted {
			if err := l.engine.ConnectSubtree(n); err != nil {
				return err
			}
		}
		return nil
	}

	wasConnected := child.IsConnected()
	if err := parent.InsertBefore(child, ref); err != nil {
		return err
	}
	if wasConnected {
		l.engine.DisconnectSubtree(child)
	}
	if parent.IsConnected() {
		return l.engine.ConnectSubtree(child)
	}
	return nil
}

// ReplaceChild replaces oldChild of parent with newChild.
func (l *Layer) ReplaceChild(parent, newChild, oldChild dom.Node) error {
	defer l.enter()()

	if newChild.Type() == dom.FragmentNode {
		inserted := newChild.Children()
		if err := parent.ReplaceChild(newChild, oldChild); err != nil {
			return err
		}
		if !parent.IsConnected() {
			return nil
		}
		l.engine.DisconnectSubtree(oldChild)
		for _, n := range inserted {
			if err := l.engine.ConnectSubtree(n); err != nil {
				return err
			}
		}
		return nil
	}

	wasConnected := newChild.IsConnected()
	if err := parent.ReplaceChild(newChild, oldChild); err != nil {
		return err
	}
	connected := parent.IsConnected()
	if connected {
		l.engine.DisconnectSubtree(oldChild)
	}
	if wasConnected {
		l.engine.DisconnectSubtree(newChild)
	}
	if connected {
		return l.engine.ConnectSubtree(newChild)
	}
	return nil
}

// RemoveChild removes child from parent, disconnecting it if it was connected.
func (l *Layer) RemoveChild(parent, child dom.Node) error {
	defer l.enter()()

	wasConnected := child.IsConnected()
	if err := parent.RemoveChild(child); err != nil {
		return err
	}
	if wasConnected {
		l.engine.DisconnectSubtree(child)
	}
	return nil
}

// SetAttribute sets an attribute and reports the change to a custom element.
func (l *Layer) SetAttribute(el dom.Node, name, value string) error {
	if l.engine.State(el) != core.StateCustom {
		return el.SetAttribute(name, value)
	}
	old := attrValue(el.GetAttribute(name))
	if err := el.SetAttribute(name, value); err != nil {
		return err
	}
	l.engine.AttributeChangedReaction(el, core.AttributeChange{
		Name:     name,
		OldValue: old,
		NewValue: attrValue(el.GetAttribute(name)),
	})
	return nil
}

// SetAttributeNS sets a namespaced attribute and reports the change to a
// custom element.
func (l *Layer) SetAttributeNS(el dom.Node, namespace, name, value string) error {
	if l.engine.State(el) != core.StateCustom {
		return el.SetAttributeNS(namespace, name, value)
	}
	old := attrValue(el.GetAttributeNS(namespace, name))
	if err := el.SetAttributeNS(namespace, name, value); err != nil {
		return err
	}
	l.engine.AttributeChangedReaction(el, core.AttributeChange{
		Name:      name,
		Namespace: namespace,
		OldValue:  old,
		NewValue:  attrValue(el.GetAttributeNS(namespace, name)),
	})
	return nil
}

// RemoveAttribute removes an attribute and reports whether it was present.
// Removing an attribute from a custom element reports the change.
func (l *Layer) RemoveAttribute(el dom.Node, name string) bool {
	if l.engine.State(el) != core.StateCustom {
		return el.RemoveAttribute(name)
	}
	old := attrValue(el.GetAttribute(name))
	if !el.RemoveAttribute(name) {
		return false
	}
	l.engine.AttributeChangedReaction(el, core.AttributeChange{Name: name, OldValue: old})
	return true
}

func attrValue(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}

// SetInnerHTML replaces the children of n (an element or shadow root) with
// the nodes parsed from markup.
//
// Custom elements that were connected descendants of n get the disconnected
// reaction. The new content is then upgraded when n's document is associated
// with a registry, and only patched otherwise.
func (l *Layer) SetInnerHTML(n dom.Node, markup string) error {
	defer l.enter()()

	var removed []dom.Node
	if n.IsConnected() {
		dom.WalkDeepDescendantElements(n, func(el dom.Node) {
			if el != n {
				removed = append(removed, el)
			}
		}, nil)
	}

	nodes, err := dom.ParseFragment(n, markup)
	if err != nil {
		return err
	}
	if err := n.ReplaceChildren(nodes...); err != nil {
		return err
	}

	for _, el := range removed {
		if l.engine.State(el) == core.StateCustom {
			l.engine.DisconnectedReaction(el)
		}
	}

	if !n.OwnerDocument().HasRegistry() {
		l.engine.PatchSubtree(n)
		return nil
	}
	return l.engine.PatchAndUpgradeSubtree(n)
}

// CreateElement creates an element in doc, running its factory when the name
// is defined.
func (l *Layer) CreateElement(doc dom.Node, name string) (dom.Node, error) {
	return l.engine.CreateElement(doc, name)
}

// ImportNode copies node into doc. Elements in the copy are upgraded when doc
// is associated with a registry, and only patched otherwise.
func (l *Layer) ImportNode(doc, node dom.Node, deep bool) (dom.Node, error) {
	clone, err := cloneInto(doc, node, deep)
	if err != nil {
		return dom.Node{}, err
	}
	if !doc.HasRegistry() {
		l.engine.PatchSubtree(clone)
		return clone, nil
	}
	if err := l.engine.PatchAndUpgradeSubtree(clone); err != nil {
		return clone, err
	}
	return clone, nil
}

func cloneInto(doc, n dom.Node, deep bool) (dom.Node, error) {
	var clone dom.Node
	var err error
	switch n.Type() {
	case dom.ElementNode:
		clone, err = doc.CreateElement(n.LocalName())
		if err != nil {
			return dom.Node{}, err
		}
		for _, a := range n.Attributes() {
			if err := clone.SetAttributeNS(a.Namespace, a.Name, a.Value); err != nil {
				return dom.Node{}, err
			}
		}
	case dom.TextNode:
		return doc.CreateTextNode(n.Text())
	case dom.FragmentNode:
		clone, err = doc.CreateDocumentFragment()
		if err != nil {
			return dom.Node{}, err
		}
	default:
		return dom.Node{}, dom.ErrHierarchy
	}
	if !deep {
		return clone, nil
	}
	for _, c := range n.Children() {
		cc, err := cloneInto(doc, c, true)
		if err != nil {
			return dom.Node{}, err
		}
		if err := clone.AppendChild(cc); err != nil {
			return dom.Node{}, err
		}
	}
	return clone, nil
}

// AdoptNode moves node into doc. A connected node is disconnected first; each
// custom element in the subtree then gets the adopted reaction.
func (l *Layer) AdoptNode(doc, node dom.Node) error {
	defer l.enter()()

	oldDoc := node.OwnerDocument()
	wasConnected := node.IsConnected()
	if err := doc.Adopt(node); err != nil {
		return err
	}
	if wasConnected {
		l.engine.DisconnectSubtree(node)
	}
	if oldDoc == doc {
		return nil
	}
	dom.WalkDeepDescendantElements(node, func(el dom.Node) {
		if l.engine.State(el) == core.StateCustom {
			l.engine.AdoptedReaction(el, oldDoc, doc)
		}
	}, nil)
	return nil
}

// AttachShadow creates a shadow root for host and patches it.
func (l *Layer) AttachShadow(host dom.Node) (dom.Node, error) {
	root, err := host.AttachShadow()
	if err != nil {
		return dom.Node{}, err
	}
	l.engine.PatchNode(root)
	return root, nil
}
