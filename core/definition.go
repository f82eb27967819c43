package core

import (
	"slices"

	"github.com/hupe1980/customelements/dom"
)

// Definition binds a tag name to a factory and its lifecycle reactions.
// Reaction funcs are nil when the factory does not implement the
// corresponding interface.
type Definition struct {
	LocalName string
	Factory   Factory

	ConnectedCallback        func(el dom.Node)
	DisconnectedCallback     func(el dom.Node)
	AdoptedCallback          func(el, oldDocument, newDocument dom.Node)
	AttributeChangedCallback func(el dom.Node, change AttributeChange)

	// ObservedAttributes is ordered and free of duplicates.
	ObservedAttributes []string

	construction []constructionEntry
}

type constructionEntry struct {
	node        dom.Node
	constructed bool
}

// Observes reports whether name is an observed attribute.
func (d *Definition) Observes(name string) bool {
	return slices.Contains(d.ObservedAttributes, name)
}

// PushConstruction records el as being constructed by the factory.
func (d *Definition) PushConstruction(el dom.Node) {
	d.construction = append(d.construction, constructionEntry{node: el})
}

// PopConstruction removes the innermost construction entry.
func (d *Definition) PopConstruction() (dom.Node, bool) {
	n := len(d.construction)
	if n == 0 {
		return dom.Node{}, false
	}
	top := d.construction[n-1]
	d.construction = d.construction[:n-1]
	return top.node, true
}

// Constructing returns the innermost element under construction and whether
// the factory already claimed it. ok is false when the stack is empty.
func (d *Definition) Constructing() (el dom.Node, constructed, ok bool) {
	n := len(d.construction)
	if n == 0 {
		return dom.Node{}, false, false
	}
	top := d.construction[n-1]
	return top.node, top.constructed, true
}

// MarkConstructed flags the innermost entry as claimed by the factory.
func (d *Definition) MarkConstructed() {
	if n := len(d.construction); n > 0 {
		d.construction[n-1].constructed = true
	}
}

// ConstructionDepth returns the number of elements under construction.
func (d *Definition) ConstructionDepth() int { return len(d.construction) }
