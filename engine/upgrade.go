package engine

import (
	"fmt"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
)

type upgradeLogger interface {
	LogUpgrade(localName string, nodeID int32, err error)
}

// Upgrade constructs el with its definition.
//
// Upgrade is a no-op when el is not undefined, when its document has no
// browsing context (unless it is an import document associated with a
// registry), or when no definition is available, including a lazy slot whose
// generator produced nothing yet. Otherwise the factory runs with el on the
// definition's construction stack. A factory error, panic or a result other
// than el moves el to StateFailed and is returned as a *core.UpgradeError.
//
// On success el becomes custom. Observed attributes already present are
// replayed to the attribute-changed reaction in observed order with an absent
// old value, then the connected reaction runs if el is connected.
func (e *Engine) Upgrade(el dom.Node) error {
	if !el.IsElement() || e.State(el) != core.StateUndefined {
		return nil
	}
	doc := el.OwnerDocument()
	if !doc.HasBrowsingContext() && !(doc.IsImportDocument() && doc.HasRegistry()) {
		return nil
	}

	name := el.LocalName()
	def, ok := e.store.Definition(name)
	if !ok {
		def = e.ResolveLazy(name)
		if def == nil {
			return nil
		}
	}

	if err := e.construct(def, el); err != nil {
		e.record(el).state = core.StateFailed
		uerr := &core.UpgradeError{LocalName: name, Node: el, Err: err}
		e.logUpgrade(name, el, uerr)
		return uerr
	}

	e.setCustom(el, def)
	e.logUpgrade(name, el, nil)

	if def.AttributeChangedCallback != nil && el.HasAttributes() {
		for _, attr := range def.ObservedAttributes {
			if v, ok := el.GetAttribute(attr); ok {
				e.AttributeChangedReaction(el, core.AttributeChange{Name: attr, NewValue: &v})
			}
		}
	}

	if el.IsConnected() {
		e.ConnectedReaction(el)
	}
	return nil
}

func (e *Engine) construct(def *core.Definition, el dom.Node) (err error) {
	def.PushConstruction(el)
	defer def.PopConstruction()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("factory panicked: %v", r)
		}
	}()

	out, err := def.Factory.New(e)
	if err != nil {
		return err
	}
	if out != el {
		return core.ErrConstructionMismatch
	}
	return nil
}

// Element implements core.Host.
//
// While f's definition has an element under construction, Element claims and
// returns it; claiming it twice fails with core.ErrAlreadyConstructed. With an
// empty construction stack it creates a new custom element in the document
// given to CreateElement, or the engine's document.
func (e *Engine) Element(f core.Factory) (dom.Node, error) {
	def, ok := e.store.DefinitionByFactory(f)
	if !ok {
		return dom.Node{}, core.ErrUnknownFactory
	}

	el, constructed, ok := def.Constructing()
	if ok {
		if constructed {
			return dom.Node{}, core.ErrAlreadyConstructed
		}
		def.MarkConstructed()
		return el, nil
	}

	doc := e.creating
	if doc.IsZero() {
		doc = e.document
	}
	el, err := doc.CreateElement(def.LocalName)
	if err != nil {
		return dom.Node{}, err
	}
	e.setCustom(el, def)
	e.PatchElement(el)
	return el, nil
}

// CreateElement creates an element named name in doc. When name has a
// definition (or a lazy slot that resolves right away) the factory builds the
// element, which is custom from the start; otherwise a plain element is
// created and patched.
func (e *Engine) CreateElement(doc dom.Node, name string) (el dom.Node, err error) {
	def, ok := e.store.Definition(name)
	if !ok && doc.HasRegistry() {
		def = e.ResolveLazy(name)
	}
	if def == nil {
		el, err := doc.CreateElement(name)
		if err != nil {
			return dom.Node{}, err
		}
		e.PatchElement(el)
		return el, nil
	}

	prev := e.creating
	e.creating = doc
	defer func() { e.creating = prev }()
	defer func() {
		if r := recover(); r != nil {
			el, err = dom.Node{}, fmt.Errorf("create <%s>: factory panicked: %v", name, r)
		}
	}()

	el, err = def.Factory.New(e)
	if err != nil {
		return dom.Node{}, fmt.Errorf("create <%s>: %w", name, err)
	}
	if !el.IsElement() || el.LocalName() != def.LocalName {
		return dom.Node{}, fmt.Errorf("create <%s>: %w", name, core.ErrConstructionMismatch)
	}
	return el, nil
}

func (e *Engine) logUpgrade(name string, el dom.Node, err error) {
	if ul, ok := e.logger.(upgradeLogger); ok {
		ul.LogUpgrade(name, int32(el.ID()), err)
		return
	}
	if err != nil {
		e.logger.Warn("Element upgrade failed", "local_name", name, "node_id", el.ID(), "error", err)
	}
}
