package engine

import (
	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
)

// ConnectedReaction runs the connected reaction of el's definition, if any.
func (e *Engine) ConnectedReaction(el dom.Node) {
	if def := e.DefinitionOf(el); def != nil && def.ConnectedCallback != nil {
		def.ConnectedCallback(el)
	}
}

// DisconnectedReaction runs the disconnected reaction of el's definition, if any.
func (e *Engine) DisconnectedReaction(el dom.Node) {
	if def := e.DefinitionOf(el); def != nil && def.DisconnectedCallback != nil {
		def.DisconnectedCallback(el)
	}
}

// AdoptedReaction runs the adopted reaction of el's definition, if any.
func (e *Engine) AdoptedReaction(el, oldDocument, newDocument dom.Node) {
	if def := e.DefinitionOf(el); def != nil && def.AdoptedCallback != nil {
		def.AdoptedCallback(el, oldDocument, newDocument)
	}
}

// AttributeChangedReaction runs the attribute-changed reaction of el's
// definition when change.Name is observed.
func (e *Engine) AttributeChangedReaction(el dom.Node, change core.AttributeChange) {
	def := e.DefinitionOf(el)
	if def == nil || def.AttributeChangedCallback == nil || !def.Observes(change.Name) {
		return
	}
	def.AttributeChangedCallback(el, change)
}
