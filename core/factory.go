package core

import (
	"reflect"

	"github.com/hupe1980/customelements/dom"
)

// Factory constructs custom elements for one definition. New must obtain its
// element from h.Element, passing the factory itself, and return that same
// element. Factories key the factory-to-definition table, so their dynamic
// type must be comparable; pointer receivers are the usual choice.
type Factory interface {
	New(h Host) (dom.Node, error)
}

// Host is the base-element constructor available to factories.
//
// During an upgrade Element returns the element being upgraded. Outside an
// upgrade, when the engine creates an element synchronously, it returns a
// fresh element of the factory's tag name that is already custom.
type Host interface {
	Element(f Factory) (dom.Node, error)
}

// ValidFactory reports whether f can be registered.
func ValidFactory(f Factory) bool {
	if f == nil {
		return false
	}
	t := reflect.TypeOf(f)
	if !t.Comparable() {
		return false
	}
	if t.Kind() == reflect.Pointer {
		return !reflect.ValueOf(f).IsNil()
	}
	return true
}

// AttributeChange describes an attribute mutation delivered to an
// AttributeChangedCallback. A nil OldValue means the attribute was absent; a
// nil NewValue means it was removed.
type AttributeChange struct {
	Name      string
	Namespace string
	OldValue  *string
	NewValue  *string
}

// ConnectedCallback is implemented by factories that react to their elements
// being connected to a document.
type ConnectedCallback interface {
	Connected(el dom.Node)
}

// DisconnectedCallback is implemented by factories that react to their
// elements being disconnected from a document.
type DisconnectedCallback interface {
	Disconnected(el dom.Node)
}

// AdoptedCallback is implemented by factories that react to their elements
// moving to another document.
type AdoptedCallback interface {
	Adopted(el, oldDocument, newDocument dom.Node)
}

// AttributeChangedCallback is implemented by factories that react to changes
// of observed attributes.
type AttributeChangedCallback interface {
	AttributeChanged(el dom.Node, change AttributeChange)
}

// AttributeObserver lists the attribute names an AttributeChangedCallback is
// interested in.
type AttributeObserver interface {
	ObservedAttributes() ([]string, error)
}
