package core

import (
	"errors"
	"fmt"

	"github.com/hupe1980/customelements/dom"
)

var (
	// ErrInvalidName is returned for tag names that are not valid custom
	// element names.
	ErrInvalidName = errors.New("invalid custom element name")

	// ErrAlreadyDefined is returned when a name already has a definition or a
	// lazy slot.
	ErrAlreadyDefined = errors.New("custom element already defined")

	// ErrDefinitionRunning is returned when a registration is attempted while
	// another registration is introspecting its factory.
	ErrDefinitionRunning = errors.New("a custom element definition is running")

	// ErrInvalidFactory is returned for nil or non-comparable factories.
	ErrInvalidFactory = errors.New("invalid custom element factory")

	// ErrInvalidGenerator is returned for a nil lazy generator.
	ErrInvalidGenerator = errors.New("invalid lazy definition generator")

	// ErrConstructionMismatch is returned when a factory produces a node other
	// than the one being upgraded.
	ErrConstructionMismatch = errors.New("factory did not produce the element being upgraded")

	// ErrAlreadyConstructed is returned when a factory asks its Host for the
	// element under construction twice.
	ErrAlreadyConstructed = errors.New("element already constructed")

	// ErrUnknownFactory is returned by Host.Element for a factory with no
	// registered definition.
	ErrUnknownFactory = errors.New("factory has no definition")
)

// UpgradeError reports a failed element construction. The element has been
// moved to StateFailed by the time the error is returned.
type UpgradeError struct {
	LocalName string
	Node      dom.Node
	Err       error
}

// Error implements the error interface.
func (e *UpgradeError) Error() string {
	return fmt.Sprintf("upgrade <%s> (node %d): %v", e.LocalName, e.Node.ID(), e.Err)
}

// Unwrap returns the underlying construction error.
func (e *UpgradeError) Unwrap() error { return e.Err }
