package core

// DefinitionStore holds definitions and lazy slots permanently; nothing is
// ever removed except a lazy slot replaced by its resolved definition.
//
// At most one of definition and lazy slot exists per name. SetDefinition
// clears the lazy slot of the same name. Implementations reject overwriting
// an existing definition with ErrAlreadyDefined.
type DefinitionStore interface {
	SetDefinition(name string, def *Definition) error
	SetLazy(name string, slot *LazyDefinition) error
	Definition(name string) (*Definition, bool)
	DefinitionByFactory(f Factory) (*Definition, bool)
	Lazy(name string) (*LazyDefinition, bool)
	ClearLazy(name string)
	// Has reports whether name has a definition or a lazy slot.
	Has(name string) bool
	// Names returns every defined or lazily defined name, sorted.
	Names() []string
}
