// Package core defines the domain contracts shared by the registry, the
// upgrade engine and the patch layer:
//
//   - State: the per-node upgrade state machine (undefined, custom, failed)
//   - Factory and Host: the element construction protocol
//   - Definition: a tag name bound to a factory and its lifecycle reactions
//   - LazyDefinition: a definition produced on first need by a Generator
//   - DefinitionStore: permanent storage for definitions and lazy slots
//
// Optional reaction interfaces (ConnectedCallback, DisconnectedCallback,
// AdoptedCallback, AttributeChangedCallback, AttributeObserver) are discovered
// on a Factory when it is registered. The package holds no engine logic so that
// stores and factories can be implemented without depending on the engine.
package core
