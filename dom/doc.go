// Package dom provides the tree model the custom element engine operates on.
//
// All nodes of one or more documents live in a single arena (Tree) and are
// addressed by NodeID. Callers hold Node values, which are small comparable
// handles ({tree, id}) that can be used as map keys. Per-node data owned by
// other layers (upgrade state, attached definitions, patch markers) is kept in
// tables keyed by Node rather than embedded into the tree.
//
// The package covers the surface the engine consumes:
//
//   - tag names, ordered attributes (with namespaces) and presence checks
//   - the "connected to a document" predicate, crossing shadow root hosts
//   - document flags: browsing context, ready state and import association
//   - deep and light element walks (WalkDeepDescendantElements, WalkElements)
//   - synchronous child-list mutation observers
//   - HTML fragment parsing and rendering backed by golang.org/x/net/html
//
// A Tree is not safe for concurrent use. Like a browser document it is meant
// to be driven from a single goroutine.
package dom
