// Package patch routes tree mutations through the upgrade engine.
//
// The dom package knows nothing about custom elements. Layer wraps its
// mutating operations so that inserting, removing, adopting or re-parsing
// nodes dispatches the matching reactions and upgrades elements that become
// connected. ConstructionObserver covers the remaining case: nodes inserted
// by the parser while a document is still loading.
package patch
