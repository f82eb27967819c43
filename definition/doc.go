// Package definition houses concrete implementations of core.DefinitionStore.
// The interface lives in core so the engine and the registry façade never
// depend on a particular backend; callers pick one when wiring the registry.
package definition
