package core

import "github.com/hupe1980/customelements/promise"

// Generator produces the factory of a lazy definition. It is invoked at most
// once, the first time an element with the slot's name needs upgrading.
type Generator func() (LazyResult, error)

// LazyResult is what a Generator yields: either a factory usable right away
// or a promise that settles with one later.
type LazyResult struct {
	Factory Factory
	Later   *promise.Promise[Factory]
}

// Ready wraps a factory available immediately.
func Ready(f Factory) LazyResult { return LazyResult{Factory: f} }

// Eventually wraps a factory that becomes available when p resolves.
func Eventually(p *promise.Promise[Factory]) LazyResult { return LazyResult{Later: p} }

// IsZero reports whether the result carries neither a factory nor a promise.
func (r LazyResult) IsZero() bool { return r.Factory == nil && r.Later == nil }

// LazyDefinition is a slot for a definition resolved on first need.
type LazyDefinition struct {
	LocalName string
	Generator Generator
	State     LazyState
}
