package engine

import (
	"fmt"
	"slices"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/promise"
)

// RegisterDefinition introspects f for its optional reactions and observed
// attributes and stores the resulting definition under name.
//
// Introspection runs with IsDefining reporting true. When it fails (a nil or
// non-comparable factory, an ObservedAttributes error or panic) the
// registration is dropped: nothing is stored and nil is returned. The caller
// is expected to have validated name and rejected duplicates.
func (e *Engine) RegisterDefinition(name string, f core.Factory) *core.Definition {
	def, err := e.introspect(name, f)
	if err != nil {
		e.logger.Debug("Definition dropped", "local_name", name, "error", err)
		return nil
	}
	if err := e.store.SetDefinition(name, def); err != nil {
		e.logger.Debug("Definition dropped", "local_name", name, "error", err)
		return nil
	}
	return def
}

func (e *Engine) introspect(name string, f core.Factory) (def *core.Definition, err error) {
	e.defining = definingIntrospecting
	defer func() { e.defining = definingIdle }()
	defer func() {
		if r := recover(); r != nil {
			def, err = nil, fmt.Errorf("introspect %s: panic: %v", name, r)
		}
	}()

	if !core.ValidFactory(f) {
		return nil, core.ErrInvalidFactory
	}
	def = &core.Definition{LocalName: name, Factory: f}
	if cb, ok := f.(core.ConnectedCallback); ok {
		def.ConnectedCallback = cb.Connected
	}
	if cb, ok := f.(core.DisconnectedCallback); ok {
		def.DisconnectedCallback = cb.Disconnected
	}
	if cb, ok := f.(core.AdoptedCallback); ok {
		def.AdoptedCallback = cb.Adopted
	}
	if cb, ok := f.(core.AttributeChangedCallback); ok {
		def.AttributeChangedCallback = cb.AttributeChanged
	}
	if obs, ok := f.(core.AttributeObserver); ok {
		names, err := obs.ObservedAttributes()
		if err != nil {
			return nil, fmt.Errorf("introspect %s: observed attributes: %w", name, err)
		}
		for _, n := range names {
			if !slices.Contains(def.ObservedAttributes, n) {
				def.ObservedAttributes = append(def.ObservedAttributes, n)
			}
		}
	}
	return def, nil
}

// RegisterLazyDefinition stores an unresolved lazy slot for name. It returns
// nil when the store refuses the slot.
func (e *Engine) RegisterLazyDefinition(name string, gen core.Generator) *core.LazyDefinition {
	slot := &core.LazyDefinition{LocalName: name, Generator: gen, State: core.LazyUnresolved}
	if err := e.store.SetLazy(name, slot); err != nil {
		e.logger.Debug("Lazy definition dropped", "local_name", name, "error", err)
		return nil
	}
	return slot
}

// EnqueueDefinition queues def for the next flush and schedules one if none is
// scheduled. With the immediate trigger the flush runs before EnqueueDefinition
// returns and its error is returned.
func (e *Engine) EnqueueDefinition(def *core.Definition) error {
	return e.enqueue(def.LocalName)
}

// EnqueueLazyDefinition queues a lazy slot for the next flush. Matching
// elements found by that flush resolve the slot.
func (e *Engine) EnqueueLazyDefinition(slot *core.LazyDefinition) error {
	return e.enqueue(slot.LocalName)
}

func (e *Engine) enqueue(name string) error {
	e.pending = append(e.pending, name)
	return e.schedule()
}

// WhenDefined returns the promise settled once name is defined and its
// elements have been processed by a flush. Repeated calls return the same
// promise. It settles immediately only when a definition exists and no flush
// still owes name its bucket.
func (e *Engine) WhenDefined(name string) *promise.Promise[struct{}] {
	if p, ok := e.whenDefined[name]; ok {
		return p
	}
	p := promise.New[struct{}]()
	e.whenDefined[name] = p
	if _, ok := e.store.Definition(name); ok && !e.queued(name) {
		p.Resolve(struct{}{})
	}
	return p
}

func (e *Engine) queued(name string) bool {
	return e.inflight[name] > 0 || slices.Contains(e.pending, name)
}
