// Package customelements provides a registry façade over the upgrade engine
// that turns plain elements of a dom tree into instances of registered custom
// element definitions. Most applications interact with this package by:
//  1. Creating a Registry for a document via New() or NewFromEnv()
//  2. Defining factories for tag names (Define, or DefineLazy for factories
//     that are produced on first use)
//  3. Mutating the tree through the Registry's patch layer so that reactions
//     (connected, disconnected, adopted, attribute changed) are dispatched
//
// The façade validates names, rejects duplicates and reentrant definitions,
// and delegates everything else to engine.Engine. Defaults suit tests and
// local tooling: an in-memory definition store, an immediate flush trigger and
// a no-op logger.
package customelements

import (
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/hupe1980/customelements/config"
	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
	"github.com/hupe1980/customelements/engine"
	"github.com/hupe1980/customelements/logging"
	"github.com/hupe1980/customelements/patch"
	"github.com/hupe1980/customelements/promise"
)

// Options configures the Registry instance.
type Options struct {
	// PreferPerformance walks light trees only: shadow roots and import
	// documents are not entered and no construction observer is installed.
	PreferPerformance bool

	// Store keeps definitions (defaults to an in-memory store if nil).
	Store core.DefinitionStore

	// Trigger decides when flushes run (defaults to engine.ImmediateTrigger).
	// A *engine.BatchTrigger is drained by Registry.Flush.
	Trigger engine.FlushTrigger

	// TracerProvider for flush spans (defaults to the global provider if nil).
	TracerProvider trace.TracerProvider

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Registry associates custom element names with factories for one document.
type Registry struct {
	document dom.Node
	engine   *engine.Engine
	layer    *patch.Layer
	observer *patch.ConstructionObserver
	batch    *engine.BatchTrigger
}

// New creates a Registry for document. The document is associated with the
// registry, and unless PreferPerformance is set its existing elements are
// upgraded and parser insertions are watched while it loads.
func New(document dom.Node, optFns ...func(o *Options)) *Registry {
	opts := Options{
		Trigger: engine.ImmediateTrigger{},
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	document.SetHasRegistry(true)

	e := engine.New(document, func(o *engine.Options) {
		o.Config.PreferPerformance = opts.PreferPerformance
		if opts.Store != nil {
			o.Store = opts.Store
		}
		o.Trigger = opts.Trigger
		o.Logger = opts.Logger
		o.TracerProvider = opts.TracerProvider
	})

	r := &Registry{
		document: document,
		engine:   e,
		layer:    patch.New(e),
	}
	if b, ok := opts.Trigger.(*engine.BatchTrigger); ok {
		r.batch = b
	}
	if !opts.PreferPerformance {
		r.observer = r.layer.ObserveConstruction(document)
	}
	return r
}

// NewFromEnv creates a Registry configured by config.Load. Additional option
// functions run after the environment settings are applied.
func NewFromEnv(document dom.Node, optFns ...func(o *Options)) (*Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	fns := append([]func(o *Options){func(o *Options) {
		o.PreferPerformance = cfg.PreferPerformance
		o.Logger = cfg.Logger()
		if cfg.FlushMode == config.FlushModeBatch {
			o.Trigger = engine.NewBatchTrigger()
		}
		if !cfg.Tracing {
			o.TracerProvider = noop.NewTracerProvider()
		}
	}}, optFns...)

	return New(document, fns...), nil
}

// Define registers f as the factory for name and schedules a flush that
// upgrades the matching elements of the document.
//
// With the immediate trigger the flush runs before Define returns, and an
// upgrade error raised by it is returned. The definition stays registered in
// that case.
func (r *Registry) Define(name string, f core.Factory) error {
	if !core.ValidFactory(f) {
		return fmt.Errorf("%w: %T", core.ErrInvalidFactory, f)
	}
	if err := r.checkDefinable(name); err != nil {
		return err
	}
	if other, ok := r.engine.Store().DefinitionByFactory(f); ok {
		return fmt.Errorf("%w: factory already registered for %q", core.ErrAlreadyDefined, other.LocalName)
	}

	def := r.engine.RegisterDefinition(name, f)
	if def == nil {
		return nil
	}
	return r.engine.EnqueueDefinition(def)
}

// DefineLazy registers gen as the producer of name's factory. gen runs at
// most once, the first time an element named name needs upgrading.
func (r *Registry) DefineLazy(name string, gen core.Generator) error {
	if gen == nil {
		return fmt.Errorf("%w: %q", core.ErrInvalidGenerator, name)
	}
	if err := r.checkDefinable(name); err != nil {
		return err
	}

	slot := r.engine.RegisterLazyDefinition(name, gen)
	if slot == nil {
		return nil
	}
	return r.engine.EnqueueLazyDefinition(slot)
}

func (r *Registry) checkDefinable(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", core.ErrInvalidName, name)
	}
	if r.engine.Store().Has(name) {
		return fmt.Errorf("%w: %q", core.ErrAlreadyDefined, name)
	}
	if r.engine.IsDefining() {
		return fmt.Errorf("%w: %q", core.ErrDefinitionRunning, name)
	}
	return nil
}

// Get returns the factory defined for name. Lazy definitions whose factory is
// not known yet are not reported.
func (r *Registry) Get(name string) (core.Factory, bool) {
	def, ok := r.engine.Store().Definition(name)
	if !ok {
		return nil, false
	}
	return def.Factory, true
}

// Upgrade patches and upgrades root and its descendants, including elements
// that are not connected.
func (r *Registry) Upgrade(root dom.Node) error {
	return r.engine.PatchAndUpgradeSubtree(root)
}

// WhenDefined returns a promise settled once name is defined and its elements
// in the document have been upgraded.
func (r *Registry) WhenDefined(name string) (*promise.Promise[struct{}], error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidName, name)
	}
	return r.engine.WhenDefined(name), nil
}

// WrapFlushTrigger decorates the flush trigger with outer. The construction
// observer is stopped, leaving parser insertions to the caller.
func (r *Registry) WrapFlushTrigger(outer engine.FlushTrigger) {
	if r.observer != nil {
		r.observer.Disconnect()
	}
	r.engine.WrapFlushTrigger(outer)
}

// Flush runs the flushes queued on a batch trigger. It does nothing for other
// triggers.
func (r *Registry) Flush() error {
	if r.batch == nil {
		return nil
	}
	return r.batch.Run()
}

// Document returns the document the registry serves.
func (r *Registry) Document() dom.Node { return r.document }

// Engine returns the underlying engine.
func (r *Registry) Engine() *engine.Engine { return r.engine }

// Layer returns the patch layer that routes mutations through the engine.
func (r *Registry) Layer() *patch.Layer { return r.layer }

// Observer returns the construction observer, or nil in prefer-performance
// mode.
func (r *Registry) Observer() *patch.ConstructionObserver { return r.observer }
