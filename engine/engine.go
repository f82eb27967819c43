package engine

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/definition"
	"github.com/hupe1980/customelements/dom"
	"github.com/hupe1980/customelements/logging"
	"github.com/hupe1980/customelements/promise"
)

const tracerName = "github.com/hupe1980/customelements/engine"

// Config defines tuning parameters for the Engine's walking behavior.
type Config struct {
	// PreferPerformance replaces the deep walk with a light walk: shadow roots
	// and import documents are not entered and import links get no special
	// handling.
	PreferPerformance bool
}

// DefaultConfig walks shadow roots and import documents.
var DefaultConfig = Config{}

// Options configures an Engine instance using the functional options pattern.
//
// Example:
//
//	eng := engine.New(doc, func(o *engine.Options) {
//	    o.Logger = logger
//	    o.Config.PreferPerformance = true
//	})
type Options struct {
	// Config contains walking parameters.
	// Defaults to DefaultConfig if not specified.
	Config Config

	// Store keeps definitions and lazy slots.
	// Defaults to an in-memory store.
	Store core.DefinitionStore

	// Trigger decides when a scheduled flush runs.
	// Defaults to ImmediateTrigger.
	Trigger FlushTrigger

	// Logger provides structured logging for debugging and monitoring.
	// Defaults to NoOp logger if nil.
	Logger logging.Logger

	// TracerProvider creates the tracer used for flush and lazy resolution
	// spans. Defaults to the global provider.
	TracerProvider trace.TracerProvider
}

type flushState uint8

const (
	flushIdle flushState = iota
	flushScheduled
)

type definingState uint8

const (
	definingIdle definingState = iota
	definingIntrospecting
)

type nodeRecord struct {
	state      core.State
	definition *core.Definition
	patched    bool
}

// Engine upgrades the elements of one document. Per-element data lives in
// engine tables keyed by dom.Node rather than on the nodes themselves.
type Engine struct {
	document dom.Node
	store    core.DefinitionStore
	logger   logging.Logger
	tracer   trace.Tracer
	config   Config

	trigger  FlushTrigger
	flush    flushState
	defining definingState

	// pending holds names queued since the last flush started; inflight
	// counts names of running flushes whose bucket is not done yet.
	pending     []string
	inflight    map[string]int
	whenDefined map[string]*promise.Promise[struct{}]

	nodes   map[dom.Node]*nodeRecord
	patches *PatchManager

	// creating is the document used by Element outside of an upgrade.
	creating dom.Node
}

// New creates an Engine for document with sensible defaults.
func New(document dom.Node, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:  DefaultConfig,
		Store:   definition.NewInMemoryStore(),
		Trigger: ImmediateTrigger{},
		Logger:  logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Trigger == nil {
		opts.Trigger = ImmediateTrigger{}
	}
	tp := opts.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	return &Engine{
		document:    document,
		store:       opts.Store,
		logger:      opts.Logger,
		tracer:      tp.Tracer(tracerName),
		config:      opts.Config,
		trigger:     opts.Trigger,
		inflight:    make(map[string]int),
		whenDefined: make(map[string]*promise.Promise[struct{}]),
		nodes:       make(map[dom.Node]*nodeRecord),
		patches:     NewPatchManager(),
	}
}

// Document returns the document flushes walk.
func (e *Engine) Document() dom.Node { return e.document }

// Store returns the definition store.
func (e *Engine) Store() core.DefinitionStore { return e.store }

// Logger returns the engine logger.
func (e *Engine) Logger() logging.Logger { return e.logger }

// PreferPerformance reports whether the light walk is in use.
func (e *Engine) PreferPerformance() bool { return e.config.PreferPerformance }

// State returns the upgrade state of el.
func (e *Engine) State(el dom.Node) core.State {
	if r, ok := e.nodes[el]; ok {
		return r.state
	}
	return core.StateUndefined
}

// DefinitionOf returns the definition attached to a custom element.
func (e *Engine) DefinitionOf(el dom.Node) *core.Definition {
	if r, ok := e.nodes[el]; ok {
		return r.definition
	}
	return nil
}

// IsDefining reports whether a factory is being introspected. Registrations
// must be rejected while it is.
func (e *Engine) IsDefining() bool { return e.defining == definingIntrospecting }

// IsFlushScheduled reports whether the trigger owes the engine a flush.
func (e *Engine) IsFlushScheduled() bool { return e.flush == flushScheduled }

// Pending returns the names queued for the next flush, in registration order.
func (e *Engine) Pending() []string { return append([]string(nil), e.pending...) }

func (e *Engine) record(n dom.Node) *nodeRecord {
	r, ok := e.nodes[n]
	if !ok {
		r = &nodeRecord{}
		e.nodes[n] = r
	}
	return r
}

func (e *Engine) setCustom(el dom.Node, def *core.Definition) {
	r := e.record(el)
	r.state = core.StateCustom
	r.definition = def
}
