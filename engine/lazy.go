package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/hupe1980/customelements/core"
)

type lazyLogger interface {
	LogLazyResolution(localName, outcome string, err error)
}

// ResolveLazy runs the generator of name's lazy slot, at most once.
//
// It is a no-op when name has no slot or the slot is already pending. The slot
// turns pending before the generator runs. A generator error, panic or empty
// result leaves the slot pending for good and nothing is defined. A ready
// factory is registered right away and its definition returned so the caller
// can use it for the current upgrade. A factory that arrives later through a
// promise is registered and enqueued when the promise resolves; ResolveLazy
// returns nil in the meantime.
func (e *Engine) ResolveLazy(name string) *core.Definition {
	slot, ok := e.store.Lazy(name)
	if !ok || slot.State == core.LazyPending {
		return nil
	}
	slot.State = core.LazyPending

	_, span := e.tracer.Start(context.Background(), "customelements.resolve_lazy")
	span.SetAttributes(attribute.String("element.local_name", name))
	defer span.End()

	res, err := callGenerator(slot.Generator)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, "generator failed")
		e.logLazy(name, "none", err)
		return nil
	case res.Factory != nil:
		span.SetAttributes(attribute.String("lazy.outcome", "ready"))
		e.logLazy(name, "ready", nil)
		return e.RegisterDefinition(name, res.Factory)
	case res.Later != nil:
		span.SetAttributes(attribute.String("lazy.outcome", "eventually"))
		e.logLazy(name, "eventually", nil)
		res.Later.Then(func(f core.Factory, err error) {
			if err != nil {
				e.logLazy(name, "none", err)
				return
			}
			def := e.RegisterDefinition(name, f)
			if def == nil {
				return
			}
			if err := e.EnqueueDefinition(def); err != nil {
				e.logger.Error("Lazy definition flush failed", "local_name", name, "error", err)
			}
		})
		return nil
	default:
		span.SetAttributes(attribute.String("lazy.outcome", "none"))
		e.logLazy(name, "none", nil)
		return nil
	}
}

func callGenerator(gen core.Generator) (res core.LazyResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = core.LazyResult{}, fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return gen()
}

func (e *Engine) logLazy(name, outcome string, err error) {
	if ll, ok := e.logger.(lazyLogger); ok {
		ll.LogLazyResolution(name, outcome, err)
		return
	}
	if err != nil {
		e.logger.Debug("Lazy definition unavailable", "local_name", name, "error", err)
		return
	}
	e.logger.Debug("Lazy definition resolved", "local_name", name, "outcome", outcome)
}
