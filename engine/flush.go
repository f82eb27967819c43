package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
)

type flushLogger interface {
	LogFlush(flushID string, definitions, upgraded int, dur time.Duration, err error)
}

// runScheduled is the flush body handed to the trigger. It does nothing unless
// a flush is scheduled.
//
// The batch of queued names is taken and the scheduled flag cleared before the
// walk, so definitions enqueued while the flush runs schedule a flush of their
// own. The document is walked once: undefined elements whose name is in the
// batch go to that name's bucket, other undefined elements with a definition
// or lazy slot go to the stable list. Stable elements upgrade first, then each
// bucket in registration order, settling the name's WhenDefined promise after
// its bucket.
func (e *Engine) runScheduled() (err error) {
	if e.flush != flushScheduled {
		return nil
	}
	e.flush = flushIdle
	batch := e.pending
	e.pending = nil
	for _, name := range batch {
		e.inflight[name]++
	}

	flushID := uuid.NewString()
	_, span := e.tracer.Start(context.Background(), "customelements.flush", trace.WithAttributes(
		attribute.String("flush.id", flushID),
		attribute.StringSlice("flush.definitions", batch),
	))
	start := time.Now()
	upgraded := 0
	defer func() {
		span.SetAttributes(attribute.Int("flush.upgraded", upgraded))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "flush aborted")
		}
		span.End()
		e.logFlush(flushID, len(batch), upgraded, time.Since(start), err)
	}()

	buckets := make(map[string][]dom.Node, len(batch))
	for _, name := range batch {
		buckets[name] = nil
	}
	var stable []dom.Node
	classify := func(el dom.Node) error {
		if e.State(el) != core.StateUndefined {
			return nil
		}
		name := el.LocalName()
		if bucket, ok := buckets[name]; ok {
			buckets[name] = append(bucket, el)
		} else if e.store.Has(name) {
			stable = append(stable, el)
		}
		return nil
	}
	if err := e.PatchAndUpgradeSubtree(e.document, WithUpgrade(classify)); err != nil {
		e.requeue(batch)
		return err
	}
	span.AddEvent("classified", trace.WithAttributes(attribute.Int("flush.stable", len(stable))))

	for _, el := range stable {
		if err := e.upgradeCounted(el, &upgraded); err != nil {
			e.requeue(batch)
			return err
		}
	}

	for i, name := range batch {
		for _, el := range buckets[name] {
			if err := e.upgradeCounted(el, &upgraded); err != nil {
				e.requeue(batch[i:])
				return err
			}
		}
		e.release(name)
		if p, ok := e.whenDefined[name]; ok {
			p.Resolve(struct{}{})
		}
	}
	return nil
}

func (e *Engine) upgradeCounted(el dom.Node, upgraded *int) error {
	before := e.State(el)
	if err := e.Upgrade(el); err != nil {
		return err
	}
	if before == core.StateUndefined && e.State(el) == core.StateCustom {
		*upgraded++
	}
	return nil
}

// requeue puts names whose bucket was not completed back at the front of the
// queue. No flush is scheduled for them; the next enqueue or ScheduleFlush
// picks them up.
func (e *Engine) requeue(names []string) {
	for _, name := range names {
		e.release(name)
	}
	e.pending = append(append([]string(nil), names...), e.pending...)
}

func (e *Engine) release(name string) {
	if e.inflight[name] <= 1 {
		delete(e.inflight, name)
		return
	}
	e.inflight[name]--
}

func (e *Engine) logFlush(flushID string, definitions, upgraded int, dur time.Duration, err error) {
	if fl, ok := e.logger.(flushLogger); ok {
		fl.LogFlush(flushID, definitions, upgraded, dur, err)
		return
	}
	if err != nil {
		e.logger.Error("Flush aborted", "flush_id", flushID, "definitions", definitions, "upgraded", upgraded, "error", err)
		return
	}
	e.logger.Debug("Flush completed", "flush_id", flushID, "definitions", definitions, "upgraded", upgraded, "duration", dur)
}
