package engine

import (
	"errors"
	"sync"
)

// FlushTrigger decides when a scheduled flush runs. Trigger receives the
// flush body; it may run it right away, later, or more than once. The error
// returned by Trigger is reported to whoever enqueued the definition that
// caused the flush to be scheduled.
type FlushTrigger interface {
	Trigger(flush func() error) error
}

// FlushTriggerFunc adapts a function to FlushTrigger.
type FlushTriggerFunc func(flush func() error) error

// Trigger calls f(flush).
func (f FlushTriggerFunc) Trigger(flush func() error) error { return f(flush) }

// ImmediateTrigger runs the flush synchronously.
type ImmediateTrigger struct{}

// Trigger runs flush and returns its error.
func (ImmediateTrigger) Trigger(flush func() error) error { return flush() }

// BatchTrigger queues flushes until Run is called, coalescing every enqueue in
// between into a single pass.
type BatchTrigger struct {
	mu     sync.Mutex
	queued []func() error
}

// NewBatchTrigger returns an empty batch trigger.
func NewBatchTrigger() *BatchTrigger { return &BatchTrigger{} }

// Trigger queues flush.
func (b *BatchTrigger) Trigger(flush func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queued = append(b.queued, flush)
	return nil
}

// Len returns the number of queued flushes.
func (b *BatchTrigger) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queued)
}

// Run executes queued flushes until none are left, including flushes queued
// while running, and joins their errors.
func (b *BatchTrigger) Run() error {
	var errs []error
	for {
		b.mu.Lock()
		queued := b.queued
		b.queued = nil
		b.mu.Unlock()
		if len(queued) == 0 {
			return errors.Join(errs...)
		}
		for _, flush := range queued {
			if err := flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
}

// Wrap decorates inner with outer: outer receives a flush body that hands the
// real flush to inner, so whatever inner does still happens.
func Wrap(outer, inner FlushTrigger) FlushTrigger {
	return FlushTriggerFunc(func(flush func() error) error {
		return outer.Trigger(func() error { return inner.Trigger(flush) })
	})
}

// WrapFlushTrigger decorates the current trigger with outer.
func (e *Engine) WrapFlushTrigger(outer FlushTrigger) {
	e.trigger = Wrap(outer, e.trigger)
}

// schedule marks a flush as scheduled and hands runScheduled to the trigger,
// unless a flush is already scheduled.
func (e *Engine) schedule() error {
	if e.flush == flushScheduled {
		return nil
	}
	e.flush = flushScheduled
	return e.trigger.Trigger(e.runScheduled)
}

// ScheduleFlush schedules a flush when definitions are queued. It is used to
// resume definitions left queued by an aborted flush.
func (e *Engine) ScheduleFlush() error {
	if len(e.pending) == 0 {
		return nil
	}
	return e.schedule()
}
