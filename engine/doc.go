// Package engine implements the upgrade engine behind the custom element
// registry.
//
// The Engine owns the pending-definition queue, the flush protocol, the
// per-element state machine and the reaction dispatchers. It is the single
// place where elements move from undefined to custom or failed.
//
// # Core Responsibilities
//
// Registration:
//   - Introspection of factories for optional reactions and observed attributes
//   - Lazy definitions resolved on first need through a generator
//   - Queueing newly registered definitions for the next flush
//
// Flushing:
//   - One walk of the whole document per flush
//   - Stable definitions upgrade first, then queued definitions in
//     registration order, each bucket in document order
//   - WhenDefined promises settle right after their bucket completes
//
// Reactions:
//   - Connected, disconnected, adopted and attribute-changed reactions,
//     dispatched only to custom elements
//   - Subtree helpers used by the patch layer when content moves
//
// # Flush Scheduling
//
// Scheduling is split in two phases. Enqueueing a definition calls schedule,
// which marks a flush as scheduled and hands runScheduled to the configured
// FlushTrigger. runScheduled is a no-op unless a flush is scheduled, so
// triggers may call it late, more than once, or not at all:
//
//	eng := engine.New(doc, func(o *engine.Options) {
//	    o.Trigger = engine.NewBatchTrigger()
//	})
//
// ImmediateTrigger (the default) flushes synchronously, so upgrade errors
// surface from the call that enqueued the definition. BatchTrigger coalesces
// enqueues until Run is called. WrapFlushTrigger decorates the current trigger
// without discarding it.
//
// # Error Handling
//
// An upgrade error aborts the running flush. Definitions whose buckets were
// not processed stay queued, ahead of newer ones, and keep their WhenDefined
// promises pending until a later flush completes them. Failed elements are
// never retried.
//
// # Concurrency
//
// The Engine is single threaded: every method must be called from the
// goroutine that owns the document tree. Only the DefinitionStore and the
// promises returned by WhenDefined are safe to share.
package engine
