package patch

import "github.com/hupe1980/customelements/dom"

// ConstructionObserver upgrades the elements a parser inserts into a
// document while it loads.
//
// It upgrades the document once when created. If the document is still
// loading it then watches for insertions made outside the Layer and upgrades
// each inserted subtree. It stops on the first mutation seen after the
// document left the loading state, or when Disconnect is called.
type ConstructionObserver struct {
	layer    *Layer
	document dom.Node
	observer *dom.Observer
}

// ObserveConstruction starts a ConstructionObserver for doc.
func (l *Layer) ObserveConstruction(doc dom.Node) *ConstructionObserver {
	c := &ConstructionObserver{layer: l, document: doc}
	if err := l.engine.PatchAndUpgradeSubtree(doc); err != nil {
		l.logger.Warn("Document upgrade failed", "document_id", doc.DocumentID(), "error", err)
	}
	if doc.ReadyState() == dom.ReadyStateLoading {
		c.observer = doc.Tree().Observe(doc, c.handle)
	}
	return c
}

// Active reports whether the observer still watches the document.
func (c *ConstructionObserver) Active() bool { return c.observer.Active() }

// Disconnect stops watching. It is safe to call more than once.
func (c *ConstructionObserver) Disconnect() {
	if c.observer.Active() {
		c.layer.logger.Debug("Construction observer disconnected", "document_id", c.document.DocumentID())
	}
	c.observer.Disconnect()
}

func (c *ConstructionObserver) handle(records []dom.MutationRecord) {
	switch c.document.ReadyState() {
	case dom.ReadyStateInteractive, dom.ReadyStateComplete:
		c.Disconnect()
		return
	}
	if c.layer.Mutating() {
		return
	}
	for _, rec := range records {
		for _, n := range rec.Added {
			if err := c.layer.engine.PatchAndUpgradeSubtree(n); err != nil {
				c.layer.logger.Warn("Inserted subtree upgrade failed", "document_id", c.document.DocumentID(), "error", err)
			}
		}
	}
}
