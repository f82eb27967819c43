package engine

import (
	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
)

// SubtreeOptions configures PatchAndUpgradeSubtree.
type SubtreeOptions struct {
	// Upgrade is called for every collected element in document order.
	// Defaults to (*Engine).Upgrade.
	Upgrade func(el dom.Node) error

	// VisitedImports holds import documents already walked. A fresh set is
	// used when nil.
	VisitedImports dom.ImportSet
}

// WithUpgrade replaces the function applied to collected elements.
func WithUpgrade(fn func(el dom.Node) error) func(o *SubtreeOptions) {
	return func(o *SubtreeOptions) { o.Upgrade = fn }
}

// WithVisitedImports seeds the set of import documents already walked.
func WithVisitedImports(visited dom.ImportSet) func(o *SubtreeOptions) {
	return func(o *SubtreeOptions) { o.VisitedImports = visited }
}

func (e *Engine) onElements(root dom.Node, fn func(dom.Node), visited dom.ImportSet) {
	if e.config.PreferPerformance {
		dom.WalkElements(root, fn)
		return
	}
	dom.WalkDeepDescendantElements(root, fn, visited)
}

// PatchAndUpgradeSubtree walks root, patches every element once and upgrades
// the elements that have a definition or lazy slot, in document order.
//
// Import links are not collected. Their import document is flagged as an
// import document associated with the registry; a complete import is walked
// in place, while one still loading is walked when the link dispatches load.
// The deferred walk starts from a copy of the visited set taken at that point,
// minus the import itself. The first upgrade error stops the pass and is
// returned.
func (e *Engine) PatchAndUpgradeSubtree(root dom.Node, optFns ...func(o *SubtreeOptions)) error {
	opts := SubtreeOptions{Upgrade: e.Upgrade}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.VisitedImports == nil {
		opts.VisitedImports = dom.ImportSet{}
	}

	var collected []dom.Node
	e.onElements(root, func(el dom.Node) {
		if !e.config.PreferPerformance && dom.IsImportLink(el) {
			e.deferImport(el, opts)
			return
		}
		e.PatchElement(el)
		if e.store.Has(el.LocalName()) {
			collected = append(collected, el)
		}
	}, opts.VisitedImports)

	for _, el := range collected {
		if err := opts.Upgrade(el); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) deferImport(link dom.Node, opts SubtreeOptions) {
	imp := link.Import()
	if !imp.IsZero() {
		imp.MarkImportDocument()
		imp.SetHasRegistry(true)
		if imp.ReadyState() == dom.ReadyStateComplete {
			imp.MarkImportLoadHandled()
			return
		}
	}

	visited, upgrade := opts.VisitedImports, opts.Upgrade
	link.OnLoad(func() {
		imp := link.Import()
		if imp.IsZero() || imp.ImportLoadHandled() {
			return
		}
		imp.MarkImportLoadHandled()
		imp.MarkImportDocument()
		imp.SetHasRegistry(true)

		retry := visited.Clone()
		retry.Delete(imp)
		if err := e.PatchAndUpgradeSubtree(imp, WithVisitedImports(retry), WithUpgrade(upgrade)); err != nil {
			e.logger.Error("Deferred import walk failed", "document_id", imp.DocumentID(), "error", err)
		}
	})
}

// ConnectSubtree reacts to root being connected: custom elements with a
// definition get the connected reaction, undefined ones are upgraded. Upgrade
// errors stop the walk and are returned.
func (e *Engine) ConnectSubtree(root dom.Node) error {
	for _, el := range e.defined(root) {
		if e.State(el) == core.StateCustom {
			e.ConnectedReaction(el)
			continue
		}
		if err := e.Upgrade(el); err != nil {
			return err
		}
	}
	return nil
}

// DisconnectSubtree dispatches the disconnected reaction to every custom
// element below root. It never upgrades.
func (e *Engine) DisconnectSubtree(root dom.Node) {
	for _, el := range e.defined(root) {
		if e.State(el) == core.StateCustom {
			e.DisconnectedReaction(el)
		}
	}
}

func (e *Engine) defined(root dom.Node) []dom.Node {
	var out []dom.Node
	e.onElements(root, func(el dom.Node) {
		if _, ok := e.store.Definition(el.LocalName()); ok {
			out = append(out, el)
		}
	}, nil)
	return out
}
