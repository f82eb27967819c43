package engine

import "github.com/hupe1980/customelements/dom"

// PatchType selects which nodes a Patch applies to.
//
// Patches let embedders decorate nodes the first time the engine sees them,
// for example to attach per-element bookkeeping. Each node is patched at most
// once over its lifetime.
type PatchType string

const (
	// PatchNode patches apply to every node passed to PatchNode and to every
	// element passed to PatchElement.
	PatchNode PatchType = "node"

	// PatchElement patches apply only to elements passed to PatchElement.
	PatchElement PatchType = "element"
)

// Patch is a per-node decoration hook.
type Patch interface {
	// Type returns the patch type this implementation handles.
	Type() PatchType

	// Apply decorates n.
	Apply(n dom.Node)
}

// FunctionPatch wraps a function as a patch implementation.
//
// Example:
//
//	p := NewFunctionPatch(PatchElement, func(el dom.Node) {
//	    seen[el] = true
//	})
type FunctionPatch struct {
	patchType PatchType
	fn        func(n dom.Node)
}

// NewFunctionPatch creates a new function-based patch.
func NewFunctionPatch(patchType PatchType, fn func(n dom.Node)) *FunctionPatch {
	return &FunctionPatch{patchType: patchType, fn: fn}
}

// Type returns the patch type this function handles.
func (p *FunctionPatch) Type() PatchType { return p.patchType }

// Apply calls the wrapped function.
func (p *FunctionPatch) Apply(n dom.Node) { p.fn(n) }

// PatchManager keeps registered patches per type and applies them in
// registration order.
//
// Thread Safety:
// The PatchManager is not thread-safe; like the Engine it belongs to the
// goroutine that owns the document tree.
type PatchManager struct {
	patches map[PatchType][]Patch
}

// NewPatchManager creates an empty manager.
func NewPatchManager() *PatchManager {
	return &PatchManager{patches: make(map[PatchType][]Patch)}
}

// RegisterPatch adds p to the manager.
func (pm *PatchManager) RegisterPatch(p Patch) {
	pm.patches[p.Type()] = append(pm.patches[p.Type()], p)
}

// HasPatches reports whether any patch is registered.
func (pm *PatchManager) HasPatches() bool { return len(pm.patches) > 0 }

// Apply runs every patch of patchType on n, in registration order.
func (pm *PatchManager) Apply(patchType PatchType, n dom.Node) {
	for _, p := range pm.patches[patchType] {
		p.Apply(n)
	}
}

// AddNodePatch registers fn to run once on every patched node.
func (e *Engine) AddNodePatch(fn func(n dom.Node)) {
	e.patches.RegisterPatch(NewFunctionPatch(PatchNode, fn))
}

// AddElementPatch registers fn to run once on every patched element.
func (e *Engine) AddElementPatch(fn func(el dom.Node)) {
	e.patches.RegisterPatch(NewFunctionPatch(PatchElement, fn))
}

// Patches returns the engine's patch manager.
func (e *Engine) Patches() *PatchManager { return e.patches }

// PatchNode applies node patches to n unless n was patched before.
func (e *Engine) PatchNode(n dom.Node) {
	if !e.patches.HasPatches() || !e.markPatched(n) {
		return
	}
	e.patches.Apply(PatchNode, n)
}

// PatchElement applies node patches, then element patches, to el unless el
// was patched before.
func (e *Engine) PatchElement(el dom.Node) {
	if !e.patches.HasPatches() || !e.markPatched(el) {
		return
	}
	e.patches.Apply(PatchNode, el)
	e.patches.Apply(PatchElement, el)
}

// PatchSubtree patches every element below root without upgrading anything.
func (e *Engine) PatchSubtree(root dom.Node) {
	if !e.patches.HasPatches() {
		return
	}
	e.onElements(root, e.PatchElement, nil)
}

func (e *Engine) markPatched(n dom.Node) bool {
	r := e.record(n)
	if r.patched {
		return false
	}
	r.patched = true
	return true
}
