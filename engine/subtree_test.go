package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
	"github.com/hupe1980/customelements/internal/testutil"
)

func TestConnectAndDisconnectSubtree(t *testing.T) {
	e, _, doc := setup(t, `<div id="wrap"><x-a id="1"></x-a><x-z id="z"></x-z></div>`)
	log := &testutil.EventLog{}
	def := define(t, e, "x-a", testutil.NewRecorder(log))
	require.NoError(t, e.EnqueueDefinition(def))

	body := testutil.Body(t, doc)
	wrap := testutil.ByID(t, doc, "wrap")
	require.NoError(t, body.RemoveChild(wrap))
	log.Reset()

	e.DisconnectSubtree(wrap)
	assert.Equal(t, []string{"disconnected x-a#1"}, log.Events)

	extra, err := doc.CreateElement("x-a")
	require.NoError(t, err)
	require.NoError(t, extra.SetAttribute("id", "2"))
	require.NoError(t, wrap.AppendChild(extra))
	e.DisconnectSubtree(wrap)
	log.Reset()

	require.NoError(t, body.AppendChild(wrap))
	require.NoError(t, e.ConnectSubtree(wrap))
	assert.Equal(t, []string{"connected x-a#1", "construct x-a#2", "connected x-a#2"}, log.Events)
	assert.Equal(t, core.StateCustom, e.State(extra))
}

func TestConnectSubtree_ReturnsUpgradeError(t *testing.T) {
	e, _, doc := setup(t, "")
	rec := testutil.NewRecorder(&testutil.EventLog{})
	rec.Err = assert.AnError
	define(t, e, "x-a", rec)

	el, err := doc.CreateElement("x-a")
	require.NoError(t, err)
	require.NoError(t, testutil.Body(t, doc).AppendChild(el))

	assert.ErrorIs(t, e.ConnectSubtree(el), assert.AnError)
	assert.Equal(t, core.StateFailed, e.State(el))
}

func TestPatchAndUpgradeSubtree_PatchesOnce(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a><div id="d"></div>`)
	counts := map[dom.Node]int{}
	nodeCalls := 0
	e.AddNodePatch(func(dom.Node) { nodeCalls++ })
	e.AddElementPatch(func(el dom.Node) { counts[el]++ })
	log := &testutil.EventLog{}
	define(t, e, "x-a", &testutil.Plain{Log: log})

	require.NoError(t, e.PatchAndUpgradeSubtree(doc))
	require.NoError(t, e.PatchAndUpgradeSubtree(doc))

	// html, head, body, x-a, div
	assert.Len(t, counts, 5)
	for el, n := range counts {
		assert.Equal(t, 1, n, testutil.Label(el))
	}
	assert.Equal(t, 5, nodeCalls)
	assert.Equal(t, []string{"construct x-a#1"}, log.Events)

	text, err := doc.CreateTextNode("t")
	require.NoError(t, err)
	e.PatchNode(text)
	e.PatchNode(text)
	assert.Equal(t, 6, nodeCalls)
	assert.True(t, e.Patches().HasPatches())
}

func TestPatchSubtree_DoesNotUpgrade(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a>`)
	patched := 0
	e.AddElementPatch(func(dom.Node) { patched++ })
	define(t, e, "x-a", &testutil.Plain{})

	e.PatchSubtree(testutil.Body(t, doc))
	assert.Equal(t, 2, patched)
	assert.Equal(t, core.StateUndefined, e.State(testutil.ByID(t, doc, "1")))
}

func TestPatchAndUpgradeSubtree_CustomUpgradeFunc(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a><x-b id="2"></x-b><x-a id="3"></x-a>`)
	define(t, e, "x-a", &testutil.Plain{})

	var seen []string
	require.NoError(t, e.PatchAndUpgradeSubtree(doc, WithUpgrade(func(el dom.Node) error {
		seen = append(seen, testutil.Label(el))
		return nil
	})))

	assert.Equal(t, []string{"x-a#1", "x-a#3"}, seen)
	assert.Equal(t, core.StateUndefined, e.State(testutil.ByID(t, doc, "1")))
}

func TestPatchAndUpgradeSubtree_LoadingImportIsWalkedAgainOnLoad(t *testing.T) {
	tree, doc := testutil.NewDocumentBuilder().Body(`<link rel="import" id="l">`).Build(t)
	e := New(doc)
	log := &testutil.EventLog{}
	define(t, e, "x-a", testutil.NewRecorder(log))

	imp := tree.NewDocument(func(o *dom.DocumentOptions) {
		o.BrowsingContext = false
		o.ReadyState = dom.ReadyStateLoading
	})
	first := appendElement(t, imp, imp, "x-a", "i1")
	link := testutil.ByID(t, doc, "l")
	require.NoError(t, link.SetImport(imp))

	require.NoError(t, e.PatchAndUpgradeSubtree(doc))
	assert.True(t, imp.IsImportDocument())
	assert.True(t, imp.HasRegistry())
	assert.False(t, imp.ImportLoadHandled())
	assert.Equal(t, core.StateCustom, e.State(first))

	second := appendElement(t, imp, imp, "x-a", "i2")
	log.Reset()
	link.DispatchLoad()
	assert.True(t, imp.ImportLoadHandled())
	assert.Equal(t, core.StateCustom, e.State(second))
	assert.Equal(t, []string{"construct x-a#i2", "connected x-a#i2"}, log.Events)

	log.Reset()
	link.DispatchLoad()
	assert.Empty(t, log.Events)
}

func TestPatchAndUpgradeSubtree_CompleteImportIsHandledInPlace(t *testing.T) {
	tree, doc := testutil.NewDocumentBuilder().Body(`<link rel="import" id="l">`).Build(t)
	e := New(doc)
	define(t, e, "x-a", &testutil.Plain{})

	imp := tree.NewDocument(func(o *dom.DocumentOptions) { o.BrowsingContext = false })
	el := appendElement(t, imp, imp, "x-a", "i1")
	require.NoError(t, testutil.ByID(t, doc, "l").SetImport(imp))

	require.NoError(t, e.PatchAndUpgradeSubtree(doc))
	assert.True(t, imp.ImportLoadHandled())
	assert.Equal(t, core.StateCustom, e.State(el))
}

func TestPreferPerformance_SkipsShadowRoots(t *testing.T) {
	for _, tc := range []struct {
		name        string
		perf        bool
		shadowState core.State
	}{
		{name: "deep walk", perf: false, shadowState: core.StateCustom},
		{name: "light walk", perf: true, shadowState: core.StateUndefined},
	} {
		t.Run(tc.name, func(t *testing.T) {
			e, _, doc := setup(t, `<div id="host"></div><x-a id="light"></x-a>`, func(o *Options) {
				o.Config.PreferPerformance = tc.perf
			})
			root, err := testutil.ByID(t, doc, "host").AttachShadow()
			require.NoError(t, err)
			shadowed := appendElement(t, doc, root, "x-a", "shadow")

			def := define(t, e, "x-a", &testutil.Plain{})
			require.NoError(t, e.EnqueueDefinition(def))

			assert.Equal(t, tc.perf, e.PreferPerformance())
			assert.Equal(t, core.StateCustom, e.State(testutil.ByID(t, doc, "light")))
			assert.Equal(t, tc.shadowState, e.State(shadowed))
		})
	}
}

func appendElement(t *testing.T, doc, parent dom.Node, name, id string) dom.Node {
	t.Helper()
	el, err := doc.CreateElement(name)
	require.NoError(t, err)
	require.NoError(t, el.SetAttribute("id", id))
	require.NoError(t, parent.AppendChild(el))
	return el
}
