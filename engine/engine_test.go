package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
	"github.com/hupe1980/customelements/internal/testutil"
)

var _ core.Host = (*Engine)(nil)

func setup(t *testing.T, body string, optFns ...func(o *Options)) (*Engine, *dom.Tree, dom.Node) {
	t.Helper()
	tree, doc := testutil.NewDocumentBuilder().Body(body).Build(t)
	return New(doc, optFns...), tree, doc
}

func define(t *testing.T, e *Engine, name string, f core.Factory) *core.Definition {
	t.Helper()
	def := e.RegisterDefinition(name, f)
	require.NotNil(t, def)
	return def
}

type panickyObserver struct{ testutil.Plain }

func (p *panickyObserver) ObservedAttributes() ([]string, error) { panic("no attributes") }

type reentrantObserver struct {
	testutil.Plain
	eng     *Engine
	defined bool
}

func (r *reentrantObserver) ObservedAttributes() ([]string, error) {
	r.defined = r.eng.IsDefining()
	return nil, nil
}

func TestRegisterDefinition_Introspection(t *testing.T) {
	e, _, _ := setup(t, "")
	log := &testutil.EventLog{}

	def := define(t, e, "x-a", testutil.NewRecorder(log, "b", "a", "b"))
	assert.Equal(t, "x-a", def.LocalName)
	assert.Equal(t, []string{"b", "a"}, def.ObservedAttributes)
	assert.NotNil(t, def.ConnectedCallback)
	assert.NotNil(t, def.DisconnectedCallback)
	assert.NotNil(t, def.AdoptedCallback)
	assert.NotNil(t, def.AttributeChangedCallback)

	plain := define(t, e, "x-b", &testutil.Plain{})
	assert.Nil(t, plain.ConnectedCallback)
	assert.Nil(t, plain.AttributeChangedCallback)
	assert.Empty(t, plain.ObservedAttributes)

	got, ok := e.Store().Definition("x-a")
	require.True(t, ok)
	assert.Same(t, def, got)
}

func TestRegisterDefinition_DropsOnIntrospectionFailure(t *testing.T) {
	e, _, _ := setup(t, "")

	rec := testutil.NewRecorder(&testutil.EventLog{})
	rec.AttrErr = errors.New("bad attributes")
	assert.Nil(t, e.RegisterDefinition("x-a", rec))
	assert.Nil(t, e.RegisterDefinition("x-b", &panickyObserver{}))
	assert.Nil(t, e.RegisterDefinition("x-c", nil))

	assert.Empty(t, e.Store().Names())
	assert.False(t, e.IsDefining())
}

func TestRegisterDefinition_IsDefiningDuringIntrospection(t *testing.T) {
	e, _, _ := setup(t, "")
	obs := &reentrantObserver{eng: e}

	define(t, e, "x-a", obs)
	assert.True(t, obs.defined)
	assert.False(t, e.IsDefining())
}

func TestUpgrade_ConnectsOnce(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a>`)
	log := &testutil.EventLog{}

	def := define(t, e, "x-a", testutil.NewRecorder(log))
	require.NoError(t, e.EnqueueDefinition(def))

	el := testutil.ByID(t, doc, "1")
	assert.Equal(t, core.StateCustom, e.State(el))
	assert.Same(t, def, e.DefinitionOf(el))
	assert.Equal(t, []string{"construct x-a#1", "connected x-a#1"}, log.Events)

	require.NoError(t, e.Upgrade(el))
	assert.Len(t, log.Events, 2)
}

func TestUpgrade_FailureIsTerminal(t *testing.T) {
	e, _, doc := setup(t, `<x-b id="1"></x-b>`)
	log := &testutil.EventLog{}
	boom := errors.New("boom")
	rec := testutil.NewRecorder(log)
	rec.Err = boom

	def := define(t, e, "x-b", rec)
	err := e.EnqueueDefinition(def)

	var uerr *core.UpgradeError
	require.ErrorAs(t, err, &uerr)
	assert.ErrorIs(t, err, boom)
	el := testutil.ByID(t, doc, "1")
	assert.Equal(t, el, uerr.Node)
	assert.Equal(t, core.StateFailed, e.State(el))
	assert.Zero(t, def.ConstructionDepth())

	rec.Err = nil
	require.NoError(t, e.Upgrade(el))
	assert.Equal(t, core.StateFailed, e.State(el))
	assert.Equal(t, []string{"construct-failed x-b#1"}, log.Events)

	err = e.Store().SetDefinition("x-b", &core.Definition{LocalName: "x-b", Factory: &testutil.Plain{}})
	assert.ErrorIs(t, err, core.ErrAlreadyDefined)
}

func TestUpgrade_ConstructionMismatch(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a>`)
	rec := testutil.NewRecorder(&testutil.EventLog{})
	rec.Produce = func(h core.Host) (dom.Node, error) {
		if _, err := h.Element(rec); err != nil {
			return dom.Node{}, err
		}
		return doc.CreateElement("x-a")
	}
	def := define(t, e, "x-a", rec)

	err := e.EnqueueDefinition(def)
	assert.ErrorIs(t, err, core.ErrConstructionMismatch)
	assert.Equal(t, core.StateFailed, e.State(testutil.ByID(t, doc, "1")))
	assert.Zero(t, def.ConstructionDepth())
}

func TestUpgrade_AlreadyConstructed(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a>`)
	rec := testutil.NewRecorder(&testutil.EventLog{})
	rec.Produce = func(h core.Host) (dom.Node, error) {
		el, err := h.Element(rec)
		if err != nil {
			return dom.Node{}, err
		}
		if _, err := h.Element(rec); err != nil {
			return dom.Node{}, err
		}
		return el, nil
	}
	def := define(t, e, "x-a", rec)

	err := e.EnqueueDefinition(def)
	assert.ErrorIs(t, err, core.ErrAlreadyConstructed)
	assert.Equal(t, core.StateFailed, e.State(testutil.ByID(t, doc, "1")))
}

func TestUpgrade_FactoryPanicBecomesError(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a>`)
	rec := testutil.NewRecorder(&testutil.EventLog{})
	rec.Produce = func(h core.Host) (dom.Node, error) { panic("kaboom") }
	def := define(t, e, "x-a", rec)

	err := e.EnqueueDefinition(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
	assert.Equal(t, core.StateFailed, e.State(testutil.ByID(t, doc, "1")))
	assert.Zero(t, def.ConstructionDepth())
}

func TestUpgrade_ReplaysObservedAttributes(t *testing.T) {
	e, _, _ := setup(t, `<x-a id="1" a="1" b="2" c="3"></x-a>`)
	log := &testutil.EventLog{}

	def := define(t, e, "x-a", testutil.NewRecorder(log, "b", "a", "missing"))
	require.NoError(t, e.EnqueueDefinition(def))

	assert.Equal(t, []string{
		"construct x-a#1",
		"attr x-a#1 b null->2",
		"attr x-a#1 a null->1",
		"connected x-a#1",
	}, log.Events)
}

func TestUpgrade_DisconnectedElementIsNotConnected(t *testing.T) {
	e, _, doc := setup(t, "")
	log := &testutil.EventLog{}
	define(t, e, "x-a", testutil.NewRecorder(log))

	el, err := doc.CreateElement("x-a")
	require.NoError(t, err)
	require.NoError(t, e.Upgrade(el))

	assert.Equal(t, core.StateCustom, e.State(el))
	assert.Equal(t, []string{"construct x-a"}, log.Events)
}

func TestUpgrade_RequiresBrowsingContext(t *testing.T) {
	tree, doc := testutil.NewDocumentBuilder().Body(`<x-a id="1"></x-a>`).WithoutBrowsingContext().Build(t)
	e := New(doc)
	log := &testutil.EventLog{}
	define(t, e, "x-a", testutil.NewRecorder(log))

	el := testutil.ByID(t, doc, "1")
	require.NoError(t, e.Upgrade(el))
	assert.Equal(t, core.StateUndefined, e.State(el))

	imported := tree.NewDocument(func(o *dom.DocumentOptions) { o.BrowsingContext = false })
	imported.MarkImportDocument()
	imported.SetHasRegistry(true)
	other, err := imported.CreateElement("x-a")
	require.NoError(t, err)
	require.NoError(t, e.Upgrade(other))
	assert.Equal(t, core.StateCustom, e.State(other))
}

func TestUpgrade_UndefinedNameIsNoOp(t *testing.T) {
	e, _, doc := setup(t, `<x-z id="1"></x-z>`)
	el := testutil.ByID(t, doc, "1")

	require.NoError(t, e.Upgrade(el))
	assert.Equal(t, core.StateUndefined, e.State(el))
	require.NoError(t, e.Upgrade(doc))
}

func TestReactions_DispatchOnlyToCustomElements(t *testing.T) {
	e, _, doc := setup(t, `<x-a id="1"></x-a><x-b id="2"></x-b>`)
	log := &testutil.EventLog{}
	def := define(t, e, "x-a", testutil.NewRecorder(log, "open"))
	require.NoError(t, e.EnqueueDefinition(def))
	log.Reset()

	el := testutil.ByID(t, doc, "1")
	undefined := testutil.ByID(t, doc, "2")
	v := "yes"

	e.AttributeChangedReaction(el, core.AttributeChange{Name: "open", NewValue: &v})
	e.AttributeChangedReaction(el, core.AttributeChange{Name: "closed", NewValue: &v})
	e.DisconnectedReaction(el)
	e.AdoptedReaction(el, doc, doc)
	e.ConnectedReaction(undefined)
	e.AttributeChangedReaction(undefined, core.AttributeChange{Name: "open", NewValue: &v})

	assert.Equal(t, []string{
		"attr x-a#1 open null->yes",
		"disconnected x-a#1",
		"adopted x-a#1",
	}, log.Events)
}

func TestElement_CreatesFreshCustomElement(t *testing.T) {
	e, _, doc := setup(t, "")
	log := &testutil.EventLog{}
	def := define(t, e, "x-a", testutil.NewRecorder(log))

	el, err := e.CreateElement(doc, "x-a")
	require.NoError(t, err)
	assert.Equal(t, "x-a", el.LocalName())
	assert.Equal(t, core.StateCustom, e.State(el))
	assert.Same(t, def, e.DefinitionOf(el))
	assert.True(t, el.Parent().IsZero())
	assert.Equal(t, []string{"construct x-a"}, log.Events)

	div, err := e.CreateElement(doc, "div")
	require.NoError(t, err)
	assert.Equal(t, core.StateUndefined, e.State(div))

	_, err = e.Element(&testutil.Plain{})
	assert.ErrorIs(t, err, core.ErrUnknownFactory)
}

func TestPending_AndScheduledFlag(t *testing.T) {
	batch := NewBatchTrigger()
	e, _, _ := setup(t, "", func(o *Options) { o.Trigger = batch })
	a := define(t, e, "x-a", &testutil.Plain{})
	b := define(t, e, "x-b", &testutil.Plain{})

	require.NoError(t, e.EnqueueDefinition(a))
	require.NoError(t, e.EnqueueDefinition(b))
	assert.True(t, e.IsFlushScheduled())
	assert.Equal(t, []string{"x-a", "x-b"}, e.Pending())
	assert.Equal(t, 1, batch.Len())

	require.NoError(t, batch.Run())
	assert.False(t, e.IsFlushScheduled())
	assert.Empty(t, e.Pending())
}
