package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/internal/testutil"
	"github.com/hupe1980/customelements/promise"
)

func TestLazy_EventuallyResolvingGenerator(t *testing.T) {
	e, _, doc := setup(t, `<x-c id="1"></x-c><x-c id="2"></x-c>`)
	log := &testutil.EventLog{}
	later := promise.New[core.Factory]()
	calls := 0

	slot := e.RegisterLazyDefinition("x-c", func() (core.LazyResult, error) {
		calls++
		return core.Eventually(later), nil
	})
	require.NotNil(t, slot)
	require.NoError(t, e.EnqueueLazyDefinition(slot))

	first, second := testutil.ByID(t, doc, "1"), testutil.ByID(t, doc, "2")
	assert.Equal(t, 1, calls)
	assert.Equal(t, core.LazyPending, slot.State)
	assert.Equal(t, core.StateUndefined, e.State(first))
	assert.Equal(t, core.StateUndefined, e.State(second))

	later.Resolve(testutil.NewRecorder(log))

	assert.Equal(t, core.StateCustom, e.State(first))
	assert.Equal(t, core.StateCustom, e.State(second))
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"construct x-c#1", "connected x-c#1", "construct x-c#2", "connected x-c#2"}, log.Events)

	_, ok := e.Store().Lazy("x-c")
	assert.False(t, ok)
	_, ok = e.Store().Definition("x-c")
	assert.True(t, ok)
}

func TestLazy_ReadyFactoryUpgradesInSameFlush(t *testing.T) {
	e, _, doc := setup(t, `<x-c id="1"></x-c>`)
	log := &testutil.EventLog{}

	slot := e.RegisterLazyDefinition("x-c", func() (core.LazyResult, error) {
		return core.Ready(&testutil.Plain{Log: log}), nil
	})
	require.NoError(t, e.EnqueueLazyDefinition(slot))

	assert.Equal(t, core.StateCustom, e.State(testutil.ByID(t, doc, "1")))
	assert.Equal(t, []string{"construct x-c#1"}, log.Events)
	_, ok := e.Store().Lazy("x-c")
	assert.False(t, ok)
}

func TestLazy_ResolvedOnFirstUpgradeOutsideFlush(t *testing.T) {
	e, _, doc := setup(t, "")
	calls := 0
	require.NotNil(t, e.RegisterLazyDefinition("x-c", func() (core.LazyResult, error) {
		calls++
		return core.Ready(&testutil.Plain{}), nil
	}))
	assert.Zero(t, calls)

	el, err := doc.CreateElement("x-c")
	require.NoError(t, err)
	require.NoError(t, e.Upgrade(el))

	assert.Equal(t, 1, calls)
	assert.Equal(t, core.StateCustom, e.State(el))
}

func TestLazy_GeneratorFailureStaysPending(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	e, _, doc := setup(t, `<x-c id="1"></x-c>`, func(o *Options) { o.TracerProvider = tp })
	calls := 0

	slot := e.RegisterLazyDefinition("x-c", func() (core.LazyResult, error) {
		calls++
		return core.LazyResult{}, errors.New("unavailable")
	})
	require.NoError(t, e.EnqueueLazyDefinition(slot))

	el := testutil.ByID(t, doc, "1")
	assert.Equal(t, core.StateUndefined, e.State(el))
	assert.Nil(t, e.ResolveLazy("x-c"))
	require.NoError(t, e.Upgrade(el))
	assert.Equal(t, 1, calls)
	assert.Equal(t, core.LazyPending, slot.State)
	assert.True(t, e.Store().Has("x-c"))

	var lazySpans []sdktrace.ReadOnlySpan
	for _, s := range sr.Ended() {
		if s.Name() == "customelements.resolve_lazy" {
			lazySpans = append(lazySpans, s)
		}
	}
	require.Len(t, lazySpans, 1)
	assert.Equal(t, codes.Error, lazySpans[0].Status().Code)
}

func TestLazy_EmptyResultAndPanicDefineNothing(t *testing.T) {
	e, _, _ := setup(t, "")
	require.NotNil(t, e.RegisterLazyDefinition("x-e", func() (core.LazyResult, error) {
		return core.LazyResult{}, nil
	}))
	require.NotNil(t, e.RegisterLazyDefinition("x-p", func() (core.LazyResult, error) {
		panic("generator exploded")
	}))

	assert.Nil(t, e.ResolveLazy("x-e"))
	assert.Nil(t, e.ResolveLazy("x-p"))
	assert.Nil(t, e.ResolveLazy("x-missing"))

	slot, ok := e.Store().Lazy("x-p")
	require.True(t, ok)
	assert.Equal(t, core.LazyPending, slot.State)
}

func TestLazy_RejectedPromiseLeavesSlotPending(t *testing.T) {
	e, _, doc := setup(t, `<x-c id="1"></x-c>`)
	later := promise.New[core.Factory]()
	slot := e.RegisterLazyDefinition("x-c", func() (core.LazyResult, error) {
		return core.Eventually(later), nil
	})
	require.NoError(t, e.EnqueueLazyDefinition(slot))

	later.Reject(errors.New("network"))

	assert.Equal(t, core.StateUndefined, e.State(testutil.ByID(t, doc, "1")))
	_, ok := e.Store().Definition("x-c")
	assert.False(t, ok)
	assert.Equal(t, core.LazyPending, slot.State)
}

func TestRegisterLazyDefinition_RejectsDefinedName(t *testing.T) {
	e, _, _ := setup(t, "")
	define(t, e, "x-a", &testutil.Plain{})

	assert.Nil(t, e.RegisterLazyDefinition("x-a", func() (core.LazyResult, error) {
		return core.LazyResult{}, nil
	}))
}
