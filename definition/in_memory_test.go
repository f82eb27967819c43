package definition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/customelements/core"
	"github.com/hupe1980/customelements/dom"
)

// Interface compliance (compile-time assertion)
var _ core.DefinitionStore = (*InMemoryStore)(nil)

type factory struct{ name string }

func (f *factory) New(h core.Host) (dom.Node, error) { return h.Element(f) }

func lazySlot(name string) *core.LazyDefinition {
	return &core.LazyDefinition{
		LocalName: name,
		Generator: func() (core.LazyResult, error) { return core.Ready(&factory{name: name}), nil },
	}
}

func TestInMemoryStore_SetDefinition(t *testing.T) {
	s := NewInMemoryStore()
	f := &factory{name: "x-a"}
	def := &core.Definition{LocalName: "x-a", Factory: f}

	require.NoError(t, s.SetDefinition("x-a", def))

	got, ok := s.Definition("x-a")
	require.True(t, ok)
	assert.Same(t, def, got)

	byF, ok := s.DefinitionByFactory(f)
	require.True(t, ok)
	assert.Same(t, def, byF)

	_, ok = s.DefinitionByFactory(&factory{name: "x-a"})
	assert.False(t, ok)
	assert.True(t, s.Has("x-a"))
}

func TestInMemoryStore_NeverOverwrites(t *testing.T) {
	s := NewInMemoryStore()
	first := &core.Definition{LocalName: "x-a", Factory: &factory{}}
	require.NoError(t, s.SetDefinition("x-a", first))

	err := s.SetDefinition("x-a", &core.Definition{LocalName: "x-a", Factory: &factory{}})
	assert.ErrorIs(t, err, core.ErrAlreadyDefined)
	assert.ErrorIs(t, s.SetLazy("x-a", lazySlot("x-a")), core.ErrAlreadyDefined)

	got, _ := s.Definition("x-a")
	assert.Same(t, first, got)
}

func TestInMemoryStore_LazySlotReplacedByDefinition(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.SetLazy("x-c", lazySlot("x-c")))
	assert.ErrorIs(t, s.SetLazy("x-c", lazySlot("x-c")), core.ErrAlreadyDefined)

	slot, ok := s.Lazy("x-c")
	require.True(t, ok)
	assert.Equal(t, core.LazyUnresolved, slot.State)
	assert.True(t, s.Has("x-c"))

	require.NoError(t, s.SetDefinition("x-c", &core.Definition{LocalName: "x-c", Factory: &factory{}}))
	_, ok = s.Lazy("x-c")
	assert.False(t, ok)
	assert.True(t, s.Has("x-c"))
}

func TestInMemoryStore_ClearLazyAndNames(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.SetLazy("x-b", lazySlot("x-b")))
	require.NoError(t, s.SetDefinition("x-a", &core.Definition{LocalName: "x-a", Factory: &factory{}}))
	assert.Equal(t, []string{"x-a", "x-b"}, s.Names())

	s.ClearLazy("x-b")
	assert.False(t, s.Has("x-b"))
	assert.Equal(t, []string{"x-a"}, s.Names())
}

func TestInMemoryStore_RejectsInvalidInput(t *testing.T) {
	s := NewInMemoryStore()
	assert.ErrorIs(t, s.SetDefinition("x-a", nil), core.ErrInvalidFactory)
	assert.ErrorIs(t, s.SetDefinition("x-a", &core.Definition{}), core.ErrInvalidFactory)
	assert.ErrorIs(t, s.SetLazy("x-a", &core.LazyDefinition{}), core.ErrInvalidGenerator)
	_, ok := s.DefinitionByFactory(nil)
	assert.False(t, ok)
}
