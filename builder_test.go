package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderChainProducesReport(t *testing.T) {
	src := NewSource("f.txt", []byte("let x = 1"))
	r, err := NewBuilder(KindError).
		SetCode("E001").
		SetTitle("bad assignment").
		AttachSource(1, src).
		SetPrimaryLocation(1, Span{Start: 4, End: 5}).
		AddLabel(1, Span{Start: 4, End: 5}).Message("here").Order(1).Priority(2).Done().
		AddHelp("try `let mut x`").
		AddNote("x is immutable").
		Build()

	require.NoError(t, err)
	assert.Equal(t, KindError, r.Kind)
	assert.Equal(t, "E001", r.Code)
	assert.Equal(t, "bad assignment", r.Title)
	assert.True(t, r.HasPrimary)
	assert.Equal(t, 1, r.PrimarySourceID)
	require.Len(t, r.Labels, 1)
	assert.Equal(t, "here", r.Labels[0].Message)
	assert.Equal(t, 1, r.Labels[0].Order)
	assert.Equal(t, 2, r.Labels[0].Priority)
	assert.Equal(t, []string{"try `let mut x`"}, r.Helps)
	assert.Equal(t, []string{"x is immutable"}, r.Notes)
}

func TestBuilderAttachSourceDefaultsPrimarySourceID(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	r, err := NewBuilder(KindWarning).AttachSource(7, src).Build()
	require.NoError(t, err)
	assert.Equal(t, 7, r.PrimarySourceID)
	assert.False(t, r.HasPrimary, "AttachSource alone must not set HasPrimary")
}

func TestBuilderExplicitPrimaryLocationWins(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	r, err := NewBuilder(KindError).
		AttachSource(7, src).
		SetPrimaryLocation(9, Span{Start: 0, End: 1}).
		Build()
	require.NoError(t, err)
	assert.Equal(t, 9, r.PrimarySourceID)
	assert.True(t, r.HasPrimary)
}

func TestBuilderBuildRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TabWidth = 0
	_, err := NewBuilder(KindError).SetConfig(cfg).Build()
	assert.Error(t, err)
}

func TestBuilderDefaultConfigIsValid(t *testing.T) {
	_, err := NewBuilder(KindError).Build()
	assert.NoError(t, err)
}

func TestBuilderMultipleLabelsIndependentCursors(t *testing.T) {
	src := NewSource("f.txt", []byte("abcdef"))
	b := NewBuilder(KindError).AttachSource(1, src)
	b.AddLabel(1, Span{Start: 0, End: 1}).Message("first")
	b.AddLabel(1, Span{Start: 2, End: 3}).Message("second")
	r, err := b.Build()
	require.NoError(t, err)
	require.Len(t, r.Labels, 2)
	assert.Equal(t, "first", r.Labels[0].Message)
	assert.Equal(t, "second", r.Labels[1].Message)
}

func TestBuilderSourceResolverReturnsAttachedSources(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	b := NewBuilder(KindError).AttachSource(3, src)
	resolve := b.sourceResolver()
	assert.Same(t, src, resolve(3))
	assert.Nil(t, resolve(99))
}

func TestBuilderBuildCopiesLabelsSlice(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	b := NewBuilder(KindError).AttachSource(1, src)
	b.AddLabel(1, Span{Start: 0, End: 1}).Message("one")
	r1, err := b.Build()
	require.NoError(t, err)
	b.AddLabel(1, Span{Start: 1, End: 2}).Message("two")
	r2, err := b.Build()
	require.NoError(t, err)
	assert.Len(t, r1.Labels, 1, "earlier Build snapshot must not see later AddLabel calls")
	assert.Len(t, r2.Labels, 2)
}
