package diag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStringTitleOnly(t *testing.T) {
	r, err := NewBuilder(KindError).SetTitle("bad thing").Build()
	require.NoError(t, err)

	rn := Renderer{}
	out, err := rn.RenderString(r, func(int) *Source { return nil })
	require.NoError(t, err)
	assert.Equal(t, "Error: bad thing\n", out)
}

func TestRenderStringTitleWithCode(t *testing.T) {
	r, err := NewBuilder(KindWarning).SetCode("W007").SetTitle("unused variable").Build()
	require.NoError(t, err)

	rn := Renderer{}
	out, err := rn.RenderString(r, func(int) *Source { return nil })
	require.NoError(t, err)
	assert.Equal(t, "[W007] Warning: unused variable\n", out)
}

func TestRenderStringNoColorWhenColorFuncNil(t *testing.T) {
	r, err := NewBuilder(KindError).SetTitle("x").Build()
	require.NoError(t, err)
	rn := Renderer{Color: nil}
	out, err := rn.RenderString(r, func(int) *Source { return nil })
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderStringWithLabelContainsSourceAndMessage(t *testing.T) {
	src := NewSource("main.rs", []byte("let x = 1;\nlet y = 2;\n"))
	r, err := NewBuilder(KindError).
		SetTitle("bad binding").
		AttachSource(1, src).
		SetPrimaryLocation(1, Span{Start: 4, End: 5}).
		AddLabel(1, Span{Start: 4, End: 5}).Message("this variable").Done().
		Build()
	require.NoError(t, err)

	rn := Renderer{}
	out, err := rn.RenderString(r, Source1(src))
	require.NoError(t, err)

	assert.Contains(t, out, "Error: bad binding")
	assert.Contains(t, out, "main.rs:1:5")
	assert.Contains(t, out, "let x = 1;")
	assert.Contains(t, out, "this variable")
}

func TestRenderStringHelpsAndNotesAppear(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	r, err := NewBuilder(KindAdvice).
		SetTitle("consider this").
		AttachSource(1, src).
		AddHelp("do X instead").
		AddNote("see docs").
		Build()
	require.NoError(t, err)

	rn := Renderer{}
	out, err := rn.RenderString(r, Source1(src))
	require.NoError(t, err)
	assert.Contains(t, out, "Help: do X instead")
	assert.Contains(t, out, "Note: see docs")
}

func TestRenderStringShowDebugAppendsLayoutNotes(t *testing.T) {
	src := NewSource("main.rs", []byte("let x = 1;\nlet y = 2;\n"))
	r, err := NewBuilder(KindError).
		SetTitle("bad binding").
		AttachSource(1, src).
		SetPrimaryLocation(1, Span{Start: 4, End: 5}).
		AddLabel(1, Span{Start: 4, End: 5}).Message("this variable").Done().
		Build()
	require.NoError(t, err)

	rn := Renderer{ShowDebug: true}
	out, err := rn.RenderString(r, Source1(src))
	require.NoError(t, err)
	assert.Contains(t, out, "debug: group main.rs lines 1-1, 0 lane(s)")
}

func TestRenderStringNoDebugFooterByDefault(t *testing.T) {
	src := NewSource("main.rs", []byte("let x = 1;\n"))
	r, err := NewBuilder(KindError).
		SetTitle("bad binding").
		AttachSource(1, src).
		SetPrimaryLocation(1, Span{Start: 4, End: 5}).
		AddLabel(1, Span{Start: 4, End: 5}).Message("this variable").Done().
		Build()
	require.NoError(t, err)

	rn := Renderer{}
	out, err := rn.RenderString(r, Source1(src))
	require.NoError(t, err)
	assert.NotContains(t, out, "debug:")
}

func TestBatchSortOrdersBySourceThenSeverityThenColumn(t *testing.T) {
	srcA := NewSource("a.txt", []byte("aaaa"))
	srcB := NewSource("b.txt", []byte("bbbb"))
	sources := map[int]*Source{1: srcA, 2: srcB}
	resolve := func(id int) *Source { return sources[id] }

	mk := func(name int, kind Kind, col int) *Report {
		r, _ := NewBuilder(kind).
			SetTitle("t").
			SetPrimaryLocation(name, Span{Start: col, End: col + 1}).
			Build()
		r.PrimarySourceID = name
		return r
	}

	b := &Batch{
		Reports: []*Report{
			mk(2, KindError, 0),
			mk(1, KindWarning, 2),
			mk(1, KindError, 1),
		},
		Resolve: resolve,
	}
	b.Sort()

	require.Len(t, b.Reports, 3)
	assert.Equal(t, 1, b.Reports[0].PrimarySourceID)
	assert.Equal(t, KindError, b.Reports[0].Kind)
	assert.Equal(t, 1, b.Reports[1].PrimarySourceID)
	assert.Equal(t, KindWarning, b.Reports[1].Kind)
	assert.Equal(t, 2, b.Reports[2].PrimarySourceID)
}

func TestRenderBatchAppendsSummaryLine(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	e1, _ := NewBuilder(KindError).SetTitle("e1").Build()
	w1, _ := NewBuilder(KindWarning).SetTitle("w1").Build()

	b := &Batch{Reports: []*Report{e1, w1}, Resolve: Source1(src)}
	var buf strings.Builder
	rn := Renderer{}
	err := rn.RenderBatch(&buf, b)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Error: e1")
	assert.Contains(t, out, "Warning: w1")
	assert.Contains(t, out, "encountered 1 error and 1 warning")
}

func TestRenderBatchNoSummaryWhenNoErrorsOrWarnings(t *testing.T) {
	a1, _ := NewBuilder(KindAdvice).SetTitle("a1").Build()
	b := &Batch{Reports: []*Report{a1}, Resolve: func(int) *Source { return nil }}
	var buf strings.Builder
	rn := Renderer{}
	err := rn.RenderBatch(&buf, b)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "encountered")
}

func TestPluralSingularVsMultiple(t *testing.T) {
	assert.Equal(t, "1 error", plural(1, "error"))
	assert.Equal(t, "2 errors", plural(2, "error"))
	assert.Equal(t, "0 errors", plural(0, "error"))
}
