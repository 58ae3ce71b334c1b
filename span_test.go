package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeInlineSpan(t *testing.T) {
	src := NewSource("f.txt", []byte("hello world"))
	cfg := DefaultConfig()
	nls := normalize(src, []Label{{Span: Span{Start: 0, End: 5}, Message: "greeting"}}, cfg)
	require.Len(t, nls, 1)
	nl := nls[0]
	assert.Equal(t, kindInline, nl.kind)
	assert.Equal(t, 0, nl.startChar)
	assert.Equal(t, 5, nl.endChar)
	assert.Equal(t, 0, nl.startLine)
	assert.Equal(t, 0, nl.endLine)
	assert.False(t, nl.dropped)
	assert.False(t, nl.invalidPosition)
}

func TestNormalizeMultilineSpan(t *testing.T) {
	src := NewSource("f.txt", []byte("one\ntwo\nthree"))
	cfg := DefaultConfig()
	// "two\nthree" spans char offsets 4..13 (char 4 is 't' of "two").
	nls := normalize(src, []Label{{Span: Span{Start: 4, End: 13}}}, cfg)
	require.Len(t, nls, 1)
	nl := nls[0]
	assert.Equal(t, kindMultiline, nl.kind)
	assert.Equal(t, 1, nl.startLine)
	assert.Equal(t, 2, nl.endLine)
}

func TestNormalizeClampsEndPastBuffer(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	cfg := DefaultConfig()
	nls := normalize(src, []Label{{Span: Span{Start: 1, End: 1000}}}, cfg)
	require.Len(t, nls, 1)
	assert.Equal(t, 3, nls[0].endChar)
	assert.True(t, nls[0].invalidPosition)
	assert.False(t, nls[0].dropped)
}

func TestNormalizeDropsLabelStartingPastBuffer(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	cfg := DefaultConfig()
	nls := normalize(src, []Label{{Span: Span{Start: 50, End: 60}}}, cfg)
	require.Len(t, nls, 1)
	assert.True(t, nls[0].dropped)
	assert.True(t, nls[0].invalidPosition)
}

func TestNormalizeZeroWidthSpanAtEndOfBuffer(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	cfg := DefaultConfig()
	nls := normalize(src, []Label{{Span: Span{Start: 3, End: 3}}}, cfg)
	require.Len(t, nls, 1)
	assert.True(t, nls[0].endOfBufferCaret)
	assert.Equal(t, 3, nls[0].startChar)
	assert.Equal(t, 3, nls[0].endChar)
}

func TestNormalizeNegativeStartClampsToZero(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	cfg := DefaultConfig()
	nls := normalize(src, []Label{{Span: Span{Start: -5, End: 2}}}, cfg)
	require.Len(t, nls, 1)
	assert.Equal(t, 0, nls[0].startChar)
	assert.False(t, nls[0].dropped)
}

func TestNormalizeEndBeforeStartClampsToStart(t *testing.T) {
	src := NewSource("f.txt", []byte("abcdef"))
	cfg := DefaultConfig()
	nls := normalize(src, []Label{{Span: Span{Start: 4, End: 1}}}, cfg)
	require.Len(t, nls, 1)
	assert.Equal(t, 4, nls[0].startChar)
	assert.Equal(t, 4, nls[0].endChar)
}

func TestNormalizeByteIndexedSpan(t *testing.T) {
	// "é" is 2 bytes / 1 char; span [3,5) in byte space covers "bc" in
	// "aébc" which sits at char offsets [2,4).
	src := NewSource("f.txt", []byte("aébc"))
	cfg := DefaultConfig()
	cfg.IndexType = IndexByte
	nls := normalize(src, []Label{{Span: Span{Start: 3, End: 5}}}, cfg)
	require.Len(t, nls, 1)
	assert.Equal(t, 2, nls[0].startChar)
	assert.Equal(t, 4, nls[0].endChar)
}

func TestByteToCharGlobalClampsPastEnd(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	assert.Equal(t, 3, byteToCharGlobal(src, 1000))
	assert.Equal(t, 0, byteToCharGlobal(src, -1))
	assert.Equal(t, 0, byteToCharGlobal(src, 0))
}
