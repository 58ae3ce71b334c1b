package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSourceEmptyBufferHasOneEmptyLine(t *testing.T) {
	src := NewSource("empty.txt", nil)
	require.Equal(t, 1, src.LineCount())
	assert.Equal(t, 0, src.LineCharLen(0))
	assert.Equal(t, 0, src.CharLen())
}

func TestNewSourceIndexesLines(t *testing.T) {
	src := NewSource("f.txt", []byte("ab\ncde\n\nf"))
	require.Equal(t, 4, src.LineCount())
	assert.Equal(t, "ab", string(src.LineText(0)))
	assert.Equal(t, "cde", string(src.LineText(1)))
	assert.Equal(t, "", string(src.LineText(2)))
	assert.Equal(t, "f", string(src.LineText(3)))

	assert.Equal(t, 2, src.LineCharLen(0))
	assert.Equal(t, 3, src.LineCharLen(1))
	assert.Equal(t, 0, src.LineCharLen(2))
	assert.Equal(t, 1, src.LineCharLen(3))
}

func TestLineOfByteAndChar(t *testing.T) {
	src := NewSource("f.txt", []byte("ab\ncde\n\nf"))
	// byte offsets: a=0 b=1 \n=2 c=3 d=4 e=5 \n=6 \n=7 f=8
	assert.Equal(t, 0, src.LineOfByte(0))
	assert.Equal(t, 0, src.LineOfByte(1))
	assert.Equal(t, 1, src.LineOfByte(3))
	assert.Equal(t, 2, src.LineOfByte(7))
	assert.Equal(t, 3, src.LineOfByte(8))
	// each line's terminating newline occupies a nominal char slot that
	// still resolves to that line, not the next one.
	assert.Equal(t, 0, src.LineOfChar(0))
	assert.Equal(t, 0, src.LineOfChar(2))
	assert.Equal(t, 1, src.LineOfChar(3))
}

func TestLineOfByteClampsPastEnd(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	assert.Equal(t, 0, src.LineOfByte(1000))
	assert.Equal(t, 0, src.LineOfChar(1000))
}

func TestCharLenCountsRunesNotBytes(t *testing.T) {
	src := NewSource("f.txt", []byte("é"))
	assert.Equal(t, 2, src.ByteLen()) // 2-byte UTF-8 encoding
	assert.Equal(t, 1, src.CharLen())
}

func TestLineByteAndCharOffsets(t *testing.T) {
	src := NewSource("f.txt", []byte("ab\ncde"))
	assert.Equal(t, 0, src.LineByteOffset(0))
	assert.Equal(t, 3, src.LineByteOffset(1))
	assert.Equal(t, 0, src.LineCharOffset(0))
	assert.Equal(t, 3, src.LineCharOffset(1))
}

func TestLineTextOutOfRange(t *testing.T) {
	src := NewSource("f.txt", []byte("abc"))
	assert.Nil(t, src.LineText(-1))
	assert.Nil(t, src.LineText(5))
	assert.Equal(t, 0, src.LineCharLen(5))
}

func TestByteToCharRoundsDownMidScalar(t *testing.T) {
	// "aébc": a=byte0, é=bytes1-2 (char1), b=byte3 (char2), c=byte4 (char3).
	src := NewSource("f.txt", []byte("aébc"))
	// Byte offset 2 lands on é's second byte — must round down to é's own
	// char index (1), not forward to the next char (b, char 2).
	assert.Equal(t, 1, src.byteToChar(0, 2))
	// A boundary-aligned offset resolves to the char that starts there.
	assert.Equal(t, 1, src.byteToChar(0, 1))
	assert.Equal(t, 2, src.byteToChar(0, 3))
}
