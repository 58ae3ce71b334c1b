package diag

// Span is a pair of positions in either bytes or chars, depending on
// Config.IndexType. See spec.md §3 for the exact clamp/zero-width rules
// normalize applies to it.
type Span struct {
	Start, End int
}

// Label attaches a message and presentation hints to a Span within one
// Source. Identity is positional within a Report — Labels carry no ID of
// their own.
type Label struct {
	Span     Span
	Message  string
	Color    ColorFunc
	Order    int
	Priority int
	SourceID int
}

// spanKind classifies a normalized span as spanning one line or several.
type spanKind int

const (
	kindInline spanKind = iota
	kindMultiline
)

// normalizedLabel is the char-indexed, line-resolved form of a Label that
// the layout planner (component E) consumes. It is produced by normalize
// and never mutated afterward.
type normalizedLabel struct {
	label            *Label
	index            int // position within the labels slice passed to normalize; not read by the planner or renderer
	startChar        int
	endChar          int
	startLine        int
	endLine          int
	kind             spanKind
	invalidPosition  bool
	dropped          bool
	endOfBufferCaret bool
}

// normalize implements spec.md §4.D: convert to char indices, clamp, and
// classify. labels that are entirely out of range are marked dropped but
// still counted (the caller decides whether to report that count).
func normalize(src *Source, labels []Label, cfg Config) []normalizedLabel {
	out := make([]normalizedLabel, 0, len(labels))
	charLen := src.CharLen()

	for i := range labels {
		lbl := &labels[i]
		start, end := lbl.Span.Start, lbl.Span.End

		if cfg.IndexType == IndexByte {
			start = byteToCharGlobal(src, start)
			end = byteToCharGlobal(src, end)
		}

		nl := normalizedLabel{label: lbl, index: i}

		invalid := false
		if start < 0 {
			start = 0
		}
		if start > charLen {
			invalid = true
		}
		if end > charLen {
			end = charLen
			invalid = true
		}
		if end < start {
			end = start
		}

		if start > charLen {
			// Label starts past the end of the buffer entirely: drop it,
			// unless it is serving as the fallback "end of buffer" caret
			// (the layout planner decides that from primary_location, not
			// here — normalize only flags eligibility).
			nl.dropped = true
			nl.invalidPosition = true
			out = append(out, nl)
			continue
		}

		nl.startChar = start
		nl.endChar = end
		nl.invalidPosition = invalid
		nl.startLine = src.LineOfChar(start)
		pivot := end - 1
		if pivot < start {
			pivot = start
		}
		nl.endLine = src.LineOfChar(pivot)
		if nl.startLine == nl.endLine {
			nl.kind = kindInline
		} else {
			nl.kind = kindMultiline
		}
		if start == charLen {
			nl.endOfBufferCaret = true
		}

		out = append(out, nl)
	}

	return out
}

// byteToCharGlobal converts a whole-buffer byte offset to a whole-buffer
// char offset, rounding down into the enclosing scalar on a mid-rune
// offset, and clamping to the buffer's char length when the byte offset is
// past the end.
func byteToCharGlobal(src *Source, b int) int {
	if b <= 0 {
		return 0
	}
	if b >= src.ByteLen() {
		return src.CharLen()
	}
	line := src.LineOfByte(b)
	lineByteOff := src.LineByteOffset(line)
	lineCharOff := src.LineCharOffset(line)
	localByte := b - lineByteOff
	if localByte > src.lines[line].byteLen {
		// Defensive only: LineOfByte places a line's terminating newline at
		// localByte == byteLen, which byteToChar maps to the newline's own
		// char slot on that line, so this branch is not reached for
		// in-range offsets.
		return lineCharOff + src.lines[line].charLen + 1
	}
	return lineCharOff + src.byteToChar(line, localByte)
}
