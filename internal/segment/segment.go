// Package segment walks a line's bytes into the grapheme clusters a
// diagnostic renderer treats as single cells: combining marks attached to
// their base, ZWJ-joined emoji sequences, regional-indicator flag pairs, and
// variation selectors all collapse into one Cluster. It is a thin wrapper
// over github.com/rivo/uniseg's grapheme-cluster state machine.
package segment

import (
	"github.com/rivo/uniseg"

	"github.com/arrowspan/diag/internal/width"
)

// Cluster is one grapheme cluster within a line.
type Cluster struct {
	// ByteStart and ByteEnd delimit the cluster within the original line,
	// end-exclusive.
	ByteStart, ByteEnd int
	// Text is the cluster's raw bytes, as a string.
	Text string
	// Chars is the number of runes the cluster is made of (normally 1, but
	// combining sequences and ZWJ joins report every rune they absorbed).
	Chars int
	// Width is the cluster's display width under the given Ambiguous policy:
	// 0, 1, or 2 columns.
	Width int
}

// Clusters walks line, a single line of source text (no trailing newline),
// and returns every grapheme cluster in order. Invalid byte sequences yield
// a one-byte, width-1 cluster so no input can stall or panic the walk.
func Clusters(line string, ambi width.Ambiguous) []Cluster {
	out := make([]Cluster, 0, len(line))
	state := -1
	rest := line
	offset := 0
	for len(rest) > 0 {
		cluster, remainder, w, newState := uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "" {
			// Defensive: uniseg should never return an empty cluster for
			// non-empty input, but an empty cluster would otherwise spin
			// forever.
			cluster = rest[:1]
			remainder = rest[1:]
			w = 1
		}
		nchars := 0
		for range cluster {
			nchars++
		}
		if ambi == width.Wide && w == 1 && isAmbiguousCluster(cluster) {
			w = 2
		}
		out = append(out, Cluster{
			ByteStart: offset,
			ByteEnd:   offset + len(cluster),
			Text:      cluster,
			Chars:     nchars,
			Width:     w,
		})
		offset += len(cluster)
		rest = remainder
		state = newState
	}
	return out
}

// isAmbiguousCluster reports whether a single-rune cluster's rune falls in
// the East-Asian-Ambiguous width category, in which case uniseg's default
// (narrow) width disagrees with a Wide ambi_width policy and needs
// correcting. Multi-rune clusters (anything already joined/combined) keep
// uniseg's width verbatim — ambiguity only ever applies to the bare rune.
func isAmbiguousCluster(cluster string) bool {
	runes := []rune(cluster)
	if len(runes) != 1 {
		return false
	}
	return width.Rune(runes[0], width.Wide) == 2 && width.Rune(runes[0], width.Narrow) == 1
}

// Count returns the number of grapheme clusters in line without allocating
// the full Cluster slice.
func Count(line string) int {
	return uniseg.GraphemeClusterCount(line)
}
