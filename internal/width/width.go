// Package width answers one question: how many terminal columns does a
// scalar value occupy? It backs the display-width table the renderer needs —
// tabs aside, which are handled here too since tab width depends on the
// running column, not the rune itself.
package width

import (
	"github.com/rivo/uniseg"
	"github.com/unilibs/uniwidth"
)

// Ambiguous selects how East-Asian-ambiguous runes are measured.
type Ambiguous int

const (
	// Narrow measures ambiguous-width runes as a single column. This is the
	// default.
	Narrow Ambiguous = 1
	// Wide measures ambiguous-width runes as two columns.
	Wide Ambiguous = 2
)

func (a Ambiguous) eaWidth() uniwidth.EAWidth {
	if a == Wide {
		return uniwidth.EAWide
	}
	return uniwidth.EANarrow
}

// Rune returns the display width of a single scalar value: 0, 1, or 2.
// Control characters and combining marks are 0; CJK Wide/Fullwidth runes are
// 2; ambiguous East-Asian runes follow ambi.
func Rune(r rune, ambi Ambiguous) int {
	return uniwidth.RuneWidthWithOptions(r, uniwidth.WithEastAsianAmbiguous(ambi.eaWidth()))
}

// String returns the display width of s. Tab characters are measured as a
// single control character (width 0); callers that need tab expansion
// should use a Ruler instead, since tab width depends on the column a tab
// is reached at.
func String(s string, ambi Ambiguous) int {
	if ambi == Narrow {
		return uniseg.StringWidth(s)
	}
	return uniwidth.StringWidthWithOptions(s, uniwidth.WithEastAsianAmbiguous(ambi.eaWidth()))
}

// Ruler tracks a running column total across a stream of runes, expanding
// tabs to the next multiple of tabstop as it goes. A zero Ruler measures
// with Narrow ambiguity and a tabstop of 1; use NewRuler to configure both.
type Ruler struct {
	ambi    Ambiguous
	tabstop int
	col     int
}

// NewRuler returns a Ruler configured for the given ambiguous-width policy
// and tab stop. tabstop must be ≥ 1; validating that is the builder's job,
// not this package's.
func NewRuler(ambi Ambiguous, tabstop int) *Ruler {
	if tabstop < 1 {
		tabstop = 1
	}
	return &Ruler{ambi: ambi, tabstop: tabstop}
}

// Measure advances the ruler by one rune and returns the ruler's new total
// column count.
func (r *Ruler) Measure(ch rune) int {
	if ch == '\t' {
		tabstop := r.tabstop
		if tabstop < 1 {
			tabstop = 1
		}
		step := tabstop - r.col%tabstop
		r.col += step
		return r.col
	}
	r.col += Rune(ch, r.ambi)
	return r.col
}

// Col returns the column the ruler has measured so far.
func (r *Ruler) Col() int {
	return r.col
}

// Reset zeroes the running column, keeping the configured policy.
func (r *Ruler) Reset() {
	r.col = 0
}
