package diag

import "fmt"

// LabelAttach selects which column within a single-line span a label's
// message arrow attaches to.
type LabelAttach int

const (
	AttachMiddle LabelAttach = iota // default
	AttachStart
	AttachEnd
)

// IndexType selects how user-supplied span coordinates are interpreted.
type IndexType int

const (
	IndexChar IndexType = iota // default
	IndexByte
)

// CharSet selects the glyph table used to draw margins, underlines, and
// arrow lanes.
type CharSet int

const (
	CharSetUnicode CharSet = iota // default
	CharSetASCII
)

// AmbiWidth selects the display width of ambiguous East-Asian characters.
type AmbiWidth int

const (
	AmbiNarrow AmbiWidth = 1 // default
	AmbiWide   AmbiWidth = 2
)

// Config is the closed set of rendering options described in spec.md §3.
// The zero value is not valid configuration — use DefaultConfig to obtain
// one with every default applied, then override individual fields.
type Config struct {
	CrossGap        bool
	Compact         bool
	Underlines      bool
	ColumnOrder     bool
	AlignMessages   bool
	MultilineArrows bool
	TabWidth        int
	LimitWidth      int // 0 means unlimited
	AmbiWidth       AmbiWidth
	LabelAttach     LabelAttach
	IndexType       IndexType
	Color           bool
	CharSet         CharSet
}

// DefaultConfig returns the configuration spec.md §3 lists as defaults.
func DefaultConfig() Config {
	return Config{
		CrossGap:        true,
		Compact:         false,
		Underlines:      true,
		ColumnOrder:     false,
		AlignMessages:   true,
		MultilineArrows: true,
		TabWidth:        4,
		LimitWidth:      0,
		AmbiWidth:       AmbiNarrow,
		LabelAttach:     AttachMiddle,
		IndexType:       IndexChar,
		Color:           true,
		CharSet:         CharSetUnicode,
	}
}

// Validate rejects configuration domain errors before they ever reach the
// renderer (SPEC_FULL §10.1 / spec.md §7): the core never observes an
// invalid tab width or an out-of-range enum.
func (c Config) Validate() error {
	if c.TabWidth < 1 {
		return fmt.Errorf("diag: tab_width must be >= 1, got %d", c.TabWidth)
	}
	if c.LimitWidth < 0 {
		return fmt.Errorf("diag: limit_width must be >= 0, got %d", c.LimitWidth)
	}
	switch c.AmbiWidth {
	case AmbiNarrow, AmbiWide:
	default:
		return fmt.Errorf("diag: ambi_width must be 1 or 2, got %d", c.AmbiWidth)
	}
	switch c.LabelAttach {
	case AttachStart, AttachMiddle, AttachEnd:
	default:
		return fmt.Errorf("diag: invalid label_attach %d", c.LabelAttach)
	}
	switch c.IndexType {
	case IndexByte, IndexChar:
	default:
		return fmt.Errorf("diag: invalid index_type %d", c.IndexType)
	}
	switch c.CharSet {
	case CharSetUnicode, CharSetASCII:
	default:
		return fmt.Errorf("diag: invalid char_set %d", c.CharSet)
	}
	return nil
}
