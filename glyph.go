package diag

// glyphs is the fixed set of drawing characters for one char_set. spec.md §6
// names exactly two tables; there is no third, and none of the fields are
// independently configurable.
type glyphs struct {
	hbar, vbar, xbar              string
	vbarBreak, vbarGap            string
	uarrow, rarrow                string
	ltop, mtop, rtop              string
	lbot, rbot, mbot              string
	lbox, rbox                    string
	lcross, rcross                string
	underbar, underline           string
}

var asciiGlyphs = glyphs{
	hbar: "-", vbar: "|", xbar: "+",
	vbarBreak: "*", vbarGap: ":",
	uarrow: "^", rarrow: ">",
	ltop: ",", mtop: "v", rtop: ".",
	lbot: "`", rbot: "'", mbot: "^",
	lbox: "[", rbox: "]",
	lcross: "|", rcross: "|",
	underbar: "|", underline: "^",
}

var unicodeGlyphs = glyphs{
	hbar: "─", vbar: "│", xbar: "┼",
	vbarBreak: "┆", vbarGap: "┆",
	uarrow: "▲", rarrow: "▶",
	ltop: "╭", mtop: "┬", rtop: "╮",
	lbot: "╰", rbot: "╯", mbot: "┴",
	lbox: "[", rbox: "]",
	lcross: "├", rcross: "┤",
	underbar: "┬", underline: "─",
}

func glyphsFor(cs CharSet) glyphs {
	if cs == CharSetASCII {
		return asciiGlyphs
	}
	return unicodeGlyphs
}
