package diag

import (
	"strconv"
	"strings"

	"github.com/arrowspan/diag/internal/segment"
	"github.com/arrowspan/diag/internal/width"
)

// renderCtx carries everything the line renderer (component F) needs for
// one Report: the glyph table, style sheet, and width policy, so none of
// the drawing helpers need to thread Config around field by field.
type renderCtx struct {
	cfg   Config
	gl    glyphs
	style styleSheet
	ambi  width.Ambiguous
}

// minHookDash is the dash run a hook row draws when it isn't stretched to
// align with another message in its group (spec.md §8 S2: the rightmost
// attach on a line gets exactly this many dashes).
const minHookDash = 4

func newRenderCtx(cfg Config, color ColorFunc) renderCtx {
	return renderCtx{
		cfg:   cfg,
		gl:    glyphsFor(cfg.CharSet),
		style: newStyleSheet(cfg, color),
		ambi:  width.Ambiguous(cfg.AmbiWidth),
	}
}

// renderReport draws one Report to out, implementing component F end to
// end. It never returns until every byte has been emitted or the sink's
// first write error is observed.
func renderReport(out *sink, r *Report, resolve func(id int) *Source, color ColorFunc, showDebug bool) {
	if err := r.Config.Validate(); err != nil {
		panic(err) // configuration errors are rejected by the builder, never here
	}
	rc := newRenderCtx(r.Config, color)

	writeTitle(out, rc, r)

	normalized := []normalizedLabel{}
	if len(r.Labels) > 0 {
		// Labels may reference several Sources; normalize each against its
		// own Source, then let planGroups bucket them back by SourceID.
		bySource := map[int][]Label{}
		srcOrder := []int{}
		for _, l := range r.Labels {
			if _, ok := bySource[l.SourceID]; !ok {
				srcOrder = append(srcOrder, l.SourceID)
			}
			bySource[l.SourceID] = append(bySource[l.SourceID], l)
		}
		for _, id := range srcOrder {
			src := resolve(id)
			if src == nil {
				continue
			}
			for _, nl := range normalize(src, bySource[id], r.Config) {
				nl.label.SourceID = id
				normalized = append(normalized, nl)
			}
		}
	}

	groups := planGroups(resolve, normalized, r.Config)

	for gi, gp := range groups {
		if gi > 0 {
			writeGroupSeparator(out, rc, gp)
		} else {
			writeHeader(out, rc, gp, r)
		}
		renderGroup(out, rc, gp)
	}

	if len(r.Helps) > 0 || len(r.Notes) > 0 {
		if !rc.cfg.Compact && len(groups) > 0 {
			writeMarginOnly(out, rc, marginWidth(groups))
		}
		writeFooters(out, rc, marginWidth(groups), r.Helps, r.Notes)
	}

	if showDebug {
		writeDebugFooter(out, rc, marginWidth(groups), groups)
	}

	if len(groups) > 0 && !rc.cfg.Compact {
		writeTail(out, rc, marginWidth(groups))
	}
}

// writeDebugFooter implements Renderer.ShowDebug (SPEC_FULL §12): internal
// layout-decision notes — per-group lane assignments and any line whose
// display window was clamped by Config.LimitWidth — appended as an extra,
// unstyled-by-default footer block. Emits nothing if there is nothing to
// report.
func writeDebugFooter(out *sink, rc renderCtx, mw int, groups []groupPlan) {
	var lines []string
	for _, gp := range groups {
		lines = append(lines, "debug: group "+gp.source.Name()+" lines "+itoa(gp.lineStart+1)+"-"+itoa(gp.lineEnd+1)+", "+itoa(gp.maxLane)+" lane(s)")
		for _, lp := range gp.lanes {
			lines = append(lines, "debug: lane "+itoa(lp.lane)+" spans lines "+itoa(lp.startLine+1)+"-"+itoa(lp.endLine+1))
		}
		for _, lp := range gp.lines {
			win := computeWindow(rc, gp, lp.line, lp)
			if win.active {
				lines = append(lines, "debug: line "+itoa(lp.line+1)+" window clamped to cols "+itoa(win.startCol)+"-"+itoa(win.endCol))
			}
		}
	}
	if len(lines) == 0 {
		return
	}
	if len(groups) > 0 && !rc.cfg.Compact {
		writeMarginOnly(out, rc, mw)
	}
	for _, l := range lines {
		writeMargin(out, rc, mw, 0, false)
		out.WriteByte(' ')
		out.WriteString(rc.style.wrap(l, CategoryUnimportant))
		out.Newline()
	}
}

func writeTitle(out *sink, rc renderCtx, r *Report) {
	var b strings.Builder
	if r.Code != "" {
		b.WriteString(rc.gl.lbox)
		b.WriteString(r.Code)
		b.WriteString(rc.gl.rbox)
		b.WriteByte(' ')
	}
	b.WriteString(rc.style.wrap(r.Kind.word(), r.Kind.category()))
	if r.Title != "" {
		b.WriteString(": ")
		b.WriteString(r.Title)
	}
	out.WriteString(b.String())
	out.Newline()
}

// marginWidth returns the fixed left-hand width reserved for line numbers
// plus the separating bar, shared by every row the renderer emits for this
// Report (header, gutter, source, tail all line up on it).
func marginWidth(groups []groupPlan) int {
	maxLine := 0
	for _, gp := range groups {
		if gp.lineEnd+1 > maxLine {
			maxLine = gp.lineEnd + 1
		}
	}
	digits := len(strconv.Itoa(maxLine))
	if digits < 1 {
		digits = 1
	}
	return digits + 2 // one leading pad + digits + one trailing pad, bar follows
}

func writeHeader(out *sink, rc renderCtx, gp groupPlan, r *Report) {
	out.WriteSpaces(marginWidthFor(gp))
	out.WriteString(rc.style.wrap(rc.gl.ltop+rc.gl.hbar, CategoryMargin))
	out.WriteString(rc.gl.lbox)
	out.WriteByte(' ')
	out.WriteString(truncateHeaderLocation(rc, gp, headerLocation(gp, r)))
	out.WriteByte(' ')
	out.WriteString(rc.gl.rbox)
	out.Newline()

	if !rc.cfg.Compact {
		writeMarginOnly(out, rc, marginWidthFor(gp))
	}
}

// truncateHeaderLocation implements spec.md §4.E's header truncation: if
// the full header line would exceed limit_width, the location's leading
// path is replaced with a 3-column "..." and the display-width-measured
// ":line:col" suffix is kept. If that suffix is still wider than the
// remaining budget, its leading ":"-separated segments are shed one at a
// time until it fits or only one segment (":col") is left.
func truncateHeaderLocation(rc renderCtx, gp groupPlan, loc string) string {
	if rc.cfg.LimitWidth <= 0 {
		return loc
	}
	overhead := marginWidthFor(gp) + width.String(rc.gl.ltop+rc.gl.hbar, rc.ambi) +
		width.String(rc.gl.lbox, rc.ambi) + 1 + 1 + width.String(rc.gl.rbox, rc.ambi)
	avail := rc.cfg.LimitWidth - overhead
	if avail <= 0 || width.String(loc, rc.ambi) <= avail {
		return loc
	}
	idx := strings.Index(loc, ":")
	if idx < 0 {
		return loc
	}
	suffix := loc[idx:]
	budget := avail - 3 // reserve the ellipsis
	if budget <= 0 {
		return "..." + suffix
	}
	for width.String(suffix, rc.ambi) > budget && strings.Contains(suffix[1:], ":") {
		next := strings.Index(suffix[1:], ":")
		suffix = suffix[1+next:]
	}
	return "..." + suffix
}

func marginWidthFor(gp groupPlan) int {
	digits := len(strconv.Itoa(gp.lineEnd + 1))
	if digits < 1 {
		digits = 1
	}
	return digits + 2
}

func headerLocation(gp groupPlan, r *Report) string {
	name := gp.source.Name()
	if !r.HasPrimary || r.PrimarySourceID != gp.sourceID {
		return name + ":?:?"
	}
	start := r.PrimaryLocation.Start
	if r.Config.IndexType == IndexByte {
		start = byteToCharGlobal(gp.source, start)
	}
	if start < 0 || start > gp.source.CharLen() {
		return name + ":?:?"
	}
	line := gp.source.LineOfChar(start)
	col := start - gp.source.LineCharOffset(line) + 1
	return name + ":" + strconv.Itoa(line+1) + ":" + strconv.Itoa(col)
}

func writeGroupSeparator(out *sink, rc renderCtx, gp groupPlan) {
	mw := marginWidthFor(gp)
	out.WriteSpaces(mw)
	out.WriteString(rc.gl.lcross + rc.gl.hbar)
	out.WriteString(rc.gl.lbox)
	out.WriteByte(' ')
	out.WriteString(gp.source.Name())
	out.WriteByte(' ')
	out.WriteString(rc.gl.rbox)
	out.Newline()
	if !rc.cfg.Compact {
		writeMarginOnly(out, rc, mw)
	}
}

func writeMarginOnly(out *sink, rc renderCtx, mw int) {
	width := mw
	if rc.cfg.Compact {
		width--
	}
	out.WriteSpaces(width)
	out.WriteString(rc.style.wrap(rc.gl.vbar, CategorySkippedMargin))
	out.Newline()
}

func writeTail(out *sink, rc renderCtx, mw int) {
	// The closing corner sits at the same column the vertical bar occupies
	// on every other row: mw dashes, then the corner.
	out.WriteString(rc.style.wrap(strings.Repeat(rc.gl.hbar, mw)+rc.gl.rbot, CategoryMargin))
	out.Newline()
}

// writeMargin draws the left-hand gutter: either a bare continuing bar
// (active == false) or a right-aligned line number followed by the bar.
// Per spec.md §3, Config.Compact drops the one inner padding space between
// the number and the bar — applied uniformly so the bar still lines up
// between active and continuing rows.
func writeMargin(out *sink, rc renderCtx, mw int, lineNo int, active bool) {
	width := mw
	trailing := 1
	if rc.cfg.Compact {
		width--
		trailing = 0
	}
	if !active {
		out.WriteSpaces(width)
		out.WriteString(rc.style.wrap(rc.gl.vbar, CategorySkippedMargin))
		return
	}
	numStr := strconv.Itoa(lineNo)
	pad := width - 1 - trailing - len(numStr) // leading pad + digits + trailing pad + bar slot
	if pad < 0 {
		pad = 0
	}
	out.WriteSpaces(1)
	out.WriteSpaces(pad)
	out.WriteString(rc.style.wrap(numStr, CategoryMargin))
	out.WriteSpaces(trailing)
	out.WriteString(rc.style.wrap(rc.gl.vbar, CategoryMargin))
}

// renderGroup draws one group's full line range: gaps, source lines,
// underline rows, and arrow/message rows, per spec.md §4.E/§4.F. Runs of
// consecutive unlabeled lines collapse into a single cross-gap row, per
// spec.md §4.E's cross-gap handling.
func renderGroup(out *sink, rc renderCtx, gp groupPlan) {
	planned := map[int]linePlan{}
	for _, lp := range gp.lines {
		planned[lp.line] = lp
	}
	msgCol := groupMessageColumn(rc, gp)

	line := gp.lineStart
	for line <= gp.lineEnd {
		lp, isActive := planned[line]
		if !isActive {
			runEnd := line
			for runEnd+1 <= gp.lineEnd {
				if _, active := planned[runEnd+1]; active {
					break
				}
				runEnd++
			}
			writeGapRow(out, rc, gp, line, runEnd)
			line = runEnd + 1
			continue
		}
		win := computeWindow(rc, gp, line, lp)
		writeSourceLine(out, rc, gp, line, win)
		if rc.cfg.Underlines {
			writeUnderlineRow(out, rc, gp, line, lp, win)
		}
		writeArrowRows(out, rc, gp, line, lp, win, msgCol)
		line++
	}
}

// groupMessageColumn returns the display column spec.md §3's align_messages
// option lines hook messages up against: dc+minHookDash for the
// rightmost attach in the group, so every other hook's dash run stretches
// to reach the same column its shortest sibling would reach on its own.
func groupMessageColumn(rc renderCtx, gp groupPlan) int {
	target := 0
	for _, lp := range gp.lines {
		cols := charDisplayCols(string(gp.source.LineText(lp.line)), rc)
		for _, at := range lp.attaches {
			if at.nl.label.Message == "" && !at.drawMessage {
				continue
			}
			dc := displayCol(cols, at.column)
			need := dc + minHookDash
			if need > target {
				target = need
			}
		}
	}
	return target
}

// writeGapRow draws the single consolidated cross-gap row for the run of
// unlabeled lines [from, to], or nothing at all if no multi-line lane is
// active across that whole run.
func writeGapRow(out *sink, rc renderCtx, gp groupPlan, from, to int) {
	active := activeLanes(gp, from, to)
	if len(active) == 0 {
		return // not inside any multi-line span: nothing to draw at all
	}
	mw := marginWidthFor(gp)
	writeMargin(out, rc, mw, 0, false)
	out.WriteByte(' ')
	writeLaneCells(out, rc, gp, active, laneGlyphGap(rc)+" ")
	out.Newline()
}

func laneGlyphGap(rc renderCtx) string {
	if rc.cfg.CrossGap {
		return rc.gl.vbarGap
	}
	return rc.gl.xbar
}

// activeLanes returns the lanes whose multi-line span strictly encloses the
// unlabeled run [from, to] — i.e. the lane is merely passing through every
// line in that run.
func activeLanes(gp groupPlan, from, to int) []int {
	var lanes []int
	for _, lp := range gp.lanes {
		if lp.startLine < from && lp.endLine > to {
			lanes = append(lanes, lp.lane)
		}
	}
	return lanes
}

// laneCellWidth is the fixed two-column width every lane reserves on every
// row kind, so source lines, gap rows, underline rows, and arrow rows all
// line up regardless of which lanes are active on a given row.
const laneCellWidth = 2

// writeLaneCells draws one laneCellWidth-wide cell per lane in lanes
// (blank for every lane not in the set), using glyph (space-padded to
// laneCellWidth) for the active ones.
func writeLaneCells(out *sink, rc renderCtx, gp groupPlan, lanes []int, glyph string) {
	for len([]rune(glyph)) < laneCellWidth {
		glyph += " "
	}
	blank := strings.Repeat(" ", laneCellWidth)
	for i := 0; i < gp.maxLane; i++ {
		found := false
		for _, l := range lanes {
			if l == i {
				found = true
				break
			}
		}
		if found {
			out.WriteString(rc.style.wrap(glyph, CategoryUnimportant))
		} else {
			out.WriteString(blank)
		}
	}
}

// writeSourceLaneCells draws one cell per lane ahead of a source line's
// text, following the opening/passing/closing state machine of spec.md
// §4.E: a lane's start_line gets the opening glyph (",-"), every other
// source line it's active on (including its end_line) gets the continuing
// glyph ("|-") — the arrowhead that points into a message lives on the
// hook row below, not on the source line itself.
func writeSourceLaneCells(out *sink, rc renderCtx, gp groupPlan, line int) {
	for i := 0; i < gp.maxLane; i++ {
		glyph := "  "
		if rc.cfg.MultilineArrows {
			for _, lp := range gp.lanes {
				if lp.lane != i {
					continue
				}
				switch {
				case line == lp.startLine:
					glyph = rc.gl.ltop + rc.gl.hbar
				case line >= lp.startLine && line <= lp.endLine:
					glyph = rc.gl.vbar + rc.gl.hbar
				}
			}
		}
		out.WriteString(rc.style.wrap(glyph, CategoryUnimportant))
	}
}

func writeSourceLine(out *sink, rc renderCtx, gp groupPlan, line int, win lineWindow) {
	mw := marginWidthFor(gp)
	writeMargin(out, rc, mw, line+1, true)
	out.WriteByte(' ')
	writeSourceLaneCells(out, rc, gp, line)

	text := string(gp.source.LineText(line))
	if !win.active {
		out.WriteString(expandTabs(text, rc))
		return
	}
	cols := charDisplayCols(text, rc)
	startChar, endChar := charRangeFor(cols, win)
	runes := []rune(text)
	if endChar > len(runes) {
		endChar = len(runes)
	}
	if startChar > endChar {
		startChar = endChar
	}
	var b strings.Builder
	if win.leftEllipsis {
		b.WriteString("...")
	}
	b.WriteString(expandTabs(string(runes[startChar:endChar]), rc))
	if win.rightEllipsis {
		b.WriteString("...")
	}
	out.WriteString(b.String())
}

func lanesOnLine(gp groupPlan, line int) []int {
	var lanes []int
	for _, lp := range gp.lanes {
		if line >= lp.startLine && line <= lp.endLine {
			lanes = append(lanes, lp.lane)
		}
	}
	return lanes
}

// expandTabs renders text with tabs turned into spaces to the next
// tab_width stop, per component A/B column arithmetic.
func expandTabs(text string, rc renderCtx) string {
	if !strings.ContainsRune(text, '\t') {
		return text
	}
	var b strings.Builder
	ruler := width.NewRuler(rc.ambi, rc.cfg.TabWidth)
	for _, cl := range segment.Clusters(text, rc.ambi) {
		if cl.Text == "\t" {
			before := ruler.Col()
			after := ruler.Measure('\t')
			b.WriteString(strings.Repeat(" ", after-before))
			continue
		}
		for _, r := range cl.Text {
			ruler.Measure(r)
		}
		b.WriteString(cl.Text)
	}
	return b.String()
}

// charDisplayCols returns, for each char index 0..len(runes(text)), the
// display column at which that char starts — cols[len] is the line's total
// display width. Driving both the source row and the underline row off the
// same Ruler is what keeps P3 (column alignment) true across tabs and
// variable-width runes.
func charDisplayCols(text string, rc renderCtx) []int {
	cols := make([]int, 1, len([]rune(text))+1)
	ruler := width.NewRuler(rc.ambi, rc.cfg.TabWidth)
	for _, r := range text {
		ruler.Measure(r)
		cols = append(cols, ruler.Col())
	}
	return cols
}

// lineWindow is the single visible slice of one source line's display
// columns chosen by computeWindow, per spec.md §4.E's windowing rule. A
// zero-value lineWindow (active == false) means the whole line is shown.
//
// This implementation covers the single-window case: the leftmost label's
// attach column is centered in the available budget. It does not split a
// line into multiple windows when labels are spread further apart than one
// window can cover (spec.md's "emit the source line once per cluster of
// labels" case) — a line in that situation still gets one window, centered
// on its leftmost label, and labels outside it are simply not visible. This
// is a documented scope reduction, not a silent one (see DESIGN.md).
type lineWindow struct {
	active                     bool
	startCol, endCol           int // display-column range shown, end-exclusive
	leftEllipsis, rightEllipsis bool
}

// computeWindow implements spec.md §4.E's windowing rule for one line: if
// limit_width is unset or the line already fits, the window is inactive;
// otherwise, if every attach column fits in the budget minus 3 columns for a
// trailing ellipsis, the window starts at column 0; if not, the leftmost
// label's attach column is centered in the budget minus 6 columns (3 per
// ellipsis), reserved even when the window reaches either end of the line.
func computeWindow(rc renderCtx, gp groupPlan, line int, lp linePlan) lineWindow {
	if rc.cfg.LimitWidth <= 0 {
		return lineWindow{}
	}
	text := string(gp.source.LineText(line))
	cols := charDisplayCols(text, rc)
	total := cols[len(cols)-1]

	prefix := marginWidthFor(gp) + 1 + gp.maxLane*laneCellWidth
	budget := rc.cfg.LimitWidth - prefix
	if budget <= 0 || total <= budget {
		return lineWindow{}
	}

	maxAttach, minAttach := 0, total
	for _, at := range lp.attaches {
		dc := displayCol(cols, at.column)
		if dc > maxAttach {
			maxAttach = dc
		}
		if dc < minAttach {
			minAttach = dc
		}
	}
	if len(lp.attaches) == 0 {
		minAttach, maxAttach = 0, 0
	}

	avail := budget - 3 // reserve trailing ellipsis
	if avail < 1 {
		avail = 1
	}
	if maxAttach < avail {
		endCol := avail
		if endCol > total {
			endCol = total
		}
		return lineWindow{active: true, startCol: 0, endCol: endCol, rightEllipsis: total > endCol}
	}

	avail2 := budget - 6 // reserve both ellipses
	if avail2 < 1 {
		avail2 = 1
	}
	startCol := minAttach - avail2/2
	if startCol < 0 {
		startCol = 0
	}
	endCol := startCol + avail2
	if endCol > total {
		endCol = total
		startCol = endCol - avail2
		if startCol < 0 {
			startCol = 0
		}
	}
	return lineWindow{
		active:        true,
		startCol:      startCol,
		endCol:        endCol,
		leftEllipsis:  startCol > 0,
		rightEllipsis: endCol < total,
	}
}

// charRangeFor converts win's display-column range back to a char range
// over cols, the same table computeWindow built it from.
func charRangeFor(cols []int, win lineWindow) (int, int) {
	if !win.active {
		return 0, len(cols) - 1
	}
	startChar, endChar := 0, len(cols)-1
	for i, c := range cols {
		if c <= win.startCol {
			startChar = i
		}
		if c <= win.endCol {
			endChar = i
		}
	}
	return startChar, endChar
}

// shiftCol maps a full-line display column into the window's local
// coordinate space (after any left ellipsis), or reports it is not
// visible.
func (win lineWindow) shiftCol(dc int) (int, bool) {
	if !win.active {
		return dc, true
	}
	if dc < win.startCol || dc >= win.endCol {
		return 0, false
	}
	local := dc - win.startCol
	if win.leftEllipsis {
		local += 3
	}
	return local, true
}

// writeUnderlineRow implements spec.md §4.E's underline compositing: for
// every char column, the owning label is the one with strictly greater
// priority, ties broken by shorter span (more specific wins); each char's
// owner expands to exactly its display width worth of underline glyphs, so
// a double-wide rune gets two underline cells under it.
func writeUnderlineRow(out *sink, rc renderCtx, gp groupPlan, line int, lp linePlan, win lineWindow) {
	lineLen := gp.source.LineCharLen(line)
	text := string(gp.source.LineText(line))
	cols := charDisplayCols(text, rc)

	attachCols := map[int]bool{}
	for _, at := range lp.attaches {
		if dc, ok := win.shiftCol(displayCol(cols, at.column)); ok {
			attachCols[dc] = true
		}
	}

	mw := marginWidthFor(gp)
	writeMargin(out, rc, mw, 0, false)
	out.WriteByte(' ')
	writeLaneCells(out, rc, gp, lanesOnLine(gp, line), "  ")

	var b strings.Builder
	if win.active && win.leftEllipsis {
		b.WriteString("   ")
	}
	var runOwner *normalizedLabel
	runStart := -1
	flush := func(endDisplayCol int) {
		if runStart < 0 {
			return
		}
		n := endDisplayCol - runStart
		if n <= 0 {
			return
		}
		if runOwner == nil {
			b.WriteString(strings.Repeat(" ", n))
			return
		}
		glyphs := []rune(strings.Repeat(rc.gl.underline, n))
		st := rc.style.labelColor(runOwner.label.Color)
		b.WriteString(st.wrap(string(glyphs), CategoryLabel))
	}

	col := 0
	for col < lineLen {
		local, visible := win.shiftCol(cols[col])
		if !visible {
			col++
			continue
		}
		owner := ownerAt(gp, line, col)
		if runStart < 0 {
			runStart = local
			runOwner = owner
		} else if owner != runOwner {
			flush(local)
			runStart = local
			runOwner = owner
		}
		col++
	}
	if endLocal, visible := win.shiftCol(cols[lineLen]); visible {
		flush(endLocal)
	} else if win.active {
		flush(win.endCol - win.startCol + btoi(win.leftEllipsis)*3)
	}

	out.WriteString(overlayAttachMarks(b.String(), nil, attachCols, rc))

	if lineLen == 0 {
		// Zero-width span at end of an empty line still needs a caret.
		if at, ok := attachOnEmptyLine(lp); ok {
			st := rc.style.labelColor(at.nl.label.Color)
			out.WriteString(st.wrap(rc.gl.underbar, CategoryLabel))
		}
	}
	out.Newline()
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

func attachOnEmptyLine(lp linePlan) (lineAttach, bool) {
	for _, at := range lp.attaches {
		if at.column == 0 {
			return at, true
		}
	}
	return lineAttach{}, false
}

// overlayAttachMarks replaces the underline glyph with the underbar glyph
// at each already-display-column-indexed position in displayCols. It
// indexes the run string by rune, so it only works on unstyled text: if s
// contains an ESC byte (color enabled), s is returned unchanged and no
// underbar is drawn; the underline itself is unaffected.
func overlayAttachMarks(s string, _ []int, displayCols map[int]bool, rc renderCtx) string {
	if len(displayCols) == 0 || strings.ContainsAny(s, "\x1b") {
		return s
	}
	runes := []rune(s)
	for idx := range displayCols {
		if idx >= 0 && idx < len(runes) {
			runes[idx] = []rune(rc.gl.underbar)[0]
		}
	}
	return string(runes)
}

// ownerAt resolves spec.md §4.E's priority rule for a single column: the
// label with strictly greater priority wins; ties break toward the shorter
// span.
func ownerAt(gp groupPlan, line, col int) *normalizedLabel {
	var best *normalizedLabel
	consider := func(nl *normalizedLabel, lineStart, lineEnd int) {
		if col < lineStart || col >= lineEnd {
			return
		}
		if best == nil {
			best = nl
			return
		}
		if nl.label.Priority > best.label.Priority {
			best = nl
			return
		}
		if nl.label.Priority == best.label.Priority {
			if (nl.endChar - nl.startChar) < (best.endChar - best.startChar) {
				best = nl
			}
		}
	}
	for _, lp2 := range gp.lines {
		if lp2.line != line {
			continue
		}
		for _, at := range lp2.attaches {
			nl := at.nl
			if nl.kind == kindInline {
				consider(nl, nl.startChar-gp.source.LineCharOffset(nl.startLine), nl.endChar-gp.source.LineCharOffset(nl.startLine))
			}
		}
	}
	return best
}

// writeArrowRows draws, for each arrow-bearing attach on this line (in
// planner order), a connector row if needed, the hook row with its
// message, and an inter-label connector row when more attaches follow.
func writeArrowRows(out *sink, rc renderCtx, gp groupPlan, line int, lp linePlan, win lineWindow, msgCol int) {
	mw := marginWidthFor(gp)
	pending := make([]lineAttach, 0, len(lp.attaches))
	for _, at := range lp.attaches {
		if at.nl.label.Message == "" && !at.drawMessage {
			continue
		}
		pending = append(pending, at)
	}
	if len(pending) == 0 {
		return
	}
	cols := charDisplayCols(string(gp.source.LineText(line)), rc)

	for i, at := range pending {
		if i > 0 {
			writeConnectorRow(out, rc, gp, mw, line, cols, win, pending[i:])
		}
		writeHookRow(out, rc, gp, mw, line, cols, win, at, pending[i+1:], msgCol)
	}
}

// displayCol maps a char-indexed attach column to its display column, using
// the same cols table writeUnderlineRow builds, so arrow rows stay aligned
// with the underline and source rows under tabs and wide runes alike.
func displayCol(cols []int, charCol int) int {
	if charCol < 0 {
		return 0
	}
	if charCol >= len(cols) {
		charCol = len(cols) - 1
	}
	return cols[charCol]
}

func writeConnectorRow(out *sink, rc renderCtx, gp groupPlan, mw, line int, cols []int, win lineWindow, remaining []lineAttach) {
	writeMargin(out, rc, mw, 0, false)
	out.WriteByte(' ')
	writeLaneCells(out, rc, gp, lanesOnLine(gp, line), "  ")
	writeConnectorCells(out, rc, cols, win, remaining)
	out.Newline()
}

func writeConnectorCells(out *sink, rc renderCtx, cols []int, win lineWindow, remaining []lineAttach) {
	maxCol := 0
	visibleCols := make([]int, 0, len(remaining))
	for _, at := range remaining {
		local, visible := win.shiftCol(displayCol(cols, at.column))
		if !visible {
			continue
		}
		visibleCols = append(visibleCols, local)
		if local > maxCol {
			maxCol = local
		}
	}
	cells := make([]byte, maxCol+1)
	for i := range cells {
		cells[i] = ' '
	}
	for _, dc := range visibleCols {
		cells[dc] = '|'
	}
	out.WriteString(string(cells))
}

func writeHookRow(out *sink, rc renderCtx, gp groupPlan, mw, line int, cols []int, win lineWindow, at lineAttach, after []lineAttach, msgCol int) {
	writeMargin(out, rc, mw, 0, false)
	out.WriteByte(' ')
	writeLaneCells(out, rc, gp, lanesOnLine(gp, line), "  ")

	dc, visible := win.shiftCol(displayCol(cols, at.column))
	if !visible {
		dc = 0
	}
	prefix := make([]byte, dc)
	for i := range prefix {
		prefix[i] = ' '
	}
	for _, a2 := range after {
		if d2, ok := win.shiftCol(displayCol(cols, a2.column)); ok && d2 < len(prefix) {
			prefix[d2] = '|'
		}
	}
	out.WriteString(string(prefix))

	msg := messageFor(at)
	st := rc.style.labelColor(at.nl.label.Color)
	dashLen := minHookDash
	if rc.cfg.AlignMessages && msgCol-dc > dashLen {
		dashLen = msgCol - dc
	}
	hook := rc.gl.lbot + strings.Repeat(rc.gl.hbar, dashLen)
	out.WriteString(st.wrap(hook, CategoryLabel))
	if msg != "" {
		out.WriteByte(' ')
		out.WriteString(msg)
	}
	out.Newline()
}

func messageFor(at lineAttach) string {
	if at.isMulti && !at.drawMessage {
		return ""
	}
	return at.nl.label.Message
}

func writeFooters(out *sink, rc renderCtx, mw int, helps, notes []string) {
	for _, fl := range buildFooters(helps, notes) {
		if mw > 0 {
			writeMargin(out, rc, mw, 0, false)
			out.WriteByte(' ')
		}
		out.WriteString(rc.style.wrap(fl.text, fl.kind))
		out.Newline()
	}
}
