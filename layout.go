package diag

import "sort"

// lineAttach is one label's placement on one source line: either an inline
// label whose single line this is, or a multi-line label edge (its
// start_line or end_line) passing through this line.
type lineAttach struct {
	nl          *normalizedLabel
	column      int // char offset within the line (0-based)
	isMulti     bool
	drawMessage bool // only meaningful for multi-line attaches
	lane        int  // only meaningful for multi-line attaches
}

// linePlan is every label attachment on one line of a group, already sorted
// in the order their arrow rows should be drawn.
type linePlan struct {
	line     int
	attaches []lineAttach
}

// lanePlan is one multi-line label's assigned gutter lane and line extent.
type lanePlan struct {
	nl                 *normalizedLabel
	lane               int
	startLine, endLine int
}

// groupPlan is the fully planned geometry for one group of labels sharing a
// Source — everything the line renderer (component F) needs to walk and
// draw, with no further decisions left to make.
type groupPlan struct {
	source             *Source
	sourceID           int
	lineStart, lineEnd int
	lines              []linePlan
	lanes              []lanePlan
	maxLane            int
}

// planGroups implements the layout planner, component E. Labels are grouped
// by SourceID preserving first-appearance order; within each group, lines,
// attaches, and multi-line lanes are computed per spec.md §4.E.
func planGroups(resolve func(id int) *Source, labels []normalizedLabel, cfg Config) []groupPlan {
	order := make([]int, 0, 4)
	seen := map[int]bool{}
	bySource := map[int][]*normalizedLabel{}

	for i := range labels {
		nl := &labels[i]
		if nl.dropped {
			continue
		}
		id := nl.label.SourceID
		if !seen[id] {
			seen[id] = true
			order = append(order, id)
		}
		bySource[id] = append(bySource[id], nl)
	}

	plans := make([]groupPlan, 0, len(order))
	for _, id := range order {
		src := resolve(id)
		if src == nil {
			continue
		}
		plans = append(plans, planOneGroup(src, id, bySource[id], cfg))
	}
	return plans
}

func planOneGroup(src *Source, sourceID int, labels []*normalizedLabel, cfg Config) groupPlan {
	gp := groupPlan{source: src, sourceID: sourceID}

	gp.lineStart = labels[0].startLine
	gp.lineEnd = labels[0].endLine
	for _, nl := range labels[1:] {
		if nl.startLine < gp.lineStart {
			gp.lineStart = nl.startLine
		}
		if nl.endLine > gp.lineEnd {
			gp.lineEnd = nl.endLine
		}
	}

	gp.lanes, gp.maxLane = assignLanes(labels)
	laneOf := make(map[*normalizedLabel]int, len(gp.lanes))
	for _, lp := range gp.lanes {
		laneOf[lp.nl] = lp.lane
	}

	perLine := map[int][]lineAttach{}
	for _, nl := range labels {
		if nl.kind == kindInline {
			col := attachColumn(src, nl, cfg.LabelAttach)
			perLine[nl.startLine] = append(perLine[nl.startLine], lineAttach{
				nl: nl, column: col,
			})
			continue
		}
		lane := laneOf[nl]
		startCol := nl.startChar - src.LineCharOffset(nl.startLine)
		endLocal := nl.endChar - 1 - src.LineCharOffset(nl.endLine)
		if endLocal < 0 {
			endLocal = 0
		}
		perLine[nl.startLine] = append(perLine[nl.startLine], lineAttach{
			nl: nl, column: startCol, isMulti: true, lane: lane,
			drawMessage: nl.startLine == nl.endLine,
		})
		if nl.endLine != nl.startLine {
			perLine[nl.endLine] = append(perLine[nl.endLine], lineAttach{
				nl: nl, column: endLocal, isMulti: true, lane: lane,
				drawMessage: true,
			})
		}
	}

	for line := gp.lineStart; line <= gp.lineEnd; line++ {
		attaches := perLine[line]
		if len(attaches) == 0 {
			continue
		}
		sortAttaches(attaches, cfg.ColumnOrder)
		gp.lines = append(gp.lines, linePlan{line: line, attaches: attaches})
	}

	return gp
}

// attachColumn implements spec.md §4.E's per-line-label-attach rule: start,
// end, or middle of the span, expressed as a char offset local to the line.
func attachColumn(src *Source, nl *normalizedLabel, mode LabelAttach) int {
	lineOff := src.LineCharOffset(nl.startLine)
	start := nl.startChar - lineOff
	end := nl.endChar - lineOff
	switch mode {
	case AttachStart:
		return start
	case AttachEnd:
		if end > start {
			return end - 1
		}
		return start
	default: // AttachMiddle
		return (start + end) / 2
	}
}

// sortAttaches orders the arrow rows below a line per spec.md §4.E: by
// (order, column, span_length) ascending when columnOrder is false,
// otherwise strict column ascending; ties always break shorter-span-first
// (P4).
func sortAttaches(a []lineAttach, columnOrder bool) {
	length := func(at lineAttach) int {
		return at.nl.endChar - at.nl.startChar
	}
	sort.SliceStable(a, func(i, j int) bool {
		ai, aj := a[i], a[j]
		if columnOrder {
			if ai.column != aj.column {
				return ai.column < aj.column
			}
			return length(ai) < length(aj)
		}
		if ai.nl.label.Order != aj.nl.label.Order {
			return ai.nl.label.Order < aj.nl.label.Order
		}
		if ai.column != aj.column {
			return ai.column < aj.column
		}
		return length(ai) < length(aj)
	})
}

// assignLanes implements spec.md §4.E's multi-line lane allocation:
// longest-first, ties broken by start_line ascending, lane 0 outermost,
// lanes reused once a prior occupant's span has closed.
func assignLanes(labels []*normalizedLabel) ([]lanePlan, int) {
	var multi []*normalizedLabel
	for _, nl := range labels {
		if nl.kind == kindMultiline {
			multi = append(multi, nl)
		}
	}
	sort.SliceStable(multi, func(i, j int) bool {
		li := multi[i].endLine - multi[i].startLine
		lj := multi[j].endLine - multi[j].startLine
		if li != lj {
			return li > lj // longest first
		}
		return multi[i].startLine < multi[j].startLine
	})

	var occupied uint64 // bitset of lanes currently in use
	type active struct {
		nl   *normalizedLabel
		lane int
	}
	var actives []active
	plans := make([]lanePlan, 0, len(multi))
	maxLane := -1

	for _, nl := range multi {
		// Free lanes whose occupant has already closed before this label's
		// start_line.
		kept := actives[:0]
		for _, ac := range actives {
			if ac.nl.endLine < nl.startLine {
				occupied &^= 1 << uint(ac.lane)
				continue
			}
			kept = append(kept, ac)
		}
		actives = kept

		lane := firstFreeLane(occupied)
		occupied |= 1 << uint(lane)
		actives = append(actives, active{nl: nl, lane: lane})
		if lane > maxLane {
			maxLane = lane
		}
		plans = append(plans, lanePlan{nl: nl, lane: lane, startLine: nl.startLine, endLine: nl.endLine})
	}

	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].startLine < plans[j].startLine
	})

	return plans, maxLane + 1
}

func firstFreeLane(occupied uint64) int {
	for i := 0; i < 64; i++ {
		if occupied&(1<<uint(i)) == 0 {
			return i
		}
	}
	return 63
}
