// Package diag renders compiler-style diagnostics — titles, optional codes,
// labeled source excerpts with underlines and multi-line arrow connectors,
// and help/note footers — in the rustc/ariadne family of styles. It is the
// layout and drawing engine only: reading source files, picking an ANSI
// palette, and any CLI around it are the host's job (spec.md §1).
package diag

import (
	"bytes"
	"sort"
)

// Renderer draws Reports to a Writer. The zero Renderer renders without
// color (whatever a Report's Config.Color says) and without the debug
// footer.
type Renderer struct {
	// Color supplies the opaque escape string for each Category. Nil
	// disables styling regardless of a Report's Config.Color.
	Color ColorFunc
	// ShowDebug appends internal layout-decision notes (lane assignments,
	// window clamps) as an extra footer, for diagnosing the renderer
	// itself — never shown to end users by default.
	ShowDebug bool
}

// Source1 returns a Source-resolving function usable with Render when every
// label in a Report comes from the same single Source, the common case
// spec.md §6 calls out as a degenerate single-collaborator case.
func Source1(src *Source) func(int) *Source {
	return func(int) *Source { return src }
}

// Render draws r to out. resolve maps a label's SourceID back to its
// Source; use Source1 for single-source Reports. Any error out.Write
// returns is propagated unchanged, terminating the render at the next
// chunk boundary (spec.md §5/§7). A panic during the render is recovered
// and returned as the error; no fallback text is written for it.
func (rn Renderer) Render(out Writer, r *Report, resolve func(id int) *Source) (err error) {
	defer func() {
		if p := recover(); p != nil {
			// Internal invariant violations are bugs; report them as the
			// returned error rather than letting the panic escape. Lines
			// already written to out stay written.
			if e, ok := p.(error); ok {
				err = e
			} else {
				err = &renderPanic{value: p}
			}
		}
	}()

	s := newSink(out)
	renderReport(s, r, resolve, rn.Color, rn.ShowDebug)
	if flushErr := s.Flush(); flushErr != nil {
		return flushErr
	}
	return s.Err()
}

// RenderString draws r like Render and returns the result as a string, for
// callers that don't need streaming output.
func (rn Renderer) RenderString(r *Report, resolve func(id int) *Source) (string, error) {
	var buf bytes.Buffer
	err := rn.Render(&buf, r, resolve)
	return buf.String(), err
}

// renderPanic wraps a non-error panic value recovered from a render call.
type renderPanic struct{ value any }

func (p *renderPanic) Error() string {
	return "diag: internal error during render (recovered)"
}

// Batch is an ordered collection of Reports rendered together, with a
// trailing summary line in the style of rustc's "N errors, M warnings"
// (SPEC_FULL §12) — a convenience one level above spec.md's single-Report
// scope.
type Batch struct {
	Reports []*Report
	Resolve func(id int) *Source
}

// Sort canonicalizes ordering across the batch by primary-location source
// name, then by the kind's severity (errors before warnings before
// advice), then by the primary location's start offset — deterministic
// regardless of the order
// Reports were appended in (P6).
func (b *Batch) Sort() {
	sort.SliceStable(b.Reports, func(i, j int) bool {
		ri, rj := b.Reports[i], b.Reports[j]
		si, sj := "", ""
		if src := b.Resolve(ri.PrimarySourceID); src != nil {
			si = src.Name()
		}
		if src := b.Resolve(rj.PrimarySourceID); src != nil {
			sj = src.Name()
		}
		if si != sj {
			return si < sj
		}
		if sevOf(ri.Kind) != sevOf(rj.Kind) {
			return sevOf(ri.Kind) < sevOf(rj.Kind)
		}
		return ri.PrimaryLocation.Start < rj.PrimaryLocation.Start
	})
}

func sevOf(k Kind) int {
	switch k {
	case KindError:
		return 0
	case KindWarning:
		return 1
	default:
		return 2
	}
}

// RenderBatch draws every Report in the batch in order, followed by a
// summary line counting errors and warnings.
func (rn Renderer) RenderBatch(out Writer, b *Batch) error {
	var errs, warns int
	for _, r := range b.Reports {
		if err := rn.Render(out, r, b.Resolve); err != nil {
			return err
		}
		switch r.Kind {
		case KindError:
			errs++
		case KindWarning:
			warns++
		}
	}
	if errs == 0 && warns == 0 {
		return nil
	}
	summary := summaryLine(errs, warns)
	_, err := out.Write([]byte(summary + "\n"))
	return err
}

func summaryLine(errs, warns int) string {
	parts := make([]string, 0, 2)
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	out := "encountered "
	for i, p := range parts {
		if i > 0 {
			out += " and "
		}
		out += p
	}
	return out
}

func plural(n int, word string) string {
	s := itoa(n) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}
