package diag

import "io"

// Writer is the sink the engine writes output through: any object that can
// accept a chunk of bytes and report success or a propagated error. The
// renderer requires nothing more than io.Writer already gives it — this
// type alias exists so SPEC_FULL's "writer sink" collaborator (spec.md §6)
// has a name of its own in this package's API.
type Writer = io.Writer

// sink buffers output and remembers the first error any underlying Write
// call returned, so the rest of the render can keep computing layout
// decisions without threading an error return through every helper — it
// just stops emitting once err is set, the same short-circuit the teacher's
// writer.flush uses.
type sink struct {
	out io.Writer
	buf []byte
	err error
}

func newSink(out io.Writer) *sink {
	return &sink{out: out}
}

// WriteString appends s to the pending buffer.
func (s *sink) WriteString(str string) {
	if s.err != nil {
		return
	}
	s.buf = append(s.buf, str...)
}

// WriteByte appends a single byte.
func (s *sink) WriteByte(b byte) {
	if s.err != nil {
		return
	}
	s.buf = append(s.buf, b)
}

// WriteSpaces appends n space characters.
func (s *sink) WriteSpaces(n int) {
	if s.err != nil || n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		s.buf = append(s.buf, ' ')
	}
}

// Newline flushes the pending buffer as one chunk, trimming trailing
// whitespace first (spec.md's tail-trimmed output form), then writes the
// newline itself.
func (s *sink) Newline() {
	s.flush()
	if s.err != nil {
		return
	}
	_, s.err = s.out.Write([]byte{'\n'})
}

func (s *sink) flush() {
	if s.err != nil {
		return
	}
	end := len(s.buf)
	for end > 0 && (s.buf[end-1] == ' ' || s.buf[end-1] == '\t') {
		end--
	}
	if end == 0 {
		s.buf = s.buf[:0]
		return
	}
	_, s.err = s.out.Write(s.buf[:end])
	s.buf = s.buf[:0]
}

// Flush writes any pending buffer without trimming or appending a newline —
// used at the very end of a render to emit a final partial line, if any.
func (s *sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	if len(s.buf) > 0 {
		_, s.err = s.out.Write(s.buf)
		s.buf = s.buf[:0]
	}
	return s.err
}

// Err returns the first error encountered, if any.
func (s *sink) Err() error {
	return s.err
}
