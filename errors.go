package diag

import "fmt"

// fileError wraps a Report as a plain error, so a host application's error
// plumbing can carry a diagnostic without depending on this package's types
// directly — grounded on the teacher's report.AsError/ErrInFile pair.
type fileError struct {
	report *Report
	file   string
}

func (e *fileError) Error() string {
	if e.file != "" {
		return e.file + ": " + e.report.Title
	}
	return e.report.Title
}

// Unwrap exposes the wrapped Report's Title through fmt.Errorf's %w chains
// as a plain string reason; callers that need the full Report should type
// assert back to *Report via AsReport.
func (e *fileError) Unwrap() error {
	return fmt.Errorf("%s", e.report.Title)
}

// AsReport returns the Report this error wraps.
func (e *fileError) AsReport() *Report {
	return e.report
}

// AsError wraps r as a plain error value.
func AsError(r *Report) error {
	return &fileError{report: r}
}

// ErrInFile wraps err, noting that it occurred while processing file — for
// embedding a lower-level I/O or parse error into a diagnostic pipeline that
// otherwise only deals in Reports.
func ErrInFile(file string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", file, err)
}
