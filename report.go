package diag

// Kind is the severity/category of a Report. The three built-in kinds carry
// their own well-known word and color category; any other string is used
// verbatim as the kind word and styled as CategoryKind.
type Kind string

const (
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindAdvice  Kind = "advice"
)

func (k Kind) word() string {
	switch k {
	case KindError:
		return "Error"
	case KindWarning:
		return "Warning"
	case KindAdvice:
		return "Advice"
	default:
		return string(k)
	}
}

func (k Kind) category() Category {
	switch k {
	case KindError:
		return CategoryError
	case KindWarning:
		return CategoryWarning
	default:
		return CategoryKind
	}
}

// Report is one diagnostic: a title, optional code, a set of labeled spans
// drawn against one or more Sources, and trailing help/note footers. It is
// the unit spec.md's "Report" names; several are rendered together as a
// Batch by Renderer.RenderBatch.
type Report struct {
	Kind            Kind
	Code            string
	Title           string
	Labels          []Label
	Helps           []string
	Notes           []string
	PrimaryLocation Span
	HasPrimary      bool
	// PrimarySourceID selects which Source PrimaryLocation is resolved
	// against, for the header line/col display.
	PrimarySourceID int
	Config          Config
}
