package diag

// Builder constructs a Report with chained method calls, per spec.md §6's
// Report-builder collaborator. Per-label setters apply to whichever label
// add_label most recently appended — modeled here as LabelBuilder, a
// handle that resurfaces into the parent Builder when its own chain ends.
type Builder struct {
	report  Report
	sources map[int]*Source
}

// NewBuilder returns a Builder for a Report of the given kind, with every
// Config field defaulted per DefaultConfig.
func NewBuilder(kind Kind) *Builder {
	return &Builder{
		report:  Report{Kind: kind, Config: DefaultConfig()},
		sources: map[int]*Source{},
	}
}

// SetConfig overrides the Report's Config wholesale.
func (b *Builder) SetConfig(cfg Config) *Builder {
	b.report.Config = cfg
	return b
}

// SetCode sets the diagnostic's optional code, shown in brackets before the
// kind word.
func (b *Builder) SetCode(code string) *Builder {
	b.report.Code = code
	return b
}

// SetTitle sets the diagnostic's headline message.
func (b *Builder) SetTitle(title string) *Builder {
	b.report.Title = title
	return b
}

// SetPrimaryLocation sets the span used only for the header's
// `path:line:col` display, resolved against sourceID.
func (b *Builder) SetPrimaryLocation(sourceID int, span Span) *Builder {
	b.report.PrimaryLocation = span
	b.report.PrimarySourceID = sourceID
	b.report.HasPrimary = true
	return b
}

// AttachSource registers src under sourceID so labels and the primary
// location can reference it.
func (b *Builder) AttachSource(sourceID int, src *Source) *Builder {
	b.sources[sourceID] = src
	if !b.report.HasPrimary {
		b.report.PrimarySourceID = sourceID
	}
	return b
}

// AddLabel appends a label spanning span within sourceID and returns a
// LabelBuilder for its per-label setters.
func (b *Builder) AddLabel(sourceID int, span Span) *LabelBuilder {
	b.report.Labels = append(b.report.Labels, Label{Span: span, SourceID: sourceID})
	return &LabelBuilder{parent: b, index: len(b.report.Labels) - 1}
}

// AddHelp appends a help footer.
func (b *Builder) AddHelp(text string) *Builder {
	b.report.Helps = append(b.report.Helps, text)
	return b
}

// AddNote appends a note footer.
func (b *Builder) AddNote(text string) *Builder {
	b.report.Notes = append(b.report.Notes, text)
	return b
}

// Build validates the accumulated Config and returns the finished Report.
// Configuration domain errors are caught here, never inside the renderer
// (spec.md §7).
func (b *Builder) Build() (*Report, error) {
	if err := b.report.Config.Validate(); err != nil {
		return nil, err
	}
	r := b.report
	r.Labels = append([]Label(nil), b.report.Labels...)
	return &r, nil
}

// sourceResolver returns the lookup function Render needs to turn a
// source_id back into a *Source.
func (b *Builder) sourceResolver() func(int) *Source {
	sources := make(map[int]*Source, len(b.sources))
	for k, v := range b.sources {
		sources[k] = v
	}
	return func(id int) *Source { return sources[id] }
}

// LabelBuilder is the cursor spec.md §9 describes: add_label's subsequent
// setters — message, color, order, priority — apply to the label just
// appended, and every setter returns to the same handle so it can chain
// before resurfacing into the parent Builder via Done. LabelBuilder embeds
// none of Builder's API — callers chain label setters, then call Done to
// keep building the Report.
type LabelBuilder struct {
	parent *Builder
	index  int
}

func (lb *LabelBuilder) label() *Label {
	return &lb.parent.report.Labels[lb.index]
}

// Message sets the label's message text.
func (lb *LabelBuilder) Message(msg string) *LabelBuilder {
	lb.label().Message = msg
	return lb
}

// Color sets the label's per-label color override.
func (lb *LabelBuilder) Color(fn ColorFunc) *LabelBuilder {
	lb.label().Color = fn
	return lb
}

// Order sets the label's ordering key (spec.md §4.E).
func (lb *LabelBuilder) Order(order int) *LabelBuilder {
	lb.label().Order = order
	return lb
}

// Priority sets the label's underline-ownership priority (spec.md §4.E).
func (lb *LabelBuilder) Priority(priority int) *LabelBuilder {
	lb.label().Priority = priority
	return lb
}

// Done returns to the parent Builder to continue the chain.
func (lb *LabelBuilder) Done() *Builder {
	return lb.parent
}
