package annotation

// ─────────────────────────────────────────────────────────────────────────────
// Resolver — user-correction precedence over machine candidates
// ─────────────────────────────────────────────────────────────────────────────

// Resolver holds the human annotations already recorded for one document and
// filters machine candidates against them.  A candidate overlapping any user
// span of the same kind is suppressed regardless of whether the user span was
// an acceptance or a rejection: in both cases the human has already ruled on
// that stretch of text and the machine must not reintroduce an annotation
// there.
type Resolver struct {
	byKind map[Kind][]UserSpan
}

// NewResolver builds a Resolver from the user spans recorded for a document.
func NewResolver(userSpans map[Kind][]UserSpan) *Resolver {
	if userSpans == nil {
		userSpans = map[Kind][]UserSpan{}
	}
	return &Resolver{byKind: userSpans}
}

// HasOverlap reports whether span collides with any user span of the given
// kind under the edge-inclusive overlap rule.
func (r *Resolver) HasOverlap(kind Kind, span Span) bool {
	for _, us := range r.byKind[kind] {
		if span.Overlaps(us.Span) {
			return true
		}
	}
	return false
}

// Filter returns the candidates that survive user-correction precedence,
// preserving input order.  Suppressed candidates are returned separately so
// the pipeline can log them.
func (r *Resolver) Filter(candidates []Candidate) (kept, suppressed []Candidate) {
	for _, c := range candidates {
		if r.HasOverlap(c.Kind, c.Span) {
			suppressed = append(suppressed, c)
			continue
		}
		kept = append(kept, c)
	}
	return kept, suppressed
}

// UserSpans returns the recorded user spans for a kind.  The returned slice
// must not be mutated.
func (r *Resolver) UserSpans(kind Kind) []UserSpan {
	return r.byKind[kind]
}

//Personal.AI order the ending
