package annotation

// ─────────────────────────────────────────────────────────────────────────────
// Candidate annotations
// ─────────────────────────────────────────────────────────────────────────────

// Kind discriminates the variants of a candidate annotation.
type Kind string

const (
	// KindOccurrence marks a plain in-text occurrence of a glossary term.
	KindOccurrence Kind = "occurrence"

	// KindDefinition marks a span recognised as defining a term.
	KindDefinition Kind = "definition"

	// KindObligation marks a sentence recognised as a reporting obligation.
	KindObligation Kind = "obligation"
)

// Origin records who produced an annotation.
type Origin string

const (
	// OriginMachine is an annotation emitted by the NLP pipeline.
	OriginMachine Origin = "machine"

	// OriginUser is a span a human annotator accepted or created.
	OriginUser Origin = "user"

	// OriginUserRejected is a span a human annotator explicitly rejected.
	// Rejected spans still suppress machine candidates in later runs.
	OriginUserRejected Origin = "user_rejected"
)

// Candidate is one machine-proposed annotation before reconciliation.  The
// extraction pipeline produces Candidates from the NLP CAS; the resolver then
// decides which of them survive the user-correction filter.
type Candidate struct {
	Kind Kind
	Span Span

	// Term is the surface form of the annotated text.
	Term string

	// Lemma is the normalised form of Term; empty lemmas disqualify a
	// candidate before it ever reaches persistence.
	Lemma string

	// Definition carries the defining sentence for KindDefinition candidates,
	// widened to the enclosing paragraph when paragraph detection found one.
	Definition string

	// Score is the model confidence in [0, 1].
	Score float64
}

// UserSpan is an existing human annotation loaded from the worklog, reduced
// to what the resolver needs: where it is and whether it was a rejection.
type UserSpan struct {
	Span     Span
	Origin   Origin
	Term     string
}

//Personal.AI order the ending
