package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func userSpans(kind Kind, spans ...UserSpan) map[Kind][]UserSpan {
	return map[Kind][]UserSpan{kind: spans}
}

func TestResolver_HasOverlap(t *testing.T) {
	t.Parallel()

	r := NewResolver(userSpans(KindOccurrence,
		UserSpan{Span: Span{5, 10}, Origin: OriginUser, Term: "credit institution"},
	))

	assert.True(t, r.HasOverlap(KindOccurrence, Span{10, 15}), "touching spans overlap")
	assert.False(t, r.HasOverlap(KindOccurrence, Span{11, 15}))
	assert.False(t, r.HasOverlap(KindDefinition, Span{5, 10}),
		"user spans only suppress candidates of the same kind")
}

func TestResolver_Filter_UserPrecedence(t *testing.T) {
	t.Parallel()

	r := NewResolver(userSpans(KindOccurrence,
		UserSpan{Span: Span{20, 30}, Origin: OriginUser},
	))

	candidates := []Candidate{
		{Kind: KindOccurrence, Span: Span{0, 5}, Term: "bank"},
		{Kind: KindOccurrence, Span: Span{25, 35}, Term: "report"},
		{Kind: KindOccurrence, Span: Span{40, 50}, Term: "authority"},
	}

	kept, suppressed := r.Filter(candidates)
	assert.Len(t, kept, 2)
	assert.Len(t, suppressed, 1)
	assert.Equal(t, "report", suppressed[0].Term)
	// Input order is preserved.
	assert.Equal(t, "bank", kept[0].Term)
	assert.Equal(t, "authority", kept[1].Term)
}

func TestResolver_Filter_RejectedSpansAlsoSuppress(t *testing.T) {
	t.Parallel()

	r := NewResolver(userSpans(KindDefinition,
		UserSpan{Span: Span{0, 12}, Origin: OriginUserRejected},
	))

	kept, suppressed := r.Filter([]Candidate{
		{Kind: KindDefinition, Span: Span{4, 8}, Term: "institution"},
	})
	assert.Empty(t, kept)
	assert.Len(t, suppressed, 1)
}

func TestResolver_Filter_NoUserSpans(t *testing.T) {
	t.Parallel()

	r := NewResolver(nil)
	candidates := []Candidate{
		{Kind: KindOccurrence, Span: Span{0, 5}},
		{Kind: KindObligation, Span: Span{10, 60}},
	}
	kept, suppressed := r.Filter(candidates)
	assert.Len(t, kept, 2)
	assert.Empty(t, suppressed)
}

//Personal.AI order the ending
