// Package annotation implements the annotation bounded context: character
// spans over a document's canonical text view, candidate annotations produced
// by the NLP pipeline, and the resolver that reconciles candidates against
// user corrections.  All offset arithmetic in the platform goes through this
// package; infrastructure concerns (persistence, indexing) are handled by
// separate repository and adapter layers.
package annotation

import (
	"fmt"
)

// ─────────────────────────────────────────────────────────────────────────────
// Span value object
// ─────────────────────────────────────────────────────────────────────────────

// Span is a half-open character interval [Begin, End) over a document's
// canonical text view.  Begin and End are rune-independent byte-agnostic
// character offsets into the text exactly as the NLP services emit them; a
// span is only meaningful relative to the text it was produced against.
type Span struct {
	Begin int `json:"begin"`
	End   int `json:"end"`
}

// NewSpan constructs a Span and validates its bounds.
func NewSpan(begin, end int) (Span, error) {
	s := Span{Begin: begin, End: end}
	if err := s.Validate(); err != nil {
		return Span{}, err
	}
	return s, nil
}

// Validate reports whether the span is structurally sound: non-negative
// offsets and Begin strictly before End (empty spans carry no annotation).
func (s Span) Validate() error {
	if s.Begin < 0 {
		return fmt.Errorf("span: begin %d must be >= 0", s.Begin)
	}
	if s.End <= s.Begin {
		return fmt.Errorf("span: end %d must be > begin %d", s.End, s.Begin)
	}
	return nil
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Begin
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return other.Begin >= s.Begin && other.End <= s.End
}

// Overlaps reports whether s and other overlap under the platform's
// edge-inclusive rule: two spans are disjoint only when one ends strictly
// before the other begins.  Adjacent spans — where one's End equals the
// other's Begin — count as overlapping, which deliberately over-matches so
// that a user annotation suppresses machine annotations that merely touch it.
//
//	Overlaps({5,10}, {10,15}) == true
//	Overlaps({11,15}, {5,10}) == false
func (s Span) Overlaps(other Span) bool {
	return !(s.End < other.Begin || s.Begin > other.End)
}

// Covered slices the covered text out of the canonical view.  The offsets are
// interpreted as rune positions; out-of-range spans return the empty string
// rather than panicking so that a stale annotation can never crash a pipeline
// run.
func (s Span) Covered(text string) string {
	runes := []rune(text)
	if s.Begin < 0 || s.End > len(runes) || s.Begin >= s.End {
		return ""
	}
	return string(runes[s.Begin:s.End])
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Begin, s.End)
}

//Personal.AI order the ending
