// Package extract turns an annotated CAS into glossary candidates: term
// occurrences, definition sentences with their defined terms, and the token
// payloads the search index needs for highlighting.
//
// User corrections always win: machine annotations overlapping a user-made
// or user-rejected annotation of the same class are dropped before anything
// is emitted.
package extract

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/glossary"
	"github.com/regcat-io/regcat/internal/nlp/cas"
)

// Term is one occurrence candidate ready for persistence.
type Term struct {
	Term  string
	Lemma string
	Span  annotation.Span
	// Score is the extractor's tf-idf value; RawScore keeps the service's
	// string form for the index payload.
	Score    float64
	RawScore string
}

// DefinedTerm is one term defined by a sentence, ready for persistence.
type DefinedTerm struct {
	Term       string
	Lemma      string
	Definition string
	// DefinitionSpan covers the (possibly paragraph-widened) sentence.
	DefinitionSpan annotation.Span
}

// IndexToken is one highlight token for the search index.
type IndexToken struct {
	Text string
	Span annotation.Span
	// RawScore is set for occurrence tokens only.
	RawScore string
}

// Result carries everything one extraction pass produces from a CAS view.
type Result struct {
	// Text is the canonical view text all spans reference.
	Text string

	Occurrences []Term

	// Groups holds definition candidates grouped by defining sentence, in
	// extraction order.  Concepts within one group are linked pairwise as
	// related.
	Groups [][]DefinedTerm

	OccurrenceTokens []IndexToken
	DefinitionTokens []IndexToken

	// Skipped records terms dropped by the length and lemma filters.
	Skipped []string
}

// Run extracts occurrences and definitions from the html2text view of an
// annotated CAS.
func Run(c *cas.CAS) (*Result, error) {
	view, err := c.View(cas.ViewHTML2Text)
	if err != nil {
		return nil, err
	}

	res := &Result{Text: view.Text}
	extractDefinitions(view, res)
	extractOccurrences(view, res)
	return res, nil
}

// userResolver collects user spans of the given annotation types under one
// candidate kind.
func userResolver(view *cas.View, kind annotation.Kind, acceptedType, rejectedType string) *annotation.Resolver {
	var spans []annotation.UserSpan
	if acceptedType != "" {
		for _, a := range view.Select(acceptedType) {
			spans = append(spans, annotation.UserSpan{Span: a.Span(), Origin: annotation.OriginUser})
		}
	}
	if rejectedType != "" {
		for _, a := range view.Select(rejectedType) {
			spans = append(spans, annotation.UserSpan{Span: a.Span(), Origin: annotation.OriginUserRejected})
		}
	}
	return annotation.NewResolver(map[annotation.Kind][]annotation.UserSpan{kind: spans})
}

// termName prefers the extractor's term feature over covered text; the
// feature carries the normalized surface form.
func termName(view *cas.View, a cas.Annotation) string {
	if t := a.Feature(cas.FeatTerm); t != "" {
		return t
	}
	return view.CoveredText(a)
}

// exactLemma returns the lemma annotation whose offsets equal the term's, or
// empty when none exists.
func exactLemma(view *cas.View, term cas.Annotation) string {
	for _, lemma := range view.SelectCovered(cas.TypeLemma, term.Span()) {
		if lemma.Begin == term.Begin && lemma.End == term.End {
			return lemma.Feature(cas.FeatLemmaValue)
		}
	}
	return ""
}

// keepTerm applies the glossary's length and lemma filters.
func keepTerm(term, lemma string) bool {
	return utf8.RuneCountInString(term) <= glossary.MaxTermRunes && lemma != ""
}

func extractDefinitions(view *cas.View, res *Result) {
	sentenceUsers := userResolver(view, annotation.KindDefinition, cas.TypeSentenceUser, "")
	tokenUsers := userResolver(view, annotation.KindDefinition, cas.TypeTokenUser, cas.TypeTokenRejected)

	seenSentences := make(map[int]bool)

	for _, sentence := range view.Select(cas.TypeSentence) {
		if sentenceUsers.HasOverlap(annotation.KindDefinition, sentence.Span()) {
			continue
		}

		// Prefer the paragraph as definition context when it starts where
		// the sentence starts.
		span := sentence.Span()
		for _, par := range view.SelectCovering(cas.TypeParagraph, span) {
			if par.Begin == span.Begin {
				span = par.Span()
				break
			}
		}
		definition := span.Covered(view.Text)

		var group []DefinedTerm
		for _, token := range view.SelectCovered(cas.TypeToken, span) {
			if tokenUsers.HasOverlap(annotation.KindDefinition, token.Span()) {
				continue
			}
			for _, term := range view.SelectCovered(cas.TypeTfidf, token.Span()) {
				if term.Begin != token.Begin || term.End != token.End {
					continue
				}
				name := termName(view, term)
				lemma := exactLemma(view, term)
				if len(definition) >= glossary.MaxIndexableBytes || !keepTerm(name, lemma) {
					res.Skipped = append(res.Skipped,
						fmt.Sprintf("defined term %.60q skipped: term too long, lemma empty, or definition oversized", name))
					break
				}
				group = append(group, DefinedTerm{
					Term:           name,
					Lemma:          lemma,
					Definition:     definition,
					DefinitionSpan: span,
				})
				break
			}
		}
		res.Groups = append(res.Groups, group)

		if len(group) > 0 && !seenSentences[span.Begin] {
			seenSentences[span.Begin] = true
			if len(definition) < glossary.MaxIndexableBytes {
				res.DefinitionTokens = append(res.DefinitionTokens, IndexToken{Text: definition, Span: span})
			}
		}
	}
}

func extractOccurrences(view *cas.View, res *Result) {
	termUsers := userResolver(view, annotation.KindOccurrence, cas.TypeTfidfUser, cas.TypeTfidfRejected)

	for _, term := range view.Select(cas.TypeTfidf) {
		if termUsers.HasOverlap(annotation.KindOccurrence, term.Span()) {
			continue
		}

		name := termName(view, term)
		raw := term.Feature(cas.FeatTfidfValue)

		if len(name) < glossary.MaxIndexableBytes {
			res.OccurrenceTokens = append(res.OccurrenceTokens, IndexToken{
				Text:     name,
				Span:     term.Span(),
				RawScore: raw,
			})
		}

		lemma := exactLemma(view, term)
		if !keepTerm(name, lemma) {
			res.Skipped = append(res.Skipped,
				fmt.Sprintf("term %.60q skipped: name too long or lemma empty", name))
			continue
		}

		score, _ := strconv.ParseFloat(raw, 64)
		res.Occurrences = append(res.Occurrences, Term{
			Term:     name,
			Lemma:    lemma,
			Span:     term.Span(),
			Score:    score,
			RawScore: raw,
		})
	}
}

//Personal.AI order the ending
