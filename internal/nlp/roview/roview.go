// Package roview reads reporting obligations out of the obligation
// extractor's output: either the annotated CAS, where each obligation is a
// paragraph tag annotation with role-tagged span children, or the rendered
// HTML view archived in object storage.
package roview

import (
	"strconv"
	"strings"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/pkg/errors"
)

// Attribute names the extractor writes on obligation paragraphs.
const (
	attrClass         = "class"
	attrOriginalBegin = "original_document_begin"
	attrOriginalEnd   = "original_document_end"
)

// ParseTagAttributes parses the extractor's attribute string format, a
// sequence of key='value' pairs.  Keys keep their trailing "=" stripped.
func ParseTagAttributes(s string) map[string]string {
	parts := strings.Split(s, "'")
	attrs := make(map[string]string, len(parts)/2)
	for i := 0; i+1 < len(parts); i += 2 {
		key := strings.TrimSpace(parts[i])
		key = strings.TrimSuffix(key, "=")
		key = strings.TrimSpace(strings.TrimPrefix(key, ","))
		if key != "" {
			attrs[key] = parts[i+1]
		}
	}
	return attrs
}

// Obligations extracts role-tagged obligations from a CAS.  Each paragraph
// tag annotation in the html2text view becomes one obligation whose covered
// text is the value; span tag annotations inside it become fragments, their
// role read from the class attribute.
func Obligations(c *cas.CAS) ([]*obligation.ReportingObligation, error) {
	view, err := c.View(cas.ViewHTML2Text)
	if err != nil {
		return nil, err
	}

	var out []*obligation.ReportingObligation
	for _, p := range view.Select(cas.TypeValueBetweenTag) {
		if p.Feature(cas.FeatTagName) != "p" {
			continue
		}

		ro := &obligation.ReportingObligation{Value: view.CoveredText(p)}
		for _, span := range view.SelectCovered(cas.TypeValueBetweenTag, p.Span()) {
			if span.Feature(cas.FeatTagName) != "span" {
				continue
			}
			attrs := ParseTagAttributes(span.Feature(cas.FeatAttributes))
			ro.Fragments = append(ro.Fragments, obligation.SentenceFragment{
				Role:  attrs[attrClass],
				Value: view.CoveredText(span),
			})
		}
		out = append(out, ro)
	}
	return out, nil
}

// Highlight is one obligation paragraph mapped back onto the original
// document's canonical text offsets, for the search index's highlight field.
type Highlight struct {
	Text string
	Span annotation.Span
}

// Highlights reads the obligation paragraphs' original-document offsets from
// a CAS.  Paragraphs without parseable offset attributes are an extractor
// contract violation and fail the whole read.
func Highlights(c *cas.CAS) ([]Highlight, error) {
	view, err := c.View(cas.ViewHTML2Text)
	if err != nil {
		return nil, err
	}

	var out []Highlight
	for _, p := range view.Select(cas.TypeValueBetweenTag) {
		if p.Feature(cas.FeatTagName) != "p" {
			continue
		}
		attrs := ParseTagAttributes(p.Feature(cas.FeatAttributes))
		span, err := offsetSpan(attrs)
		if err != nil {
			return nil, err
		}
		out = append(out, Highlight{Text: view.CoveredText(p), Span: span})
	}
	return out, nil
}

func offsetSpan(attrs map[string]string) (annotation.Span, error) {
	begin, err := strconv.Atoi(attrs[attrOriginalBegin])
	if err != nil {
		return annotation.Span{}, errors.Wrap(err, errors.ErrCodeNLPResponseInvalid,
			"obligation paragraph missing original_document_begin")
	}
	end, err := strconv.Atoi(attrs[attrOriginalEnd])
	if err != nil {
		return annotation.Span{}, errors.Wrap(err, errors.ErrCodeNLPResponseInvalid,
			"obligation paragraph missing original_document_end")
	}
	return annotation.Span{Begin: begin, End: end}, nil
}

//Personal.AI order the ending
