package roview

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/internal/domain/obligation"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ParsedObligation pairs an obligation with its original-document offsets,
// as read from the rendered HTML view.
type ParsedObligation struct {
	Obligation *obligation.ReportingObligation
	Span       annotation.Span
	HasSpan    bool
}

// ParseHTML reads the obligation extractor's rendered HTML view, the form
// archived per document in object storage.  Each <p> element is one
// obligation; <span> children carry the role in their class attribute, and
// the paragraph's original_document_begin/end attributes map it back onto the
// canonical text when present.
func ParseHTML(r io.Reader) ([]ParsedObligation, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeObligationViewInvalid, "parse obligation HTML view")
	}

	var out []ParsedObligation
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			out = append(out, parseParagraph(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

func parseParagraph(p *html.Node) ParsedObligation {
	ro := &obligation.ReportingObligation{Value: nodeText(p)}

	for c := p.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "span" {
			ro.Fragments = append(ro.Fragments, obligation.SentenceFragment{
				Role:  nodeAttr(c, "class"),
				Value: nodeText(c),
			})
		}
	}

	parsed := ParsedObligation{Obligation: ro}
	begin, errB := strconv.Atoi(nodeAttr(p, attrOriginalBegin))
	end, errE := strconv.Atoi(nodeAttr(p, attrOriginalEnd))
	if errB == nil && errE == nil {
		parsed.Span = annotation.Span{Begin: begin, End: end}
		parsed.HasSpan = true
	}
	return parsed
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// RenderHTML writes the obligation view back out in the archived HTML form,
// the inverse of ParseHTML: one <p> per obligation paragraph carrying the
// original-document offset attributes, with role-classed <span> children.
func RenderHTML(c *cas.CAS) ([]byte, error) {
	view, err := c.View(cas.ViewHTML2Text)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	for _, p := range view.Select(cas.TypeValueBetweenTag) {
		if p.Feature(cas.FeatTagName) != "p" {
			continue
		}

		attrs := ParseTagAttributes(p.Feature(cas.FeatAttributes))
		b.WriteString("<p")
		if begin, ok := attrs[attrOriginalBegin]; ok {
			fmt.Fprintf(&b, " %s='%s' %s='%s'",
				attrOriginalBegin, begin, attrOriginalEnd, attrs[attrOriginalEnd])
		}
		b.WriteString(">")

		pos := p.Begin
		for _, span := range view.SelectCovered(cas.TypeValueBetweenTag, p.Span()) {
			if span.Feature(cas.FeatTagName) != "span" {
				continue
			}
			if span.Begin > pos {
				b.WriteString(html.EscapeString(annotation.Span{Begin: pos, End: span.Begin}.Covered(view.Text)))
			}
			role := ParseTagAttributes(span.Feature(cas.FeatAttributes))[attrClass]
			fmt.Fprintf(&b, "<span class='%s'>%s</span>",
				html.EscapeString(role), html.EscapeString(view.CoveredText(span)))
			pos = span.End
		}
		if pos < p.End {
			b.WriteString(html.EscapeString(annotation.Span{Begin: pos, End: p.End}.Covered(view.Text)))
		}
		b.WriteString("</p>\n")
	}
	return b.Bytes(), nil
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

//Personal.AI order the ending
