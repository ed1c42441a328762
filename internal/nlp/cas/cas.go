package cas

import (
	"sort"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/pkg/errors"
)

// Annotation is one typed span over a view's text.  Features carry the
// type-specific payload, e.g. the lemma value or the covering tag name.
type Annotation struct {
	Type     string            `json:"type"`
	Begin    int               `json:"begin"`
	End      int               `json:"end"`
	Features map[string]string `json:"features,omitempty"`
}

// Span returns the annotation's offsets as a span.
func (a Annotation) Span() annotation.Span {
	return annotation.Span{Begin: a.Begin, End: a.End}
}

// Feature returns a feature value, empty when absent.
func (a Annotation) Feature(key string) string {
	return a.Features[key]
}

// View is one subject-of-analysis: a text plus the annotations over it.
type View struct {
	SofaID      string       `json:"sofa_id"`
	Text        string       `json:"text"`
	Annotations []Annotation `json:"annotations"`
}

// Select returns the view's annotations of one type, ordered by begin offset
// (ties by end offset), preserving input order within equal spans.
func (v *View) Select(typeName string) []Annotation {
	var out []Annotation
	for _, a := range v.Annotations {
		if a.Type == typeName {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Begin != out[j].Begin {
			return out[i].Begin < out[j].Begin
		}
		return out[i].End < out[j].End
	})
	return out
}

// SelectCovered returns annotations of one type fully contained in the given
// span.
func (v *View) SelectCovered(typeName string, span annotation.Span) []Annotation {
	var out []Annotation
	for _, a := range v.Select(typeName) {
		if a.Begin >= span.Begin && a.End <= span.End {
			out = append(out, a)
		}
	}
	return out
}

// SelectCovering returns annotations of one type whose span fully contains
// the given span.
func (v *View) SelectCovering(typeName string, span annotation.Span) []Annotation {
	var out []Annotation
	for _, a := range v.Select(typeName) {
		if a.Begin <= span.Begin && a.End >= span.End {
			out = append(out, a)
		}
	}
	return out
}

// CoveredText returns the view text under an annotation.
func (v *View) CoveredText(a Annotation) string {
	return a.Span().Covered(v.Text)
}

// Add appends an annotation to the view.
func (v *View) Add(a Annotation) {
	v.Annotations = append(v.Annotations, a)
}

// CAS is a set of views keyed by sofa identifier, in insertion order.
type CAS struct {
	Views []*View `json:"views"`
}

// New returns an empty CAS.
func New() *CAS {
	return &CAS{}
}

// View returns the view with the given sofa identifier.
func (c *CAS) View(sofaID string) (*View, error) {
	for _, v := range c.Views {
		if v.SofaID == sofaID {
			return v, nil
		}
	}
	return nil, errors.New(errors.ErrCodeCASViewMissing, "view not present in CAS").WithDetail(sofaID)
}

// AddView creates (or returns) the view with the given sofa identifier.
func (c *CAS) AddView(sofaID string) *View {
	if v, err := c.View(sofaID); err == nil {
		return v
	}
	v := &View{SofaID: sofaID}
	c.Views = append(c.Views, v)
	return v
}

// RenameView changes a view's sofa identifier.  Some downstream services only
// read the initial view, so the html2text view is renamed before handing the
// CAS over.
func (c *CAS) RenameView(from, to string) error {
	v, err := c.View(from)
	if err != nil {
		return err
	}
	v.SofaID = to
	return nil
}

//Personal.AI order the ending
