package roview

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/pkg/errors"
)

func obligationCAS() *cas.CAS {
	c := cas.New()
	v := c.AddView(cas.ViewHTML2Text)
	v.Text = "The institution shall report annually to the EBA. Unrelated text."
	v.Add(cas.Annotation{
		Type: cas.TypeValueBetweenTag, Begin: 0, End: 49,
		Features: map[string]string{
			cas.FeatTagName:    "p",
			cas.FeatAttributes: "class='ro' original_document_begin='120' original_document_end='169'",
		},
	})
	v.Add(cas.Annotation{
		Type: cas.TypeValueBetweenTag, Begin: 0, End: 15,
		Features: map[string]string{cas.FeatTagName: "span", cas.FeatAttributes: "class='ARG0'"},
	})
	v.Add(cas.Annotation{
		Type: cas.TypeValueBetweenTag, Begin: 16, End: 28,
		Features: map[string]string{cas.FeatTagName: "span", cas.FeatAttributes: "class='V'"},
	})
	return c
}

func TestParseTagAttributes(t *testing.T) {
	t.Parallel()

	attrs := ParseTagAttributes("class='ARG0' original_document_begin='12', original_document_end='40'")
	assert.Equal(t, "ARG0", attrs["class"])
	assert.Equal(t, "12", attrs["original_document_begin"])
	assert.Equal(t, "40", attrs["original_document_end"])

	assert.Empty(t, ParseTagAttributes(""))
}

func TestObligationsFromCAS(t *testing.T) {
	t.Parallel()

	ros, err := Obligations(obligationCAS())
	require.NoError(t, err)
	require.Len(t, ros, 1)

	ro := ros[0]
	assert.Equal(t, "The institution shall report annually to the EBA.", ro.Value)
	require.Len(t, ro.Fragments, 2)
	assert.Equal(t, "ARG0", ro.Fragments[0].Role)
	assert.Equal(t, "The institution", ro.Fragments[0].Value)
	assert.Equal(t, "V", ro.Fragments[1].Role)
}

func TestObligationsMissingView(t *testing.T) {
	t.Parallel()

	_, err := Obligations(cas.New())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCASViewMissing, errors.GetCode(err))
}

func TestHighlights(t *testing.T) {
	t.Parallel()

	hs, err := Highlights(obligationCAS())
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, 120, hs[0].Span.Begin)
	assert.Equal(t, 169, hs[0].Span.End)
	assert.Contains(t, hs[0].Text, "shall report")
}

func TestHighlightsRejectMissingOffsets(t *testing.T) {
	t.Parallel()

	c := cas.New()
	v := c.AddView(cas.ViewHTML2Text)
	v.Text = "text"
	v.Add(cas.Annotation{
		Type: cas.TypeValueBetweenTag, Begin: 0, End: 4,
		Features: map[string]string{cas.FeatTagName: "p", cas.FeatAttributes: "class='ro'"},
	})

	_, err := Highlights(c)
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeNLPResponseInvalid, errors.GetCode(err))
}

func TestParseHTML(t *testing.T) {
	t.Parallel()

	doc := `<html><body>
	<p original_document_begin="10" original_document_end="62">
		<span class="ARG0">The institution</span> <span class="V">shall report</span> annually.
	</p>
	<p>No offsets here.</p>
	</body></html>`

	parsed, err := ParseHTML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, parsed, 2)

	first := parsed[0]
	assert.True(t, first.HasSpan)
	assert.Equal(t, 10, first.Span.Begin)
	assert.Equal(t, 62, first.Span.End)
	require.Len(t, first.Obligation.Fragments, 2)
	assert.Equal(t, "ARG0", first.Obligation.Fragments[0].Role)
	assert.Equal(t, "The institution", first.Obligation.Fragments[0].Value)
	assert.Contains(t, first.Obligation.Value, "annually")

	assert.False(t, parsed[1].HasSpan)
}

func TestRenderHTML_RoundTripsThroughParseHTML(t *testing.T) {
	t.Parallel()

	rendered, err := RenderHTML(obligationCAS())
	require.NoError(t, err)

	out := string(rendered)
	assert.Contains(t, out, "original_document_begin='120'")
	assert.Contains(t, out, "original_document_end='169'")
	assert.Contains(t, out, "<span class='ARG0'>The institution</span>")

	parsed, err := ParseHTML(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.True(t, parsed[0].HasSpan)
	assert.Equal(t, 120, parsed[0].Span.Begin)
	assert.Equal(t, "The institution shall report annually to the EBA.", parsed[0].Obligation.Value)
	require.Len(t, parsed[0].Obligation.Fragments, 2)
	assert.Equal(t, "V", parsed[0].Obligation.Fragments[1].Role)
}

func TestRenderHTML_MissingView(t *testing.T) {
	t.Parallel()

	_, err := RenderHTML(cas.New())
	require.Error(t, err)
}

//Personal.AI order the ending
