package glossary

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/domain/annotation"
	"github.com/regcat-io/regcat/pkg/errors"
)

func TestConceptValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		concept  Concept
		wantCode errors.ErrorCode
	}{
		{
			name:    "valid",
			concept: Concept{Name: "credit institution", Lemma: "credit institution"},
		},
		{
			name:     "empty name",
			concept:  Concept{Name: "  ", Lemma: "x"},
			wantCode: errors.ErrCodeConceptInvalid,
		},
		{
			name:     "empty lemma",
			concept:  Concept{Name: "credit institution", Lemma: ""},
			wantCode: errors.ErrCodeLemmaEmpty,
		},
		{
			name: "name over rune limit",
			concept: Concept{
				Name:  strings.Repeat("ä", MaxTermRunes+1),
				Lemma: "x",
			},
			wantCode: errors.ErrCodeTermTooLong,
		},
		{
			name: "name exactly at rune limit",
			concept: Concept{
				Name:  strings.Repeat("ä", MaxTermRunes),
				Lemma: "x",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.concept.Validate()
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
		})
	}
}

func TestConceptNaturalKey(t *testing.T) {
	t.Parallel()

	a := Concept{ID: uuid.New(), Name: "institution", Lemma: "institution", Definition: "a body"}
	b := Concept{ID: uuid.New(), Name: "institution", Lemma: "institution", Definition: "a body"}
	c := Concept{ID: uuid.New(), Name: "institution", Lemma: "institution", Definition: "another body"}

	assert.Equal(t, a.Key(), b.Key(), "same surface form, lemma and definition share a key")
	assert.NotEqual(t, a.Key(), c.Key(), "differing definitions are distinct concepts")
}

func TestConceptIndexable(t *testing.T) {
	t.Parallel()

	ok := Concept{Name: "short", Definition: "short definition"}
	assert.True(t, ok.Indexable())

	big := Concept{Name: "short", Definition: strings.Repeat("a", MaxIndexableBytes)}
	assert.False(t, big.Indexable())
}

func TestOccurrenceValidate(t *testing.T) {
	t.Parallel()

	valid := Occurrence{Span: annotation.Span{Begin: 3, End: 9}, Probability: 0.8}
	assert.NoError(t, valid.Validate())

	inverted := Occurrence{Span: annotation.Span{Begin: 9, End: 3}}
	err := inverted.Validate()
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeOccurrenceInvalid, errors.GetCode(err))
}

//Personal.AI order the ending
