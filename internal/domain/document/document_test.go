package document

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validDocument() Document {
	return Document{
		ID:        uuid.New(),
		Title:     "Regulation (EU) 2019/2033 on prudential requirements",
		URL:       "https://eur-lex.europa.eu/eli/reg/2019/2033/oj",
		WebsiteID: uuid.New(),
	}
}

func TestDocumentValidate(t *testing.T) {
	t.Parallel()

	d := validDocument()
	assert.NoError(t, d.Validate())

	noTitle := validDocument()
	noTitle.Title = "  "
	assert.Error(t, noTitle.Validate())

	noURL := validDocument()
	noURL.URL = ""
	assert.Error(t, noURL.Validate())

	orphan := validDocument()
	orphan.WebsiteID = uuid.Nil
	assert.Error(t, orphan.Validate())
}

func TestDocumentNeedsExtraction(t *testing.T) {
	t.Parallel()

	d := validDocument()
	assert.True(t, d.NeedsTermExtraction("v1.2"), "unprocessed documents always need a run")

	d.TermVersion = "v1.2"
	assert.False(t, d.NeedsTermExtraction("v1.2"))
	assert.True(t, d.NeedsTermExtraction("v1.3"), "a pipeline upgrade re-selects the document")

	d.ObligationVersion = "v2.0"
	assert.False(t, d.NeedsObligationExtraction("v2.0"))
	assert.True(t, d.NeedsObligationExtraction("v2.1"))
}

func TestWebsiteValidate(t *testing.T) {
	t.Parallel()

	w := Website{Name: "EUR-Lex", URL: "https://eur-lex.europa.eu"}
	assert.NoError(t, w.Validate())

	assert.Error(t, (&Website{URL: "https://x"}).Validate())
	assert.Error(t, (&Website{Name: "x"}).Validate())
}

//Personal.AI order the ending
