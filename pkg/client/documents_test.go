package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	regcaterrors "github.com/regcat-io/regcat/pkg/errors"
)

func TestDocumentsList_BuildsQuery(t *testing.T) {
	var gotPath, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"total":1,"documents":[{"id":"d1","title":"Regulation 2016/679"}]}`)
	})

	page, err := c.Documents().List(context.Background(), &DocumentListOptions{
		Keyword:    "gdpr",
		Celex:      "32016R0679",
		Validation: "pending",
		Limit:      25,
		Offset:     50,
	})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/documents", gotPath)
	assert.Contains(t, gotQuery, "keyword=gdpr")
	assert.Contains(t, gotQuery, "celex=32016R0679")
	assert.Contains(t, gotQuery, "validation=pending")
	assert.Contains(t, gotQuery, "limit=25")
	assert.Contains(t, gotQuery, "offset=50")

	assert.EqualValues(t, 1, page.Total)
	require.Len(t, page.Documents, 1)
	assert.Equal(t, "Regulation 2016/679", page.Documents[0].Title)
}

func TestDocumentsList_NilOptions(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"total":0,"documents":[]}`)
	})

	_, err := c.Documents().List(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestDocumentsGet_RequiresID(t *testing.T) {
	c, err := NewClient("http://api.example.com", "reviewer-1")
	require.NoError(t, err)

	_, err = c.Documents().Get(context.Background(), "")
	require.Error(t, err)
	assert.True(t, regcaterrors.IsCode(err, regcaterrors.ErrCodeValidation))
}

func TestDocumentsAddComment_SendsUserAndBody(t *testing.T) {
	var gotUser string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUser = r.Header.Get("X-User")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"c1","document_id":"d1","user":"reviewer-1","value":"looks complete"}`)
	})

	comment, err := c.Documents().AddComment(context.Background(), "d1", "looks complete")
	require.NoError(t, err)

	assert.Equal(t, "reviewer-1", gotUser)
	assert.Equal(t, "looks complete", gotBody["value"])
	assert.Equal(t, "c1", comment.ID)
}

func TestDocumentsExtract_ForceFlag(t *testing.T) {
	var gotPath, gotQuery, gotMethod string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"dispatched":1}`)
	})

	result, err := c.Documents().Extract(context.Background(), "d1", "terms", true)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/v1/documents/d1/extract/terms", gotPath)
	assert.Equal(t, "force=true", gotQuery)
	assert.Equal(t, 1, result.Dispatched)
}

func TestDocumentsExtractWebsite_ReportsFanout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/websites/w1/extract/ro", r.URL.Path)
		w.WriteHeader(http.StatusAccepted)
		fmt.Fprint(w, `{"dispatched":42}`)
	})

	result, err := c.Documents().ExtractWebsite(context.Background(), "w1", "ro", false)
	require.NoError(t, err)
	assert.Equal(t, 42, result.Dispatched)
}

func TestConceptsList_BuildsQuery(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"total":2,"concepts":[{"id":"t1","name":"controller"},{"id":"t2","name":"processor"}]}`)
	})

	page, err := c.Concepts().List(context.Background(), &ConceptListOptions{
		Keyword: "proc", Version: "tf-idf-1.0", DocumentID: "d1",
	})
	require.NoError(t, err)

	assert.Contains(t, gotQuery, "keyword=proc")
	assert.Contains(t, gotQuery, "version=tf-idf-1.0")
	assert.Contains(t, gotQuery, "document=d1")
	assert.EqualValues(t, 2, page.Total)
}

func TestConceptsGet_IncludesRelated(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/concepts/t1", r.URL.Path)
		fmt.Fprint(w, `{"concept":{"id":"t1","name":"controller"},"related":[{"id":"t2","name":"joint controller"}]}`)
	})

	detail, err := c.Concepts().Get(context.Background(), "t1")
	require.NoError(t, err)

	assert.Equal(t, "controller", detail.Concept.Name)
	require.Len(t, detail.Related, 1)
	assert.Equal(t, "joint controller", detail.Related[0].Name)
}

func TestObligationsDocumentView_Decodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/documents/d1/obligations", r.URL.Path)
		fmt.Fprint(w, `{"document_id":"d1","obligations":[{"URI":"http://regcat.local/ro/1","Value":"shall report annually","Entities":[{"URI":"http://regcat.local/ent/1","Predicate":"hasReporter","Class":"Reporter","Label":"credit institutions"}]}]}`)
	})

	view, err := c.Obligations().DocumentView(context.Background(), "d1")
	require.NoError(t, err)

	assert.Equal(t, "d1", view.DocumentID)
	require.Len(t, view.Obligations, 1)
	assert.Equal(t, "shall report annually", view.Obligations[0].Value)
	require.Len(t, view.Obligations[0].Entities, 1)
	assert.Equal(t, "credit institutions", view.Obligations[0].Entities[0].Label)
}

func TestAcceptanceValues_Decodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/acceptance/values", r.URL.Path)
		fmt.Fprint(w, `["Unvalidated","Accepted","Rejected"]`)
	})

	values, err := c.Acceptance().Values(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Unvalidated", "Accepted", "Rejected"}, values)
}

func TestAcceptanceSet_PostsVerdict(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Acceptance().Set(context.Background(), "obligation", "ro-1", "Accepted")
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/acceptance/obligation/ro-1", gotPath)
	assert.Equal(t, "Accepted", gotBody["value"])
}

func TestAcceptanceSet_RequiresValue(t *testing.T) {
	c, err := NewClient("http://api.example.com", "reviewer-1")
	require.NoError(t, err)

	err = c.Acceptance().Set(context.Background(), "concept", "t1", "")
	require.Error(t, err)
	assert.True(t, regcaterrors.IsCode(err, regcaterrors.ErrCodeValidation))
}

//Personal.AI order the ending
