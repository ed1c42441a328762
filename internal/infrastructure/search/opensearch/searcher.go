package opensearch

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// Searcher reads the pre-analyzed annotation payloads back, for the
// catalogue views that render highlighted document text.
type Searcher struct {
	client *Client
	logger logging.Logger
}

func NewSearcher(client *Client, logger logging.Logger) *Searcher {
	return &Searcher{client: client, logger: logger}
}

// Highlight is one decoded highlight span for rendering.
type Highlight struct {
	Text  string
	Start int
	End   int
	// Score is the decoded tf-idf value, empty for definition and
	// obligation highlights.
	Score string
}

// HighlightDocument is a document's text plus its highlight spans for one
// annotation field.
type HighlightDocument struct {
	DocumentID uuid.UUID
	Text       string
	Highlights []Highlight
}

// Occurrences returns the term-occurrence highlights for a document.
func (s *Searcher) Occurrences(ctx context.Context, documentID uuid.UUID) (*HighlightDocument, error) {
	return s.fetch(ctx, s.client.cfg.OccurrenceIndex, "concept_occurs", documentID)
}

// Definitions returns the definition-sentence highlights for a document.
func (s *Searcher) Definitions(ctx context.Context, documentID uuid.UUID) (*HighlightDocument, error) {
	return s.fetch(ctx, s.client.cfg.DefinitionIndex, "concept_defined", documentID)
}

// Obligations returns the reporting-obligation highlights for a document.
func (s *Searcher) Obligations(ctx context.Context, documentID uuid.UUID) (*HighlightDocument, error) {
	return s.fetch(ctx, s.client.cfg.HighlightIndex, "ro_highlight", documentID)
}

func (s *Searcher) fetch(ctx context.Context, index, field string, documentID uuid.UUID) (*HighlightDocument, error) {
	req := opensearchapi.GetRequest{
		Index:      index,
		DocumentID: documentID.String(),
	}
	resp, err := req.Do(ctx, s.client.transport)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "index get request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, errors.New(errors.ErrCodeNotFound, "document not present in index")
	}
	if resp.IsError() {
		return nil, indexError(resp.StatusCode, resp.Body, "index get rejected")
	}

	var doc struct {
		Source map[string]string `json:"_source"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode index response")
	}

	escaped, ok := doc.Source[field]
	if !ok || escaped == "" {
		return nil, errors.New(errors.ErrCodeNotFound, "annotation field not present for document")
	}

	var payload fieldPayload
	if err := json.Unmarshal([]byte(escaped), &payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode annotation payload")
	}

	out := &HighlightDocument{DocumentID: documentID, Text: payload.Text}
	for _, tok := range payload.Tokens {
		h := Highlight{Text: tok.Text, Start: tok.Start, End: tok.End}
		if tok.Score != "" {
			if raw, err := base64.StdEncoding.DecodeString(tok.Score); err == nil {
				h.Score = string(raw)
			}
		}
		out.Highlights = append(out.Highlights, h)
	}
	return out, nil
}

//Personal.AI order the ending
