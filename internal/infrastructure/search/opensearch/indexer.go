package opensearch

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/extract"
	"github.com/regcat-io/regcat/pkg/errors"
)

// maxTokenBytes is the index's per-field size ceiling.  Tokens at or above
// it are dropped from the payload, matching the persistence-side exclusion.
const maxTokenBytes = 32000

// IndexToken is one highlight token in the pre-analyzed field payload.
type IndexToken struct {
	Text  string `json:"t"`
	Start int    `json:"s"`
	End   int    `json:"e"`
	Type  string `json:"y"`
	// Score carries the base64-encoded tf-idf value, occurrence tokens only.
	Score string `json:"p,omitempty"`
}

// fieldPayload is the value stored under a highlight field: the full view
// text plus the token offsets into it.  It is JSON-escaped into a string
// before indexing so the field round-trips as one opaque value.
type fieldPayload struct {
	Version string       `json:"v"`
	Text    string       `json:"str"`
	Tokens  []IndexToken `json:"tokens"`
}

const payloadVersion = "1"

// Indexer pushes per-document annotation payloads as partial updates, one
// field per index, keyed by document id.
type Indexer struct {
	client *Client
	logger logging.Logger
}

func NewIndexer(client *Client, logger logging.Logger) *Indexer {
	return &Indexer{client: client, logger: logger}
}

// buildPayload converts extraction tokens into the escaped field value.
// Oversized tokens are dropped; scores are base64 encoded when present.
func buildPayload(text string, tokens []extract.IndexToken) (string, int, error) {
	payload := fieldPayload{Version: payloadVersion, Text: text, Tokens: []IndexToken{}}
	for _, tok := range tokens {
		if len(tok.Text) >= maxTokenBytes {
			continue
		}
		out := IndexToken{
			Text:  tok.Text,
			Start: tok.Span.Begin,
			End:   tok.Span.End,
			Type:  "word",
		}
		if tok.RawScore != "" {
			out.Score = base64.StdEncoding.EncodeToString([]byte(tok.RawScore))
		}
		payload.Tokens = append(payload.Tokens, out)
	}

	escaped, err := json.Marshal(payload)
	if err != nil {
		return "", 0, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index payload")
	}
	return string(escaped), len(payload.Tokens), nil
}

// PushOccurrences updates the concept_occurs field for a document.
func (i *Indexer) PushOccurrences(ctx context.Context, documentID uuid.UUID, res *extract.Result) error {
	return i.push(ctx, i.client.cfg.OccurrenceIndex, "concept_occurs", documentID, res.Text, res.OccurrenceTokens)
}

// PushDefinitions updates the concept_defined field for a document.
func (i *Indexer) PushDefinitions(ctx context.Context, documentID uuid.UUID, res *extract.Result) error {
	return i.push(ctx, i.client.cfg.DefinitionIndex, "concept_defined", documentID, res.Text, res.DefinitionTokens)
}

// PushHighlights updates the ro_highlight field for a document.
func (i *Indexer) PushHighlights(ctx context.Context, documentID uuid.UUID, text string, tokens []extract.IndexToken) error {
	return i.push(ctx, i.client.cfg.HighlightIndex, "ro_highlight", documentID, text, tokens)
}

func (i *Indexer) push(ctx context.Context, index, field string, documentID uuid.UUID, text string, tokens []extract.IndexToken) error {
	value, count, err := buildPayload(text, tokens)
	if err != nil {
		return err
	}
	if count == 0 {
		i.logger.Debug("No tokens to index, skipping push",
			logging.String("field", field),
			logging.String("document_id", documentID.String()))
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"doc":           map[string]string{field: value},
		"doc_as_upsert": true,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal update body")
	}

	req := opensearchapi.UpdateRequest{
		Index:      index,
		DocumentID: documentID.String(),
		Body:       bytes.NewReader(body),
	}
	resp, err := req.Do(ctx, i.client.transport)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "index update request failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return indexError(resp.StatusCode, resp.Body, "index update rejected")
	}

	i.logger.Info("Pushed annotation payload",
		logging.String("index", index),
		logging.String("field", field),
		logging.String("document_id", documentID.String()),
		logging.Int("tokens", count))
	return nil
}

// DeleteDocument removes a document from every annotation index.  Missing
// documents are not an error.
func (i *Indexer) DeleteDocument(ctx context.Context, documentID uuid.UUID) error {
	for _, index := range i.client.indexes() {
		req := opensearchapi.DeleteRequest{
			Index:      index,
			DocumentID: documentID.String(),
		}
		resp, err := req.Do(ctx, i.client.transport)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeExternalService, "index delete request failed")
		}
		resp.Body.Close()
		if resp.IsError() && resp.StatusCode != 404 {
			return indexError(resp.StatusCode, nil, fmt.Sprintf("delete from %s rejected", index))
		}
	}
	return nil
}

// EnsureIndexes creates the annotation indexes if missing.  Payload fields
// are stored but not analyzed; retrieval is always by document id.
func (i *Indexer) EnsureIndexes(ctx context.Context) error {
	mapping := `{"mappings":{"dynamic":false,"properties":{` +
		`"concept_occurs":{"type":"text","index":false},` +
		`"concept_defined":{"type":"text","index":false},` +
		`"ro_highlight":{"type":"text","index":false}}}}`

	for _, index := range i.client.indexes() {
		if index == "" {
			return errors.New(errors.ErrCodeValidation, "index name not configured")
		}
		exists, err := i.indexExists(ctx, index)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		req := opensearchapi.IndicesCreateRequest{
			Index: index,
			Body:  strings.NewReader(mapping),
		}
		resp, err := req.Do(ctx, i.client.transport)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeExternalService, "create index request failed")
		}
		resp.Body.Close()
		if resp.IsError() {
			return indexError(resp.StatusCode, nil, fmt.Sprintf("create index %s rejected", index))
		}
		i.logger.Info("Created index", logging.String("index", index))
	}
	return nil
}

func (i *Indexer) indexExists(ctx context.Context, index string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{Index: []string{index}}
	resp, err := req.Do(ctx, i.client.transport)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeExternalService, "index exists request failed")
	}
	defer resp.Body.Close()
	return resp.StatusCode == 200, nil
}

func indexError(status int, body io.Reader, message string) error {
	detail := fmt.Sprintf("%s (status %d)", message, status)
	if body != nil {
		if raw, err := io.ReadAll(io.LimitReader(body, 512)); err == nil && len(raw) > 0 {
			detail = fmt.Sprintf("%s: %s", detail, string(raw))
		}
	}
	return errors.New(errors.ErrCodeExternalService, detail)
}

//Personal.AI order the ending
