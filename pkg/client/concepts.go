package client

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/regcat-io/regcat/pkg/errors"
)

// Concept is a glossary term as returned by the API.
type Concept struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Lemma      string    `json:"lemma"`
	Definition string    `json:"definition"`
	Version    string    `json:"version"`
	DocumentID *string   `json:"document_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ConceptPage is one page of a concept listing.
type ConceptPage struct {
	Total    int64     `json:"total"`
	Concepts []Concept `json:"concepts"`
}

// ConceptDetail pairs a concept with its related terms.
type ConceptDetail struct {
	Concept Concept   `json:"concept"`
	Related []Concept `json:"related"`
}

// ConceptListOptions narrows a concept listing.
type ConceptListOptions struct {
	Keyword    string
	Version    string
	DocumentID string
	Limit      int
	Offset     int
}

// ConceptsClient provides access to glossary endpoints.
type ConceptsClient struct {
	client *Client
}

// List pages through glossary concepts.
// GET /api/v1/concepts
func (cc *ConceptsClient) List(ctx context.Context, opts *ConceptListOptions) (*ConceptPage, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Keyword != "" {
			params.Set("keyword", opts.Keyword)
		}
		if opts.Version != "" {
			params.Set("version", opts.Version)
		}
		if opts.DocumentID != "" {
			params.Set("document", opts.DocumentID)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}

	path := "/api/v1/concepts"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page ConceptPage
	if err := cc.client.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one concept with its related terms.
// GET /api/v1/concepts/{conceptID}
func (cc *ConceptsClient) Get(ctx context.Context, conceptID string) (*ConceptDetail, error) {
	if conceptID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "concept id is required")
	}

	var detail ConceptDetail
	if err := cc.client.get(ctx, "/api/v1/concepts/"+conceptID, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

//Personal.AI order the ending
