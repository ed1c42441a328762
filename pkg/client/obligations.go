package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/regcat-io/regcat/pkg/errors"
)

// Obligation is a reporting obligation as returned by the API.
type Obligation struct {
	ID         string             `json:"id"`
	DocumentID string             `json:"document_id"`
	RDFID      string             `json:"rdf_id,omitempty"`
	Value      string             `json:"value"`
	Fragments  []SentenceFragment `json:"fragments"`
	Version    string             `json:"version"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// SentenceFragment is one typed piece of an obligation sentence.
type SentenceFragment struct {
	Role  string `json:"role"`
	Value string `json:"value"`
}

// ObligationPage is one page of an obligation listing.
type ObligationPage struct {
	Total       int64        `json:"total"`
	Obligations []Obligation `json:"obligations"`
}

// ObligationListOptions narrows an obligation listing.
type ObligationListOptions struct {
	Keyword    string
	Version    string
	DocumentID string
	Limit      int
	Offset     int
}

// GraphEntity is a sub-entity of an obligation node in the document view.
type GraphEntity struct {
	URI       string
	Predicate string
	Class     string
	Label     string
}

// GraphObligation is one obligation node in the document view.
type GraphObligation struct {
	URI      string
	Value    string
	Entities []GraphEntity
}

// DocumentObligationView is the graph-assembled obligation view of one document.
type DocumentObligationView struct {
	DocumentID  string            `json:"document_id"`
	Obligations []GraphObligation `json:"obligations"`
}

// ObligationsClient provides access to reporting obligation endpoints.
type ObligationsClient struct {
	client *Client
}

// List pages through reporting obligations.
// GET /api/v1/obligations
func (oc *ObligationsClient) List(ctx context.Context, opts *ObligationListOptions) (*ObligationPage, error) {
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

	path := "/api/v1/obligations"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page ObligationPage
	if err := oc.client.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// DocumentView fetches the graph-assembled obligation view of a document.
// GET /api/v1/documents/{documentID}/obligations
func (oc *ObligationsClient) DocumentView(ctx context.Context, documentID string) (*DocumentObligationView, error) {
	if documentID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document id is required")
	}

	var view DocumentObligationView
	if err := oc.client.get(ctx, fmt.Sprintf("/api/v1/documents/%s/obligations", documentID), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

//Personal.AI order the ending
