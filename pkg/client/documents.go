package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/regcat-io/regcat/pkg/errors"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

// Document is a catalogue document as returned by the API.
type Document struct {
	ID                    string     `json:"id"`
	Celex                 string     `json:"celex,omitempty"`
	CustomID              string     `json:"custom_id,omitempty"`
	Title                 string     `json:"title"`
	TitlePrefix           string     `json:"title_prefix,omitempty"`
	Author                string     `json:"author,omitempty"`
	Status                string     `json:"status,omitempty"`
	Type                  string     `json:"type,omitempty"`
	Date                  time.Time  `json:"date"`
	DateOfEffect          *time.Time `json:"date_of_effect,omitempty"`
	DateLastUpdate        time.Time  `json:"date_last_update"`
	URL                   string     `json:"url"`
	ELI                   string     `json:"eli,omitempty"`
	WebsiteID             string     `json:"website_id"`
	Summary               string     `json:"summary,omitempty"`
	FileURL               string     `json:"file_url,omitempty"`
	AcceptanceProbability *float64   `json:"acceptance_probability,omitempty"`
	Unvalidated           bool       `json:"unvalidated"`
	TermVersion           string     `json:"term_version,omitempty"`
	ObligationVersion     string     `json:"obligation_version,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	Total     int64      `json:"total"`
	Documents []Document `json:"documents"`
}

// DocumentListOptions narrows a document listing.
type DocumentListOptions struct {
	Keyword    string
	Celex      string
	WebsiteID  string
	Validation string // "pending" or "done"
	Limit      int
	Offset     int
}

// Comment is a reviewer note attached to a document.
type Comment struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	User       string    `json:"user"`
	Value      string    `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
}

// DispatchResult reports how many extraction jobs a trigger queued.
type DispatchResult struct {
	Dispatched int `json:"dispatched"`
}

// ---------------------------------------------------------------------------
// DocumentsClient
// ---------------------------------------------------------------------------

// DocumentsClient provides access to document endpoints.
type DocumentsClient struct {
	client *Client
}

// List pages through catalogue documents.
// GET /api/v1/documents
func (dc *DocumentsClient) List(ctx context.Context, opts *DocumentListOptions) (*DocumentPage, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Keyword != "" {
			params.Set("keyword", opts.Keyword)
		}
		if opts.Celex != "" {
			params.Set("celex", opts.Celex)
		}
		if opts.WebsiteID != "" {
			params.Set("website", opts.WebsiteID)
		}
		if opts.Validation != "" {
			params.Set("validation", opts.Validation)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}

	path := "/api/v1/documents"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var page DocumentPage
	if err := dc.client.get(ctx, path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches one document by ID.
// GET /api/v1/documents/{documentID}
func (dc *DocumentsClient) Get(ctx context.Context, documentID string) (*Document, error) {
	if documentID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document id is required")
	}

	var doc Document
	if err := dc.client.get(ctx, "/api/v1/documents/"+documentID, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Comments lists the reviewer comments on a document.
// GET /api/v1/documents/{documentID}/comments
func (dc *DocumentsClient) Comments(ctx context.Context, documentID string) ([]Comment, error) {
	if documentID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document id is required")
	}

	var comments []Comment
	if err := dc.client.get(ctx, fmt.Sprintf("/api/v1/documents/%s/comments", documentID), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment attaches a comment to a document as the acting user.
// POST /api/v1/documents/{documentID}/comments
func (dc *DocumentsClient) AddComment(ctx context.Context, documentID, value string) (*Comment, error) {
	if documentID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document id is required")
	}
	if value == "" {
		return nil, errors.New(errors.ErrCodeValidation, "comment value is required")
	}

	body := map[string]string{"value": value}
	var comment Comment
	if err := dc.client.post(ctx, fmt.Sprintf("/api/v1/documents/%s/comments", documentID), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment by ID.
// DELETE /api/v1/documents/comments/{commentID}
func (dc *DocumentsClient) DeleteComment(ctx context.Context, commentID string) error {
	if commentID == "" {
		return errors.New(errors.ErrCodeValidation, "comment id is required")
	}
	return dc.client.delete(ctx, "/api/v1/documents/comments/"+commentID)
}

// Extract queues one document for the named pipeline ("terms" or "ro").
// POST /api/v1/documents/{documentID}/extract/{pipeline}
func (dc *DocumentsClient) Extract(ctx context.Context, documentID, pipeline string, force bool) (*DispatchResult, error) {
	if documentID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "document id is required")
	}
	if pipeline == "" {
		return nil, errors.New(errors.ErrCodeValidation, "pipeline is required")
	}

	path := fmt.Sprintf("/api/v1/documents/%s/extract/%s", documentID, pipeline)
	if force {
		path += "?force=true"
	}

	var result DispatchResult
	if err := dc.client.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExtractWebsite fans the named pipeline out over every document of a website.
// POST /api/v1/websites/{websiteID}/extract/{pipeline}
func (dc *DocumentsClient) ExtractWebsite(ctx context.Context, websiteID, pipeline string, force bool) (*DispatchResult, error) {
	if websiteID == "" {
		return nil, errors.New(errors.ErrCodeValidation, "website id is required")
	}
	if pipeline == "" {
		return nil, errors.New(errors.ErrCodeValidation, "pipeline is required")
	}

	path := fmt.Sprintf("/api/v1/websites/%s/extract/%s", websiteID, pipeline)
	if force {
		path += "?force=true"
	}

	var result DispatchResult
	if err := dc.client.post(ctx, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

//Personal.AI order the ending
