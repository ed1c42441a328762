package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/regcat-io/regcat/internal/nlp/cas"
)

// html2TextRequest is the HTML-to-text service's input: raw markup plus the
// opaque attribute string the crawler attached.
type html2TextRequest struct {
	Text       string `json:"text"`
	Attributes string `json:"attributes,omitempty"`
}

// HTML2Text converts document markup into the canonical text CAS.  The call
// is deterministic for identical input, so results are cached by content hash
// for the configured TTL; re-runs over unchanged documents skip the service
// round-trip.
func (c *Client) HTML2Text(ctx context.Context, html, attributes string) (*cas.Envelope, error) {
	sum := sha256.Sum256([]byte(html))
	key := "html2text:" + hex.EncodeToString(sum[:])

	if cached, found := c.cache.Get(key); found {
		return cached.(*cas.Envelope), nil
	}

	var env cas.Envelope
	if err := c.post(ctx, c.cfg.HTML2TextURL, html2TextRequest{Text: html, Attributes: attributes}, &env); err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, &env)
	return &env, nil
}

// DetectParagraphs runs paragraph detection over a CAS.  ContentType tells
// the service whether the document originated as html or pdf.
func (c *Client) DetectParagraphs(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	var out cas.Envelope
	if err := c.post(ctx, c.cfg.ParagraphURL, env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// termExtractRequest extends the envelope with the supergram switch the term
// extraction service expects.
type termExtractRequest struct {
	CASContent        string `json:"cas_content"`
	ContentType       string `json:"content_type"`
	ExtractSupergrams string `json:"extract_supergrams"`
}

// ExtractTerms runs tf-idf term extraction over a CAS.  Supergram extraction
// stays off; it floods the glossary with low-value n-grams.
func (c *Client) ExtractTerms(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	req := termExtractRequest{
		CASContent:        env.CASContent,
		ContentType:       env.ContentType,
		ExtractSupergrams: "false",
	}
	var out cas.Envelope
	if err := c.post(ctx, c.cfg.TermExtractURL, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractDefinitions runs definition sentence detection over a CAS.
func (c *Client) ExtractDefinitions(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	var out cas.Envelope
	if err := c.post(ctx, c.cfg.DefinitionsURL, env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractObligations runs reporting-obligation extraction over a CAS.
func (c *Client) ExtractObligations(ctx context.Context, env *cas.Envelope) (*cas.Envelope, error) {
	var out cas.Envelope
	if err := c.post(ctx, c.cfg.ROExtractURL, env, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Version reports which term extraction pipeline version this client is
// configured against; documents are stamped with it after processing.
func (c *Client) Version() string {
	return c.cfg.TermExtractVersion
}

// ObligationsVersion reports the obligation extractor's pipeline version.
func (c *Client) ObligationsVersion() string {
	return c.cfg.ROExtractVersion
}

//Personal.AI order the ending
