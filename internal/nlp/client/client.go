// Package client talks to the external NLP services.  All stages share one
// rate-limited HTTP client so a worker burst cannot overload the model
// containers, and the expensive HTML-to-text stage is cached by content hash.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/regcat-io/regcat/internal/config"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// Client is the shared NLP service client.
type Client struct {
	cfg     config.NLPConfig
	httpc   *http.Client
	limiter *rate.Limiter
	cache   *gocache.Cache
	logger  logging.Logger
}

// New builds a client from the NLP section of the configuration.
func New(cfg config.NLPConfig, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:  logger,
	}
}

// post sends one JSON request to an NLP stage and decodes the JSON response.
func (c *Client) post(ctx context.Context, url string, payload, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeNLPRateLimited, "rate limiter interrupted")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode NLP request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "build NLP request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeNLPServiceUnavailable, "NLP service unreachable").
			WithDetail(url)
	}
	defer resp.Body.Close()

	c.logger.Debug("NLP stage call finished",
		logging.String("url", url),
		logging.Int("status", resp.StatusCode),
		logging.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.New(errors.ErrCodeNLPStageFailed, "NLP stage returned non-success status").
			WithDetail(url + " -> " + resp.Status)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.ErrCodeNLPResponseInvalid, "decode NLP response").
			WithDetail(url)
	}
	return nil
}

//Personal.AI order the ending
