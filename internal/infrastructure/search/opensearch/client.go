// Package opensearch maintains the annotation indexes the catalogue search
// runs against.  The extraction pipeline pushes pre-analyzed token payloads
// into per-document fields; the searcher reads them back for highlighting.
package opensearch

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/regcat-io/regcat/internal/config"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

var ErrConnectionFailed = errors.New(errors.ErrCodeServiceUnavailable, "failed to connect to opensearch")

// Transport is the request executor the API requests run against.
// *opensearch.Client satisfies it; tests substitute a canned responder.
type Transport interface {
	Perform(req *http.Request) (*http.Response, error)
}

// Client wraps the cluster connection plus the index layout.
type Client struct {
	transport Transport
	cfg       config.OpenSearchConfig
	logger    logging.Logger
}

// NewClient connects to the cluster and verifies reachability.
func NewClient(cfg config.OpenSearchConfig, logger logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.ErrCodeValidation, "opensearch addresses required")
	}

	osCfg := opensearch.Config{
		Addresses:     cfg.Addresses,
		Username:      cfg.User,
		Password:      cfg.Password,
		RetryOnStatus: []int{429, 502, 503, 504},
		MaxRetries:    3,
	}
	if cfg.InsecureSkipVerify {
		osCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	osClient, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create opensearch client")
	}

	c := &Client{transport: osClient, cfg: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		return nil, ErrConnectionFailed
	}

	logger.Info("OpenSearch client connected", logging.Any("addresses", cfg.Addresses))
	return c, nil
}

// NewClientWithTransport wraps an existing transport, for tests.
func NewClientWithTransport(t Transport, cfg config.OpenSearchConfig, logger logging.Logger) *Client {
	return &Client{transport: t, cfg: cfg, logger: logger}
}

// Ping checks cluster reachability.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := opensearchapi.PingRequest{}.Do(ctx, c.transport)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "opensearch ping failed")
	}
	defer resp.Body.Close()

	if resp.IsError() {
		return errors.New(errors.ErrCodeServiceUnavailable, "opensearch ping returned error status")
	}
	return nil
}

func (c *Client) indexes() []string {
	return []string{c.cfg.OccurrenceIndex, c.cfg.DefinitionIndex, c.cfg.HighlightIndex}
}

//Personal.AI order the ending
