package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/regcat-io/regcat/internal/application/extraction"
	"github.com/regcat-io/regcat/internal/domain/document"
	"github.com/regcat-io/regcat/internal/infrastructure/database/redis"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// leaseAdapter narrows the concrete lease manager to the extraction
// service's Leases port.
type leaseAdapter struct {
	manager *redis.LeaseManager
}

func (a *leaseAdapter) Acquire(ctx context.Context, pipeline string, documentID uuid.UUID) (extraction.Lease, error) {
	lease, err := a.manager.Acquire(ctx, pipeline, documentID)
	if err != nil {
		return nil, err
	}
	return lease, nil
}

// httpContentSource fetches a document's HTML from its source URL.  Offsets
// are anchored to the archived CAS once one exists, so the fetch only runs
// on a document's first extraction.
type httpContentSource struct {
	documents document.Repository
	client    *http.Client
	logger    logging.Logger
}

const maxContentBytes = 32 << 20

func newHTTPContentSource(documents document.Repository, timeout time.Duration, logger logging.Logger) *httpContentSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &httpContentSource{
		documents: documents,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

func (s *httpContentSource) HTML(ctx context.Context, documentID uuid.UUID) (string, string, error) {
	doc, err := s.documents.GetByID(ctx, documentID)
	if err != nil {
		return "", "", err
	}
	if doc.URL == "" {
		return "", "", errors.New(errors.ErrCodeValidation, "document has no source url")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, doc.URL, nil)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrCodeValidation, "build document fetch request")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrCodeExternalService, "fetch document content")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", errors.New(errors.ErrCodeExternalService,
			fmt.Sprintf("document source returned HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBytes))
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrCodeExternalService, "read document content")
	}

	s.logger.Debug("Fetched document content",
		logging.String("document_id", documentID.String()),
		logging.Int("bytes", len(body)),
		logging.Int64("duration_ms", time.Since(start).Milliseconds()))

	return string(body), "", nil
}

//Personal.AI order the ending
