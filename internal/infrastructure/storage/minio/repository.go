package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/internal/nlp/cas"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// CAS store
// ─────────────────────────────────────────────────────────────────────────────

// CASStore archives the gzipped CAS a pipeline run produced for a document.
// The regular bucket holds the authoritative copy the next run resumes from;
// the debug bucket holds pre-reconciliation snapshots kept for inspection.
type CASStore struct {
	client *Client
	logger logging.Logger
}

func NewCASStore(client *Client, logger logging.Logger) *CASStore {
	return &CASStore{client: client, logger: logger}
}

func casObjectName(documentID uuid.UUID) string {
	return documentID.String() + ".json.gz"
}

func (s *CASStore) put(ctx context.Context, bucket string, documentID uuid.UUID, c *cas.CAS) error {
	data, err := cas.MarshalGzip(c)
	if err != nil {
		return err
	}
	_, err = s.client.api.PutObject(ctx, bucket, casObjectName(documentID),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/gzip"})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to store CAS")
	}
	s.logger.Debug("Stored CAS",
		logging.String("bucket", bucket),
		logging.String("document_id", documentID.String()),
		logging.Int("bytes", len(data)))
	return nil
}

// Save archives the authoritative CAS for a document, replacing any previous
// run's copy.
func (s *CASStore) Save(ctx context.Context, documentID uuid.UUID, c *cas.CAS) error {
	return s.put(ctx, s.client.cfg.CASBucket, documentID, c)
}

// SaveDebug archives the raw CAS as returned by the extraction services,
// before reconciliation touched it.
func (s *CASStore) SaveDebug(ctx context.Context, documentID uuid.UUID, c *cas.CAS) error {
	return s.put(ctx, s.client.cfg.DebugCASBucket, documentID, c)
}

// Load fetches the archived CAS for a document.  A missing object yields
// ErrCodeCASNotFound so callers can fall back to rebuilding the CAS from the
// document HTML.
func (s *CASStore) Load(ctx context.Context, documentID uuid.UUID) (*cas.CAS, error) {
	return s.load(ctx, s.client.cfg.CASBucket, documentID)
}

// LoadDebug fetches the pre-reconciliation snapshot.
func (s *CASStore) LoadDebug(ctx context.Context, documentID uuid.UUID) (*cas.CAS, error) {
	return s.load(ctx, s.client.cfg.DebugCASBucket, documentID)
}

func (s *CASStore) load(ctx context.Context, bucket string, documentID uuid.UUID) (*cas.CAS, error) {
	obj, err := s.client.api.GetObject(ctx, bucket, casObjectName(documentID), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open CAS object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.New(errors.ErrCodeCASNotFound, "no archived CAS for document")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read CAS object")
	}
	return cas.ReadGzip(bytes.NewReader(data))
}

// Exists reports whether an authoritative CAS is archived for the document.
func (s *CASStore) Exists(ctx context.Context, documentID uuid.UUID) (bool, error) {
	_, err := s.client.api.StatObject(ctx, s.client.cfg.CASBucket, casObjectName(documentID), minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat CAS object")
	}
	return true, nil
}

// Delete removes both the authoritative and the debug copy.  Missing objects
// are not an error: document deletion must be idempotent.
func (s *CASStore) Delete(ctx context.Context, documentID uuid.UUID) error {
	name := casObjectName(documentID)
	for _, bucket := range []string{s.client.cfg.CASBucket, s.client.cfg.DebugCASBucket} {
		err := s.client.api.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{})
		if err != nil && !isNoSuchKey(err) {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete CAS object")
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Obligation HTML store
// ─────────────────────────────────────────────────────────────────────────────

// ROHTMLStore keeps the rendered reporting-obligation HTML views, one object
// per document and extractor version, so reviewers can see exactly what a
// given pipeline version produced.
type ROHTMLStore struct {
	client *Client
	logger logging.Logger
}

func NewROHTMLStore(client *Client, logger logging.Logger) *ROHTMLStore {
	return &ROHTMLStore{client: client, logger: logger}
}

func roHTMLObjectName(documentID uuid.UUID, version string) string {
	return fmt.Sprintf("%s-%s.html", documentID, version)
}

// Save stores the rendered view for one document and pipeline version.
func (s *ROHTMLStore) Save(ctx context.Context, documentID uuid.UUID, version string, html []byte) error {
	if version == "" {
		return errors.New(errors.ErrCodeValidation, "extractor version required")
	}
	name := roHTMLObjectName(documentID, version)
	_, err := s.client.api.PutObject(ctx, s.client.cfg.ROHTMLBucket, name,
		bytes.NewReader(html), int64(len(html)),
		minio.PutObjectOptions{ContentType: "text/html; charset=utf-8"})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to store obligation HTML")
	}
	s.logger.Debug("Stored obligation HTML",
		logging.String("object", name),
		logging.Int("bytes", len(html)))
	return nil
}

// Load fetches the rendered view.
func (s *ROHTMLStore) Load(ctx context.Context, documentID uuid.UUID, version string) ([]byte, error) {
	obj, err := s.client.api.GetObject(ctx, s.client.cfg.ROHTMLBucket, roHTMLObjectName(documentID, version), minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open obligation HTML")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.New(errors.ErrCodeDocumentHTMLMissing, "no obligation HTML for document and version")
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read obligation HTML")
	}
	return data, nil
}

// PresignedURL returns a short-lived direct link for the catalogue UI.
func (s *ROHTMLStore) PresignedURL(ctx context.Context, documentID uuid.UUID, version string) (string, error) {
	return s.client.presignedGetURL(ctx, s.client.cfg.ROHTMLBucket, roHTMLObjectName(documentID, version))
}

// DeleteAll removes every version's view for a document.
func (s *ROHTMLStore) DeleteAll(ctx context.Context, documentID uuid.UUID) error {
	prefix := documentID.String() + "-"
	ch := s.client.api.ListObjects(ctx, s.client.cfg.ROHTMLBucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true})
	for obj := range ch {
		if obj.Err != nil {
			return errors.Wrap(obj.Err, errors.ErrCodeInternal, "failed to list obligation HTML objects")
		}
		if !strings.HasSuffix(obj.Key, ".html") {
			continue
		}
		if err := s.client.api.RemoveObject(ctx, s.client.cfg.ROHTMLBucket, obj.Key, minio.RemoveObjectOptions{}); err != nil && !isNoSuchKey(err) {
			return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete obligation HTML object")
		}
	}
	return nil
}

//Personal.AI order the ending
