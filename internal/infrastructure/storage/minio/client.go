// Package minio stores the large document artifacts that do not belong in
// PostgreSQL: gzipped CAS payloads produced by the extraction pipeline, their
// debug snapshots, and the rendered obligation HTML views.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/regcat-io/regcat/internal/config"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// MinIOAPI is the slice of the minio-go client the stores need.  GetObject
// returns a plain reader so tests can feed byte buffers.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// apiAdapter narrows *minio.Client to MinIOAPI.  Needed because the client's
// GetObject returns the concrete *minio.Object.
type apiAdapter struct {
	*minio.Client
}

func (a apiAdapter) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	return a.Client.GetObject(ctx, bucketName, objectName, opts)
}

// Client wraps the object-storage connection plus the bucket layout.
type Client struct {
	api    MinIOAPI
	cfg    config.MinIOConfig
	logger logging.Logger
}

// NewClient connects, verifies reachability and creates any missing buckets.
func NewClient(cfg config.MinIOConfig, logger logging.Logger) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	c := &Client{api: apiAdapter{mc}, cfg: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.api.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, fmt.Sprintf("failed to connect to minio at %s", cfg.Endpoint))
	}
	if err := c.EnsureBuckets(ctx); err != nil {
		return nil, err
	}

	logger.Info("MinIO client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientFromAPI wraps an existing API handle, for tests.
func NewClientFromAPI(api MinIOAPI, cfg config.MinIOConfig, logger logging.Logger) *Client {
	return &Client{api: api, cfg: cfg, logger: logger}
}

func (c *Client) buckets() []string {
	return []string{c.cfg.CASBucket, c.cfg.DebugCASBucket, c.cfg.ROHTMLBucket}
}

// EnsureBuckets creates the CAS, debug-CAS and obligation-HTML buckets if
// they do not exist yet.
func (c *Client) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range c.buckets() {
		if bucket == "" {
			return errors.New(errors.ErrCodeValidation, "bucket name not configured")
		}
		exists, err := c.api.BucketExists(ctx, bucket)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to check bucket %s", bucket))
		}
		if exists {
			continue
		}
		if err := c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternal, fmt.Sprintf("failed to create bucket %s", bucket))
		}
		c.logger.Info("Created bucket", logging.String("bucket", bucket))
	}
	return nil
}

// HealthStatus reports reachability and per-bucket presence.
type HealthStatus struct {
	Healthy        bool
	Latency        time.Duration
	BucketStatuses map[string]bool
}

func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	_, err := c.api.ListBuckets(ctx)

	status := &HealthStatus{
		Healthy:        err == nil,
		Latency:        time.Since(start),
		BucketStatuses: make(map[string]bool),
	}
	if err != nil {
		return status
	}

	for _, b := range c.buckets() {
		exists, _ := c.api.BucketExists(ctx, b)
		status.BucketStatuses[b] = exists
		if !exists {
			status.Healthy = false
		}
	}
	return status
}

func (c *Client) presignedGetURL(ctx context.Context, bucket, object string) (string, error) {
	expiry := c.cfg.PresignExpiry
	if expiry == 0 {
		expiry = time.Hour
	}
	u, err := c.api.PresignedGetObject(ctx, bucket, object, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to presign object URL")
	}
	return u.String(), nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}

//Personal.AI order the ending
