package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/regcat-io/regcat/internal/config"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	"github.com/regcat-io/regcat/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Extraction lease
// ─────────────────────────────────────────────────────────────────────────────

// LeaseManager hands out per-document extraction leases.  A lease marks a
// document as being processed by one worker for one pipeline; it expires on
// its own when the worker dies, so a crashed run never wedges the document.
type LeaseManager struct {
	client *Client
	ttl    time.Duration
	logger logging.Logger
}

// NewLeaseManager builds a LeaseManager with the worker-configured TTL.
func NewLeaseManager(client *Client, cfg config.WorkerConfig, log logging.Logger) *LeaseManager {
	ttl := cfg.LeaseTTL
	if ttl == 0 {
		ttl = 10 * time.Minute
	}
	return &LeaseManager{client: client, ttl: ttl, logger: log}
}

// Lease is one acquired extraction lease.  The owner token ties release and
// extension to the worker that acquired it.
type Lease struct {
	manager *LeaseManager
	key     string
	owner   string
}

var leaseReleaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

var leaseExtendScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("PEXPIRE", KEYS[1], ARGV[2])
	else
		return 0
	end
`)

// Acquire takes the lease for one (pipeline, document) pair.  It does not
// wait: a held lease means another worker owns the document right now, and
// the dispatcher will requeue it.
func (m *LeaseManager) Acquire(ctx context.Context, pipeline string, documentID uuid.UUID) (*Lease, error) {
	key := m.client.Key("lease", pipeline, documentID.String())
	owner := uuid.New().String()

	ok, err := m.client.Raw().SetNX(ctx, key, owner, m.ttl).Result()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "acquire extraction lease")
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeExtractionLeaseHeld, "document is being processed by another worker")
	}

	m.logger.Debug("Acquired extraction lease",
		logging.String("pipeline", pipeline),
		logging.String("document_id", documentID.String()),
		logging.Duration("ttl", m.ttl),
	)
	return &Lease{manager: m, key: key, owner: owner}, nil
}

// Held reports whether some worker currently holds the lease.
func (m *LeaseManager) Held(ctx context.Context, pipeline string, documentID uuid.UUID) (bool, error) {
	key := m.client.Key("lease", pipeline, documentID.String())
	n, err := m.client.Raw().Exists(ctx, key).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "check extraction lease")
	}
	return n > 0, nil
}

// Release gives the lease back.  Only the acquiring owner can release it; a
// lease that already expired and was re-acquired elsewhere is left alone.
func (l *Lease) Release(ctx context.Context) error {
	res, err := leaseReleaseScript.Run(ctx, l.manager.client.Raw(), []string{l.key}, l.owner).Result()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "release extraction lease")
	}
	if res.(int64) == 0 {
		l.manager.logger.Warn("Extraction lease expired before release", logging.String("key", l.key))
	}
	return nil
}

// Extend pushes the expiry out by the manager TTL, for documents whose NLP
// round-trips outlast a single lease window.
func (l *Lease) Extend(ctx context.Context) (bool, error) {
	res, err := leaseExtendScript.Run(ctx, l.manager.client.Raw(),
		[]string{l.key}, l.owner, l.manager.ttl.Milliseconds()).Result()
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeCacheError, "extend extraction lease")
	}
	return res.(int64) == 1, nil
}

//Personal.AI order the ending
