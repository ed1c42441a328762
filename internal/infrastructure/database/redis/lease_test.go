package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regcat-io/regcat/internal/config"
	"github.com/regcat-io/regcat/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/regcat-io/regcat/pkg/errors"
)

func testLeaseManager(t *testing.T) (*LeaseManager, *miniredis.Miniredis) {
	t.Helper()
	client, mr := testClient(t)
	m := NewLeaseManager(client, config.WorkerConfig{LeaseTTL: 30 * time.Second}, logging.NewNopLogger())
	return m, mr
}

func TestLeaseManager_AcquireAndRelease(t *testing.T) {
	m, _ := testLeaseManager(t)
	ctx := context.Background()
	docID := uuid.New()

	lease, err := m.Acquire(ctx, "terms", docID)
	require.NoError(t, err)

	held, err := m.Held(ctx, "terms", docID)
	require.NoError(t, err)
	assert.True(t, held)

	require.NoError(t, lease.Release(ctx))

	held, err = m.Held(ctx, "terms", docID)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestLeaseManager_SecondAcquireFails(t *testing.T) {
	m, _ := testLeaseManager(t)
	ctx := context.Background()
	docID := uuid.New()

	_, err := m.Acquire(ctx, "terms", docID)
	require.NoError(t, err)

	_, err = m.Acquire(ctx, "terms", docID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.ErrCodeExtractionLeaseHeld, pkgerrors.GetCode(err))
}

func TestLeaseManager_PipelinesAreIndependent(t *testing.T) {
	m, _ := testLeaseManager(t)
	ctx := context.Background()
	docID := uuid.New()

	_, err := m.Acquire(ctx, "terms", docID)
	require.NoError(t, err)

	// The obligation pipeline may process the same document concurrently.
	_, err = m.Acquire(ctx, "obligations", docID)
	require.NoError(t, err)
}

func TestLease_ExpiryFreesDocument(t *testing.T) {
	m, mr := testLeaseManager(t)
	ctx := context.Background()
	docID := uuid.New()

	_, err := m.Acquire(ctx, "terms", docID)
	require.NoError(t, err)

	// A crashed worker never releases; expiry recovers the document.
	mr.FastForward(31 * time.Second)

	_, err = m.Acquire(ctx, "terms", docID)
	assert.NoError(t, err)
}

func TestLease_ExtendKeepsOwnership(t *testing.T) {
	m, mr := testLeaseManager(t)
	ctx := context.Background()
	docID := uuid.New()

	lease, err := m.Acquire(ctx, "terms", docID)
	require.NoError(t, err)

	mr.FastForward(20 * time.Second)
	ok, err := lease.Extend(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	// Past the original expiry but inside the extended window.
	mr.FastForward(20 * time.Second)
	held, err := m.Held(ctx, "terms", docID)
	require.NoError(t, err)
	assert.True(t, held)
}

func TestLease_ExtendAfterExpiryFails(t *testing.T) {
	m, mr := testLeaseManager(t)
	ctx := context.Background()

	lease, err := m.Acquire(ctx, "terms", uuid.New())
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)
	ok, err := lease.Extend(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

//Personal.AI order the ending
