package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/pasetoAuth/permission"
)

func userRecord(key string) *UserTokenRecord {
	return &UserTokenRecord{
		ID:        uuid.New(),
		Key:       key,
		UserID:    "42",
		UserAgent: "curl/8.0",
		IP:        "10.0.0.1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func appRecord(key string) *AppTokenRecord {
	return &AppTokenRecord{
		ID:        uuid.New(),
		Key:       key,
		Name:      "reporting-daemon",
		Owner:     SystemOwner(),
		UserAgent: "provision-cli",
		IP:        "10.0.0.2",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
		Groups: []permission.Group{
			{Name: "viewer", Permissions: []string{"billing.read"}},
		},
		Permissions: []string{"reports.generate"},
	}
}

func TestMemoryUserRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := userRecord("aaaabbbbccccddddeeeeffffgggghhhh")
	require.NoError(t, m.CreateUserToken(ctx, rec))

	got, err := m.GetUserToken(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.UserID, got.UserID)
	assert.Equal(t, rec.UserAgent, got.UserAgent)
	assert.Equal(t, rec.IP, got.IP)
	assert.False(t, got.Locked)

	_, err = m.GetUserToken(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryAppRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := appRecord("a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4")
	require.NoError(t, m.CreateAppToken(ctx, rec))

	got, err := m.GetAppToken(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, Owner{Kind: OwnerSystem}, got.Owner)
	assert.Equal(t, rec.Groups, got.Groups)
	assert.Equal(t, rec.Permissions, got.Permissions)
}

func TestMemoryDuplicateKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	require.NoError(t, m.CreateUserToken(ctx, userRecord("samekeysamekeysamekeysamekeysame")))
	err := m.CreateUserToken(ctx, userRecord("samekeysamekeysamekeysamekeysame"))
	assert.ErrorIs(t, err, ErrDuplicateKey)

	// Partitions are independent: an app record may reuse a user key.
	require.NoError(t, m.CreateAppToken(ctx, appRecord("samekeysamekeysamekeysamekeysame")))
}

func TestMemoryConcurrentCreateSingleWinner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	const contenders = 64
	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = m.CreateUserToken(ctx, userRecord("contendedcontendedcontendedconte"))
		}(i)
	}
	wg.Wait()

	var wins, dups int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		default:
			require.ErrorIs(t, err, ErrDuplicateKey)
			dups++
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent insert must win")
	assert.Equal(t, contenders-1, dups)
}

func TestMemoryLock(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := appRecord("lockablelockablelockablelockable")
	require.NoError(t, m.CreateAppToken(ctx, rec))
	require.NoError(t, m.Lock(ctx, KindApp, rec.Key))

	got, err := m.GetAppToken(ctx, rec.Key)
	require.NoError(t, err)
	assert.True(t, got.Locked, "GetAppToken must still see the locked record")

	_, err = m.GetAppTokenUnlocked(ctx, rec.Key)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, m.Lock(ctx, KindApp, "missing"), ErrNotFound)
	assert.ErrorIs(t, m.Lock(ctx, KindUser, rec.Key), ErrNotFound)
}

func TestMemoryExpiredRecordInvisible(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := userRecord("expiredexpiredexpiredexpiredexpi")
	rec.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, m.CreateUserToken(ctx, rec))

	_, err := m.GetUserToken(ctx, rec.Key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryGetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	rec := appRecord("copysafecopysafecopysafecopysafe")
	require.NoError(t, m.CreateAppToken(ctx, rec))

	got, err := m.GetAppToken(ctx, rec.Key)
	require.NoError(t, err)
	got.Permissions[0] = fmt.Sprintf("tampered-%d", time.Now().UnixNano())

	again, err := m.GetAppToken(ctx, rec.Key)
	require.NoError(t, err)
	assert.Equal(t, "reports.generate", again.Permissions[0])
}
