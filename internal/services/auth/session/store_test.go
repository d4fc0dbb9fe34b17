// internal/services/auth/session/store_test.go
package session

import (
	"context"
	"testing"
	"time"

	"workwise-backend/internal/common/errors"
	"workwise-backend/internal/common/logger"
	"workwise-backend/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Test Helper Functions
// ==========================

func setupRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	}), mr
}

type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	rdb, mr := setupRedis(t)
	return NewStore(rdb, time.Hour, &testLogger{t: t}), mr
}

func testUser() *models.User {
	return &models.User{
		ID:         "user-1",
		Email:      "thandi@example.com",
		Permission: models.PermissionSeeker,
	}
}

// ==========================
// Store Tests
// ==========================

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testUser(), "Chrome on Android", "196.1.2.3")
	assert.NoError(t, err)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "user-1", created.UserID)
	assert.Equal(t, models.PermissionSeeker, created.Permission)

	got, err := store.Get(ctx, created.Token)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Chrome on Android", got.DeviceInfo)
}

func TestStore_Get_UnknownToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "no-such-token")

	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionInvalid, stdErr.Code)
}

func TestStore_Get_EmptyToken(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "")

	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeAuthenticationRequired, stdErr.Code)
}

func TestStore_Get_ExpiredEntryRemoved(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testUser(), "", "")
	assert.NoError(t, err)

	// Redis expiry fires in miniredis via FastForward
	mr.FastForward(2 * time.Hour)

	_, err = store.Get(ctx, created.Token)
	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionInvalid, stdErr.Code)
}

func TestStore_Get_CorruptEntryDropped(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set(tokenKey("bad-token"), "{not json")

	_, err := store.Get(ctx, "bad-token")
	var stdErr *errors.StandardError
	assert.ErrorAs(t, err, &stdErr)
	assert.Equal(t, errors.ErrCodeSessionInvalid, stdErr.Code)
	assert.False(t, mr.Exists(tokenKey("bad-token")))
}

func TestStore_Invalidate(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, testUser(), "", "")
	assert.NoError(t, err)

	assert.NoError(t, store.Invalidate(ctx, created.Token))
	assert.False(t, mr.Exists(tokenKey(created.Token)))

	_, err = store.Get(ctx, created.Token)
	assert.Error(t, err)
}

func TestStore_InvalidateAll(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, testUser(), "laptop", "")
	assert.NoError(t, err)
	second, err := store.Create(ctx, testUser(), "phone", "")
	assert.NoError(t, err)

	assert.NoError(t, store.InvalidateAll(ctx, "user-1"))

	assert.False(t, mr.Exists(tokenKey(first.Token)))
	assert.False(t, mr.Exists(tokenKey(second.Token)))
	assert.False(t, mr.Exists(userKey("user-1")))
}
