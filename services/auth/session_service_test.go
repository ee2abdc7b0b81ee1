package auth

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhive/utils"
)

type fakeSessionStore struct {
	entries     map[string]string
	ttls        map[string]time.Duration
	expireCalls int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSessionStore) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.entries[key] = string(v)
	case string:
		f.entries[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeSessionStore) Get(ctx context.Context, key string) *redis.StringCmd {
	if v, ok := f.entries[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeSessionStore) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	var removed int64
	for _, k := range keys {
		if _, ok := f.entries[k]; ok {
			removed++
		}
		delete(f.entries, k)
		delete(f.ttls, k)
	}
	return redis.NewIntResult(removed, nil)
}

func (f *fakeSessionStore) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	f.expireCalls++
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeSessionStore) TTL(ctx context.Context, key string) *redis.DurationCmd {
	return redis.NewDurationResult(f.ttls[key], nil)
}

func newTestSessionService(store *fakeSessionStore) *RedisSessionService {
	return NewRedisSessionService(store, time.Hour, zap.NewNop())
}

func TestIssueAndRefresh(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store)

	issued, err := svc.Issue(context.Background(), "sub-1", "user@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)
	assert.Len(t, store.entries, 1)

	refreshed, err := svc.Refresh(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", refreshed.Subject)
	assert.Equal(t, "user@example.com", refreshed.Email)
	assert.Equal(t, 1, store.expireCalls)
}

func TestRefreshRejectsGarbageToken(t *testing.T) {
	svc := newTestSessionService(newFakeSessionStore())

	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRefreshRejectsUnknownToken(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store)

	// A well-formed token with no backing record is no session.
	token, err := utils.GenerateToken("sub-1", "user@example.com", time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRefreshRejectsRecordSubjectMismatch(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store)

	issued, err := svc.Issue(context.Background(), "sub-1", "user@example.com")
	require.NoError(t, err)

	// A record swapped under the token's key must not authenticate as the
	// other subject.
	data, err := json.Marshal(sessionRecord{Subject: "sub-2", Email: "other@example.com", IssuedAt: time.Now()})
	require.NoError(t, err)
	store.entries["session:"+utils.HashToken(issued.Token)] = string(data)

	_, err = svc.Refresh(context.Background(), issued.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestRevoke(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store)

	issued, err := svc.Issue(context.Background(), "sub-1", "user@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(context.Background(), issued.Token))
	_, err = svc.Refresh(context.Background(), issued.Token)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestCurrentDoesNotSlideTTL(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store)

	issued, err := svc.Issue(context.Background(), "sub-1", "user@example.com")
	require.NoError(t, err)

	current, err := svc.Current(context.Background(), issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", current.Subject)
	assert.Zero(t, store.expireCalls)
}

func TestAuthCodeExchangeIsOneTime(t *testing.T) {
	store := newFakeSessionStore()
	svc := newTestSessionService(store)

	code, err := svc.IssueAuthCode(context.Background(), "sub-1", "user@example.com")
	require.NoError(t, err)

	session, err := svc.ExchangeCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "sub-1", session.Subject)

	_, err = svc.ExchangeCode(context.Background(), code)
	assert.ErrorIs(t, err, ErrInvalidCode)
}
