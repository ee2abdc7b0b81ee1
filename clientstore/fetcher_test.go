package clientstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workhive/models"
	"workhive/policy"
	"workhive/services/auth"
)

type fakeSessionReader struct {
	session *auth.Session
	err     error
	calls   int
}

func (r *fakeSessionReader) Current(ctx context.Context, token string) (*auth.Session, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.session, nil
}

type fakeProfileReader struct {
	user       *models.User
	freelancer *models.FreelancerProfile
	client     *models.ClientProfile
	err        error
}

func (r *fakeProfileReader) GetOrCreate(ctx context.Context, subject, email string) (*models.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.user, nil
}

func (r *fakeProfileReader) FreelancerProfile(ctx context.Context, subject string) (*models.FreelancerProfile, error) {
	return r.freelancer, r.err
}

func (r *fakeProfileReader) ClientProfile(ctx context.Context, subject string) (*models.ClientProfile, error) {
	return r.client, r.err
}

func TestServiceFetcherWithoutToken(t *testing.T) {
	sessions := &fakeSessionReader{}
	fetcher := NewServiceFetcher(func() string { return "" }, sessions, &fakeProfileReader{})

	_, err := fetcher.CurrentUser(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
	// The session service is never consulted without a token.
	assert.Zero(t, sessions.calls)
}

func TestServiceFetcherPropagatesSessionError(t *testing.T) {
	sessions := &fakeSessionReader{err: auth.ErrNoSession}
	fetcher := NewServiceFetcher(func() string { return "stale-token" }, sessions, &fakeProfileReader{})

	_, err := fetcher.CurrentUser(context.Background())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestServiceFetcherResolvesProfile(t *testing.T) {
	sessions := &fakeSessionReader{session: &auth.Session{Subject: "sub-1", Email: "fl@example.com"}}
	profiles := &fakeProfileReader{
		user:       &models.User{ID: "sub-1", Email: "fl@example.com", Role: policy.RoleFreelancer},
		freelancer: &models.FreelancerProfile{UserID: "sub-1", Headline: "Go dev"},
	}
	fetcher := NewServiceFetcher(func() string { return "valid-token" }, sessions, profiles)

	usr, err := fetcher.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sub-1", usr.ID)

	profile, err := fetcher.FreelancerProfile(context.Background(), usr.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go dev", profile.Headline)
}

func TestStoreRefreshThroughServiceFetcher(t *testing.T) {
	sessions := &fakeSessionReader{session: &auth.Session{Subject: "sub-1", Email: "cl@example.com"}}
	profiles := &fakeProfileReader{
		user:   &models.User{ID: "sub-1", Role: policy.RoleClient},
		client: &models.ClientProfile{UserID: "sub-1", CompanyName: "Acme"},
	}
	fetcher := NewServiceFetcher(func() string { return "valid-token" }, sessions, profiles)
	store := NewStore(fetcher, nil, zap.NewNop())

	store.RefreshUser(context.Background())

	assert.True(t, store.IsAuthenticated())
	assert.True(t, store.IsClient())
	require.NotNil(t, store.ClientProfile())
	assert.Equal(t, "Acme", store.ClientProfile().CompanyName)
}

func TestStoreLogsOutThroughServiceFetcher(t *testing.T) {
	fetcher := NewServiceFetcher(func() string { return "" }, &fakeSessionReader{err: errors.New("unused")}, &fakeProfileReader{})
	store := NewStore(fetcher, nil, zap.NewNop())
	store.SetUser(&models.User{ID: "sub-1", Role: policy.RoleClient})

	store.RefreshUser(context.Background())

	assert.False(t, store.IsAuthenticated())
	assert.Nil(t, store.User())
}
