package clientstore

import (
	"context"

	"workhive/models"
	"workhive/services/auth"
)

// TokenSource yields the session token of the client, typically read from the
// session cookie. An empty string means no session.
type TokenSource func() string

// SessionReader is the slice of the session service the fetcher needs.
// auth.SessionService satisfies it.
type SessionReader interface {
	Current(ctx context.Context, token string) (*auth.Session, error)
}

// ProfileReader is the slice of the user service the fetcher needs.
// user.Service satisfies it.
type ProfileReader interface {
	GetOrCreate(ctx context.Context, subject, email string) (*models.User, error)
	FreelancerProfile(ctx context.Context, subject string) (*models.FreelancerProfile, error)
	ClientProfile(ctx context.Context, subject string) (*models.ClientProfile, error)
}

// ServiceFetcher implements ProfileFetcher on top of the session and user
// services. It resolves the current token to a subject, then loads (creating
// on first read) that subject's profile.
type ServiceFetcher struct {
	Token    TokenSource
	Sessions SessionReader
	Profiles ProfileReader
}

var _ ProfileFetcher = (*ServiceFetcher)(nil)

// NewServiceFetcher builds a fetcher over the given token source and services.
func NewServiceFetcher(token TokenSource, sessions SessionReader, profiles ProfileReader) *ServiceFetcher {
	return &ServiceFetcher{Token: token, Sessions: sessions, Profiles: profiles}
}

// CurrentUser resolves the current session and returns its profile. Returns
// auth.ErrNoSession when no token is present or the session is invalid.
func (f *ServiceFetcher) CurrentUser(ctx context.Context) (*models.User, error) {
	token := f.Token()
	if token == "" {
		return nil, auth.ErrNoSession
	}
	session, err := f.Sessions.Current(ctx, token)
	if err != nil {
		return nil, err
	}
	return f.Profiles.GetOrCreate(ctx, session.Subject, session.Email)
}

// FreelancerProfile loads the freelancer sub-profile for a subject.
func (f *ServiceFetcher) FreelancerProfile(ctx context.Context, subject string) (*models.FreelancerProfile, error) {
	return f.Profiles.FreelancerProfile(ctx, subject)
}

// ClientProfile loads the client sub-profile for a subject.
func (f *ServiceFetcher) ClientProfile(ctx context.Context, subject string) (*models.ClientProfile, error) {
	return f.Profiles.ClientProfile(ctx, subject)
}
