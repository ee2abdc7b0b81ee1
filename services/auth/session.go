// Package auth implements the session service the edge gate and the auth
// handlers depend on: opaque bearer tokens (JWT) whose hashes index session
// records in Redis, plus one-time authorization codes for the OAuth-style
// callback flow.
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrNoSession is returned when a token carries no valid session: the token
// is malformed, expired, or its record has been revoked.
var ErrNoSession = errors.New("no valid session")

// ErrInvalidCode is returned when an authorization code is unknown, expired,
// or already consumed.
var ErrInvalidCode = errors.New("invalid or expired authorization code")

// Session is the server-validated proof of an authenticated subject.
type Session struct {
	Subject   string    `json:"subject"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService issues, refreshes, and revokes sessions.
type SessionService interface {
	// Issue creates a new session for the subject and returns its token.
	Issue(ctx context.Context, subject, email string) (*Session, error)
	// Refresh validates the token, slides the session TTL, and returns the
	// current session. Returns ErrNoSession when the token is invalid or the
	// record is gone.
	Refresh(ctx context.Context, token string) (*Session, error)
	// Current validates the token without extending the session lifetime.
	Current(ctx context.Context, token string) (*Session, error)
	// Revoke destroys the session record for the token.
	Revoke(ctx context.Context, token string) error
	// IssueAuthCode mints a short-lived, one-time authorization code bound to
	// the subject.
	IssueAuthCode(ctx context.Context, subject, email string) (string, error)
	// ExchangeCode consumes an authorization code and issues a session.
	ExchangeCode(ctx context.Context, code string) (*Session, error)
}
