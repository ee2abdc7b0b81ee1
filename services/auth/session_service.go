package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"workhive/utils"
)

const (
	sessionKeyPrefix  = "session:"
	authCodeKeyPrefix = "authcode:"

	authCodeTTL = 5 * time.Minute
)

// sessionRecord is the payload stored in Redis, keyed by the token hash.
type sessionRecord struct {
	Subject  string    `json:"subject"`
	Email    string    `json:"email"`
	IssuedAt time.Time `json:"issuedAt"`
}

// SessionStore is the slice of the redis client the service depends on.
// *redis.Client satisfies it.
type SessionStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisSessionService implements SessionService backed by Redis.
type RedisSessionService struct {
	Client SessionStore
	TTL    time.Duration
	Logger *zap.Logger
}

// NewRedisSessionService creates a session service with the given token TTL.
func NewRedisSessionService(client SessionStore, ttl time.Duration, logger *zap.Logger) *RedisSessionService {
	return &RedisSessionService{Client: client, TTL: ttl, Logger: logger}
}

var _ SessionService = (*RedisSessionService)(nil)

// Issue creates a new session for the subject and returns its token.
func (s *RedisSessionService) Issue(ctx context.Context, subject, email string) (*Session, error) {
	token, err := utils.GenerateToken(subject, email, s.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	record := sessionRecord{Subject: subject, Email: email, IssuedAt: time.Now()}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session record: %w", err)
	}
	key := sessionKeyPrefix + utils.HashToken(token)
	if err := s.Client.Set(ctx, key, data, s.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to save session record: %w", err)
	}

	return &Session{
		Subject:   subject,
		Email:     email,
		Token:     token,
		ExpiresAt: time.Now().Add(s.TTL),
	}, nil
}

// Refresh validates the token and slides the session TTL.
func (s *RedisSessionService) Refresh(ctx context.Context, token string) (*Session, error) {
	record, key, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.Client.Expire(ctx, key, s.TTL).Err(); err != nil {
		// The record was readable; a failed TTL slide only shortens the
		// session, so log and carry on.
		s.Logger.Warn("failed to slide session TTL", zap.Error(err))
	}
	return &Session{
		Subject:   record.Subject,
		Email:     record.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(s.TTL),
	}, nil
}

// Current validates the token without extending the session lifetime.
func (s *RedisSessionService) Current(ctx context.Context, token string) (*Session, error) {
	record, key, err := s.lookup(ctx, token)
	if err != nil {
		return nil, err
	}
	ttl, err := s.Client.TTL(ctx, key).Result()
	if err != nil {
		ttl = 0
	}
	return &Session{
		Subject:   record.Subject,
		Email:     record.Email,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (s *RedisSessionService) lookup(ctx context.Context, token string) (*sessionRecord, string, error) {
	if token == "" {
		return nil, "", ErrNoSession
	}
	// Signature or expiry failure means no session, not an internal error.
	subject, err := utils.ExtractSubjectFromToken(token)
	if err != nil {
		return nil, "", ErrNoSession
	}

	key := sessionKeyPrefix + utils.HashToken(token)
	data, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, "", ErrNoSession
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read session record: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal session record: %w", err)
	}
	// The stored record must belong to the presented token.
	if record.Subject != subject {
		return nil, "", ErrNoSession
	}
	return &record, key, nil
}

// Revoke destroys the session record for the token.
func (s *RedisSessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	key := sessionKeyPrefix + utils.HashToken(token)
	return s.Client.Del(ctx, key).Err()
}

// IssueAuthCode mints a short-lived, one-time authorization code.
func (s *RedisSessionService) IssueAuthCode(ctx context.Context, subject, email string) (string, error) {
	code := uuid.NewString()
	record := sessionRecord{Subject: subject, Email: email, IssuedAt: time.Now()}
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to marshal auth code record: %w", err)
	}
	if err := s.Client.Set(ctx, authCodeKeyPrefix+code, data, authCodeTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to save auth code: %w", err)
	}
	return code, nil
}

// ExchangeCode consumes an authorization code and issues a session.
func (s *RedisSessionService) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	key := authCodeKeyPrefix + code
	data, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, ErrInvalidCode
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read auth code: %w", err)
	}
	// One-time use: delete before issuing so a replay cannot race the issue.
	if err := s.Client.Del(ctx, key).Err(); err != nil {
		return nil, fmt.Errorf("failed to consume auth code: %w", err)
	}

	var record sessionRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth code record: %w", err)
	}
	return s.Issue(ctx, record.Subject, record.Email)
}
