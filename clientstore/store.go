// Package clientstore caches the authenticated user's identity and role for
// the lifetime of a client session and exposes synchronous permission
// predicates for UI code. It is advisory only: the session gate in
// middleware is the enforcement boundary of record.
package clientstore

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"workhive/models"
	"workhive/policy"
	"workhive/services/auth"
)

// ProfileFetcher re-fetches the current session's user and sub-profiles from
// the backing services. CurrentUser returns auth.ErrNoSession when no session
// is present.
type ProfileFetcher interface {
	CurrentUser(ctx context.Context) (*models.User, error)
	FreelancerProfile(ctx context.Context, subject string) (*models.FreelancerProfile, error)
	ClientProfile(ctx context.Context, subject string) (*models.ClientProfile, error)
}

// Store caches the authenticated user's profile and role. All mutations go
// through its setters; predicates read cached state only and never touch the
// network.
type Store struct {
	mu sync.RWMutex

	user              *models.User
	freelancerProfile *models.FreelancerProfile
	clientProfile     *models.ClientProfile
	isAuthenticated   bool
	isLoading         bool

	fetcher ProfileFetcher
	persist Persister
	logger  *zap.Logger

	refreshGroup singleflight.Group
}

// NewStore builds a store, restoring the persisted subset (user,
// isAuthenticated) if a snapshot exists. The store always starts loading with
// empty sub-profiles regardless of what was persisted.
func NewStore(fetcher ProfileFetcher, persist Persister, logger *zap.Logger) *Store {
	s := &Store{
		fetcher:   fetcher,
		persist:   persist,
		logger:    logger,
		isLoading: true,
	}
	if persist != nil {
		snapshot, err := persist.Load()
		if err != nil {
			logger.Warn("failed to load persisted auth snapshot", zap.Error(err))
		} else if snapshot != nil {
			s.user = snapshot.User
			s.isAuthenticated = snapshot.IsAuthenticated
		}
	}
	return s
}

// SetUser replaces the cached user. A non-nil profile makes the store
// authenticated; nil makes it unauthenticated. Either way loading ends.
func (s *Store) SetUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.isAuthenticated = user != nil
	s.isLoading = false
	if user == nil {
		s.freelancerProfile = nil
		s.clientProfile = nil
	}
	s.mu.Unlock()
	s.saveSnapshot()
}

// RefreshUser re-fetches the current session's user and role-appropriate
// sub-profile. Concurrent callers share one in-flight refresh. A missing
// session transitions the store to unauthenticated; any other fetch failure
// is logged and leaves the cached state intact.
func (s *Store) RefreshUser(ctx context.Context) {
	_, _, _ = s.refreshGroup.Do("refresh", func() (interface{}, error) {
		user, err := s.fetcher.CurrentUser(ctx)
		if err != nil {
			if errors.Is(err, auth.ErrNoSession) {
				s.SetUser(nil)
				return nil, nil
			}
			s.logger.Warn("profile refresh failed; keeping cached state", zap.Error(err))
			return nil, nil
		}

		s.SetUser(user)
		s.refreshSubProfile(ctx, user)
		return nil, nil
	})
}

func (s *Store) refreshSubProfile(ctx context.Context, user *models.User) {
	switch user.Role {
	case policy.RoleFreelancer:
		profile, err := s.fetcher.FreelancerProfile(ctx, user.ID)
		if err != nil {
			s.logger.Warn("freelancer sub-profile refresh failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.freelancerProfile = profile
		s.mu.Unlock()
	case policy.RoleClient:
		profile, err := s.fetcher.ClientProfile(ctx, user.ID)
		if err != nil {
			s.logger.Warn("client sub-profile refresh failed", zap.Error(err))
			return
		}
		s.mu.Lock()
		s.clientProfile = profile
		s.mu.Unlock()
	}
}

// Logout unconditionally clears the cached user and sub-profiles.
func (s *Store) Logout() {
	s.SetUser(nil)
	if s.persist != nil {
		if err := s.persist.Clear(); err != nil {
			s.logger.Warn("failed to clear persisted auth snapshot", zap.Error(err))
		}
	}
}

func (s *Store) saveSnapshot() {
	if s.persist == nil {
		return
	}
	s.mu.RLock()
	snapshot := &Snapshot{User: s.user, IsAuthenticated: s.isAuthenticated}
	s.mu.RUnlock()
	if err := s.persist.Save(snapshot); err != nil {
		s.logger.Warn("failed to persist auth snapshot", zap.Error(err))
	}
}

// User returns the cached user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// FreelancerProfile returns the cached freelancer sub-profile, or nil.
func (s *Store) FreelancerProfile() *models.FreelancerProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.freelancerProfile
}

// ClientProfile returns the cached client sub-profile, or nil.
func (s *Store) ClientProfile() *models.ClientProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clientProfile
}

// IsLoading reports whether the store has not yet resolved the session.
func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isLoading
}

// IsAuthenticated reports whether a user is cached.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isAuthenticated
}

// UserRole returns the cached user's role, or the empty role when no user is
// cached.
func (s *Store) UserRole() policy.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Role
}

// HasPermission reports whether the cached role carries the permission.
func (s *Store) HasPermission(perm policy.Permission) bool {
	return policy.HasPermission(s.UserRole(), perm)
}

// CanAccessRoute reports whether the cached role may access the path.
func (s *Store) CanAccessRoute(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return false
	}
	return policy.CanAccessRoute(s.user.Role, path)
}

// IsFreelancer reports whether the cached user is a freelancer.
func (s *Store) IsFreelancer() bool { return s.UserRole() == policy.RoleFreelancer }

// IsClient reports whether the cached user is a client.
func (s *Store) IsClient() bool { return s.UserRole() == policy.RoleClient }

// IsAdmin reports whether the cached user is an admin.
func (s *Store) IsAdmin() bool { return s.UserRole() == policy.RoleAdmin }
