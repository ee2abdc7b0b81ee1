package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	userRepo "workhive/database/repository/user"
	"workhive/models"
	"workhive/policy"
	"workhive/utils"
)

const (
	freelancerDirectoryKey = "directory:freelancers"
	directoryCacheTTL      = 5 * time.Minute
)

// DirectoryCache is the slice of the redis cache client the service uses for
// the freelancer directory. *redis.Client satisfies it.
type DirectoryCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// DefaultUserService implements Service on top of the user repository. Cache
// is optional; when set, the freelancer directory is served from it.
type DefaultUserService struct {
	Repo  userRepo.UserRepository
	Cache DirectoryCache
}

var _ Service = (*DefaultUserService)(nil)

// Register creates a user with a bcrypt-hashed password.
func (s *DefaultUserService) Register(ctx context.Context, email, password, fullName string, role policy.Role) (*models.User, error) {
	if role != policy.RoleFreelancer && role != policy.RoleClient {
		return nil, ErrInvalidRole
	}

	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         role,
	}
	if err := s.Repo.Create(ctx, usr); err != nil {
		return nil, err
	}
	s.invalidateDirectory(ctx)
	utils.GetLogger().Info("registered user", zap.String("subject", usr.ID), zap.String("role", string(role)))
	return usr, nil
}

// Authenticate verifies credentials and returns the user.
func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	usr, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if usr == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return usr, nil
}

// GetOrCreate fetches the profile for a subject, creating a bare row on first
// authenticated read if none exists. The bare row carries no role; restricted
// routes stay closed to it until onboarding assigns one.
func (s *DefaultUserService) GetOrCreate(ctx context.Context, subject, email string) (*models.User, error) {
	usr, err := s.Repo.GetByID(ctx, subject)
	if err == nil {
		return usr, nil
	}
	if !errors.Is(err, userRepo.ErrNotFound) {
		return nil, err
	}

	usr = &models.User{ID: subject, Email: email}
	if err := s.Repo.Create(ctx, usr); err != nil {
		return nil, fmt.Errorf("failed to lazily create profile for %s: %w", subject, err)
	}
	utils.GetLogger().Info("created profile on first read", zap.String("subject", subject))
	return usr, nil
}

// GetByID fetches the profile for a subject.
func (s *DefaultUserService) GetByID(ctx context.Context, subject string) (*models.User, error) {
	usr, err := s.Repo.GetByID(ctx, subject)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return usr, err
}

// RoleBySubject resolves a subject's role from its profile row.
func (s *DefaultUserService) RoleBySubject(ctx context.Context, subject string) (policy.Role, error) {
	usr, err := s.Repo.GetByID(ctx, subject)
	if err != nil {
		if errors.Is(err, userRepo.ErrNotFound) {
			return "", ErrProfileNotFound
		}
		return "", err
	}
	return usr.Role, nil
}

// UpdateProfile applies a partial profile update.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, subject string, upd ProfileUpdate) (*models.User, error) {
	usr, err := s.GetByID(ctx, subject)
	if err != nil {
		return nil, err
	}
	if upd.FullName != "" {
		usr.FullName = upd.FullName
	}
	if upd.Bio != "" {
		usr.Bio = upd.Bio
	}
	if err := s.Repo.Update(ctx, usr); err != nil {
		return nil, err
	}
	s.invalidateDirectory(ctx)
	return usr, nil
}

// CompleteOnboarding marks onboarding as finished.
func (s *DefaultUserService) CompleteOnboarding(ctx context.Context, subject string) error {
	err := s.Repo.UpdateSet(ctx, subject, map[string]interface{}{"onboarding_completed": true})
	if errors.Is(err, userRepo.ErrNotFound) {
		return ErrProfileNotFound
	}
	return err
}

// SetAvatar records the uploaded avatar URL.
func (s *DefaultUserService) SetAvatar(ctx context.Context, subject, url string) error {
	err := s.Repo.UpdateSet(ctx, subject, map[string]interface{}{"avatar_url": url})
	if errors.Is(err, userRepo.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err == nil {
		s.invalidateDirectory(ctx)
	}
	return err
}

// ListFreelancers lists users with the freelancer role, served from the
// directory cache when one is configured.
func (s *DefaultUserService) ListFreelancers(ctx context.Context) ([]models.User, error) {
	if s.Cache != nil {
		data, err := s.Cache.Get(ctx, freelancerDirectoryKey).Result()
		if err == nil {
			var users []models.User
			if jsonErr := json.Unmarshal([]byte(data), &users); jsonErr == nil {
				return users, nil
			}
			// A corrupt entry falls through to the repository.
		} else if err != redis.Nil {
			utils.GetLogger().Warn("freelancer directory cache read failed", zap.Error(err))
		}
	}

	users, err := s.Repo.ListByRole(ctx, string(policy.RoleFreelancer))
	if err != nil {
		return nil, err
	}
	if s.Cache != nil {
		if data, err := json.Marshal(users); err == nil {
			if err := s.Cache.Set(ctx, freelancerDirectoryKey, data, directoryCacheTTL).Err(); err != nil {
				utils.GetLogger().Warn("freelancer directory cache write failed", zap.Error(err))
			}
		}
	}
	return users, nil
}

// invalidateDirectory drops the cached freelancer directory after a write
// that can change its contents.
func (s *DefaultUserService) invalidateDirectory(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Del(ctx, freelancerDirectoryKey).Err(); err != nil {
		utils.GetLogger().Warn("freelancer directory cache invalidation failed", zap.Error(err))
	}
}

// FreelancerProfile returns the freelancer sub-profile for a subject.
func (s *DefaultUserService) FreelancerProfile(ctx context.Context, subject string) (*models.FreelancerProfile, error) {
	profile, err := s.Repo.GetFreelancerProfile(ctx, subject)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return profile, err
}

// ClientProfile returns the client sub-profile for a subject.
func (s *DefaultUserService) ClientProfile(ctx context.Context, subject string) (*models.ClientProfile, error) {
	profile, err := s.Repo.GetClientProfile(ctx, subject)
	if errors.Is(err, userRepo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return profile, err
}

// SetFreelancerProfile replaces the freelancer sub-profile.
func (s *DefaultUserService) SetFreelancerProfile(ctx context.Context, subject string, profile *models.FreelancerProfile) error {
	profile.UserID = subject
	if err := s.Repo.SetFreelancerProfile(ctx, subject, profile); err != nil {
		return err
	}
	s.invalidateDirectory(ctx)
	return nil
}

// SetClientProfile replaces the client sub-profile.
func (s *DefaultUserService) SetClientProfile(ctx context.Context, subject string, profile *models.ClientProfile) error {
	profile.UserID = subject
	return s.Repo.SetClientProfile(ctx, subject, profile)
}

// GetAll lists every user (admin only; enforced at the handler).
func (s *DefaultUserService) GetAll(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetAll(ctx)
}

// SetRole changes a user's role (admin only; enforced at the handler).
func (s *DefaultUserService) SetRole(ctx context.Context, subject string, role policy.Role) error {
	if !policy.KnownRole(role) {
		return ErrInvalidRole
	}
	err := s.Repo.UpdateSet(ctx, subject, map[string]interface{}{"role": string(role)})
	if errors.Is(err, userRepo.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err == nil {
		s.invalidateDirectory(ctx)
	}
	return err
}
