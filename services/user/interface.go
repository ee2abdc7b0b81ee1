package user

import (
	"context"
	"errors"

	"workhive/models"
	"workhive/policy"
)

// Sentinel errors surfaced to handlers and the session gate.
var (
	ErrProfileNotFound    = errors.New("user profile not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
)

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	FullName string `json:"full_name"`
	Bio      string `json:"bio"`
}

// Service defines user profile operations.
type Service interface {
	// Register creates a user with a bcrypt-hashed password. Only freelancer
	// and client roles are self-registerable.
	Register(ctx context.Context, email, password, fullName string, role policy.Role) (*models.User, error)
	// Authenticate verifies credentials and returns the user.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	// GetOrCreate fetches the profile for a subject, creating a bare row on
	// first authenticated read if none exists.
	GetOrCreate(ctx context.Context, subject, email string) (*models.User, error)
	// GetByID fetches the profile for a subject; ErrProfileNotFound when absent.
	GetByID(ctx context.Context, subject string) (*models.User, error)
	// RoleBySubject resolves a subject's role; ErrProfileNotFound when no
	// profile row exists.
	RoleBySubject(ctx context.Context, subject string) (policy.Role, error)
	// UpdateProfile applies a partial profile update.
	UpdateProfile(ctx context.Context, subject string, upd ProfileUpdate) (*models.User, error)
	// CompleteOnboarding marks onboarding as finished.
	CompleteOnboarding(ctx context.Context, subject string) error
	// SetAvatar records the uploaded avatar URL.
	SetAvatar(ctx context.Context, subject, url string) error
	// ListFreelancers lists users with the freelancer role.
	ListFreelancers(ctx context.Context) ([]models.User, error)

	// Sub-profiles.
	FreelancerProfile(ctx context.Context, subject string) (*models.FreelancerProfile, error)
	ClientProfile(ctx context.Context, subject string) (*models.ClientProfile, error)
	SetFreelancerProfile(ctx context.Context, subject string, profile *models.FreelancerProfile) error
	SetClientProfile(ctx context.Context, subject string, profile *models.ClientProfile) error

	// Admin operations.
	GetAll(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, subject string, role policy.Role) error
}
