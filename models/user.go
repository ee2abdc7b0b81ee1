// models/user.go
package models

import (
	"time"

	"workhive/policy"
)

// User represents a platform user, keyed by the subject identifier issued by
// the session service. Created lazily on first authenticated request when no
// profile row exists yet.
type User struct {
	ID                  string      `bson:"id" json:"id"`
	Email               string      `bson:"email" json:"email"`
	PasswordHash        string      `bson:"password_hash" json:"-"`
	FullName            string      `bson:"full_name" json:"full_name"`
	Role                policy.Role `bson:"role" json:"role"`
	OnboardingCompleted bool        `bson:"onboarding_completed" json:"onboarding_completed"`
	AvatarURL           string      `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`
	Bio                 string      `bson:"bio,omitempty" json:"bio,omitempty"`
	CreatedAt           time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt           time.Time   `bson:"updated_at" json:"updated_at"`
}

// FreelancerProfile holds the freelancer-specific sub-profile stored alongside
// the user document.
type FreelancerProfile struct {
	UserID     string   `bson:"user_id" json:"user_id"`
	Headline   string   `bson:"headline" json:"headline"`
	Skills     []string `bson:"skills" json:"skills"`
	HourlyRate float64  `bson:"hourly_rate" json:"hourly_rate"`
	Rating     float64  `bson:"rating" json:"rating"`
	Available  bool     `bson:"available" json:"available"`
}

// ClientProfile holds the client-specific sub-profile stored alongside the
// user document.
type ClientProfile struct {
	UserID      string `bson:"user_id" json:"user_id"`
	CompanyName string `bson:"company_name" json:"company_name"`
	Website     string `bson:"website,omitempty" json:"website,omitempty"`
	JobsPosted  int    `bson:"jobs_posted" json:"jobs_posted"`
}
