package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		name string
		role Role
		perm Permission
		want bool
	}{
		{"freelancer can submit proposals", RoleFreelancer, PermSubmitProposal, true},
		{"freelancer cannot post jobs", RoleFreelancer, PermPostJob, false},
		{"freelancer cannot browse freelancers", RoleFreelancer, PermBrowseFreelancers, false},
		{"client can post jobs", RoleClient, PermPostJob, true},
		{"client cannot view earnings", RoleClient, PermViewEarnings, false},
		{"admin can manage users", RoleAdmin, PermManageUsers, true},
		{"admin can post jobs", RoleAdmin, PermPostJob, true},
		{"unknown role has nothing", Role("moderator"), PermBrowseJobs, false},
		{"unknown permission is denied", RoleAdmin, Permission("jobs.obliterate"), false},
		{"empty role is denied", Role(""), PermBrowseJobs, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.perm))
		})
	}
}

func TestHasPermissionIsPure(t *testing.T) {
	first := HasPermission(RoleClient, PermPostJob)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, HasPermission(RoleClient, PermPostJob))
	}
}

func TestCanAccessRouteRestrictedPrefixes(t *testing.T) {
	// Every declared restriction denies every role outside its allowed set.
	allRoles := []Role{RoleFreelancer, RoleClient, RoleAdmin, Role("moderator"), Role("")}
	for _, rr := range RouteRestrictions {
		for _, r := range allRoles {
			want := rr.allows(r)
			assert.Equal(t, want, CanAccessRoute(r, rr.Prefix), "role %q prefix %q", r, rr.Prefix)
			assert.Equal(t, want, CanAccessRoute(r, rr.Prefix+"/123"), "role %q nested path under %q", r, rr.Prefix)
		}
	}
}

func TestCanAccessRouteUnrestrictedPaths(t *testing.T) {
	paths := []string{"/dashboard", "/jobs", "/jobs/42", "/messages", "/profile", "/settings", "/contracts/7", "/"}
	for _, p := range paths {
		for _, r := range []Role{RoleFreelancer, RoleClient, RoleAdmin, Role("moderator")} {
			assert.True(t, CanAccessRoute(r, p), "role %q path %q", r, p)
		}
	}
}

func TestCanAccessRouteAdminEverywhere(t *testing.T) {
	for _, p := range []string{"/my-jobs", "/proposals", "/earnings", "/freelancers", "/admin"} {
		assert.True(t, CanAccessRoute(RoleAdmin, p), "admin path %q", p)
	}
}

func TestCanAccessRouteFirstMatchWins(t *testing.T) {
	// The first declared matching prefix decides; evaluation never accumulates
	// across entries.
	assert.False(t, CanAccessRoute(RoleFreelancer, "/my-jobs/posted"))
	assert.True(t, CanAccessRoute(RoleClient, "/my-jobs/posted"))
}

func TestIsProtected(t *testing.T) {
	for _, p := range ProtectedPrefixes {
		assert.True(t, IsProtected(p))
		assert.True(t, IsProtected(p+"/anything"))
	}
	assert.False(t, IsProtected("/"))
	assert.False(t, IsProtected("/about"))
	assert.False(t, IsProtected("/login"))
}

func TestIsAuthRoute(t *testing.T) {
	assert.True(t, IsAuthRoute("/login"))
	assert.True(t, IsAuthRoute("/register"))
	assert.False(t, IsAuthRoute("/dashboard"))
}
