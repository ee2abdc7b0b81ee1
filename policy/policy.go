// Package policy holds the static authorization tables: which roles exist,
// which fine-grained permissions each role carries, and which URL prefixes are
// protected or restricted to particular roles. Everything here is immutable at
// runtime and every lookup fails closed for unknown roles or permissions.
package policy

import "strings"

// Role classifies a platform user.
type Role string

const (
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
)

// KnownRole reports whether r is one of the closed set of role variants.
func KnownRole(r Role) bool {
	switch r {
	case RoleFreelancer, RoleClient, RoleAdmin:
		return true
	}
	return false
}

// Permission names a fine-grained action a role may exercise.
type Permission string

const (
	PermBrowseJobs        Permission = "jobs.browse"
	PermPostJob           Permission = "jobs.post"
	PermManageOwnJobs     Permission = "jobs.manage"
	PermSubmitProposal    Permission = "proposals.submit"
	PermViewOwnProposals  Permission = "proposals.view"
	PermViewEarnings      Permission = "earnings.view"
	PermBrowseFreelancers Permission = "freelancers.browse"
	PermSendMessage       Permission = "messages.send"
	PermEditProfile       Permission = "profile.edit"
	PermLeaveTestimonial  Permission = "testimonials.create"
	PermManageUsers       Permission = "users.manage"
	PermAccessAdminPanel  Permission = "admin.access"
)

// rolePermissions maps each role to the permissions it may exercise. Roles
// absent from this table have no permissions at all.
var rolePermissions = map[Role][]Permission{
	RoleFreelancer: {
		PermBrowseJobs,
		PermSubmitProposal,
		PermViewOwnProposals,
		PermViewEarnings,
		PermSendMessage,
		PermEditProfile,
		PermLeaveTestimonial,
	},
	RoleClient: {
		PermBrowseJobs,
		PermPostJob,
		PermManageOwnJobs,
		PermBrowseFreelancers,
		PermSendMessage,
		PermEditProfile,
		PermLeaveTestimonial,
	},
	RoleAdmin: {
		PermBrowseJobs,
		PermPostJob,
		PermManageOwnJobs,
		PermSubmitProposal,
		PermViewOwnProposals,
		PermViewEarnings,
		PermBrowseFreelancers,
		PermSendMessage,
		PermEditProfile,
		PermLeaveTestimonial,
		PermManageUsers,
		PermAccessAdminPanel,
	},
}

// HasPermission reports whether perm is in the permission set statically
// associated with role. Unknown roles and unknown permissions yield false.
func HasPermission(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// RouteRestriction gates a URL path prefix to a set of allowed roles.
type RouteRestriction struct {
	Prefix  string
	Allowed []Role
}

func (r RouteRestriction) allows(role Role) bool {
	for _, a := range r.Allowed {
		if a == role {
			return true
		}
	}
	return false
}

// RouteRestrictions is evaluated in declaration order; the first entry whose
// prefix matches the request path decides the outcome, so it is a slice rather
// than a map to keep the match order deterministic.
var RouteRestrictions = []RouteRestriction{
	{Prefix: "/my-jobs", Allowed: []Role{RoleClient, RoleAdmin}},
	{Prefix: "/proposals", Allowed: []Role{RoleFreelancer, RoleAdmin}},
	{Prefix: "/earnings", Allowed: []Role{RoleFreelancer, RoleAdmin}},
	{Prefix: "/freelancers", Allowed: []Role{RoleClient, RoleAdmin}},
	{Prefix: "/admin", Allowed: []Role{RoleAdmin}},
}

// ProtectedPrefixes lists path prefixes that require an authenticated session.
var ProtectedPrefixes = []string{
	"/dashboard",
	"/jobs",
	"/my-jobs",
	"/freelancers",
	"/proposals",
	"/contracts",
	"/messages",
	"/earnings",
	"/profile",
	"/settings",
	"/admin",
}

// AuthPrefixes lists login/registration paths that redirect to the dashboard
// when the requester already holds a session.
var AuthPrefixes = []string{
	"/login",
	"/register",
}

// IsProtected reports whether path requires an authenticated session.
func IsProtected(path string) bool {
	return matchesAny(path, ProtectedPrefixes)
}

// IsAuthRoute reports whether path is a login/registration route.
func IsAuthRoute(path string) bool {
	return matchesAny(path, AuthPrefixes)
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// CanAccessRoute reports whether role may access path. A path with no matching
// restriction entry is accessible to any role; otherwise the first declared
// matching entry decides.
func CanAccessRoute(role Role, path string) bool {
	for _, rr := range RouteRestrictions {
		if strings.HasPrefix(path, rr.Prefix) {
			return rr.allows(role)
		}
	}
	return true
}
