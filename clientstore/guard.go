package clientstore

import "workhive/policy"

// GuardAction is the outcome of a route-guard check.
type GuardAction int

const (
	// ActionPlaceholder renders a loading placeholder; no navigation happens.
	ActionPlaceholder GuardAction = iota
	// ActionRedirect navigates to Decision.Target.
	ActionRedirect
	// ActionRender renders the guarded content.
	ActionRender
)

// Decision tells the caller what to do with the guarded content.
type Decision struct {
	Action GuardAction
	Target string
}

// Guard blocks rendering of guarded content until the store has resolved the
// session. Advisory UX only; the session gate is the enforcement boundary.
type Guard struct {
	Store *Store
	// Fallback is where authenticated users lacking the required permission
	// are sent. Defaults to /dashboard.
	Fallback string
}

// NewGuard builds a guard over the store with the given fallback path.
func NewGuard(store *Store, fallback string) *Guard {
	if fallback == "" {
		fallback = "/dashboard"
	}
	return &Guard{Store: store, Fallback: fallback}
}

// Decide resolves what to do for content requiring the given permission. An
// empty permission requires authentication only.
func (g *Guard) Decide(required policy.Permission) Decision {
	if g.Store.IsLoading() {
		return Decision{Action: ActionPlaceholder}
	}
	if !g.Store.IsAuthenticated() {
		return Decision{Action: ActionRedirect, Target: "/login"}
	}
	if required != "" && !g.Store.HasPermission(required) {
		return Decision{Action: ActionRedirect, Target: g.Fallback}
	}
	return Decision{Action: ActionRender}
}
