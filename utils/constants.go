package utils

// Context keys set by the session gate for downstream handlers.
const (
	CtxSubjectKey = "subject"
	CtxRoleKey    = "role"
)

// Redirect targets used as protocol contract by the session gate.
const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	DashboardPath    = "/dashboard"
)
