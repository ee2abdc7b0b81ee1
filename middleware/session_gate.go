package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"workhive/policy"
	"workhive/services/auth"
	userService "workhive/services/user"
	"workhive/utils"
)

// MissingProfileMode controls the gate's behavior when an authenticated
// subject has no profile row.
type MissingProfileMode string

const (
	// MissingProfileAllow skips role restriction checks for the request. This
	// is the grace path for brand-new users mid-registration.
	MissingProfileAllow MissingProfileMode = "allow"
	// MissingProfileDeny redirects to /unauthorized.
	MissingProfileDeny MissingProfileMode = "deny"
)

// SessionRefresher is the slice of the session service the gate depends on.
type SessionRefresher interface {
	Refresh(ctx context.Context, token string) (*auth.Session, error)
}

// RoleResolver resolves a subject's role from the profile store.
type RoleResolver interface {
	RoleBySubject(ctx context.Context, subject string) (policy.Role, error)
}

// SessionGateConfig configures the edge session gate.
type SessionGateConfig struct {
	// CookieName is the session cookie read and rewritten by the gate.
	CookieName string
	// Timeout bounds the session refresh and the role lookup together. A
	// timeout resolves the same way as "no session": fail closed to /login.
	Timeout time.Duration
	// MissingProfile selects the behavior for subjects without a profile row.
	MissingProfile MissingProfileMode
	// CookieSecure marks rewritten cookies Secure.
	CookieSecure bool
}

// SessionGate runs on every request before any handler logic: it refreshes
// the session, redirects unauthenticated requests off protected routes,
// enforces role restrictions, and bounces authenticated users off the
// login/registration routes. Every branch resolves to either pass-through or
// a redirect; no error ever propagates to the handler chain.
func SessionGate(sessions SessionRefresher, roles RoleResolver, cfg SessionGateConfig) gin.HandlerFunc {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 3 * time.Second
	}
	if cfg.MissingProfile == "" {
		cfg.MissingProfile = MissingProfileAllow
	}

	return func(c *gin.Context) {
		// Both network round-trips share one deadline tied to the inbound
		// request, so an aborted request cancels them.
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.Timeout)
		defer cancel()

		path := c.Request.URL.Path

		// Step 1: session refresh. Any failure, including timeout, leaves
		// the subject absent.
		var session *auth.Session
		if token, err := c.Cookie(cfg.CookieName); err == nil && token != "" {
			session, err = sessions.Refresh(ctx, token)
			if err != nil {
				if !errors.Is(err, auth.ErrNoSession) {
					zap.L().Warn("session refresh failed; treating request as unauthenticated",
						zap.String("path", path), zap.Error(err))
				}
				session = nil
			} else {
				writeSessionCookie(c, cfg, session)
			}
		}

		// Step 2: protected routes require a subject.
		if session == nil {
			if policy.IsProtected(path) {
				target := utils.LoginPath + "?redirect=" + url.QueryEscape(c.Request.URL.RequestURI())
				c.Redirect(http.StatusFound, target)
				c.Abort()
				return
			}
			c.Next()
			return
		}

		// Step 3: role restriction, first matching prefix only.
		role, err := roles.RoleBySubject(ctx, session.Subject)
		switch {
		case err == nil:
			if !policy.CanAccessRoute(role, path) {
				c.Redirect(http.StatusFound, utils.UnauthorizedPath)
				c.Abort()
				return
			}
			c.Set(utils.CtxRoleKey, string(role))
		case errors.Is(err, userService.ErrProfileNotFound):
			if cfg.MissingProfile == MissingProfileDeny && restricted(path) {
				c.Redirect(http.StatusFound, utils.UnauthorizedPath)
				c.Abort()
				return
			}
		default:
			// Profile lookup failure is fail-open for role checks only;
			// authentication has already been established above.
			zap.L().Warn("role lookup failed; skipping route restrictions",
				zap.String("subject", session.Subject), zap.Error(err))
		}

		// Step 4: authenticated users have no business on the auth routes.
		if policy.IsAuthRoute(path) {
			c.Redirect(http.StatusFound, utils.DashboardPath)
			c.Abort()
			return
		}

		c.Set(utils.CtxSubjectKey, session.Subject)
		c.Next()
	}
}

func restricted(path string) bool {
	for _, rr := range policy.RouteRestrictions {
		if len(path) >= len(rr.Prefix) && path[:len(rr.Prefix)] == rr.Prefix {
			return true
		}
	}
	return false
}

func writeSessionCookie(c *gin.Context, cfg SessionGateConfig, session *auth.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(cfg.CookieName, session.Token, maxAge, "/", "", cfg.CookieSecure, true)
}
