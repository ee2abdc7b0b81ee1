package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workhive/policy"
	"workhive/services/auth"
	userService "workhive/services/user"
	"workhive/utils"
)

type stubRefresher struct {
	session *auth.Session
	err     error
	calls   int
}

func (s *stubRefresher) Refresh(ctx context.Context, token string) (*auth.Session, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

type stubRoles struct {
	role policy.Role
	err  error
}

func (s *stubRoles) RoleBySubject(ctx context.Context, subject string) (policy.Role, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.role, nil
}

func activeSession() *auth.Session {
	return &auth.Session{
		Subject:   "user-1",
		Email:     "user@example.com",
		Token:     "token-abc",
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func gateRouter(sessions SessionRefresher, roles RoleResolver, cfg SessionGateConfig) (*gin.Engine, map[string]any) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	captured := map[string]any{}
	r.Use(SessionGate(sessions, roles, cfg))
	r.NoRoute(func(c *gin.Context) {
		for k, v := range c.Keys {
			captured[k] = v
		}
		c.Status(http.StatusOK)
	})
	return r, captured
}

func perform(r *gin.Engine, target string, cookie string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: "wh_session", Value: cookie})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func defaultCfg() SessionGateConfig {
	return SessionGateConfig{CookieName: "wh_session"}
}

func TestGateRedirectsUnauthenticatedOffProtectedRoutes(t *testing.T) {
	r, _ := gateRouter(&stubRefresher{err: auth.ErrNoSession}, &stubRoles{}, defaultCfg())

	for _, path := range []string{
		"/dashboard", "/jobs", "/my-jobs", "/freelancers", "/proposals",
		"/contracts", "/messages", "/earnings", "/profile", "/settings", "/admin",
	} {
		w := perform(r, path, "stale-token")
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login?redirect="+url.QueryEscape(path), w.Header().Get("Location"), path)
	}
}

func TestGateRedirectPreservesQueryString(t *testing.T) {
	r, _ := gateRouter(&stubRefresher{err: auth.ErrNoSession}, &stubRoles{}, defaultCfg())

	w := perform(r, "/jobs?skill=go&page=2", "stale-token")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fjobs%3Fskill%3Dgo%26page%3D2", w.Header().Get("Location"))
}

func TestGatePassesUnauthenticatedThroughPublicRoutes(t *testing.T) {
	r, _ := gateRouter(&stubRefresher{err: auth.ErrNoSession}, &stubRoles{}, defaultCfg())

	for _, path := range []string{"/", "/health", "/login", "/register", "/unauthorized", "/testimonials/u1"} {
		w := perform(r, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestGateNoCookieSkipsRefresh(t *testing.T) {
	refresher := &stubRefresher{session: activeSession()}
	r, _ := gateRouter(refresher, &stubRoles{role: policy.RoleAdmin}, defaultCfg())

	perform(r, "/health", "")
	assert.Zero(t, refresher.calls)
}

func TestGateRefreshFailureIsFailClosed(t *testing.T) {
	// Backend outage during refresh must read as unauthenticated, not as a
	// pass-through.
	r, _ := gateRouter(&stubRefresher{err: errors.New("redis down")}, &stubRoles{role: policy.RoleAdmin}, defaultCfg())

	w := perform(r, "/dashboard", "token-abc")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?redirect=%2Fdashboard", w.Header().Get("Location"))
}

func TestGateRewritesSessionCookieOnRefresh(t *testing.T) {
	r, _ := gateRouter(&stubRefresher{session: activeSession()}, &stubRoles{role: policy.RoleClient}, defaultCfg())

	w := perform(r, "/dashboard", "token-abc")
	assert.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "wh_session", cookies[0].Name)
	assert.Equal(t, "token-abc", cookies[0].Value)
	assert.Positive(t, cookies[0].MaxAge)
}

func TestGateRoleRestrictions(t *testing.T) {
	tests := []struct {
		role    policy.Role
		path    string
		allowed bool
	}{
		{policy.RoleFreelancer, "/my-jobs", false},
		{policy.RoleFreelancer, "/freelancers", false},
		{policy.RoleFreelancer, "/proposals", true},
		{policy.RoleFreelancer, "/earnings", true},
		{policy.RoleFreelancer, "/admin", false},
		{policy.RoleClient, "/my-jobs", true},
		{policy.RoleClient, "/freelancers", true},
		{policy.RoleClient, "/proposals", false},
		{policy.RoleClient, "/earnings", false},
		{policy.RoleClient, "/admin", false},
		{policy.RoleAdmin, "/my-jobs", true},
		{policy.RoleAdmin, "/freelancers", true},
		{policy.RoleAdmin, "/proposals", true},
		{policy.RoleAdmin, "/earnings", true},
		{policy.RoleAdmin, "/admin", true},
	}
	for _, tc := range tests {
		r, _ := gateRouter(&stubRefresher{session: activeSession()}, &stubRoles{role: tc.role}, defaultCfg())
		w := perform(r, tc.path, "token-abc")
		if tc.allowed {
			assert.Equal(t, http.StatusOK, w.Code, "%s %s", tc.role, tc.path)
		} else {
			assert.Equal(t, http.StatusFound, w.Code, "%s %s", tc.role, tc.path)
			assert.Equal(t, utils.UnauthorizedPath, w.Header().Get("Location"), "%s %s", tc.role, tc.path)
		}
	}
}

func TestGateRestrictionMatchesNestedPaths(t *testing.T) {
	r, _ := gateRouter(&stubRefresher{session: activeSession()}, &stubRoles{role: policy.RoleFreelancer}, defaultCfg())

	w := perform(r, "/my-jobs/123/edit", "token-abc")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, utils.UnauthorizedPath, w.Header().Get("Location"))
}

func TestGateBouncesAuthenticatedOffAuthRoutes(t *testing.T) {
	r, _ := gateRouter(&stubRefresher{session: activeSession()}, &stubRoles{role: policy.RoleFreelancer}, defaultCfg())

	for _, path := range []string{"/login", "/register"} {
		w := perform(r, path, "token-abc")
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, utils.DashboardPath, w.Header().Get("Location"), path)
	}
}

func TestGateSetsSubjectAndRole(t *testing.T) {
	r, captured := gateRouter(&stubRefresher{session: activeSession()}, &stubRoles{role: policy.RoleClient}, defaultCfg())

	w := perform(r, "/dashboard", "token-abc")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "user-1", captured[utils.CtxSubjectKey])
	assert.Equal(t, string(policy.RoleClient), captured[utils.CtxRoleKey])
}

func TestGateMissingProfileAllow(t *testing.T) {
	roles := &stubRoles{err: userService.ErrProfileNotFound}
	cfg := defaultCfg()
	cfg.MissingProfile = MissingProfileAllow
	r, _ := gateRouter(&stubRefresher{session: activeSession()}, roles, cfg)

	// Fresh subjects without a profile row pass even restricted prefixes.
	w := perform(r, "/my-jobs", "token-abc")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateMissingProfileDeny(t *testing.T) {
	roles := &stubRoles{err: userService.ErrProfileNotFound}
	cfg := defaultCfg()
	cfg.MissingProfile = MissingProfileDeny
	r, _ := gateRouter(&stubRefresher{session: activeSession()}, roles, cfg)

	w := perform(r, "/my-jobs", "token-abc")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, utils.UnauthorizedPath, w.Header().Get("Location"))

	// Unrestricted protected routes still pass.
	w = perform(r, "/dashboard", "token-abc")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRoleLookupFailureSkipsRestrictions(t *testing.T) {
	roles := &stubRoles{err: errors.New("mongo timeout")}
	r, _ := gateRouter(&stubRefresher{session: activeSession()}, roles, defaultCfg())

	// Profile-store outage keeps authenticated pages reachable.
	w := perform(r, "/my-jobs", "token-abc")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateIsIdempotentAcrossRepeatedRequests(t *testing.T) {
	refresher := &stubRefresher{session: activeSession()}
	r, _ := gateRouter(refresher, &stubRoles{role: policy.RoleClient}, defaultCfg())

	first := perform(r, "/my-jobs", "token-abc")
	second := perform(r, "/my-jobs", "token-abc")
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 2, refresher.calls)
}
