package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/payvault-io/payvault-backend/internal/authz"
	"github.com/payvault-io/payvault-backend/internal/identity"
	"github.com/payvault-io/payvault-backend/pkg/auth"
	"github.com/payvault-io/payvault-backend/pkg/config"
	"github.com/payvault-io/payvault-backend/pkg/enums"
	"github.com/payvault-io/payvault-backend/pkg/metrics"
)

type stubIdentity struct{}

func (stubIdentity) GetCallerProfile(ctx context.Context, principal string) (*identity.UserProfileDTO, error) {
	return nil, nil
}

func (stubIdentity) Register(ctx context.Context, principal string, input identity.RegisterInput) (*identity.UserProfileDTO, error) {
	return &identity.UserProfileDTO{}, nil
}

func (stubIdentity) SaveCallerProfile(ctx context.Context, principal string, input identity.SaveProfileInput) (*identity.UserProfileDTO, error) {
	return &identity.UserProfileDTO{}, nil
}

func testRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "payvault-test"}
	cfg := &config.Config{}
	cfg.App.Env = "development"
	cfg.JWT = jwtCfg

	router := NewRouter(RouterParams{
		Config:   cfg,
		Metrics:  metrics.New("router-test"),
		Authz:    authz.NewService(config.AdminConfig{}),
		Identity: stubIdentity{},
	})
	return router, jwtCfg
}

func TestHealthLiveIsPublic(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestMetricsIsPublic(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestAPIRoutesRequireAuth(t *testing.T) {
	router, _ := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	router, jwtCfg := testRouter(t)

	token, err := auth.IssueAccessToken(jwtCfg, "auth0|alice", "a@b.com", enums.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodPut, "/api/admin/v1/config/stripe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", rec.Code)
	}
}

func TestAuthedProfileFetch(t *testing.T) {
	router, jwtCfg := testRouter(t)

	token, err := auth.IssueAccessToken(jwtCfg, "auth0|alice", "a@b.com", enums.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
}
