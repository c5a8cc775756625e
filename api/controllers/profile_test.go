package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/payvault-io/payvault-backend/api/middleware"
	"github.com/payvault-io/payvault-backend/internal/identity"
	"github.com/payvault-io/payvault-backend/pkg/auth"
	pkgerrors "github.com/payvault-io/payvault-backend/pkg/errors"
)

type fakeIdentityService struct {
	profile     *identity.UserProfileDTO
	registerErr error
	saveErr     error

	lastPrincipal string
	lastRegister  identity.RegisterInput
}

func (f *fakeIdentityService) GetCallerProfile(ctx context.Context, principal string) (*identity.UserProfileDTO, error) {
	f.lastPrincipal = principal
	return f.profile, nil
}

func (f *fakeIdentityService) Register(ctx context.Context, principal string, input identity.RegisterInput) (*identity.UserProfileDTO, error) {
	f.lastPrincipal = principal
	f.lastRegister = input
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.profile, nil
}

func (f *fakeIdentityService) SaveCallerProfile(ctx context.Context, principal string, input identity.SaveProfileInput) (*identity.UserProfileDTO, error) {
	f.lastPrincipal = principal
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	return f.profile, nil
}

func authedRequest(method, path, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	claims := &auth.AccessClaims{Email: "a@b.com"}
	claims.Subject = "auth0|alice"
	return req.WithContext(middleware.WithClaims(req.Context(), claims))
}

func TestGetProfileAbsentReturnsNullData(t *testing.T) {
	svc := &fakeIdentityService{}
	rec := httptest.NewRecorder()

	GetProfile(svc, nil)(rec, authedRequest(http.MethodGet, "/api/v1/profile", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var envelope struct {
		Data *identity.UserProfileDTO `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data != nil {
		t.Fatal("expected null data for unregistered caller")
	}
	if svc.lastPrincipal != "auth0|alice" {
		t.Fatalf("principal not forwarded: %q", svc.lastPrincipal)
	}
}

func TestRegisterProfileCreated(t *testing.T) {
	svc := &fakeIdentityService{profile: &identity.UserProfileDTO{
		UserID:        "2b1c6f0a-0000-0000-0000-000000000000",
		Name:          "Alice",
		AadhaarMasked: "1234****9012",
	}}
	rec := httptest.NewRecorder()

	body := `{"nationalId":"123456789012","email":"a@b.com","name":"Alice"}`
	RegisterProfile(svc, nil)(rec, authedRequest(http.MethodPost, "/api/v1/profile/register", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastRegister.NationalID != "123456789012" {
		t.Fatal("payload not forwarded")
	}
	if !strings.Contains(rec.Body.String(), "1234****9012") {
		t.Fatal("expected masked id in response")
	}
	if strings.Contains(rec.Body.String(), "123456789012") {
		t.Fatal("raw national id must never appear in a response")
	}
}

func TestRegisterProfileRejectsUnknownFields(t *testing.T) {
	svc := &fakeIdentityService{}
	rec := httptest.NewRecorder()

	body := `{"nationalId":"123456789012","email":"a@b.com","name":"Alice","role":"admin"}`
	RegisterProfile(svc, nil)(rec, authedRequest(http.MethodPost, "/api/v1/profile/register", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestRegisterProfileConflictPassthrough(t *testing.T) {
	svc := &fakeIdentityService{registerErr: pkgerrors.New(pkgerrors.CodeConflict, "profile already registered")}
	rec := httptest.NewRecorder()

	body := `{"nationalId":"123456789012","email":"a@b.com","name":"Alice"}`
	RegisterProfile(svc, nil)(rec, authedRequest(http.MethodPost, "/api/v1/profile/register", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
