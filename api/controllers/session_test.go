package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/roomreserve-backend/internal/auth"
	pkgAuth "github.com/angelmondragon/roomreserve-backend/pkg/auth"
	"github.com/angelmondragon/roomreserve-backend/pkg/auth/session"
	"github.com/angelmondragon/roomreserve-backend/pkg/config"
	"github.com/angelmondragon/roomreserve-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/roomreserve-backend/pkg/errors"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 10}

type stubRevoker struct {
	lastRevoked string
	err         error
}

func (s *stubRevoker) Revoke(ctx context.Context, accessID string) error {
	s.lastRevoked = accessID
	return s.err
}

type stubRefreshService struct {
	input  auth.RefreshInput
	result *auth.RefreshResult
	err    error
}

func (s *stubRefreshService) Refresh(ctx context.Context, input auth.RefreshInput) (*auth.RefreshResult, error) {
	s.input = input
	return s.result, s.err
}

func mintTestToken(t *testing.T, issuedAt time.Time) (string, string, uuid.UUID) {
	t.Helper()
	accessID := session.NewAccessID()
	userID := uuid.New()
	token, err := pkgAuth.MintAccessToken(testJWT, issuedAt, pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleUser,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	return token, accessID, userID
}

func TestAuthLogout(t *testing.T) {
	manager := &stubRevoker{}
	handler := AuthLogout(manager, testJWT, nil)

	token, jti, _ := mintTestToken(t, time.Now())
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if manager.lastRevoked != jti {
		t.Fatalf("expected revoked %s got %s", jti, manager.lastRevoked)
	}
}

func TestAuthLogoutAcceptsExpiredToken(t *testing.T) {
	manager := &stubRevoker{}
	handler := AuthLogout(manager, testJWT, nil)

	token, jti, _ := mintTestToken(t, time.Now().Add(-time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if manager.lastRevoked != jti {
		t.Fatalf("expected revoked %s got %s", jti, manager.lastRevoked)
	}
}

func TestAuthLogoutFailures(t *testing.T) {
	token, _, _ := mintTestToken(t, time.Now())

	cases := []struct {
		name   string
		header string
		err    error
		want   int
	}{
		{"missing header", "", nil, http.StatusUnauthorized},
		{"garbage token", "Bearer nope", nil, http.StatusUnauthorized},
		{"store down", "Bearer " + token, errors.New("redis down"), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := AuthLogout(&stubRevoker{err: tc.err}, testJWT, nil)
			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestAuthRefresh(t *testing.T) {
	svc := &stubRefreshService{
		result: &auth.RefreshResult{AccessToken: "new-access", RefreshToken: "new-refresh"},
	}
	handler := AuthRefresh(svc, testJWT, nil)

	token, jti, userID := mintTestToken(t, time.Now().Add(-time.Hour))
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.input.AccessTokenID != jti || svc.input.RefreshToken != "old-refresh" || svc.input.UserID != userID.String() {
		t.Fatalf("unexpected refresh input %+v", svc.input)
	}
	var envelope struct {
		Data auth.RefreshResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken != "new-access" || envelope.Data.RefreshToken != "new-refresh" {
		t.Fatalf("unexpected tokens %+v", envelope.Data)
	}
}

func TestAuthRefreshRejected(t *testing.T) {
	svc := &stubRefreshService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")}
	handler := AuthRefresh(svc, testJWT, nil)

	token, _, _ := mintTestToken(t, time.Now())
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{"refresh_token":"old-refresh"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthRefreshRequiresBody(t *testing.T) {
	svc := &stubRefreshService{}
	handler := AuthRefresh(svc, testJWT, nil)

	token, _, _ := mintTestToken(t, time.Now())
	req := httptest.NewRequest(http.MethodPost, "/refresh", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.input.AccessTokenID != "" {
		t.Fatalf("service should not be called")
	}
}
