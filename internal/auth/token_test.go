package auth_test

import (
	"testing"
	"time"

	"github.com/diewo77/go-users/internal/apperr"
	"github.com/diewo77/go-users/internal/auth"
	"github.com/diewo77/go-users/internal/models"
)

func TestTokenIssueVerifyRoundTrip(t *testing.T) {
	svc := auth.NewTokenService("test-secret", 24*time.Hour)
	user := &models.User{ID: 7, Name: "Admin Usuário", Email: "admin@exemplo.com", Active: true}
	profiles := []models.Profile{{ID: 1, Name: "admin", Description: "Administrador"}}

	token, issuedAt, expiresAt, err := svc.Issue(user, profiles)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if got := expiresAt.Sub(issuedAt); got != 24*time.Hour {
		t.Errorf("expected 24h expiry window, got %s", got)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "admin@exemplo.com" || !claims.Active {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if len(claims.Profiles) != 1 || claims.Profiles[0].Name != "admin" {
		t.Errorf("unexpected profiles: %+v", claims.Profiles)
	}
	if !claims.IsAdmin() {
		t.Error("expected admin claims")
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)
	token, _, _, err := svc.Issue(&models.User{ID: 1, Email: "a@b.c"}, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = svc.Verify(token + "x")
	if !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("expected UNAUTHENTICATED, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := auth.NewTokenService("test-secret", -time.Minute)
	token, _, _, err := svc.Issue(&models.User{ID: 1, Email: "a@b.c"}, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = svc.Verify(token)
	if !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("expected UNAUTHENTICATED, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := auth.NewTokenService("secret-one", time.Hour)
	verifier := auth.NewTokenService("secret-two", time.Hour)
	token, _, _, err := issuer.Issue(&models.User{ID: 1, Email: "a@b.c"}, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("expected UNAUTHENTICATED, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := auth.NewTokenService("test-secret", time.Hour)
	if _, err := svc.Verify("not-a-jwt"); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("expected UNAUTHENTICATED, got %v", err)
	}
}
