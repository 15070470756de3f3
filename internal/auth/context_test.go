package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/go-users/internal/apperr"
	"github.com/diewo77/go-users/internal/auth"
	"github.com/diewo77/go-users/internal/models"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	return auth.NewTokenService("test-secret", time.Hour)
}

func contextFor(t *testing.T, tokens *auth.TokenService, user *models.User, profiles []models.Profile) *auth.Context {
	t.Helper()
	token, _, _, err := tokens.Issue(user, profiles)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return auth.NewContext("Bearer "+token, tokens)
}

func TestAnonymousContextGuards(t *testing.T) {
	ac := auth.NewContext("", newTokens(t))
	if ac.Identity() != nil {
		t.Fatal("expected anonymous identity")
	}
	if err := ac.RequireAdmin(); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("RequireAdmin: expected UNAUTHENTICATED, got %v", err)
	}
	if err := ac.RequireUserAccess(1); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("RequireUserAccess: expected UNAUTHENTICATED, got %v", err)
	}
}

func TestInvalidTokenGuards(t *testing.T) {
	// An invalid token is not treated as anonymous: the verification
	// error surfaces on the first guard hit, and as UNAUTHENTICATED
	// rather than FORBIDDEN.
	ac := auth.NewContext("Bearer garbage", newTokens(t))
	if err := ac.RequireAdmin(); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("RequireAdmin: expected UNAUTHENTICATED, got %v", err)
	}
	if err := ac.RequireUserAccess(1); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("RequireUserAccess: expected UNAUTHENTICATED, got %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	tokens := newTokens(t)
	admin := contextFor(t, tokens, &models.User{ID: 1, Email: "admin@exemplo.com"},
		[]models.Profile{{ID: 1, Name: "admin"}})
	regular := contextFor(t, tokens, &models.User{ID: 2, Email: "usuario@exemplo.com"},
		[]models.Profile{{ID: 2, Name: "comum"}})

	if err := admin.RequireAdmin(); err != nil {
		t.Errorf("admin should pass, got %v", err)
	}
	if err := regular.RequireAdmin(); !apperr.HasCode(err, apperr.CodeForbidden) {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
}

func TestRequireUserAccess(t *testing.T) {
	tokens := newTokens(t)
	admin := contextFor(t, tokens, &models.User{ID: 1, Email: "admin@exemplo.com"},
		[]models.Profile{{ID: 1, Name: "admin"}})
	regular := contextFor(t, tokens, &models.User{ID: 2, Email: "usuario@exemplo.com"},
		[]models.Profile{{ID: 2, Name: "comum"}})

	if err := regular.RequireUserAccess(2); err != nil {
		t.Errorf("self access should pass, got %v", err)
	}
	if err := regular.RequireUserAccess(1); !apperr.HasCode(err, apperr.CodeForbidden) {
		t.Errorf("expected FORBIDDEN, got %v", err)
	}
	if err := admin.RequireUserAccess(2); err != nil {
		t.Errorf("admin access to any target should pass, got %v", err)
	}
}

func TestBearerPrefixOptional(t *testing.T) {
	tokens := newTokens(t)
	token, _, _, err := tokens.Issue(&models.User{ID: 3, Email: "x@y.z"}, nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ac := auth.NewContext(token, tokens)
	if ac.Identity() == nil || ac.Identity().UserID != 3 {
		t.Errorf("expected identity for raw token, got %+v", ac.Identity())
	}
}

func TestFromContextDefaultsToAnonymous(t *testing.T) {
	ac := auth.FromContext(context.Background())
	if ac.Identity() != nil {
		t.Fatal("expected anonymous context")
	}
	if err := ac.RequireAdmin(); !apperr.HasCode(err, apperr.CodeUnauthenticated) {
		t.Errorf("expected UNAUTHENTICATED, got %v", err)
	}
}

func TestMiddlewareAttachesContext(t *testing.T) {
	tokens := newTokens(t)
	token, _, _, err := tokens.Issue(&models.User{ID: 9, Email: "x@y.z"},
		[]models.Profile{{ID: 1, Name: "admin"}})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen *auth.Context
	h := auth.Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.Identity() == nil || seen.Identity().UserID != 9 {
		t.Fatalf("expected identity from middleware, got %+v", seen)
	}
	if !seen.IsAdmin() {
		t.Error("expected admin context")
	}
}
