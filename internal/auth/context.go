package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/diewo77/go-users/internal/apperr"
)

type ctxKey string

const authCtxKey = ctxKey("authContext")

// Context is the request-scoped authorization context. It is built once
// per request from the Authorization header and discarded afterwards.
//
// A missing header yields an anonymous context. A header carrying an
// invalid token keeps the verification error instead of silently falling
// back to anonymous: any guard hit later surfaces Unauthenticated, while
// operations that never call a guard (login, signUp) remain reachable.
type Context struct {
	identity *Claims
	err      error
}

// Anonymous returns a context with no identity.
func Anonymous() *Context { return &Context{} }

// NewContext derives a Context from a raw Authorization header value.
func NewContext(header string, tokens *TokenService) *Context {
	if header == "" {
		return Anonymous()
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	claims, err := tokens.Verify(raw)
	if err != nil {
		return &Context{err: err}
	}
	return &Context{identity: claims}
}

// Identity returns the decoded claims, or nil for anonymous callers.
func (c *Context) Identity() *Claims { return c.identity }

// IsAdmin reports whether the caller holds the admin-named profile.
func (c *Context) IsAdmin() bool {
	return c.identity != nil && c.identity.IsAdmin()
}

// RequireAdmin fails with Unauthenticated when no valid identity is
// present and with Forbidden when the identity is not an admin.
// The authentication check always precedes the authorization check.
func (c *Context) RequireAdmin() error {
	if err := c.requireIdentity(); err != nil {
		return err
	}
	if !c.identity.IsAdmin() {
		return apperr.New(apperr.CodeForbidden, "access denied: administrators only")
	}
	return nil
}

// RequireUserAccess allows the caller to act on the target user when the
// caller is that user or an admin.
func (c *Context) RequireUserAccess(targetID uint) error {
	if err := c.requireIdentity(); err != nil {
		return err
	}
	if c.identity.UserID == targetID || c.identity.IsAdmin() {
		return nil
	}
	return apperr.New(apperr.CodeForbidden, "access denied: you cannot access this user's data")
}

func (c *Context) requireIdentity() error {
	if c.err != nil {
		return c.err
	}
	if c.identity == nil {
		return apperr.New(apperr.CodeUnauthenticated, "not authenticated")
	}
	return nil
}

// WithContext stores the authorization context on a request context.
func WithContext(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, authCtxKey, ac)
}

// FromContext extracts the authorization context, defaulting to anonymous.
func FromContext(ctx context.Context) *Context {
	if ac, ok := ctx.Value(authCtxKey).(*Context); ok {
		return ac
	}
	return Anonymous()
}

// Middleware derives the authorization context from the Authorization
// header and attaches it to the request context.
func Middleware(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := NewContext(r.Header.Get("Authorization"), tokens)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), ac)))
		})
	}
}
