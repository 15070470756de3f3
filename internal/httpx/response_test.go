package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/go-users/internal/httpx"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.JSON(rec, http.StatusOK, map[string]any{"status": "ok"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %q", ct)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"status":"ok"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.JSONError(rec, http.StatusServiceUnavailable, "database_unreachable")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"error":"database_unreachable"}` {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
