package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphconsole/internal/middleware"
)

func securityResponse(https bool) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(middleware.SecurityHeaders(https))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	return w
}

func TestSecurityHeaders(t *testing.T) {
	w := securityResponse(true)

	expected := map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Referrer-Policy":           "strict-origin-when-cross-origin",
		"Content-Security-Policy":   "default-src 'none'; frame-ancestors 'none'",
		"Strict-Transport-Security": "max-age=63072000; includeSubDomains",
		"Permissions-Policy":        "camera=(), microphone=(), geolocation=()",
		"Cache-Control":             "no-store",
	}

	for header, want := range expected {
		got := w.Header().Get(header)
		if got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}

	vary := w.Header().Values("Vary")
	if !slices.Contains(vary, "Cookie") || !slices.Contains(vary, middleware.SessionHeader) {
		t.Errorf("expected responses to vary on the session, got %v", vary)
	}
}

func TestSecurityHeaders_PlainHTTP(t *testing.T) {
	w := securityResponse(false)

	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("expected no HSTS over plain HTTP, got %q", got)
	}

	if got := w.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("expected X-Frame-Options DENY, got %q", got)
	}
}
