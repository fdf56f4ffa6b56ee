package httputil_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphconsole/internal/httputil"
)

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/with-id", func(c *gin.Context) {
		c.Set("request_id", "rid-1")
		httputil.RespondError(c, http.StatusBadRequest, "bad_request", "nope")
	})
	r.GET("/without-id", func(c *gin.Context) {
		httputil.RespondError(c, http.StatusNotFound, "not_found", "missing")
	})

	tests := []struct {
		path       string
		wantStatus int
		wantRID    string
	}{
		{"/with-id", http.StatusBadRequest, "rid-1"},
		{"/without-id", http.StatusNotFound, ""},
	}

	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))

		if w.Code != tc.wantStatus {
			t.Errorf("%s: expected %d, got %d", tc.path, tc.wantStatus, w.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decoding body: %v", tc.path, err)
		}

		if body["request_id"] != tc.wantRID {
			t.Errorf("%s: request_id = %q, want %q", tc.path, body["request_id"], tc.wantRID)
		}

		if _, ok := body["request_id"]; !ok && tc.wantRID != "" {
			t.Errorf("%s: expected request_id key", tc.path)
		}
	}
}
