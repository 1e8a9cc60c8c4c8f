package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// TestLookupError checks only a missing row is a 404; connection and scan
// failures surface as 500 so they are not mistaken for "no profile yet".
func TestLookupError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"no rows", pgx.ErrNoRows, http.StatusNotFound, "profile not found"},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), http.StatusNotFound, "profile not found"},
		{"connection refused", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), http.StatusInternalServerError, "failed to fetch profile"},
		{"scan mismatch", errors.New("can't scan into dest[3]"), http.StatusInternalServerError, "failed to fetch profile"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			lookupError(c, tc.err, "profile not found", "failed to fetch profile")

			if w.Code != tc.status {
				t.Errorf("status = %d, want %d", w.Code, tc.status)
			}
			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp["error"] != tc.msg {
				t.Errorf("error = %q, want %q", resp["error"], tc.msg)
			}
		})
	}
}
