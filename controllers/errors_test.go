package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"hirehub-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestRespondErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: application x", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("%w: APPLIED to OFFERED", services.ErrInvalidTransition), http.StatusBadRequest, "invalid_transition"},
		{services.ErrDuplicateStatus, http.StatusBadRequest, "duplicate_status"},
		{services.ErrForbiddenTransition, http.StatusBadRequest, "forbidden_transition"},
		{services.ErrValidation, http.StatusBadRequest, "validation_error"},
		{services.ErrActionFailed, http.StatusBadRequest, "action_failed"},
		{services.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
		{services.ErrStaleState, http.StatusConflict, "stale_state"},
		{services.ErrAlreadyApplied, http.StatusConflict, "already_applied"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPatch, "/x", nil)

			respondError(c, zap.NewNop(), tc.err)

			if w.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, w.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body["error"])
			}
			if tc.status == http.StatusInternalServerError && body["message"] != "Internal Server Error" {
				t.Fatalf("expected generic message for unexpected errors, got %q", body["message"])
			}
		})
	}
}
