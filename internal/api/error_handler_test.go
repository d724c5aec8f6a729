package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mb-platform/user-service/internal/core/domain"
)

func TestHTTPErrorHandler_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   int
		wantErrMsg string
	}{
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"duplicate name", domain.ErrNameExists, http.StatusConflict, "name already exists"},
		{"duplicate email", domain.ErrEmailExists, http.StatusConflict, "email already exists"},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid name or password"},
		{"not configured", domain.ErrNotConfigured, http.StatusInternalServerError, "service unavailable"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := NewHTTPErrorHandler(zerolog.Nop())
			handler(tc.err, c)

			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp["error"] != tc.wantErrMsg {
				t.Fatalf("expected %q, got %q", tc.wantErrMsg, resp["error"])
			}
		})
	}
}

func TestHTTPErrorHandler_EchoErrorPassthrough(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := NewHTTPErrorHandler(zerolog.Nop())
	handler(echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
