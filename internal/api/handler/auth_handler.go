package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mb-platform/user-service/internal/api/metrics"
	"github.com/mb-platform/user-service/internal/core/domain"
	"github.com/mb-platform/user-service/internal/core/ports"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service ports.UserService
	audit   ports.AuditRecorder
}

func NewAuthHandler(service ports.UserService, audit ports.AuditRecorder) *AuthHandler {
	return &AuthHandler{service: service, audit: audit}
}

// Register creates a new user account and returns a bearer token.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNameExists), errors.Is(err, domain.ErrEmailExists):
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		default:
			return err
		}
	}

	metrics.RegistrationsTotal.WithLabelValues(result.User.Role).Inc()
	h.record(result.User, domain.ActionRegistered)

	return c.JSON(http.StatusCreated, authResponse{
		Token: result.Token,
		Type:  "Bearer",
		User:  toUserResponse(result.User),
	})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.record(result.User, domain.ActionLoggedIn)

	return c.JSON(http.StatusOK, authResponse{
		Token: result.Token,
		Type:  "Bearer",
		User:  toUserResponse(result.User),
	})
}

// Logout acknowledges a logout request. Tokens are not tracked server-side,
// so there is nothing to invalidate; clients discard the token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "logout successful"})
}

func (h *AuthHandler) record(user *domain.User, action domain.AccountAction) {
	if h.audit == nil {
		return
	}
	metrics.AuditEventsTotal.WithLabelValues(string(action)).Inc()
	h.audit.Record(domain.AccountEvent{
		UserID:    user.ID,
		Name:      user.Name,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
}
