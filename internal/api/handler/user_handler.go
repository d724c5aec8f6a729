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

// UserHandler handles user record CRUD and existence probes.
type UserHandler struct {
	service ports.UserService
	audit   ports.AuditRecorder
}

func NewUserHandler(service ports.UserService, audit ports.AuditRecorder) *UserHandler {
	return &UserHandler{service: service, audit: audit}
}

// GetByID returns a single user by id.
//
// @Summary      Get user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  userResponse
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) GetByID(c echo.Context) error {
	user, err := h.service.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// GetByName returns a single user by name.
//
// @Summary      Get user by name
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        name  path      string  true  "User name"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  map[string]string
// @Router       /api/users/name/{name} [get]
func (h *UserHandler) GetByName(c echo.Context) error {
	user, err := h.service.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return mapUserError(c, err)
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// List returns all users in the store's natural order.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  userResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Update overwrites a user's name and email.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "New name and email"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		return mapUserError(c, err)
	}

	h.record(user.ID, user.Name, domain.ActionUpdated)
	return c.JSON(http.StatusOK, toUserResponse(user))
}

// Delete removes a user by id.
//
// @Summary      Delete user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id := c.Param("id")

	// Capture the name for the audit trail before the record disappears.
	name := ""
	if user, err := h.service.GetByID(c.Request().Context(), id); err == nil {
		name = user.Name
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return mapUserError(c, err)
	}

	metrics.UsersDeletedTotal.Inc()
	h.record(id, name, domain.ActionDeleted)
	return c.NoContent(http.StatusNoContent)
}

// CheckName reports whether a user with the given name exists.
//
// @Summary      Check name existence
// @Tags         users
// @Produce      json
// @Param        name  path      string  true  "User name"
// @Success      200   {boolean}  boolean
// @Router       /api/users/check-name/{name} [get]
func (h *UserHandler) CheckName(c echo.Context) error {
	exists, err := h.service.ExistsByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exists)
}

// CheckEmail reports whether a user with the given email exists.
//
// @Summary      Check email existence
// @Tags         users
// @Produce      json
// @Param        email  path      string  true  "User email"
// @Success      200    {boolean}  boolean
// @Router       /api/users/check-email/{email} [get]
func (h *UserHandler) CheckEmail(c echo.Context) error {
	exists, err := h.service.ExistsByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exists)
}

// mapUserError renders known domain errors with their status codes and lets
// everything else bubble to the central error handler.
func mapUserError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNameExists), errors.Is(err, domain.ErrEmailExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		return err
	}
}

func (h *UserHandler) record(userID, name string, action domain.AccountAction) {
	if h.audit == nil {
		return
	}
	metrics.AuditEventsTotal.WithLabelValues(string(action)).Inc()
	h.audit.Record(domain.AccountEvent{
		UserID:    userID,
		Name:      name,
		Action:    action,
		Timestamp: time.Now().UTC(),
	})
}
