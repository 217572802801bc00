// Package http provides the /api/users and /api/admin handlers.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/httputil"
	"github.com/allisson/authgate/internal/user/http/dto"
	"github.com/allisson/authgate/internal/user/usecase"
)

// UserHandler serves the authenticated /api/users endpoints.
type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// MeHandler returns the authenticated principal.
// GET /api/users/me
func (h *UserHandler) MeHandler(c *gin.Context) {
	principal, ok := authDomain.SecurityContextFrom(c.Request.Context()).Principal()
	if !ok {
		httputil.HandleErrorGin(c, authDomain.ErrAuthenticationRequired, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(principal))
}

// GetHandler returns a user by ID.
// GET /api/users/:id
func (h *UserHandler) GetHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// GetByUsernameHandler returns a user by username.
// GET /api/users/username/:username
func (h *UserHandler) GetByUsernameHandler(c *gin.Context) {
	user, err := h.userUseCase.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// UpdateProfileHandler changes profile fields of the user itself, or of any user
// when called by an administrator.
// PUT /api/users/:id
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.UpdateProfile(c.Request.Context(), id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ChangePasswordHandler replaces the password after checking the current one.
// POST /api/users/:id/change-password
func (h *UserHandler) ChangePasswordHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.ChangePassword(c.Request.Context(), id, req.ToInput()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully"})
}

// parseIDParam parses a UUID path parameter, writing a 400 response on failure.
func parseIDParam(c *gin.Context, name string, logger *slog.Logger) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httputil.HandleBadRequestGin(c,
			fmt.Errorf("invalid %s format: must be a valid UUID", name),
			logger)
		return uuid.Nil, false
	}
	return id, true
}
