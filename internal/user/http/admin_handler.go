package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/httputil"
	"github.com/allisson/authgate/internal/user/domain"
	"github.com/allisson/authgate/internal/user/http/dto"
	"github.com/allisson/authgate/internal/user/usecase"
)

// AdminHandler serves the /api/admin user management and role catalog endpoints.
// Every route is guarded by the ROLE_ADMIN access policy rule.
type AdminHandler struct {
	userUseCase usecase.UserUseCase
	roleUseCase usecase.RoleUseCase
	logger      *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	userUseCase usecase.UserUseCase,
	roleUseCase usecase.RoleUseCase,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		userUseCase: userUseCase,
		roleUseCase: roleUseCase,
		logger:      logger,
	}
}

// ListUsersHandler returns a page of users.
// GET /api/admin/users?page=0&size=20&active=true&admins=true&role=DOCTOR&emailVerified=false
func (h *AdminHandler) ListUsersHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	filter, err := parseUserFilter(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	users, total, err := h.userUseCase.List(c.Request.Context(), page.Offset(), page.Size, filter)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewPageResponse(dto.MapUsersToResponse(users), page, total))
}

// GetUserHandler returns a user by ID.
// GET /api/admin/users/:id
func (h *AdminHandler) GetUserHandler(c *gin.Context) {
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

// AssignRoleHandler grants a role.
// POST /api/admin/users/:id/roles
func (h *AdminHandler) AssignRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.AssignRole(c.Request.Context(), id, req.RoleName)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("role assigned",
		slog.String("user_id", id.String()),
		slog.String("role", domain.RoleNameForType(req.RoleName)))

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// RemoveRoleHandler revokes a role.
// DELETE /api/admin/users/:id/roles/:roleName
func (h *AdminHandler) RemoveRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}
	roleName := c.Param("roleName")

	user, err := h.userUseCase.RemoveRole(c.Request.Context(), id, roleName)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("role removed",
		slog.String("user_id", id.String()),
		slog.String("role", domain.RoleNameForType(roleName)))

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// ActivateUserHandler re-enables a deactivated account.
// POST /api/admin/users/:id/activate
func (h *AdminHandler) ActivateUserHandler(c *gin.Context) {
	h.applyUserAction(c, "user activated", h.userUseCase.Activate)
}

// DeactivateUserHandler disables an account. Its tokens stop resolving on the next request.
// POST /api/admin/users/:id/deactivate
func (h *AdminHandler) DeactivateUserHandler(c *gin.Context) {
	h.applyUserAction(c, "user deactivated", h.userUseCase.Deactivate)
}

// VerifyEmailHandler marks the email of a user as verified.
// POST /api/admin/users/:id/verify-email
func (h *AdminHandler) VerifyEmailHandler(c *gin.Context) {
	h.applyUserAction(c, "user email verified", h.userUseCase.VerifyEmail)
}

// StatisticsHandler returns user base totals.
// GET /api/admin/statistics
func (h *AdminHandler) StatisticsHandler(c *gin.Context) {
	stats, err := h.userUseCase.Statistics(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapStatisticsToResponse(stats))
}

// ListRolesHandler returns a page of roles ordered by name.
// GET /api/admin/roles
func (h *AdminHandler) ListRolesHandler(c *gin.Context) {
	page, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	roles, total, err := h.roleUseCase.List(c.Request.Context(), page.Offset(), page.Size)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, httputil.NewPageResponse(dto.MapRolesToResponse(roles), page, total))
}

// GetRoleHandler returns a role by ID.
// GET /api/admin/roles/:id
func (h *AdminHandler) GetRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	role, err := h.roleUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRoleToResponse(role))
}

// CreateRoleHandler adds a role to the catalog.
// POST /api/admin/roles - Returns 201 Created.
func (h *AdminHandler) CreateRoleHandler(c *gin.Context) {
	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("role created", slog.String("role", role.Name))

	c.JSON(http.StatusCreated, dto.MapRoleToResponse(role))
}

// UpdateRoleHandler changes a role's description or active flag.
// PUT /api/admin/roles/:id
func (h *AdminHandler) UpdateRoleHandler(c *gin.Context) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	role, err := h.roleUseCase.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRoleToResponse(role))
}

type userAction func(ctx context.Context, id uuid.UUID) (*domain.User, error)

func (h *AdminHandler) applyUserAction(c *gin.Context, logMessage string, action userAction) {
	id, ok := parseIDParam(c, "id", h.logger)
	if !ok {
		return
	}

	user, err := action(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info(logMessage, slog.String("user_id", id.String()))

	c.JSON(http.StatusOK, dto.MapUserToResponse(user))
}

// parseUserFilter reads the optional listing filters from the query string.
func parseUserFilter(c *gin.Context) (domain.UserFilter, error) {
	var filter domain.UserFilter

	active, err := optionalBool(c, "active")
	if err != nil {
		return filter, err
	}
	filter.ActiveOnly = active != nil && *active

	admins, err := optionalBool(c, "admins")
	if err != nil {
		return filter, err
	}
	filter.AdminsOnly = admins != nil && *admins

	filter.EmailVerified, err = optionalBool(c, "emailVerified")
	if err != nil {
		return filter, err
	}

	if role := c.Query("role"); role != "" {
		filter.RoleName = domain.RoleNameForType(role)
	}

	return filter, nil
}

func optionalBool(c *gin.Context, name string) (*bool, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s parameter: must be true or false", name)
	}
	return &v, nil
}
