package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/authgate/internal/auth/http/dto"
	authUseCase "github.com/allisson/authgate/internal/auth/usecase"
	"github.com/allisson/authgate/internal/httputil"
)

// Public messages for credential failures. The cause is only logged.
const (
	messageInvalidCredentials = "Invalid username or password"
	messageInvalidRefresh     = "Invalid or expired refresh token"
	messageHealthy            = "Authentication service is running"
)

// AuthHandler handles sign-up, login and token refresh.
type AuthHandler struct {
	authUseCase authUseCase.AuthUseCase
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authUseCase authUseCase.AuthUseCase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		logger:      logger,
	}
}

// SignUpHandler registers a new account.
// POST /api/auth/signup - Returns 201 Created with an AuthResponse without tokens.
func (h *AuthHandler) SignUpHandler(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	user, err := h.authUseCase.Register(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username))

	c.JSON(http.StatusCreated, dto.MapRegisteredUserToResponse(user))
}

// LoginHandler authenticates by username or email.
// POST /api/auth/login - Returns 200 OK with access and refresh tokens.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.Login(c.Request.Context(), req.ToInput())
	if err != nil {
		httputil.HandleUnauthorizedGin(c, err, messageInvalidCredentials, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthOutputToResponse(output, dto.MessageLoggedIn))
}

// RefreshTokenHandler exchanges a refresh token for a new access token.
// POST /api/auth/refresh-token - Accepts {"refreshToken": "..."} or the raw token as body.
func (h *AuthHandler) RefreshTokenHandler(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	req := dto.ParseRefreshTokenRequest(body)
	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.authUseCase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		httputil.HandleUnauthorizedGin(c, err, messageInvalidRefresh, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuthOutputToResponse(output, dto.MessageTokenRefreshed))
}

// HealthHandler reports that the authentication endpoints are being served.
// GET /api/auth/health - Returns 200 OK.
func (h *AuthHandler) HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, messageHealthy)
}
