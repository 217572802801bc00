package dto

import (
	"time"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// Envelope messages.
const (
	MessageRegistered     = "User registered successfully. Please verify your email."
	MessageLoggedIn       = "Login successful"
	MessageTokenRefreshed = "Token refreshed successfully"
)

// AuthResponse is the envelope returned by sign-up, login and refresh. Token fields
// are omitted when the operation did not issue them.
type AuthResponse struct {
	Token                 string     `json:"token,omitempty"`
	TokenExpiresAt        *time.Time `json:"tokenExpiresAt,omitempty"`
	RefreshToken          string     `json:"refreshToken,omitempty"`
	RefreshTokenExpiresAt *time.Time `json:"refreshTokenExpiresAt,omitempty"`
	UserID                string     `json:"userId,omitempty"`
	Username              string     `json:"username,omitempty"`
	Email                 string     `json:"email,omitempty"`
	FirstName             string     `json:"firstName,omitempty"`
	LastName              string     `json:"lastName,omitempty"`
	IsAdmin               bool       `json:"isAdmin"`
	Roles                 []string   `json:"roles"`
	Message               string     `json:"message"`
	Success               bool       `json:"success"`
}

// MapRegisteredUserToResponse builds the sign-up envelope. No tokens are issued at
// registration.
func MapRegisteredUserToResponse(user *userDomain.User) AuthResponse {
	resp := summary(user)
	resp.Message = MessageRegistered
	resp.Success = true
	return resp
}

// MapAuthOutputToResponse builds the login or refresh envelope.
func MapAuthOutputToResponse(output *authDomain.AuthOutput, message string) AuthResponse {
	resp := summary(output.User)
	resp.Message = message
	resp.Success = true

	if output.AccessToken != nil {
		expiresAt := output.AccessToken.ExpiresAt
		resp.Token = output.AccessToken.Value
		resp.TokenExpiresAt = &expiresAt
	}
	if output.RefreshToken != nil {
		expiresAt := output.RefreshToken.ExpiresAt
		resp.RefreshToken = output.RefreshToken.Value
		resp.RefreshTokenExpiresAt = &expiresAt
	}

	return resp
}

func summary(user *userDomain.User) AuthResponse {
	resp := AuthResponse{Roles: []string{}}
	if user == nil {
		return resp
	}

	resp.UserID = user.ID.String()
	resp.Username = user.Username
	resp.Email = user.Email
	resp.FirstName = user.FirstName
	resp.LastName = user.LastName
	resp.IsAdmin = user.IsAdmin
	if roles := user.RoleNames(); roles != nil {
		resp.Roles = roles
	}
	return resp
}
