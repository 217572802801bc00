// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	validation "github.com/jellydator/validation"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	customValidation "github.com/allisson/authgate/internal/validation"
)

// SignUpRequest contains the parameters for registering a new account.
type SignUpRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`        //nolint:gosec // request input
	ConfirmPassword string `json:"confirmPassword"` //nolint:gosec // request input
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	PhoneNumber     string `json:"phoneNumber"`
	UserType        string `json:"userType"`
}

// ToInput converts the request to the domain input. Email and username are trimmed;
// passwords are passed through untouched.
func (r *SignUpRequest) ToInput() *authDomain.RegisterInput {
	return &authDomain.RegisterInput{
		Username:        strings.TrimSpace(r.Username),
		Email:           strings.TrimSpace(r.Email),
		Password:        r.Password,
		ConfirmPassword: r.ConfirmPassword,
		FirstName:       strings.TrimSpace(r.FirstName),
		LastName:        strings.TrimSpace(r.LastName),
		PhoneNumber:     strings.TrimSpace(r.PhoneNumber),
		UserType:        strings.TrimSpace(r.UserType),
	}
}

// LoginRequest contains the credentials for a login.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"` //nolint:gosec // request input
}

// ToInput converts the request to the domain input.
func (r *LoginRequest) ToInput() *authDomain.LoginInput {
	return &authDomain.LoginInput{
		UsernameOrEmail: strings.TrimSpace(r.UsernameOrEmail),
		Password:        r.Password,
	}
}

// RefreshTokenRequest carries the refresh token to exchange for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Validate checks that a token was supplied.
func (r *RefreshTokenRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken,
			validation.Required.Error("Refresh token is required"),
			customValidation.NotBlank,
		),
	)
	return customValidation.WrapValidationError(err)
}

// ParseRefreshTokenRequest accepts the three body forms clients send to the refresh
// endpoint: {"refreshToken": "..."}, a JSON string literal, or the bare token text.
func ParseRefreshTokenRequest(body []byte) *RefreshTokenRequest {
	trimmed := bytes.TrimSpace(body)

	switch {
	case len(trimmed) > 0 && trimmed[0] == '{':
		var req RefreshTokenRequest
		if err := json.Unmarshal(trimmed, &req); err == nil {
			req.RefreshToken = strings.TrimSpace(req.RefreshToken)
			return &req
		}
	case len(trimmed) > 0 && trimmed[0] == '"':
		var token string
		if err := json.Unmarshal(trimmed, &token); err == nil {
			return &RefreshTokenRequest{RefreshToken: strings.TrimSpace(token)}
		}
	}

	return &RefreshTokenRequest{RefreshToken: string(trimmed)}
}
