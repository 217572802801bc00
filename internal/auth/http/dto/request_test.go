package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/authgate/internal/errors"
)

func TestParseRefreshTokenRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "json object", body: `{"refreshToken": "abc.def.ghi"}`, want: "abc.def.ghi"},
		{name: "json string", body: `"abc.def.ghi"`, want: "abc.def.ghi"},
		{name: "raw token", body: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "raw token with newline", body: "abc.def.ghi\n", want: "abc.def.ghi"},
		{name: "object without field", body: `{"token": "abc"}`, want: ""},
		{name: "empty body", body: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ParseRefreshTokenRequest([]byte(tt.body))
			assert.Equal(t, tt.want, req.RefreshToken)
		})
	}
}

func TestRefreshTokenRequest_Validate(t *testing.T) {
	assert.NoError(t, (&RefreshTokenRequest{RefreshToken: "abc"}).Validate())

	err := (&RefreshTokenRequest{}).Validate()
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}

func TestSignUpRequest_ToInput(t *testing.T) {
	req := SignUpRequest{
		Username:        "  alice ",
		Email:           " alice@example.com ",
		Password:        " spaced pass ",
		ConfirmPassword: " spaced pass ",
		UserType:        "patient",
	}

	in := req.ToInput()

	assert.Equal(t, "alice", in.Username)
	assert.Equal(t, "alice@example.com", in.Email)
	assert.Equal(t, " spaced pass ", in.Password)
	assert.Equal(t, "patient", in.UserType)
}
