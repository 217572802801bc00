// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/authgate/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// phoneRegex accepts an optional leading plus followed by 10 to 15 digits
	phoneRegex = regexp.MustCompile(`^[+]?[0-9]{10,15}$`)

	// usernameRegex restricts usernames to characters safe in URLs and token subjects
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._\-]+$`)

	// roleTypeRegex matches a bare role type such as PATIENT or an already prefixed ROLE_PATIENT
	roleTypeRegex = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordStrength is a password policy. Each Require flag demands at least one rune
// of its class; punctuation and symbols both count as special characters.
type PasswordStrength struct {
	MinLength      int
	RequireUpper   bool
	RequireLower   bool
	RequireNumber  bool
	RequireSpecial bool
}

type runeClass struct {
	required bool
	matches  func(rune) bool
	code     string
	message  string
}

// Validate reports the first requirement value fails, checking length first.
func (p PasswordStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_strength", "password must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_password_min_length",
			"password must be at least "+strconv.Itoa(p.MinLength)+" characters",
		)
	}

	classes := []runeClass{
		{p.RequireUpper, unicode.IsUpper, "validation_password_uppercase", "uppercase letter"},
		{p.RequireLower, unicode.IsLower, "validation_password_lowercase", "lowercase letter"},
		{p.RequireNumber, unicode.IsNumber, "validation_password_number", "number"},
		{p.RequireSpecial, isSpecial, "validation_password_special", "special character"},
	}
	for _, class := range classes {
		if class.required && !strings.ContainsFunc(s, class.matches) {
			return validation.NewError(class.code, "password must contain at least one "+class.message)
		}
	}

	return nil
}

// AdminPasswordStrength is the policy applied to passwords chosen for seeded administrators.
var AdminPasswordStrength = PasswordStrength{
	MinLength:     8,
	RequireUpper:  true,
	RequireLower:  true,
	RequireNumber: true,
}

func isSpecial(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// Phone validates an international phone number: optional "+" and 10 to 15 digits.
var Phone = validation.NewStringRuleWithError(
	func(s string) bool {
		return phoneRegex.MatchString(s)
	},
	validation.NewError("validation_phone_format", "phone number should be valid"),
)

// Username validates the characters allowed in a username.
var Username = validation.NewStringRuleWithError(
	func(s string) bool {
		return usernameRegex.MatchString(s)
	},
	validation.NewError(
		"validation_username_format",
		"must contain only letters, digits, dots, underscores or hyphens",
	),
)

// RoleType validates a role type or role name such as DOCTOR or ROLE_DOCTOR.
var RoleType = validation.NewStringRuleWithError(
	func(s string) bool {
		return roleTypeRegex.MatchString(s)
	},
	validation.NewError("validation_role_type", "must be a valid role type"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
