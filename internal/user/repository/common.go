// Package repository provides PostgreSQL and MySQL persistence for users and roles.
//
// A user's roles live in the user_roles join table and are exposed on domain.User as
// role names. Create and Update rewrite that set, so callers run them inside
// database.TxManager.WithTx.
package repository

import (
	"database/sql"
	"strings"
	"time"

	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

const userColumns = `id, username, email, password, first_name, last_name, phone_number,
	is_active, is_email_verified, is_phone_verified, is_admin, last_login_at, created_at, updated_at`

const roleColumns = `id, name, description, is_active, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser reads one users row. idDest receives the raw id: a *uuid.UUID for
// PostgreSQL or a *[]byte for MySQL BINARY(16).
func scanUser(row rowScanner, idDest any, user *domain.User) error {
	var phone sql.NullString
	var lastLogin sql.NullTime

	err := row.Scan(
		idDest,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.FirstName,
		&user.LastName,
		&phone,
		&user.IsActive,
		&user.IsEmailVerified,
		&user.IsPhoneVerified,
		&user.IsAdmin,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	user.PhoneNumber = phone.String
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return nil
}

func scanRole(row rowScanner, idDest any, role *domain.Role) error {
	return row.Scan(idDest, &role.Name, &role.Description, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// mapUserWriteError translates unique violations on users into domain conflicts.
func mapUserWriteError(err error, message string) error {
	if !database.IsUniqueViolation(err) {
		return apperrors.Wrap(err, message)
	}

	constraint := database.ViolatedConstraint(err)
	if constraint == "" {
		constraint = err.Error()
	}
	switch {
	case strings.Contains(constraint, "email"):
		return domain.ErrEmailTaken
	case strings.Contains(constraint, "username"):
		return domain.ErrUsernameTaken
	default:
		return apperrors.Wrap(apperrors.ErrConflict, "user already exists")
	}
}

func mapRoleWriteError(err error, message string) error {
	if database.IsUniqueViolation(err) {
		return domain.ErrRoleAlreadyExists
	}
	return apperrors.Wrap(err, message)
}

// userFilterClause renders filter as a WHERE clause over the users table aliased u.
// next returns the placeholder for the next bound argument.
func userFilterClause(filter domain.UserFilter, next func() string) (string, []any) {
	var conds []string
	var args []any

	if filter.ActiveOnly {
		conds = append(conds, "u.is_active = TRUE")
	}
	if filter.AdminsOnly {
		conds = append(conds, "u.is_admin = TRUE")
	}
	if filter.EmailVerified != nil {
		conds = append(conds, "u.is_email_verified = "+next())
		args = append(args, *filter.EmailVerified)
	}
	if filter.RoleName != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM user_roles ur JOIN roles r ON r.id = ur.role_id
			WHERE ur.user_id = u.id AND r.name = `+next()+`)`)
		args = append(args, filter.RoleName)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// prefixed qualifies every column of a comma-separated list with prefix.
func prefixed(prefix, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = prefix + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}
