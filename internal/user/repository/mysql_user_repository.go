package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// MySQLUserRepository handles user persistence for MySQL. IDs are stored as BINARY(16).
type MySQLUserRepository struct {
	db *sql.DB
}

// NewMySQLUserRepository creates a new MySQLUserRepository.
func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{
		db: db,
	}
}

// Create inserts a new user and links it to its roles by name.
func (r *MySQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		user.Username,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		nullString(user.PhoneNumber),
		user.IsActive,
		user.IsEmailVerified,
		user.IsPhoneVerified,
		user.IsAdmin,
		nullTime(user.LastLoginAt),
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return mapUserWriteError(err, "failed to create user")
	}

	return r.insertRoles(ctx, querier, id, user.Roles)
}

// Update persists profile fields, flags, password and the complete role set.
// MySQL reports zero affected rows for unchanged values, so a missing user is not
// detected here; callers load the user first.
func (r *MySQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	id, err := user.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE users SET username = ?, email = ?, password = ?, first_name = ?,
			  last_name = ?, phone_number = ?, is_active = ?, is_email_verified = ?,
			  is_phone_verified = ?, is_admin = ?, last_login_at = ?, updated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.Password,
		user.FirstName,
		user.LastName,
		nullString(user.PhoneNumber),
		user.IsActive,
		user.IsEmailVerified,
		user.IsPhoneVerified,
		user.IsAdmin,
		nullTime(user.LastLoginAt),
		user.UpdatedAt,
		id,
	)
	if err != nil {
		return mapUserWriteError(err, "failed to update user")
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = ?`, id); err != nil {
		return apperrors.Wrap(err, "failed to clear user roles")
	}

	return r.insertRoles(ctx, querier, id, user.Roles)
}

// UpdateLastLogin records the time of the user's latest successful login.
func (r *MySQLUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	rawID, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	if _, err := querier.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, rawID); err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return nil
}

// FindByID retrieves a user by ID.
func (r *MySQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	rawID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, rawID)
}

// FindByUsername retrieves a user by exact username.
func (r *MySQLUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// FindByUsernameOrEmail retrieves the user whose username or email equals identifier.
func (r *MySQLUserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error) {
	return r.findOne(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?
		 ORDER BY (username = ?) DESC LIMIT 1`,
		identifier, identifier, identifier,
	)
}

// ExistsByUsername reports whether a user with the username exists.
func (r *MySQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = ?)`, username)
}

// ExistsByEmail reports whether a user with the email exists.
func (r *MySQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email)
}

// List returns users matching filter, newest first.
func (r *MySQLUserRepository) List(
	ctx context.Context,
	offset, limit int,
	filter domain.UserFilter,
) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := userFilterClause(filter, mysqlPlaceholder)
	query := `SELECT ` + prefixed("u.", userColumns) + ` FROM users u` + where +
		` ORDER BY u.created_at DESC, u.id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list users")
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanMySQLUser(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating users")
	}

	if err := r.loadRoles(ctx, querier, users); err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the number of users matching filter.
func (r *MySQLUserRepository) Count(ctx context.Context, filter domain.UserFilter) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := userFilterClause(filter, mysqlPlaceholder)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (r *MySQLUserRepository) findOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	user, err := scanMySQLUser(querier.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := r.loadRoles(ctx, querier, []*domain.User{user}); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *MySQLUserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	if err := querier.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check user existence")
	}
	return exists, nil
}

func (r *MySQLUserRepository) insertRoles(
	ctx context.Context,
	querier database.Querier,
	userID []byte,
	roleNames []string,
) error {
	query := `INSERT INTO user_roles (user_id, role_id) SELECT ?, id FROM roles WHERE name = ?`

	for _, name := range roleNames {
		result, err := querier.ExecContext(ctx, query, userID, name)
		if err != nil {
			return apperrors.Wrap(err, "failed to assign role")
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return apperrors.Wrap(err, "failed to get rows affected")
		}
		if rows == 0 {
			return apperrors.Wrapf(domain.ErrRoleNotFound, "role %s", name)
		}
	}
	return nil
}

// loadRoles fills Roles for every user with a single query.
func (r *MySQLUserRepository) loadRoles(
	ctx context.Context,
	querier database.Querier,
	users []*domain.User,
) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.User, len(users))
	args := make([]any, 0, len(users))
	for _, user := range users {
		user.Roles = []string{}
		byID[user.ID] = user
		rawID, err := user.ID.MarshalBinary()
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal UUID")
		}
		args = append(args, rawID)
	}

	query := `SELECT ur.user_id, r.name FROM user_roles ur
			  JOIN roles r ON r.id = ur.role_id
			  WHERE ur.user_id IN (?` + strings.Repeat(", ?", len(args)-1) + `)
			  ORDER BY r.name`

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return apperrors.Wrap(err, "failed to load user roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var rawID []byte
		var name string
		if err := rows.Scan(&rawID, &name); err != nil {
			return apperrors.Wrap(err, "failed to scan user role")
		}
		var userID uuid.UUID
		if err := userID.UnmarshalBinary(rawID); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal UUID")
		}
		if user, ok := byID[userID]; ok {
			user.Roles = append(user.Roles, name)
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.Wrap(err, "error iterating user roles")
	}
	return nil
}

func scanMySQLUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	var rawID []byte
	if err := scanUser(row, &rawID, &user); err != nil {
		return nil, err
	}
	if err := user.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &user, nil
}

func mysqlPlaceholder() string {
	return "?"
}
