package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// PostgreSQLUserRepository handles user persistence for PostgreSQL.
type PostgreSQLUserRepository struct {
	db *sql.DB
}

// NewPostgreSQLUserRepository creates a new PostgreSQLUserRepository.
func NewPostgreSQLUserRepository(db *sql.DB) *PostgreSQLUserRepository {
	return &PostgreSQLUserRepository{
		db: db,
	}
}

// Create inserts a new user and links it to its roles by name.
func (r *PostgreSQLUserRepository) Create(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO users (` + userColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := querier.ExecContext(
		ctx,
		query,
		user.ID,
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

	return r.insertRoles(ctx, querier, user.ID, user.Roles)
}

// Update persists profile fields, flags, password and the complete role set.
func (r *PostgreSQLUserRepository) Update(ctx context.Context, user *domain.User) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE users SET username = $1, email = $2, password = $3, first_name = $4,
			  last_name = $5, phone_number = $6, is_active = $7, is_email_verified = $8,
			  is_phone_verified = $9, is_admin = $10, last_login_at = $11, updated_at = $12
			  WHERE id = $13`

	result, err := querier.ExecContext(
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
		user.ID,
	)
	if err != nil {
		return mapUserWriteError(err, "failed to update user")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}

	if _, err := querier.ExecContext(ctx, `DELETE FROM user_roles WHERE user_id = $1`, user.ID); err != nil {
		return apperrors.Wrap(err, "failed to clear user roles")
	}

	return r.insertRoles(ctx, querier, user.ID, user.Roles)
}

// UpdateLastLogin records the time of the user's latest successful login.
func (r *PostgreSQLUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	querier := database.GetTx(ctx, r.db)

	_, err := querier.ExecContext(ctx, `UPDATE users SET last_login_at = $1 WHERE id = $2`, at, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to update last login")
	}
	return nil
}

// FindByID retrieves a user by ID.
func (r *PostgreSQLUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByUsername retrieves a user by exact username.
func (r *PostgreSQLUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// FindByUsernameOrEmail retrieves the user whose username or email equals identifier.
func (r *PostgreSQLUserRepository) FindByUsernameOrEmail(
	ctx context.Context,
	identifier string,
) (*domain.User, error) {
	return r.findOne(
		ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1
		 ORDER BY (username = $1) DESC LIMIT 1`,
		identifier,
	)
}

// ExistsByUsername reports whether a user with the username exists.
func (r *PostgreSQLUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
}

// ExistsByEmail reports whether a user with the email exists.
func (r *PostgreSQLUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email)
}

// List returns users matching filter, newest first.
func (r *PostgreSQLUserRepository) List(
	ctx context.Context,
	offset, limit int,
	filter domain.UserFilter,
) ([]*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	next := postgresPlaceholders()
	where, args := userFilterClause(filter, next)
	query := `SELECT ` + prefixed("u.", userColumns) + ` FROM users u` + where +
		` ORDER BY u.created_at DESC, u.id DESC LIMIT ` + next() + ` OFFSET ` + next()
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
		var user domain.User
		if err := scanUser(rows, &user.ID, &user); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan user")
		}
		users = append(users, &user)
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
func (r *PostgreSQLUserRepository) Count(ctx context.Context, filter domain.UserFilter) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	where, args := userFilterClause(filter, postgresPlaceholders())

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count users")
	}
	return count, nil
}

func (r *PostgreSQLUserRepository) findOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	querier := database.GetTx(ctx, r.db)

	var user domain.User
	if err := scanUser(querier.QueryRowContext(ctx, query, arg), &user.ID, &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get user")
	}

	if err := r.loadRoles(ctx, querier, []*domain.User{&user}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgreSQLUserRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	if err := querier.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check user existence")
	}
	return exists, nil
}

func (r *PostgreSQLUserRepository) insertRoles(
	ctx context.Context,
	querier database.Querier,
	userID uuid.UUID,
	roleNames []string,
) error {
	query := `INSERT INTO user_roles (user_id, role_id) SELECT $1, id FROM roles WHERE name = $2`

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
func (r *PostgreSQLUserRepository) loadRoles(
	ctx context.Context,
	querier database.Querier,
	users []*domain.User,
) error {
	if len(users) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*domain.User, len(users))
	ids := make([]string, 0, len(users))
	for _, user := range users {
		user.Roles = []string{}
		byID[user.ID] = user
		ids = append(ids, user.ID.String())
	}

	query := `SELECT ur.user_id, r.name FROM user_roles ur
			  JOIN roles r ON r.id = ur.role_id
			  WHERE ur.user_id = ANY($1::uuid[])
			  ORDER BY r.name`

	rows, err := querier.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return apperrors.Wrap(err, "failed to load user roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var userID uuid.UUID
		var name string
		if err := rows.Scan(&userID, &name); err != nil {
			return apperrors.Wrap(err, "failed to scan user role")
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

func postgresPlaceholders() func() string {
	n := 0
	return func() string {
		n++
		return "$" + strconv.Itoa(n)
	}
}
