package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// MySQLRoleRepository handles role persistence for MySQL.
type MySQLRoleRepository struct {
	db *sql.DB
}

// NewMySQLRoleRepository creates a new MySQLRoleRepository.
func NewMySQLRoleRepository(db *sql.DB) *MySQLRoleRepository {
	return &MySQLRoleRepository{db: db}
}

// Create inserts a new role.
func (r *MySQLRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	id, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO roles (` + roleColumns + `) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx, query, id, role.Name, role.Description, role.IsActive, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		return mapRoleWriteError(err, "failed to create role")
	}
	return nil
}

// Update persists the description and active flag. Role names are immutable.
func (r *MySQLRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	id, err := role.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(
		ctx,
		`UPDATE roles SET description = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		role.Description, role.IsActive, role.UpdatedAt, id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update role")
	}
	return nil
}

// FindByID retrieves a role by ID.
func (r *MySQLRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	rawID, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}
	return r.findOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = ?`, rawID)
}

// FindByName retrieves a role by its exact name.
func (r *MySQLRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = ?`, name)
}

// ExistsByName reports whether a role with the name exists.
func (r *MySQLRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	err := querier.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = ?)`, name).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check role existence")
	}
	return exists, nil
}

// List returns roles ordered by name.
func (r *MySQLRoleRepository) List(ctx context.Context, offset, limit int) ([]*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list roles")
	}
	defer func() {
		_ = rows.Close()
	}()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		role, err := scanMySQLRole(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating roles")
	}
	return roles, nil
}

// Count returns the number of roles.
func (r *MySQLRoleRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count roles")
	}
	return count, nil
}

func (r *MySQLRoleRepository) findOne(ctx context.Context, query string, arg any) (*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	role, err := scanMySQLRole(querier.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}
	return role, nil
}

func scanMySQLRole(row rowScanner) (*domain.Role, error) {
	var role domain.Role
	var rawID []byte
	if err := scanRole(row, &rawID, &role); err != nil {
		return nil, err
	}
	if err := role.ID.UnmarshalBinary(rawID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	return &role, nil
}
