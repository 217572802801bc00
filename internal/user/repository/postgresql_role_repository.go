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

// PostgreSQLRoleRepository handles role persistence for PostgreSQL.
type PostgreSQLRoleRepository struct {
	db *sql.DB
}

// NewPostgreSQLRoleRepository creates a new PostgreSQLRoleRepository.
func NewPostgreSQLRoleRepository(db *sql.DB) *PostgreSQLRoleRepository {
	return &PostgreSQLRoleRepository{db: db}
}

// Create inserts a new role.
func (r *PostgreSQLRoleRepository) Create(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	query := `INSERT INTO roles (` + roleColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx, query, role.ID, role.Name, role.Description, role.IsActive, role.CreatedAt, role.UpdatedAt,
	)
	if err != nil {
		return mapRoleWriteError(err, "failed to create role")
	}
	return nil
}

// Update persists the description and active flag. Role names are immutable.
func (r *PostgreSQLRoleRepository) Update(ctx context.Context, role *domain.Role) error {
	querier := database.GetTx(ctx, r.db)

	result, err := querier.ExecContext(
		ctx,
		`UPDATE roles SET description = $1, is_active = $2, updated_at = $3 WHERE id = $4`,
		role.Description, role.IsActive, role.UpdatedAt, role.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update role")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrRoleNotFound
	}
	return nil
}

// FindByID retrieves a role by ID.
func (r *PostgreSQLRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	return r.findOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
}

// FindByName retrieves a role by its exact name.
func (r *PostgreSQLRoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	return r.findOne(ctx, `SELECT `+roleColumns+` FROM roles WHERE name = $1`, name)
}

// ExistsByName reports whether a role with the name exists.
func (r *PostgreSQLRoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	var exists bool
	err := querier.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check role existence")
	}
	return exists, nil
}

// List returns roles ordered by name.
func (r *PostgreSQLRoleRepository) List(ctx context.Context, offset, limit int) ([]*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	rows, err := querier.QueryContext(
		ctx,
		`SELECT `+roleColumns+` FROM roles ORDER BY name LIMIT $1 OFFSET $2`,
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
		var role domain.Role
		if err := scanRole(rows, &role.ID, &role); err != nil {
			return nil, apperrors.Wrap(err, "failed to scan role")
		}
		roles = append(roles, &role)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "error iterating roles")
	}
	return roles, nil
}

// Count returns the number of roles.
func (r *PostgreSQLRoleRepository) Count(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	var count int64
	if err := querier.QueryRowContext(ctx, `SELECT COUNT(*) FROM roles`).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count roles")
	}
	return count, nil
}

func (r *PostgreSQLRoleRepository) findOne(ctx context.Context, query string, arg any) (*domain.Role, error) {
	querier := database.GetTx(ctx, r.db)

	var role domain.Role
	if err := scanRole(querier.QueryRowContext(ctx, query, arg), &role.ID, &role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get role")
	}
	return &role, nil
}
