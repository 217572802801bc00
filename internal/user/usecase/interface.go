// Package usecase implements user management, the role catalog and first-start seeding.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/user/domain"
)

// UserRepository defines persistence operations for users.
// Implementations must support transaction-aware operations via context propagation.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, offset, limit int, filter domain.UserFilter) ([]*domain.User, error)
	Count(ctx context.Context, filter domain.UserFilter) (int64, error)
}

// RoleRepository defines persistence operations for roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Role, error)
	Count(ctx context.Context) (int64, error)
}

// UserUseCase defines user management operations.
//
// Profile and password changes are limited to the user itself or an administrator,
// checked against the SecurityContext bound to ctx. Every other operation relies on
// the access policy guarding its route.
type UserUseCase interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List returns one page of users matching filter and the total match count.
	List(ctx context.Context, offset, limit int, filter domain.UserFilter) ([]*domain.User, int64, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, input *domain.UpdateProfileInput) (*domain.User, error)

	// ChangePassword returns ErrIncorrectPassword when OldPassword does not match.
	ChangePassword(ctx context.Context, id uuid.UUID, input *domain.ChangePasswordInput) error

	// AssignRole grants a role by name or user type. Granting a held role is a no-op.
	AssignRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error)

	// RemoveRole revokes a role. Access decisions use the roles loaded per request,
	// so the revocation applies to the next request of that user.
	RemoveRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error)

	Activate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.User, error)
	VerifyEmail(ctx context.Context, id uuid.UUID) (*domain.User, error)

	Statistics(ctx context.Context) (*domain.Statistics, error)
}

// RoleUseCase defines role catalog management.
type RoleUseCase interface {
	// Create returns ErrRoleAlreadyExists when the normalised name is taken.
	Create(ctx context.Context, input *domain.CreateRoleInput) (*domain.Role, error)
	Update(ctx context.Context, id uuid.UUID, input *domain.UpdateRoleInput) (*domain.Role, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Role, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Role, int64, error)
}

// SeedResult reports what a seeding run created.
type SeedResult struct {
	RolesCreated []string
	AdminCreated bool
}

// SeedUseCase provisions the default role catalog and administrator.
type SeedUseCase interface {
	// Seed is idempotent. It returns ErrRoleNotConfigured when a default role is
	// still missing afterwards.
	Seed(ctx context.Context, admin domain.AdminSeed) (*SeedResult, error)
}
