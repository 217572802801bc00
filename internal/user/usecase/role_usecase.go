package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"
)

// roleUseCase implements RoleUseCase.
type roleUseCase struct {
	txManager database.TxManager
	roleRepo  RoleRepository
	now       func() time.Time
}

// NewRoleUseCase creates a new RoleUseCase.
func NewRoleUseCase(txManager database.TxManager, roleRepo RoleRepository) RoleUseCase {
	return &roleUseCase{
		txManager: txManager,
		roleRepo:  roleRepo,
		now:       time.Now,
	}
}

func (r *roleUseCase) Create(ctx context.Context, input *domain.CreateRoleInput) (*domain.Role, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	name := domain.RoleNameForType(input.Name)
	description := strings.TrimSpace(input.Description)
	if description == "" {
		description = domain.DefaultRoleDescription(name)
	}

	now := r.now().UTC()
	role := &domain.Role{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		exists, err := r.roleRepo.ExistsByName(ctx, name)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrRoleAlreadyExists
		}
		return r.roleRepo.Create(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleUseCase) Update(ctx context.Context, id uuid.UUID, input *domain.UpdateRoleInput) (*domain.Role, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var role *domain.Role
	err := r.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		role, err = r.roleRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Description != nil {
			role.Description = strings.TrimSpace(*input.Description)
		}
		if input.IsActive != nil {
			role.IsActive = *input.IsActive
		}
		role.UpdatedAt = r.now().UTC()
		return r.roleRepo.Update(ctx, role)
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *roleUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	return r.roleRepo.FindByID(ctx, id)
}

func (r *roleUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Role, int64, error) {
	roles, err := r.roleRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := r.roleRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}
