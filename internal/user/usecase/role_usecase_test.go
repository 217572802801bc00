package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

func TestRoleUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NormalisesNameAndDefaultsDescription", func(t *testing.T) {
		repo := &mockRoleRepository{}
		uc := NewRoleUseCase(inlineTxManager{}, repo)

		repo.On("ExistsByName", ctx, "ROLE_NURSE").Return(false, nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(r *domain.Role) bool {
			return r.Name == "ROLE_NURSE" && r.Description == "Role for nurse users" && r.IsActive
		})).Return(nil).Once()

		role, err := uc.Create(ctx, &domain.CreateRoleInput{Name: "nurse"})

		require.NoError(t, err)
		assert.Equal(t, "ROLE_NURSE", role.Name)
		repo.AssertExpectations(t)
	})

	t.Run("Error_Duplicate", func(t *testing.T) {
		repo := &mockRoleRepository{}
		uc := NewRoleUseCase(inlineTxManager{}, repo)

		repo.On("ExistsByName", ctx, domain.RoleDoctor).Return(true, nil).Once()

		_, err := uc.Create(ctx, &domain.CreateRoleInput{Name: "ROLE_DOCTOR"})

		assert.ErrorIs(t, err, domain.ErrRoleAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_InvalidName", func(t *testing.T) {
		uc := NewRoleUseCase(inlineTxManager{}, &mockRoleRepository{})

		_, err := uc.Create(ctx, &domain.CreateRoleInput{Name: "1 bad name"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestRoleUseCase_Update(t *testing.T) {
	ctx := context.Background()
	repo := &mockRoleRepository{}
	uc := NewRoleUseCase(inlineTxManager{}, repo).(*roleUseCase)
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	role := &domain.Role{ID: uuid.Must(uuid.NewV7()), Name: domain.RoleNGO, Description: "old", IsActive: true}
	inactive := false
	description := "  Non-governmental organisations  "

	repo.On("FindByID", ctx, role.ID).Return(role, nil).Once()
	repo.On("Update", ctx, role).Return(nil).Once()

	updated, err := uc.Update(ctx, role.ID, &domain.UpdateRoleInput{Description: &description, IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, domain.RoleNGO, updated.Name)
	assert.Equal(t, "Non-governmental organisations", updated.Description)
	assert.False(t, updated.IsActive)
	assert.Equal(t, now, updated.UpdatedAt)
}

func TestRoleUseCase_List(t *testing.T) {
	ctx := context.Background()
	repo := &mockRoleRepository{}
	uc := NewRoleUseCase(inlineTxManager{}, repo)

	repo.On("List", ctx, 0, 20).Return([]*domain.Role{{Name: domain.RoleAdmin}}, nil).Once()
	repo.On("Count", ctx).Return(int64(1), nil).Once()

	roles, total, err := uc.List(ctx, 0, 20)

	require.NoError(t, err)
	assert.Len(t, roles, 1)
	assert.Equal(t, int64(1), total)
}
