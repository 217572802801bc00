// Package mocks provides testify mocks for the user HTTP layer.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/allisson/authgate/internal/user/domain"
)

// MockUserUseCase is a mock implementation of usecase.UserUseCase.
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) userResult(args mock.Arguments) (*domain.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUserUseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, username))
}

func (m *MockUserUseCase) List(
	ctx context.Context,
	offset, limit int,
	filter domain.UserFilter,
) ([]*domain.User, int64, error) {
	args := m.Called(ctx, offset, limit, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserUseCase) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input *domain.UpdateProfileInput,
) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id, input))
}

func (m *MockUserUseCase) ChangePassword(
	ctx context.Context,
	id uuid.UUID,
	input *domain.ChangePasswordInput,
) error {
	return m.Called(ctx, id, input).Error(0)
}

func (m *MockUserUseCase) AssignRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id, roleName))
}

func (m *MockUserUseCase) RemoveRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id, roleName))
}

func (m *MockUserUseCase) Activate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUserUseCase) Deactivate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUserUseCase) VerifyEmail(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUserUseCase) Statistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

// MockRoleUseCase is a mock implementation of usecase.RoleUseCase.
type MockRoleUseCase struct {
	mock.Mock
}

func (m *MockRoleUseCase) roleResult(args mock.Arguments) (*domain.Role, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Role), args.Error(1)
}

func (m *MockRoleUseCase) Create(ctx context.Context, input *domain.CreateRoleInput) (*domain.Role, error) {
	return m.roleResult(m.Called(ctx, input))
}

func (m *MockRoleUseCase) Update(
	ctx context.Context,
	id uuid.UUID,
	input *domain.UpdateRoleInput,
) (*domain.Role, error) {
	return m.roleResult(m.Called(ctx, id, input))
}

func (m *MockRoleUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	return m.roleResult(m.Called(ctx, id))
}

func (m *MockRoleUseCase) List(ctx context.Context, offset, limit int) ([]*domain.Role, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Role), args.Get(1).(int64), args.Error(2)
}
