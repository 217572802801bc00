package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// userUseCase implements UserUseCase.
type userUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	roleRepo        RoleRepository
	passwordService authService.PasswordService
	now             func() time.Time
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	roleRepo RoleRepository,
	passwordService authService.PasswordService,
) UserUseCase {
	return &userUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		passwordService: passwordService,
		now:             time.Now,
	}
}

func (u *userUseCase) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.userRepo.FindByID(ctx, id)
}

func (u *userUseCase) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.userRepo.FindByUsername(ctx, username)
}

func (u *userUseCase) List(
	ctx context.Context,
	offset, limit int,
	filter domain.UserFilter,
) ([]*domain.User, int64, error) {
	users, err := u.userRepo.List(ctx, offset, limit, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := u.userRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (u *userUseCase) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input *domain.UpdateProfileInput,
) (*domain.User, error) {
	if err := authDomain.SecurityContextFrom(ctx).RequireSelfOrRole(id, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	return u.mutate(ctx, id, func(user *domain.User) error {
		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.PhoneNumber != nil && *input.PhoneNumber != user.PhoneNumber {
			user.PhoneNumber = *input.PhoneNumber
			user.IsPhoneVerified = false
		}
		return nil
	})
}

func (u *userUseCase) ChangePassword(ctx context.Context, id uuid.UUID, input *domain.ChangePasswordInput) error {
	if err := authDomain.SecurityContextFrom(ctx).RequireSelfOrRole(id, domain.RoleAdmin); err != nil {
		return err
	}
	if err := input.Validate(); err != nil {
		return err
	}

	_, err := u.mutate(ctx, id, func(user *domain.User) error {
		if !u.passwordService.Verify(input.OldPassword, user.Password) {
			return domain.ErrIncorrectPassword
		}
		hash, err := u.passwordService.Hash(input.NewPassword)
		if err != nil {
			return apperrors.Wrap(err, "failed to hash password")
		}
		user.Password = hash
		return nil
	})
	return err
}

func (u *userUseCase) AssignRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error) {
	name := domain.RoleNameForType(roleName)

	return u.mutate(ctx, id, func(user *domain.User) error {
		if _, err := u.roleRepo.FindByName(ctx, name); err != nil {
			return err
		}
		user.AddRole(name)
		return nil
	})
}

func (u *userUseCase) RemoveRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error) {
	name := domain.RoleNameForType(roleName)

	return u.mutate(ctx, id, func(user *domain.User) error {
		if _, err := u.roleRepo.FindByName(ctx, name); err != nil {
			return err
		}
		if !user.RemoveRole(name) {
			return domain.ErrRoleNotAssigned
		}
		return nil
	})
}

func (u *userUseCase) Activate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.mutate(ctx, id, func(user *domain.User) error {
		user.IsActive = true
		return nil
	})
}

// Deactivate disables login and refresh. Access tokens already issued stop
// resolving to a principal on their next use.
func (u *userUseCase) Deactivate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.mutate(ctx, id, func(user *domain.User) error {
		user.IsActive = false
		return nil
	})
}

func (u *userUseCase) VerifyEmail(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.mutate(ctx, id, func(user *domain.User) error {
		user.IsEmailVerified = true
		return nil
	})
}

func (u *userUseCase) Statistics(ctx context.Context) (*domain.Statistics, error) {
	active, err := u.userRepo.Count(ctx, domain.UserFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	admins, err := u.userRepo.Count(ctx, domain.UserFilter{AdminsOnly: true})
	if err != nil {
		return nil, err
	}
	roles, err := u.roleRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Statistics{
		TotalActiveUsers: active,
		TotalAdmins:      admins,
		TotalRoles:       roles,
	}, nil
}

// mutate loads a user, applies fn and saves the result in one transaction.
func (u *userUseCase) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(user *domain.User) error,
) (*domain.User, error) {
	var user *domain.User
	err := u.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		user, err = u.userRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(user); err != nil {
			return err
		}
		user.UpdatedAt = u.now().UTC()
		return u.userRepo.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
