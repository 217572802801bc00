package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

type userFixture struct {
	users     *mockUserRepository
	roles     *mockRoleRepository
	passwords *mockPasswordService
	uc        *userUseCase
	now       time.Time
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users:     &mockUserRepository{},
		roles:     &mockRoleRepository{},
		passwords: &mockPasswordService{},
		now:       time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	uc := NewUserUseCase(inlineTxManager{}, f.users, f.roles, f.passwords).(*userUseCase)
	uc.now = func() time.Time { return f.now }
	f.uc = uc
	return f
}

func newUser(roles ...string) *domain.User {
	return &domain.User{
		ID:          uuid.Must(uuid.NewV7()),
		Username:    "alice",
		Email:       "alice@example.com",
		Password:    "stored-hash",
		FirstName:   "Alice",
		LastName:    "Smith",
		PhoneNumber: "+15551234567",
		IsActive:    true,
		Roles:       roles,
	}
}

func asPrincipal(user *domain.User) context.Context {
	return authDomain.WithSecurityContext(context.Background(), authDomain.NewSecurityContext(user))
}

func strPtr(s string) *string {
	return &s
}

func TestUserUseCase_UpdateProfile(t *testing.T) {
	t.Run("Success_Self", func(t *testing.T) {
		f := newUserFixture()
		user := newUser(domain.RolePatient)
		ctx := asPrincipal(user)
		stored := *user

		f.users.On("FindByID", ctx, user.ID).Return(&stored, nil).Once()
		f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.FirstName == "Alicia" && u.LastName == "Smith" && u.UpdatedAt.Equal(f.now)
		})).Return(nil).Once()

		updated, err := f.uc.UpdateProfile(ctx, user.ID, &domain.UpdateProfileInput{FirstName: strPtr("Alicia")})

		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.FirstName)
		f.users.AssertExpectations(t)
	})

	t.Run("Success_AdminEditsOther", func(t *testing.T) {
		f := newUserFixture()
		admin := newUser(domain.RoleAdmin)
		target := newUser(domain.RolePatient)
		target.IsPhoneVerified = true
		ctx := asPrincipal(admin)

		f.users.On("FindByID", ctx, target.ID).Return(target, nil).Once()
		f.users.On("Update", ctx, target).Return(nil).Once()

		updated, err := f.uc.UpdateProfile(ctx, target.ID, &domain.UpdateProfileInput{PhoneNumber: strPtr("+15559876543")})

		require.NoError(t, err)
		assert.Equal(t, "+15559876543", updated.PhoneNumber)
		assert.False(t, updated.IsPhoneVerified)
	})

	t.Run("Error_OtherUserForbidden", func(t *testing.T) {
		f := newUserFixture()
		ctx := asPrincipal(newUser(domain.RolePatient))

		_, err := f.uc.UpdateProfile(ctx, uuid.Must(uuid.NewV7()), &domain.UpdateProfileInput{})

		assert.ErrorIs(t, err, authDomain.ErrInsufficientPrivilege)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		f.users.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("Error_Anonymous", func(t *testing.T) {
		f := newUserFixture()

		_, err := f.uc.UpdateProfile(context.Background(), uuid.Must(uuid.NewV7()), &domain.UpdateProfileInput{})

		assert.ErrorIs(t, err, authDomain.ErrAuthenticationRequired)
	})

	t.Run("Error_InvalidPhone", func(t *testing.T) {
		f := newUserFixture()
		user := newUser()

		_, err := f.uc.UpdateProfile(asPrincipal(user), user.ID, &domain.UpdateProfileInput{PhoneNumber: strPtr("12")})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestUserUseCase_ChangePassword(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newUserFixture()
		user := newUser()
		ctx := asPrincipal(user)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.passwords.On("Verify", "OldPass123", "stored-hash").Return(true).Once()
		f.passwords.On("Hash", "NewPass123").Return("new-hash", nil).Once()
		f.users.On("Update", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Password == "new-hash"
		})).Return(nil).Once()

		err := f.uc.ChangePassword(ctx, user.ID, &domain.ChangePasswordInput{
			OldPassword: "OldPass123",
			NewPassword: "NewPass123",
		})

		require.NoError(t, err)
		f.users.AssertExpectations(t)
		f.passwords.AssertExpectations(t)
	})

	t.Run("Error_IncorrectOldPassword", func(t *testing.T) {
		f := newUserFixture()
		user := newUser()
		ctx := asPrincipal(user)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.passwords.On("Verify", "WrongPass1", "stored-hash").Return(false).Once()

		err := f.uc.ChangePassword(ctx, user.ID, &domain.ChangePasswordInput{
			OldPassword: "WrongPass1",
			NewPassword: "NewPass123",
		})

		assert.ErrorIs(t, err, domain.ErrIncorrectPassword)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Error_NewPasswordTooShort", func(t *testing.T) {
		f := newUserFixture()
		user := newUser()

		err := f.uc.ChangePassword(asPrincipal(user), user.ID, &domain.ChangePasswordInput{
			OldPassword: "OldPass123",
			NewPassword: "short",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestUserUseCase_Roles(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AssignNormalisesName", func(t *testing.T) {
		f := newUserFixture()
		user := newUser(domain.RolePatient)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.roles.On("FindByName", ctx, domain.RoleDoctor).Return(&domain.Role{Name: domain.RoleDoctor}, nil).Once()
		f.users.On("Update", ctx, user).Return(nil).Once()

		updated, err := f.uc.AssignRole(ctx, user.ID, "doctor")

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{domain.RolePatient, domain.RoleDoctor}, updated.Roles)
	})

	t.Run("Success_AssignHeldRoleIsNoop", func(t *testing.T) {
		f := newUserFixture()
		user := newUser(domain.RolePatient)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.roles.On("FindByName", ctx, domain.RolePatient).Return(&domain.Role{Name: domain.RolePatient}, nil).Once()
		f.users.On("Update", ctx, user).Return(nil).Once()

		updated, err := f.uc.AssignRole(ctx, user.ID, domain.RolePatient)

		require.NoError(t, err)
		assert.Equal(t, []string{domain.RolePatient}, updated.Roles)
	})

	t.Run("Error_AssignUnknownRole", func(t *testing.T) {
		f := newUserFixture()
		user := newUser()

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.roles.On("FindByName", ctx, "ROLE_PILOT").Return(nil, domain.ErrRoleNotFound).Once()

		_, err := f.uc.AssignRole(ctx, user.ID, "pilot")

		assert.ErrorIs(t, err, domain.ErrRoleNotFound)
	})

	t.Run("Success_Remove", func(t *testing.T) {
		f := newUserFixture()
		user := newUser(domain.RolePatient, domain.RoleDoctor)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.roles.On("FindByName", ctx, domain.RoleDoctor).Return(&domain.Role{Name: domain.RoleDoctor}, nil).Once()
		f.users.On("Update", ctx, user).Return(nil).Once()

		updated, err := f.uc.RemoveRole(ctx, user.ID, domain.RoleDoctor)

		require.NoError(t, err)
		assert.Equal(t, []string{domain.RolePatient}, updated.Roles)
	})

	t.Run("Error_RemoveNotAssigned", func(t *testing.T) {
		f := newUserFixture()
		user := newUser(domain.RolePatient)

		f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.roles.On("FindByName", ctx, domain.RoleNGO).Return(&domain.Role{Name: domain.RoleNGO}, nil).Once()

		_, err := f.uc.RemoveRole(ctx, user.ID, "ngo")

		assert.ErrorIs(t, err, domain.ErrRoleNotAssigned)
	})
}

func TestUserUseCase_Flags(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func(uc UserUseCase, id uuid.UUID) (*domain.User, error)
		before func(u *domain.User)
		check  func(t *testing.T, u *domain.User)
	}{
		{
			name: "Success_Activate",
			call: func(uc UserUseCase, id uuid.UUID) (*domain.User, error) {
				return uc.Activate(ctx, id)
			},
			before: func(u *domain.User) { u.IsActive = false },
			check:  func(t *testing.T, u *domain.User) { assert.True(t, u.IsActive) },
		},
		{
			name: "Success_Deactivate",
			call: func(uc UserUseCase, id uuid.UUID) (*domain.User, error) {
				return uc.Deactivate(ctx, id)
			},
			before: func(u *domain.User) {},
			check:  func(t *testing.T, u *domain.User) { assert.False(t, u.IsActive) },
		},
		{
			name: "Success_VerifyEmail",
			call: func(uc UserUseCase, id uuid.UUID) (*domain.User, error) {
				return uc.VerifyEmail(ctx, id)
			},
			before: func(u *domain.User) {},
			check:  func(t *testing.T, u *domain.User) { assert.True(t, u.IsEmailVerified) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture()
			user := newUser()
			tt.before(user)

			f.users.On("FindByID", ctx, user.ID).Return(user, nil).Once()
			f.users.On("Update", ctx, user).Return(nil).Once()

			updated, err := tt.call(f.uc, user.ID)

			require.NoError(t, err)
			tt.check(t, updated)
			assert.Equal(t, f.now, updated.UpdatedAt)
		})
	}

	t.Run("Error_NotFound", func(t *testing.T) {
		f := newUserFixture()
		id := uuid.Must(uuid.NewV7())

		f.users.On("FindByID", ctx, id).Return(nil, domain.ErrUserNotFound).Once()

		_, err := f.uc.Deactivate(ctx, id)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserUseCase_ListAndStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_List", func(t *testing.T) {
		f := newUserFixture()
		filter := domain.UserFilter{RoleName: domain.RoleDoctor}
		users := []*domain.User{newUser(domain.RoleDoctor)}

		f.users.On("List", ctx, 20, 10, filter).Return(users, nil).Once()
		f.users.On("Count", ctx, filter).Return(int64(21), nil).Once()

		result, total, err := f.uc.List(ctx, 20, 10, filter)

		require.NoError(t, err)
		assert.Len(t, result, 1)
		assert.Equal(t, int64(21), total)
	})

	t.Run("Success_Statistics", func(t *testing.T) {
		f := newUserFixture()

		f.users.On("Count", ctx, domain.UserFilter{ActiveOnly: true}).Return(int64(10), nil).Once()
		f.users.On("Count", ctx, domain.UserFilter{AdminsOnly: true}).Return(int64(2), nil).Once()
		f.roles.On("Count", ctx).Return(int64(5), nil).Once()

		stats, err := f.uc.Statistics(ctx)

		require.NoError(t, err)
		assert.Equal(t, &domain.Statistics{TotalActiveUsers: 10, TotalAdmins: 2, TotalRoles: 5}, stats)
	})
}
