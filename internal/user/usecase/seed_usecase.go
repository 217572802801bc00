package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	authService "github.com/allisson/authgate/internal/auth/service"
	"github.com/allisson/authgate/internal/database"
	"github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// Profile of the seeded administrator.
const (
	adminFirstName   = "System"
	adminLastName    = "Administrator"
	adminPhoneNumber = "+1234567890"
)

// seedUseCase implements SeedUseCase.
type seedUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	roleRepo        RoleRepository
	passwordService authService.PasswordService
	logger          *slog.Logger
	now             func() time.Time
}

// NewSeedUseCase creates a new SeedUseCase.
func NewSeedUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	roleRepo RoleRepository,
	passwordService authService.PasswordService,
	logger *slog.Logger,
) SeedUseCase {
	return &seedUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		passwordService: passwordService,
		logger:          logger,
		now:             time.Now,
	}
}

func (s *seedUseCase) Seed(ctx context.Context, admin domain.AdminSeed) (*SeedResult, error) {
	if err := admin.Validate(); err != nil {
		return nil, err
	}

	result := &SeedResult{RolesCreated: []string{}}

	for _, name := range domain.DefaultRoleNames {
		created, err := s.ensureRole(ctx, name)
		if err != nil {
			return nil, err
		}
		if created {
			result.RolesCreated = append(result.RolesCreated, name)
			s.logger.Info("created role", slog.String("role", name))
		}
	}

	created, err := s.ensureAdmin(ctx, admin)
	if err != nil {
		return nil, err
	}
	result.AdminCreated = created
	if created {
		s.logger.Info("created default admin user", slog.String("username", admin.Username))
	}

	for _, name := range domain.DefaultRoleNames {
		exists, err := s.roleRepo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.Wrapf(domain.ErrRoleNotConfigured, "role %s", name)
		}
	}

	return result, nil
}

func (s *seedUseCase) ensureRole(ctx context.Context, name string) (bool, error) {
	exists, err := s.roleRepo.ExistsByName(ctx, name)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	now := s.now().UTC()
	err = s.roleRepo.Create(ctx, &domain.Role{
		ID:          uuid.Must(uuid.NewV7()),
		Name:        name,
		Description: domain.DefaultRoleDescription(name),
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, domain.ErrRoleAlreadyExists) {
		// Another instance seeded concurrently.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *seedUseCase) ensureAdmin(ctx context.Context, admin domain.AdminSeed) (bool, error) {
	created := false
	err := s.txManager.WithTx(ctx, func(ctx context.Context) error {
		exists, err := s.userRepo.ExistsByUsername(ctx, admin.Username)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		hash, err := s.passwordService.Hash(admin.Password)
		if err != nil {
			return apperrors.Wrap(err, "failed to hash password")
		}

		now := s.now().UTC()
		err = s.userRepo.Create(ctx, &domain.User{
			ID:              uuid.Must(uuid.NewV7()),
			Username:        admin.Username,
			Email:           admin.Email,
			Password:        hash,
			FirstName:       adminFirstName,
			LastName:        adminLastName,
			PhoneNumber:     adminPhoneNumber,
			IsActive:        true,
			IsEmailVerified: true,
			IsPhoneVerified: true,
			IsAdmin:         true,
			Roles:           []string{domain.RoleAdmin},
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		if err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
