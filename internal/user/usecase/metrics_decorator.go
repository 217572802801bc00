package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/authgate/internal/metrics"
	"github.com/allisson/authgate/internal/user/domain"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
// Read-only lookups are not recorded.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{next: useCase, metrics: m}
}

func (u *userUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.next.Get(ctx, id)
}

func (u *userUseCaseWithMetrics) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return u.next.GetByUsername(ctx, username)
}

func (u *userUseCaseWithMetrics) List(
	ctx context.Context,
	offset, limit int,
	filter domain.UserFilter,
) ([]*domain.User, int64, error) {
	return u.next.List(ctx, offset, limit, filter)
}

func (u *userUseCaseWithMetrics) UpdateProfile(
	ctx context.Context,
	id uuid.UUID,
	input *domain.UpdateProfileInput,
) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.UpdateProfile(ctx, id, input)
	metrics.Observe(ctx, u.metrics, "user", "update_profile", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) ChangePassword(
	ctx context.Context,
	id uuid.UUID,
	input *domain.ChangePasswordInput,
) error {
	start := time.Now()
	err := u.next.ChangePassword(ctx, id, input)
	metrics.Observe(ctx, u.metrics, "user", "change_password", start, err)
	return err
}

func (u *userUseCaseWithMetrics) AssignRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.AssignRole(ctx, id, roleName)
	metrics.Observe(ctx, u.metrics, "user", "assign_role", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) RemoveRole(ctx context.Context, id uuid.UUID, roleName string) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.RemoveRole(ctx, id, roleName)
	metrics.Observe(ctx, u.metrics, "user", "remove_role", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) Activate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Activate(ctx, id)
	metrics.Observe(ctx, u.metrics, "user", "activate", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) Deactivate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.Deactivate(ctx, id)
	metrics.Observe(ctx, u.metrics, "user", "deactivate", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) VerifyEmail(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := u.next.VerifyEmail(ctx, id)
	metrics.Observe(ctx, u.metrics, "user", "verify_email", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) Statistics(ctx context.Context) (*domain.Statistics, error) {
	return u.next.Statistics(ctx)
}

// roleUseCaseWithMetrics decorates RoleUseCase with metrics instrumentation.
type roleUseCaseWithMetrics struct {
	next    RoleUseCase
	metrics metrics.BusinessMetrics
}

// NewRoleUseCaseWithMetrics wraps a RoleUseCase with metrics recording.
func NewRoleUseCaseWithMetrics(useCase RoleUseCase, m metrics.BusinessMetrics) RoleUseCase {
	return &roleUseCaseWithMetrics{next: useCase, metrics: m}
}

func (r *roleUseCaseWithMetrics) Create(ctx context.Context, input *domain.CreateRoleInput) (*domain.Role, error) {
	start := time.Now()
	role, err := r.next.Create(ctx, input)
	metrics.Observe(ctx, r.metrics, "role", "create", start, err)
	return role, err
}

func (r *roleUseCaseWithMetrics) Update(
	ctx context.Context,
	id uuid.UUID,
	input *domain.UpdateRoleInput,
) (*domain.Role, error) {
	start := time.Now()
	role, err := r.next.Update(ctx, id, input)
	metrics.Observe(ctx, r.metrics, "role", "update", start, err)
	return role, err
}

func (r *roleUseCaseWithMetrics) Get(ctx context.Context, id uuid.UUID) (*domain.Role, error) {
	return r.next.Get(ctx, id)
}

func (r *roleUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*domain.Role, int64, error) {
	return r.next.List(ctx, offset, limit)
}
