package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/authgate/internal/auth/domain"
	authService "github.com/allisson/authgate/internal/auth/service"
	userDomain "github.com/allisson/authgate/internal/user/domain"

	apperrors "github.com/allisson/authgate/internal/errors"
)

// memoryStore is an in-memory PrincipalStore and RoleCatalog.
type memoryStore struct {
	mu    sync.Mutex
	users map[string]*userDomain.User
	roles map[string]*userDomain.Role
}

func newMemoryStore(roleNames ...string) *memoryStore {
	s := &memoryStore{
		users: make(map[string]*userDomain.User),
		roles: make(map[string]*userDomain.Role),
	}
	for _, name := range roleNames {
		s.roles[name] = &userDomain.Role{ID: uuid.Must(uuid.NewV7()), Name: name, IsActive: true}
	}
	return s
}

func (s *memoryStore) FindByUsernameOrEmail(_ context.Context, identifier string) (*userDomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == identifier || u.Email == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, userDomain.ErrUserNotFound
}

func (s *memoryStore) FindByUsername(_ context.Context, username string) (*userDomain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[username]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *memoryStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.users[username]
	return ok, nil
}

func (s *memoryStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryStore) Create(_ context.Context, user *userDomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *user
	s.users[user.Username] = &clone
	return nil
}

func (s *memoryStore) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			u.LastLoginAt = &at
		}
	}
	return nil
}

func (s *memoryStore) FindByName(_ context.Context, name string) (*userDomain.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.roles[name]
	if !ok {
		return nil, userDomain.ErrRoleNotFound
	}
	return r, nil
}

func (s *memoryStore) ExistsByName(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.roles[name]
	return ok, nil
}

func (s *memoryStore) setRoles(username string, roles ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[username].Roles = roles
}

type inlineTx struct{}

func (inlineTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newScenarioUseCase(t *testing.T, store *memoryStore) AuthUseCase {
	t.Helper()
	codec, err := authService.NewTokenCodec("scenario-secret-that-is-long-enough-for-hs512")
	require.NoError(t, err)
	return NewAuthUseCase(inlineTx{}, store, store, authService.NewPasswordService(), codec)
}

func TestAuthUseCase_EndToEndScenarios(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(userDomain.DefaultRoleNames...)
	uc := newScenarioUseCase(t, store)

	user, err := uc.Register(ctx, validRegisterInput())
	require.NoError(t, err)
	assert.Equal(t, []string{userDomain.RolePatient}, user.Roles)
	assert.True(t, user.IsActive)

	_, err = uc.Register(ctx, validRegisterInput())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	output, err := uc.Login(ctx, &authDomain.LoginInput{UsernameOrEmail: "alice", Password: "wrong"})
	assert.Nil(t, output)
	assert.ErrorIs(t, err, authDomain.ErrInvalidCredentials)

	output, err = uc.Login(ctx, &authDomain.LoginInput{UsernameOrEmail: "a@x.com", Password: "Secr3tPass"})
	require.NoError(t, err)
	require.NotNil(t, output.AccessToken)
	require.NotNil(t, output.RefreshToken)

	refreshed, err := uc.Refresh(ctx, output.RefreshToken.Value)
	require.NoError(t, err)
	resolved, err := uc.ResolvePrincipal(ctx, refreshed.AccessToken.Value)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)

	_, err = uc.Refresh(ctx, output.AccessToken.Value)
	assert.ErrorIs(t, err, authDomain.ErrTokenKindMismatch)

	_, err = uc.ResolvePrincipal(ctx, output.RefreshToken.Value)
	assert.ErrorIs(t, err, authDomain.ErrTokenKindMismatch)

	// Role revocation applies to the very next resolution of an existing token.
	store.setRoles("alice")
	resolved, err = uc.ResolvePrincipal(ctx, output.AccessToken.Value)
	require.NoError(t, err)
	sc := authDomain.NewSecurityContext(resolved)
	assert.Equal(t, authDomain.DecisionDenyForbidden, authDomain.RequiresRole(userDomain.RolePatient).Check(sc))
}

func TestAuthUseCase_SignUpCannotGrantAdmin(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore(userDomain.DefaultRoleNames...)
	uc := newScenarioUseCase(t, store)
	policy := authDomain.NewDefaultAccessPolicy()

	for _, userType := range []string{"ADMIN", "role_admin"} {
		input := validRegisterInput()
		input.Username = "mallory"
		input.Email = "mallory@x.com"
		input.UserType = userType

		user, err := uc.Register(ctx, input)

		assert.Nil(t, user, userType)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, userType)
	}

	exists, err := store.ExistsByUsername(ctx, "mallory")
	require.NoError(t, err)
	assert.False(t, exists)

	input := validRegisterInput()
	input.Username = "mallory"
	input.Email = "mallory@x.com"
	_, err = uc.Register(ctx, input)
	require.NoError(t, err)

	output, err := uc.Login(ctx, &authDomain.LoginInput{UsernameOrEmail: "mallory", Password: "Secr3tPass"})
	require.NoError(t, err)
	resolved, err := uc.ResolvePrincipal(ctx, output.AccessToken.Value)
	require.NoError(t, err)

	sc := authDomain.NewSecurityContext(resolved)
	assert.Equal(t, authDomain.DecisionDenyForbidden, policy.Evaluate("GET", "/api/admin/users", sc))
}
