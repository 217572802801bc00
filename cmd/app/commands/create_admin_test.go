package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userDomain "github.com/allisson/authgate/internal/user/domain"
	userUseCase "github.com/allisson/authgate/internal/user/usecase"
)

type mockSeedUseCase struct {
	mock.Mock
}

func (m *mockSeedUseCase) Seed(ctx context.Context, admin userDomain.AdminSeed) (*userUseCase.SeedResult, error) {
	args := m.Called(ctx, admin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userUseCase.SeedResult), args.Error(1)
}

func TestRunCreateAdmin(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	seed := userDomain.AdminSeed{
		Username: "root",
		Email:    "root@example.com",
		Password: "Adm1n!Pass",
	}

	t.Run("created-text", func(t *testing.T) {
		mockUseCase := &mockSeedUseCase{}
		mockUseCase.On("Seed", ctx, seed).Return(&userUseCase.SeedResult{
			RolesCreated: []string{userDomain.RoleAdmin, userDomain.RolePatient},
			AdminCreated: true,
		}, nil)

		var out bytes.Buffer
		err := RunCreateAdmin(ctx, mockUseCase, logger, &out, " root ", "root@example.com", "Adm1n!Pass", "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), `Administrator "root" created.`)
		require.Contains(t, out.String(), userDomain.RoleAdmin)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("existing-json", func(t *testing.T) {
		mockUseCase := &mockSeedUseCase{}
		mockUseCase.On("Seed", ctx, seed).Return(&userUseCase.SeedResult{
			RolesCreated: []string{},
			AdminCreated: false,
		}, nil)

		var out bytes.Buffer
		err := RunCreateAdmin(ctx, mockUseCase, logger, &out, "root", "root@example.com", "Adm1n!Pass", "json")
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		require.Equal(t, false, result["admin_created"])
		require.Equal(t, "root", result["username"])
		mockUseCase.AssertExpectations(t)
	})

	t.Run("seed-error", func(t *testing.T) {
		mockUseCase := &mockSeedUseCase{}
		mockUseCase.On("Seed", ctx, seed).Return(nil, errors.New("database down"))

		err := RunCreateAdmin(ctx, mockUseCase, logger, &bytes.Buffer{}, "root", "root@example.com", "Adm1n!Pass", "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create admin")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("invalid-format", func(t *testing.T) {
		err := RunCreateAdmin(ctx, nil, logger, &bytes.Buffer{}, "root", "root@example.com", "Adm1n!Pass", "yaml")

		require.Error(t, err)
		require.Contains(t, err.Error(), "invalid format")
	})
}
