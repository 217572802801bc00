package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	userDomain "github.com/allisson/authgate/internal/user/domain"
	userUseCase "github.com/allisson/authgate/internal/user/usecase"
)

// RunCreateAdmin seeds the default role catalog and an administrator account.
// Existing roles and an existing account with the same username are left untouched.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAdmin(
	ctx context.Context,
	seedUseCase userUseCase.SeedUseCase,
	logger *slog.Logger,
	writer io.Writer,
	username string,
	email string,
	password string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("seeding administrator", slog.String("username", username))

	result, err := seedUseCase.Seed(ctx, userDomain.AdminSeed{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	if format == "json" {
		return writeJSON(writer, map[string]any{
			"username":      username,
			"admin_created": result.AdminCreated,
			"roles_created": result.RolesCreated,
		})
	}

	if result.AdminCreated {
		_, _ = fmt.Fprintf(writer, "Administrator %q created.\n", username)
	} else {
		_, _ = fmt.Fprintf(writer, "Administrator %q already exists, nothing changed.\n", username)
	}
	if len(result.RolesCreated) > 0 {
		_, _ = fmt.Fprintf(writer, "Roles created: %s\n", strings.Join(result.RolesCreated, ", "))
	}
	return nil
}
