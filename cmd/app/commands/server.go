package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/allisson/authgate/internal/app"
	"github.com/allisson/authgate/internal/config"
	apphttp "github.com/allisson/authgate/internal/http"
	userDomain "github.com/allisson/authgate/internal/user/domain"
)

// RunServer starts the API server, and the metrics server when metrics are enabled.
// Default roles and the default admin are seeded first when SeedOnStartup is set.
// Blocks until SIGINT/SIGTERM or until one server fails, then shuts both down within
// DBConnMaxLifetime.
func RunServer(ctx context.Context, version string) error {
	cfg := config.Load()

	gin.SetMode(cfg.GetGinMode())

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("starting server", slog.String("version", version))

	defer closeContainer(container, logger)

	if cfg.SeedOnStartup {
		if err := seedDefaults(ctx, container, cfg); err != nil {
			return err
		}
	}

	server, err := container.HTTPServer()
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	var metricsServer *apphttp.MetricsServer
	if cfg.MetricsEnabled {
		metricsServer, err = container.MetricsServer()
		if err != nil {
			return fmt.Errorf("failed to initialize metrics server: %w", err)
		}
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Start(groupCtx); err != nil {
			return fmt.Errorf("api server error: %w", err)
		}
		return nil
	})

	if metricsServer != nil {
		group.Go(func() error {
			if err := metricsServer.Start(groupCtx); err != nil {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
	}

	// Shutdown runs on signal or on the first server failure, which cancels groupCtx.
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutdown initiated")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.DBConnMaxLifetime)
		defer shutdownCancel()

		var shutdownErrors []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("api server shutdown: %w", err))
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
			}
		}
		return errors.Join(shutdownErrors...)
	})

	return group.Wait()
}

// seedDefaults provisions the role catalog and the configured administrator.
func seedDefaults(ctx context.Context, container *app.Container, cfg *config.Config) error {
	seedUseCase, err := container.SeedUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize seed use case: %w", err)
	}

	result, err := seedUseCase.Seed(ctx, userDomain.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to seed default data: %w", err)
	}

	container.Logger().Info("seed completed",
		slog.Any("roles_created", result.RolesCreated),
		slog.Bool("admin_created", result.AdminCreated),
	)
	return nil
}
