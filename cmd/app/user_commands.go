package main

import (
	"context"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/allisson/authgate/cmd/app/commands"
	"github.com/allisson/authgate/internal/app"
	"github.com/allisson/authgate/internal/config"
)

func getUserCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-admin",
			Usage: "Create the default roles and an administrator account",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "username",
					Aliases: []string{"u"},
					Usage:   "Administrator username (defaults to ADMIN_USERNAME)",
				},
				&cli.StringFlag{
					Name:    "email",
					Aliases: []string{"e"},
					Usage:   "Administrator email (defaults to ADMIN_EMAIL)",
				},
				&cli.StringFlag{
					Name:    "password",
					Aliases: []string{"p"},
					Usage:   "Administrator password (defaults to ADMIN_PASSWORD)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				seedUseCase, err := container.SeedUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAdmin(
					ctx,
					seedUseCase,
					container.Logger(),
					os.Stdout,
					stringOr(cmd.String("username"), cfg.AdminUsername),
					stringOr(cmd.String("email"), cfg.AdminEmail),
					stringOr(cmd.String("password"), cfg.AdminPassword),
					cmd.String("format"),
				)
			},
		},
	}
}

func getTokenCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "inspect-token",
			Usage: "Verify a token with the configured secret and print its claims",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "token",
					Aliases:  []string{"t"},
					Required: true,
					Usage:    "Access or refresh token",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				codec, err := container.TokenCodec()
				if err != nil {
					return err
				}

				return commands.RunInspectToken(
					codec,
					os.Stdout,
					cmd.String("token"),
					cmd.String("format"),
					time.Now(),
				)
			},
		},
	}
}

func stringOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
