package main

import (
	"context"
	"fmt"
	"os"

	"go-therapy-platform/cmd/bootstrap"
	"go-therapy-platform/internal/infrastructure/cache"
	"go-therapy-platform/internal/infrastructure/database"
	"go-therapy-platform/pkg/jwt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	// Running the binary without a subcommand starts the server.
	root := &cobra.Command{
		Use:          "therapy",
		Short:        "Therapist and patient platform API",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.AddCommand(serve, newMigrateCommand(), newCreateAdminCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Initialize application with all dependencies
			app, err := bootstrap.New()
			if err != nil {
				logrus.Errorf("Failed to initialize application: %v", err)
				return err
			}

			// Run the application
			app.Run()
			return nil
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Init()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := database.Migrate(app.DB, app.Config.DB.Driver); err != nil {
				return err
			}
			app.Log.Info("Migrations applied")
			return nil
		},
	}
}

func newCreateAdminCommand() *cobra.Command {
	var email, password, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.Init()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := database.Migrate(app.DB, app.Config.DB.Driver); err != nil {
				return err
			}

			// Admin creation issues no tokens, so an in-memory store is enough.
			uc := bootstrap.NewUsecases(bootstrap.Deps{
				Config:     app.Config,
				DB:         app.DB,
				TokenStore: cache.NewMemoryTokenStore(0),
				Log:        app.Log,
			}, jwt.NewJWTService(app.Config.JWT))

			admin, err := uc.Auth.CreateAdmin(context.Background(), email, password, name)
			if err != nil {
				return fmt.Errorf("failed to create admin: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Admin %s created (id %s)\n", admin.Email, admin.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	cmd.Flags().StringVar(&name, "name", "", "admin full name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
