package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wedding/site/internal/config"
	"wedding/site/internal/model"
	"wedding/site/internal/repository"
	"wedding/site/internal/seed"
	"wedding/site/internal/service"
)

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			_, err = openDatabase(cfg.Database, logger, true)
			return err
		},
	}
}

// promoteCmd is the only way to hand out the admin role.
func promoteCmd(configPath *string) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Set the role of an existing profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDatabase(cfg.Database, logger, cfg.Database.AutoMigrate)
			if err != nil {
				return err
			}
			admin := service.NewAdminService(
				repository.NewProfileRepository(db),
				repository.NewRSVPRepository(db),
				repository.NewGiftRepository(db),
				cfg.RSVP.MaxGuests,
				logger,
			)

			profile, err := admin.SetRole(cmd.Context(), args[0], model.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", profile.Email, profile.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&role, "role", string(model.RoleAdmin), "Role to assign (guest, admin)")
	return cmd
}

func seedCmd(configPath *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load gifts and bridal crew from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			content, err := seed.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			db, err := openDatabase(cfg.Database, logger, cfg.Database.AutoMigrate)
			if err != nil {
				return err
			}
			res, err := seed.Apply(cmd.Context(), repository.NewGiftRepository(db), repository.NewCrewRepository(db), content)
			if err != nil {
				return err
			}
			logger.Info("seed applied",
				zap.Int("gifts_added", res.GiftsAdded),
				zap.Int("crew_added", res.CrewAdded),
				zap.Int("skipped", res.Skipped),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "content.yaml", "Seed file (YAML)")
	return cmd
}

func setup(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
