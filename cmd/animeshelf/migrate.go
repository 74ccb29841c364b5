package main

import (
	"github.com/spf13/cobra"

	"github.com/joestump/animeshelf/internal/config"
	"github.com/joestump/animeshelf/internal/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations for the SQL store backends",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := cfg.NewLogger()

			if !cfg.SQL() {
				log.WithField("backend", cfg.Store.Backend).Info("backend has no schema, nothing to migrate")
				return nil
			}

			database, err := db.New(cfg.Store.Backend, cfg.Store.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.Store.Backend); err != nil {
				return err
			}

			log.Info("migrations complete")
			return nil
		},
	}
}
