package main

import (
	"github.com/anonto42/cookbook/backend/internal/repositories"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and search indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		if err := repositories.Migrate(a.db.SQL); err != nil {
			return err
		}
		a.log.Info("Auto-migrations completed")

		_, err = a.searchIndex(cmd.Context())
		return err
	},
}
