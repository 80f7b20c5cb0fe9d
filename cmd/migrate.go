package cmd

import (
	"fmt"

	"github.com/charles-oliveira/web-2/db"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateDownCmd(), migrateVersionCmd())
	return cmd
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(_ *cobra.Command, _ []string) error {
			dialect, url, err := dsn(cfg)
			if err != nil {
				return err
			}
			if err := db.RunMigrations(dialect, url); err != nil {
				return err
			}
			log.Info("migrations applied", logger.FieldOperation, logger.OpMigrate)
			return nil
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			dialect, url, err := dsn(cfg)
			if err != nil {
				return err
			}
			if err := db.RollbackMigrations(dialect, url, steps); err != nil {
				return err
			}
			log.Info("migrations reverted", logger.FieldOperation, logger.OpMigrate, "steps", steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialect, url, err := dsn(cfg)
			if err != nil {
				return err
			}
			version, dirty, err := db.MigrationVersion(dialect, url)
			if err != nil {
				return err
			}
			if dirty {
				fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", version)
			return nil
		},
	}
}
