// Package cmd holds the command line entry points: the HTTP server,
// schema migrations and operator tools.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/charles-oliveira/web-2/config"
	"github.com/charles-oliveira/web-2/db"
	"github.com/charles-oliveira/web-2/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	envFile string

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:               "fin",
	Short:             "Personal finance ledger",
	Long:              `fin keeps income and expense transactions grouped into categories, per user, and reports totals for any period.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(usersCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(reportCmd())
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func initConfig(_ *cobra.Command, _ []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}

	l, err := logger.New(logger.Config{Level: c.Log.Level, Format: c.Log.Format, Output: os.Stderr})
	if err != nil {
		return err
	}
	logger.SetDefault(l)

	cfg, log = c, l
	return nil
}

// dsn turns the configured database URL into a driver DSN. A bare sqlite
// path gets the standard pragmas.
func dsn(c *config.Config) (db.Dialect, string, error) {
	dialect, err := db.ParseDialect(c.Database.Driver)
	if err != nil {
		return "", "", err
	}
	if dialect == db.SQLite && !strings.HasPrefix(c.Database.URL, "file:") {
		return dialect, db.SQLiteDSN(c.Database.URL), nil
	}
	return dialect, c.Database.URL, nil
}

// openStorage connects to the configured database.
func openStorage() (*db.Storage, error) {
	dialect, url, err := dsn(cfg)
	if err != nil {
		return nil, err
	}
	storage, err := db.NewStorage(dialect, url, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpenConns > 0 {
		storage.DB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	return storage, nil
}
