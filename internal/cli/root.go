// Package cli provides the sequent command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sequentlab/sequent/internal/config"
	"github.com/sequentlab/sequent/internal/db"
	"github.com/sequentlab/sequent/internal/logging"
	"github.com/sequentlab/sequent/internal/sequence"
)

var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "sequent",
	Short: "Validate and run automation sequences",
	Long: `Sequent manages automation sequences: ordered lists of action and
control-flow steps (IF/ELSEIF/ELSE, WHILE, TRY/CATCH) that are validated
for well-formed nesting before anything is executed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		appConfig = cfg

		logging.Setup(cfg.LogLevel, nil)
		sequence.Configure(cfg.MaxLabelLength, cfg.MaxIndentationLevel)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// openDatabase opens the configured event database, creating the schema on
// first use. It returns nil without error when no database is configured.
func openDatabase(ctx context.Context) (*db.DB, error) {
	if appConfig == nil || appConfig.DBPath == "" {
		return nil, nil
	}

	if dir := filepath.Dir(appConfig.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir %s: %w", dir, err)
		}
	}

	database, err := db.Open(appConfig.DBPath)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
