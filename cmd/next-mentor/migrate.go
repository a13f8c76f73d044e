package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Long: `Opens the configured database and applies the schema for chat sessions,
messages, mentor styles and the AI response approval queue.

Safe to run multiple times (idempotent).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := openDatabase(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", describeDatabase(cfg.Database.Driver, cfg.Database.Path, cfg.Database.DBName))
			return nil
		},
	}
}

func describeDatabase(driver, path, name string) string {
	if driver == "" || driver == "sqlite" {
		return "sqlite " + path
	}
	return driver + " " + name
}
