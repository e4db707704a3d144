package main

import (
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/config"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <source>",
	Short: "Import a timetable file into the database",
	Long:  `Replace the courses, meetings and parse issues stored in Postgres (DB_DSN) with the contents of a timetable file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.RequireDB(); err != nil {
			return err
		}

		ctx := cmd.Context()
		logger := newLogger()
		defer logger.Sync()

		pool, err := openDB(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer pool.Close()

		svc := newDBService(pool, logger)

		var run *model.ImportRun
		spinErr := spinner.New().
			Title(fmt.Sprintf("Importing %s...", args[0])).
			Action(func() {
				run, err = importFile(ctx, svc, args[0])
			}).
			Run()
		if spinErr != nil {
			return fmt.Errorf("run spinner: %w", spinErr)
		}
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", args[0], err)
		}

		printSummary(run)
		fmt.Printf("Import run %s stored\n", run.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
