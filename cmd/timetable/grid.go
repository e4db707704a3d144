package main

import (
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/spf13/cobra"
)

var gridCmd = &cobra.Command{
	Use:   "grid <source>",
	Short: "Print the weekly grid for selected courses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, _ := cmd.Flags().GetStringSlice("codes")
		compact, _ := cmd.Flags().GetBool("compact")

		ctx := cmd.Context()
		logger := newLogger()
		defer logger.Sync()

		l, err := loadFile(ctx, args[0], logger)
		if err != nil {
			return err
		}
		codes, err := resolveCodes(ctx, l.service, selected)
		if err != nil {
			return err
		}
		return printGrid(cmd, l.service, codes, compact)
	},
}

func printGrid(cmd *cobra.Command, svc *service.TimetableService, codes []string, compact bool) error {
	ctx := cmd.Context()

	grid, err := svc.Grid(ctx, codes)
	if err != nil {
		return err
	}
	conflicts, err := svc.Conflicts(ctx, codes)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, export.RenderTerminalGrid(export.TerminalGrid{
		Grid:     grid,
		Selected: codes,
		Compact:  compact,
	}))
	if len(conflicts) == 0 {
		fmt.Fprintln(out, "No conflicts")
		return nil
	}
	fmt.Fprintf(out, "%d conflicts:\n", len(conflicts))
	fmt.Fprint(out, export.ConflictSummary(conflicts))
	return nil
}

func init() {
	rootCmd.AddCommand(gridCmd)

	gridCmd.Flags().StringSliceP("codes", "c", nil, "Course codes to show (max 6)")
	gridCmd.Flags().Bool("compact", false, "Hide time slots without meetings")
	gridCmd.MarkFlagRequired("codes")
}
