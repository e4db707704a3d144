package main

import (
	"fmt"
	"io"
	"time"

	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/spf13/cobra"
)

var icsCmd = &cobra.Command{
	Use:   "ics <source>",
	Short: "Export selected courses to an ICS file",
	Long:  `Export one weekly recurring event per meeting of the selected courses, starting from the semester start date.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, _ := cmd.Flags().GetStringSlice("codes")
		start, _ := cmd.Flags().GetString("start")
		weeks, _ := cmd.Flags().GetInt("weeks")
		tz, _ := cmd.Flags().GetString("timezone")
		output, _ := cmd.Flags().GetString("output")

		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("failed to load timezone %q: %w", tz, err)
		}
		semesterStart, err := time.ParseInLocation(time.DateOnly, start, loc)
		if err != nil {
			return fmt.Errorf("invalid --start, expected YYYY-MM-DD: %w", err)
		}

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
		meetings, err := l.service.Meetings(ctx, codes)
		if err != nil {
			return err
		}
		if len(meetings) == 0 {
			return fmt.Errorf("selected courses have no meetings")
		}

		err = writeFile(output, func(w io.Writer) error {
			return export.WriteICS(w, meetings, export.Calendar{
				Name:          "Timetable",
				SemesterStart: semesterStart,
				Weeks:         weeks,
				Location:      loc,
			})
		})
		if err != nil {
			return fmt.Errorf("failed to generate ICS: %w", err)
		}

		fmt.Printf("Successfully exported %d meetings to %s\n", len(meetings), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(icsCmd)

	icsCmd.Flags().StringSliceP("codes", "c", nil, "Course codes to export (max 6)")
	icsCmd.Flags().String("start", "", "Semester start date (YYYY-MM-DD)")
	icsCmd.Flags().Int("weeks", export.DefaultSemesterWeeks, "Number of weekly repetitions")
	icsCmd.Flags().String("timezone", "Asia/Kolkata", "Time zone of the timetable")
	icsCmd.Flags().StringP("output", "o", "schedule.ics", "Output file path")
	icsCmd.MarkFlagRequired("codes")
	icsCmd.MarkFlagRequired("start")
}
