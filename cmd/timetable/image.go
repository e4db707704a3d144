package main

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/spf13/cobra"
)

var imageCmd = &cobra.Command{
	Use:   "image <source>",
	Short: "Render the week of selected courses to PNG",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		selected, _ := cmd.Flags().GetStringSlice("codes")
		title, _ := cmd.Flags().GetString("title")
		output, _ := cmd.Flags().GetString("output")

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

		data, err := export.RenderWeekImage(export.WeekImage{
			Title:    title,
			Selected: codes,
			Meetings: meetings,
		})
		if err != nil {
			return fmt.Errorf("failed to render image: %w", err)
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}

		fmt.Printf("Successfully rendered %d meetings to %s\n", len(meetings), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCmd)

	imageCmd.Flags().StringSliceP("codes", "c", nil, "Course codes to render (max 6)")
	imageCmd.Flags().String("title", "Timetable", "Image title")
	imageCmd.Flags().StringP("output", "o", "timetable.png", "Output file path")
	imageCmd.MarkFlagRequired("codes")
}
