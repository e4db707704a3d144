package main

import (
	"fmt"
	"io"

	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var selectCmd = &cobra.Command{
	Use:   "select <source>",
	Short: "Pick courses interactively and print their weekly grid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		compact, _ := cmd.Flags().GetBool("compact")

		ctx := cmd.Context()
		logger := newLogger()
		defer logger.Sync()

		l, err := loadWithSpinner(ctx, args[0], logger)
		if err != nil {
			return err
		}
		courses, err := l.service.Courses(ctx)
		if err != nil {
			return err
		}
		if len(courses) == 0 {
			return fmt.Errorf("no courses found in %s", args[0])
		}

		options := make([]huh.Option[string], 0, len(courses))
		for _, c := range export.SortedCourses(courses) {
			label := c.Display
			if c.Instructor != "" {
				label += " (" + c.Instructor + ")"
			}
			options = append(options, huh.NewOption(label, c.Code))
		}

		var codes []string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title(fmt.Sprintf("Select up to %d courses", timetable.MaxSelections)).
					Description("Space = toggle, Enter = confirm. Start typing to filter.").
					Options(options...).
					Value(&codes).
					Limit(timetable.MaxSelections).
					Filterable(true).
					Height(15),
			),
		).WithTheme(huh.ThemeCharm())
		if err := form.Run(); err != nil {
			return err
		}
		if len(codes) == 0 {
			fmt.Println("No courses selected")
			return nil
		}

		if err := printGrid(cmd, l.service, codes, compact); err != nil {
			return err
		}
		if output == "" {
			return nil
		}

		meetings, err := l.store.ListMeetings(ctx)
		if err != nil {
			return err
		}
		issues, err := l.service.Issues(ctx)
		if err != nil {
			return err
		}
		err = writeFile(output, func(w io.Writer) error {
			return export.WriteWorkbook(w, export.Workbook{
				Courses:  courses,
				Meetings: meetings,
				Issues:   issues,
				Selected: codes,
			})
		})
		if err != nil {
			return err
		}
		fmt.Printf("Successfully wrote %s\n", output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)

	selectCmd.Flags().StringP("output", "o", "", "Also write an Excel workbook with the selection")
	selectCmd.Flags().Bool("compact", false, "Hide time slots without meetings")
}
