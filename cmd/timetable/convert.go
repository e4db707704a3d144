package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/export"
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <source>",
	Short: "Convert a timetable file into an Excel workbook or CSV tables",
	Long: `Parse a timetable file and write the normalized tables.

xlsx: one workbook with MasterCourses, MasterMeetings, ParseErrors (when there
are issues) and a Dashboard sheet with the weekly grid for --select.
csv: a directory with courses.csv, meetings.csv and parse_errors.csv.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		format, _ := cmd.Flags().GetString("format")
		selected, _ := cmd.Flags().GetStringSlice("select")

		if format == "" {
			format = "xlsx"
			if ext := strings.ToLower(filepath.Ext(output)); ext != ".xlsx" {
				format = "csv"
			}
		}

		ctx := cmd.Context()
		logger := newLogger()
		defer logger.Sync()

		l, err := loadWithSpinner(ctx, args[0], logger)
		if err != nil {
			return err
		}

		courses, err := l.store.ListCourses(ctx)
		if err != nil {
			return err
		}
		meetings, err := l.store.ListMeetings(ctx)
		if err != nil {
			return err
		}
		issues, err := l.service.Issues(ctx)
		if err != nil {
			return err
		}

		switch format {
		case "xlsx":
			codes, err := resolveCodes(ctx, l.service, selected)
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
		case "csv":
			if err := os.MkdirAll(output, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			files := []struct {
				name  string
				write func(io.Writer) error
				skip  bool
			}{
				{"courses.csv", func(w io.Writer) error { return export.WriteCoursesCSV(w, courses) }, false},
				{"meetings.csv", func(w io.Writer) error { return export.WriteMeetingsCSV(w, meetings) }, false},
				{"parse_errors.csv", func(w io.Writer) error { return export.WriteIssuesCSV(w, issues) }, len(issues) == 0},
			}
			for _, f := range files {
				if f.skip {
					continue
				}
				if err := writeFile(filepath.Join(output, f.name), f.write); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("unknown format %q, expected xlsx or csv", format)
		}

		printSummary(l.run)
		fmt.Printf("Successfully wrote %s\n", output)
		return nil
	},
}

// writeFile создаёт файл и пишет в него; при ошибке записи файл удаляется
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringP("output", "o", "timetable.xlsx", "Output workbook (.xlsx) or directory for CSV files")
	convertCmd.Flags().StringP("format", "f", "", "Output format: xlsx or csv (default: by output extension)")
	convertCmd.Flags().StringSliceP("select", "s", nil, "Course codes shown on the Dashboard grid (max 6)")
}
