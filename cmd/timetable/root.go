package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Freeeeeet/timetable_bot/internal/app"
	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "timetable",
	Short: "Convert and inspect course timetables",
	Long: `timetable parses course schedule files (CSV, XLSX, HTML) into normalized
course and meeting tables, renders weekly grids and exports them to Excel, CSV,
iCalendar and PNG.`,
	SilenceUsage: true,
}

var rootFlags struct {
	sheet            string
	courseColumn     string
	instructorColumn string
	workers          int
	verbose          bool
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.sheet, "sheet", "", "XLSX sheet to read (default: first sheet)")
	pf.StringVar(&rootFlags.courseColumn, "course-column", "Course Name/Group Name", "Header of the course name column")
	pf.StringVar(&rootFlags.instructorColumn, "instructor-column", "Instructor", "Header of the instructor column")
	pf.IntVar(&rootFlags.workers, "workers", 4, "Parallel workers for row normalization")
	pf.BoolVarP(&rootFlags.verbose, "verbose", "v", false, "Log import details and parse issues")
}

func newLogger() *zap.Logger {
	if !rootFlags.verbose {
		return zap.NewNop()
	}
	logger, err := app.NewLogger("development", "debug")
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func timetableOptions() timetable.Options {
	return timetable.Options{
		CourseColumn:     rootFlags.courseColumn,
		InstructorColumn: rootFlags.instructorColumn,
		Workers:          rootFlags.workers,
	}
}

// loaded расписание, импортированное из файла в память
type loaded struct {
	run     *model.ImportRun
	store   *service.MemoryStore
	service *service.TimetableService
}

// loadFile читает и нормализует файл расписания без базы данных
func loadFile(ctx context.Context, path string, logger *zap.Logger) (*loaded, error) {
	store := service.NewMemoryStore()
	svc := service.NewTimetableService(store, store, timetableOptions(), logger)
	run, err := importFile(ctx, svc, path)
	if err != nil {
		return nil, err
	}
	return &loaded{run: run, store: store, service: svc}, nil
}

// loadWithSpinner то же что loadFile, но со спиннером в терминале
func loadWithSpinner(ctx context.Context, path string, logger *zap.Logger) (*loaded, error) {
	var (
		l   *loaded
		err error
	)
	spinErr := spinner.New().
		Title(fmt.Sprintf("Parsing %s...", filepath.Base(path))).
		Action(func() {
			l, err = loadFile(ctx, path, logger)
		}).
		Run()
	if spinErr != nil {
		return nil, fmt.Errorf("run spinner: %w", spinErr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l, nil
}

// resolveCodes приводит коды к виду из таблицы курсов, порядок сохраняется
func resolveCodes(ctx context.Context, svc *service.TimetableService, codes []string) ([]string, error) {
	if err := timetable.NewSelection(codes...).Validate(); err != nil {
		return nil, err
	}
	resolved := make([]string, 0, len(codes))
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		c, err := svc.ResolveCourse(ctx, code)
		if err != nil {
			return nil, err
		}
		if seen[c.Code] {
			continue
		}
		seen[c.Code] = true
		resolved = append(resolved, c.Code)
	}
	return resolved, nil
}

func printSummary(run *model.ImportRun) {
	fmt.Printf("Parsed %d rows: %d courses, %d meetings, %d issues\n", run.Rows, run.Courses, run.Meetings, run.Issues)
}
