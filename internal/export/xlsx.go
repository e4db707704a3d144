package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/xuri/excelize/v2"
)

const (
	SheetDashboard = "Dashboard"
	SheetCourses   = "MasterCourses"
	SheetMeetings  = "MasterMeetings"
	SheetIssues    = "ParseErrors"

	dashboardTitle    = "Course Timetable Dashboard"
	selectorFirstRow  = 5
	gridHeaderRow     = 12
	defaultTableStyle = "TableStyleMedium9"
)

var (
	courseHeader  = []interface{}{"CourseCode", "CourseTitle", "DisplayCourse", "Instructor", "OriginalRawString"}
	meetingHeader = []interface{}{"CourseCode", "CourseTitle", "DisplayCourse", "Instructor", "Day", "StartTime", "EndTime", "Venue"}
	issueHeader   = []interface{}{"Row", "Kind", "Course", "RawTime", "RawVenue", "Detail"}
)

// Workbook данные для книги Excel
type Workbook struct {
	Courses  []model.Course
	Meetings []model.Meeting
	Issues   []model.ParseIssue
	Selected []string // коды курсов в порядке выбора, не больше timetable.MaxSelections
	Layout   timetable.Layout
}

// BuildWorkbook собирает книгу: Dashboard с вычисленной сеткой, таблицы курсов и занятий,
// лист ParseErrors если были проблемы разбора
func BuildWorkbook(wb Workbook) (*excelize.File, error) {
	if wb.Layout.Step == 0 {
		wb.Layout = timetable.DefaultLayout()
	}

	grid, err := timetable.BuildGrid(wb.Layout, timetable.NewSelection(wb.Selected...), wb.Meetings)
	if err != nil {
		return nil, fmt.Errorf("build grid: %w", err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetDashboard); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	steps := []func(*excelize.File) error{
		func(f *excelize.File) error { return writeCourses(f, wb.Courses) },
		func(f *excelize.File) error { return writeMeetings(f, wb.Meetings) },
		func(f *excelize.File) error { return writeIssues(f, wb.Issues) },
		func(f *excelize.File) error { return writeDashboard(f, wb, grid) },
	}
	for _, step := range steps {
		if err := step(f); err != nil {
			f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook собирает книгу и пишет её в w
func WriteWorkbook(w io.Writer, wb Workbook) error {
	f, err := BuildWorkbook(wb)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SortedCourses копия курсов, отсортированная по DisplayCourse
func SortedCourses(courses []model.Course) []model.Course {
	sorted := make([]model.Course, len(courses))
	copy(sorted, courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Display < sorted[j].Display
	})
	return sorted
}

func writeCourses(f *excelize.File, courses []model.Course) error {
	rows := make([][]interface{}, 0, len(courses))
	for _, c := range SortedCourses(courses) {
		rows = append(rows, []interface{}{c.Code, c.Title, c.Display, c.Instructor, c.RawName})
	}
	return writeTable(f, SheetCourses, "tblCourses", courseHeader, rows)
}

func writeMeetings(f *excelize.File, meetings []model.Meeting) error {
	rows := make([][]interface{}, 0, len(meetings))
	for _, m := range meetings {
		rows = append(rows, []interface{}{m.CourseCode, m.CourseTitle, m.DisplayCourse, m.Instructor, string(m.Day), m.StartTime, m.EndTime, m.Venue})
	}
	return writeTable(f, SheetMeetings, "tblMeetings", meetingHeader, rows)
}

func writeIssues(f *excelize.File, issues []model.ParseIssue) error {
	if len(issues) == 0 {
		return nil
	}
	if _, err := f.NewSheet(SheetIssues); err != nil {
		return fmt.Errorf("create sheet %s: %w", SheetIssues, err)
	}
	if err := f.SetSheetRow(SheetIssues, "A1", &issueHeader); err != nil {
		return fmt.Errorf("write issues header: %w", err)
	}
	for i, is := range issues {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{is.Row, string(is.Kind), is.Course, is.RawTime, is.RawVenue, is.Detail}
		if err := f.SetSheetRow(SheetIssues, cell, &row); err != nil {
			return fmt.Errorf("write issue row: %w", err)
		}
	}
	return nil
}

// writeTable пишет заголовок и строки на новый лист и оформляет их как таблицу Excel
func writeTable(f *excelize.File, sheet, name string, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row: %w", sheet, err)
		}
	}

	// таблица Excel требует хотя бы одну строку данных
	if len(rows) == 0 {
		return nil
	}
	last, _ := excelize.CoordinatesToCellName(len(header), len(rows)+1)
	if err := f.AddTable(sheet, &excelize.Table{
		Range:     "A1:" + last,
		Name:      name,
		StyleName: defaultTableStyle,
	}); err != nil {
		return fmt.Errorf("add table %s: %w", name, err)
	}
	return nil
}

// dashboardStyles стили листа Dashboard
type dashboardStyles struct {
	title, label, header, slot, selector, cell, conflict int
	courses                                              []int
}

func newDashboardStyles(f *excelize.File) (dashboardStyles, error) {
	var (
		s   dashboardStyles
		err error
	)

	border := []excelize.Border{
		{Type: "left", Color: BorderColor, Style: 1},
		{Type: "right", Color: BorderColor, Style: 1},
		{Type: "top", Color: BorderColor, Style: 1},
		{Type: "bottom", Color: BorderColor, Style: 1},
	}
	gridAlign := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	fill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
	}

	styles := []struct {
		dst   *int
		style *excelize.Style
	}{
		{&s.title, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 20, Color: HeaderColor}}},
		{&s.label, &excelize.Style{Font: &excelize.Font{Bold: true}, Alignment: &excelize.Alignment{Horizontal: "right"}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      fill(HeaderColor),
			Alignment: &excelize.Alignment{Horizontal: "center"},
			Border:    border,
		}},
		{&s.slot, &excelize.Style{
			Font:      &excelize.Font{Size: 9},
			Fill:      fill(LabelColor),
			Alignment: &excelize.Alignment{Horizontal: "right"},
			Border:    border,
		}},
		{&s.selector, &excelize.Style{Fill: fill("E7E6E6"), Border: border}},
		{&s.cell, &excelize.Style{Alignment: gridAlign, Border: border}},
		{&s.conflict, &excelize.Style{Fill: fill(ConflictColor), Alignment: gridAlign, Border: border}},
	}
	for _, st := range styles {
		if *st.dst, err = f.NewStyle(st.style); err != nil {
			return s, fmt.Errorf("create style: %w", err)
		}
	}

	for _, color := range CoursePalette {
		id, err := f.NewStyle(&excelize.Style{Fill: fill(color), Alignment: gridAlign, Border: border})
		if err != nil {
			return s, fmt.Errorf("create course style: %w", err)
		}
		s.courses = append(s.courses, id)
	}

	return s, nil
}

// writeDashboard пишет селекторы и недельную сетку со статически вычисленными ячейками
func writeDashboard(f *excelize.File, wb Workbook, grid *timetable.Grid) error {
	styles, err := newDashboardStyles(f)
	if err != nil {
		return err
	}

	sheet := SheetDashboard
	set := func(col, row int, value interface{}, style int) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		if style != 0 {
			return f.SetCellStyle(sheet, cell, cell, style)
		}
		return nil
	}

	if err := set(1, 1, dashboardTitle, styles.title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}
	if err := set(2, selectorFirstRow, fmt.Sprintf("Selected Courses (Max %d):", timetable.MaxSelections), styles.label); err != nil {
		return fmt.Errorf("write selector label: %w", err)
	}

	byCode := make(map[string]model.Course, len(wb.Courses))
	for _, c := range wb.Courses {
		if _, ok := byCode[c.Code]; !ok {
			byCode[c.Code] = c
		}
	}

	for i := 0; i < timetable.MaxSelections; i++ {
		row := selectorFirstRow + i
		var display, instructor string
		if i < len(wb.Selected) {
			c, ok := byCode[wb.Selected[i]]
			if ok {
				display, instructor = c.Display, c.Instructor
			} else {
				display = wb.Selected[i]
			}
		}
		if err := set(3, row, display, styles.selector); err != nil {
			return fmt.Errorf("write selector: %w", err)
		}
		if instructor != "" {
			if err := set(4, row, "Instructor: "+instructor, 0); err != nil {
				return fmt.Errorf("write instructor: %w", err)
			}
		}
	}

	for i, day := range grid.Days {
		if err := set(2+i, gridHeaderRow, string(day), styles.header); err != nil {
			return fmt.Errorf("write day header: %w", err)
		}
	}

	colors := paletteIndex(wb.Selected)
	for r, gr := range grid.Rows {
		row := gridHeaderRow + 1 + r
		if err := set(1, row, gr.Label, styles.slot); err != nil {
			return fmt.Errorf("write slot label: %w", err)
		}
		for c, cell := range gr.Cells {
			style := styles.cell
			switch cell.Kind {
			case timetable.CellConflict:
				style = styles.conflict
			case timetable.CellSingle:
				if i, ok := colors[cell.CourseCode]; ok {
					style = styles.courses[i]
				}
			}
			if err := set(2+c, row, cell.Text(), style); err != nil {
				return fmt.Errorf("write grid cell: %w", err)
			}
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(1 + len(grid.Days))
	if err := f.SetColWidth(sheet, "A", "A", 10); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 25); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	showGrid := false
	if err := f.SetSheetView(sheet, 0, &excelize.ViewOptions{ShowGridLines: &showGrid}); err != nil {
		return fmt.Errorf("set sheet view: %w", err)
	}

	topLeft, _ := excelize.CoordinatesToCellName(2, gridHeaderRow+1)
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      gridHeaderRow,
		TopLeftCell: topLeft,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	return nil
}
