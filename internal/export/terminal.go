package export

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TerminalGrid параметры вывода сетки в терминал
type TerminalGrid struct {
	Grid      *timetable.Grid
	Selected  []string // коды курсов в порядке выбора, определяют цвета
	Compact   bool     // пропускать строки без занятий
	CellWidth int      // ширина колонки дня, 0 означает 24
}

var (
	terminalHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#" + HeaderColor)).Align(lipgloss.Center)
	terminalLabelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Align(lipgloss.Right)
	terminalConflictStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#9C0006")).Background(lipgloss.Color("#" + ConflictColor))
	terminalBorderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#" + BorderColor))
)

// RenderTerminalGrid рисует недельную сетку таблицей lipgloss.
// Цвета курсов берутся из той же палитры, что и в Excel.
func RenderTerminalGrid(tg TerminalGrid) string {
	width := tg.CellWidth
	if width <= 0 {
		width = 24
	}

	headers := []string{"Time"}
	for _, d := range tg.Grid.Days {
		headers = append(headers, string(d))
	}

	// kinds[r][c] тип ячейки для StyleFunc, колонка 0 это подпись слота
	var (
		rows  [][]string
		kinds [][]timetable.CellResult
	)
	for _, gr := range tg.Grid.Rows {
		if tg.Compact && rowEmpty(gr) {
			continue
		}
		row := []string{gr.Label}
		for _, cell := range gr.Cells {
			row = append(row, cell.Text())
		}
		rows = append(rows, row)
		kinds = append(kinds, gr.Cells)
	}

	colors := paletteIndex(tg.Selected)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(terminalBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col == 0 {
					return terminalHeaderStyle.Width(7)
				}
				return terminalHeaderStyle.Width(width)
			}
			if col == 0 {
				return terminalLabelStyle.Width(7)
			}
			base := lipgloss.NewStyle().Width(width).Padding(0, 1)
			if row < 0 || row >= len(kinds) || col-1 >= len(kinds[row]) {
				return base
			}
			cell := kinds[row][col-1]
			switch cell.Kind {
			case timetable.CellConflict:
				return terminalConflictStyle.Width(width).Padding(0, 1)
			case timetable.CellSingle:
				if i, ok := colors[cell.CourseCode]; ok {
					return base.Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#" + CoursePalette[i]))
				}
			}
			return base
		})

	return t.Render()
}

// ConflictSummary одна строка на пересечение: "Mon 09:30-10:00 CE612 @ L11 x CS101 @ L1"
func ConflictSummary(conflicts []timetable.Conflict) string {
	var sb strings.Builder
	for _, c := range conflicts {
		fmt.Fprintf(&sb, "%s %s-%s %s @ %s x %s @ %s\n",
			c.Day, c.Start, c.End,
			c.First.CourseCode, c.First.Venue,
			c.Second.CourseCode, c.Second.Venue,
		)
	}
	return sb.String()
}

func rowEmpty(gr timetable.GridRow) bool {
	for _, c := range gr.Cells {
		if c.Kind != timetable.CellEmpty {
			return false
		}
	}
	return true
}
