package export

import (
	"bytes"
	"fmt"
	"image/color"
	"sort"
	"sync"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 220
	dayPaddingX      = 6
	minBlockHeight   = 8.0
	blockRadius      = 6.0
	shadowOffset     = 3.0
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	legendMaxTextLen = 28
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 24.0
	hourLabelFontSize  = 16.0
	blockTimeFontSize  = 14.0
	blockTextFontSize  = 12.0
	legendItemFontSize = 12.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{228, 228, 228, 255}

	blockTextColor     = color.RGBA{20, 24, 28, 230}
	blockShadowColor   = color.RGBA{0, 0, 0, 20}
	conflictBorder     = color.RGBA{200, 30, 45, 255}
	legendTextColor    = color.RGBA{90, 95, 100, 220}
	legendItemColor    = color.RGBA{70, 74, 78, 220}
	legendTitleDefault = "Курсы"
)

var fontData = map[FontStyle][]byte{
	FontStyleDefault: goregular.TTF,
	FontStyleMedium:  gomedium.TTF,
	FontStyleBold:    gobold.TTF,
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

// WeekImage параметры картинки недели
type WeekImage struct {
	Title    string
	Days     []model.Day // по умолчанию Пн-Пт
	Selected []string    // коды курсов в порядке выбора, определяют цвета
	Meetings []model.Meeting
}

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// block занятие, размещённое на картинке
type block struct {
	m          model.Meeting
	start, end model.Clock
	lane       int
	lanes      int
	conflict   bool
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style FontStyle) {
	data, ok := fontData[style]
	if !ok {
		data = goregular.TTF
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[style]
	if !ok {
		var err error
		parsed, err = opentype.Parse(data)
		if err != nil {
			fontsMu.Unlock()
			dc.SetFontFace(basicfont.Face7x13)
			return
		}
		cachedFonts[style] = parsed
	}
	fontsMu.Unlock()

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		dc.SetFontFace(basicfont.Face7x13)
		return
	}
	dc.SetFontFace(face)
}

// RenderWeekImage рисует недельное расписание выбранных курсов в PNG.
// Пересекающиеся занятия разных курсов делят колонку дня и обводятся красным.
func RenderWeekImage(w WeekImage) ([]byte, error) {
	days := w.Days
	if len(days) == 0 {
		days = model.Weekdays
	}
	selected := timetable.NewSelection(w.Selected...)
	if err := selected.Validate(); err != nil {
		return nil, err
	}

	blocksByDay := layoutBlocks(timetable.MeetingsFor(selected, w.Meetings))
	hours := calculateHourRange(blocksByDay)
	colors := paletteIndex(w.Selected)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / len(days)
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, w.Title)
	drawHourLabels(dc, hours, cellHeight)
	for i, day := range days {
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i)
		drawDayHeader(dc, day, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, b := range blocksByDay[day] {
			drawBlock(dc, b, colors, x, y, dayWidth, hours, cellHeight)
		}
	}
	drawLegend(dc, w, len(days)*dayWidth)

	return encodeImage(dc)
}

// layoutBlocks раскладывает занятия каждого дня по дорожкам так, чтобы пересекающиеся
// занятия не накладывались друг на друга
func layoutBlocks(meetings []model.Meeting) map[model.Day][]*block {
	byDay := make(map[model.Day][]*block)
	for _, m := range meetings {
		start, end, ok := m.Interval()
		if !ok {
			continue
		}
		byDay[m.Day] = append(byDay[m.Day], &block{m: m, start: start, end: end})
	}

	for _, blocks := range byDay {
		sort.SliceStable(blocks, func(i, j int) bool { return blocks[i].start < blocks[j].start })

		var laneEnds []model.Clock
		for _, b := range blocks {
			lane := -1
			for i, end := range laneEnds {
				if end <= b.start {
					lane = i
					break
				}
			}
			if lane < 0 {
				laneEnds = append(laneEnds, 0)
				lane = len(laneEnds) - 1
			}
			laneEnds[lane] = b.end
			b.lane = lane
		}

		for _, b := range blocks {
			b.lanes = len(laneEnds)
			for _, other := range blocks {
				if other != b && other.m.CourseCode != b.m.CourseCode &&
					model.Overlaps(b.start, b.end, other.start, other.end) {
					b.conflict = true
					break
				}
			}
		}
	}

	return byDay
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(blocksByDay map[model.Day][]*block) hourRange {
	layout := timetable.DefaultLayout()
	minHour := layout.First.Hour()
	maxHour := layout.Last.Add(layout.Step).Hour() + 1

	for _, blocks := range blocksByDay {
		for _, b := range blocks {
			endH := b.end.Hour()
			if b.end.Minute() > 0 {
				endH++
			}
			minHour = min(minHour, b.start.Hour())
			maxHour = max(maxHour, endH)
		}
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок
func drawHeader(dc *gg.Context, title string) {
	if title == "" {
		title = "Расписание"
	}
	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := model.NewClock(hours.start+hIdx, 0).String()
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует название дня недели
func drawDayHeader(dc *gg.Context, day model.Day, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(weekdayShort(day), x+float64(dayWidth)/2, y, 0.5, -0.4)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawBlock рисует одно занятие
func drawBlock(dc *gg.Context, b *block, colors map[string]int, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(b.start) / 60.0
	endHour := float64(b.end) / 60.0

	blockY := y + (startHour-float64(hours.start))*cellHeight
	blockHeight := max((endHour-startHour)*cellHeight, minBlockHeight)

	laneWidth := (float64(dayWidth) - float64(dayPaddingX*2)) / float64(b.lanes)
	blockX := x + float64(dayPaddingX) + float64(b.lane)*laneWidth
	blockWidth := laneWidth - 2

	fill := hexColor(CoursePalette[colors[b.m.CourseCode]], 255)

	// Тень
	dc.SetColor(blockShadowColor)
	dc.DrawRoundedRectangle(blockX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(blockX, blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	border := darkenColor(fill, 0.8)
	lineWidth := 1.0
	if b.conflict {
		border = conflictBorder
		lineWidth = 3
	}
	dc.SetColor(border)
	dc.SetLineWidth(lineWidth)
	dc.DrawRoundedRectangle(blockX, blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Stroke()

	loadFont(dc, blockTimeFontSize, FontStyleMedium)
	dc.SetColor(blockTextColor)
	txtX := blockX + 6
	txtY := blockY + 18
	dc.DrawStringAnchored(b.start.String()+"-"+b.end.String(), txtX, txtY, 0, 0)

	if blockHeight > 36 {
		loadFont(dc, blockTextFontSize, FontStyleDefault)
		dc.DrawStringAnchored(truncate(b.m.CourseCode, int(blockWidth/8)), txtX, txtY+15, 0, 0)
	}
	if blockHeight > 52 {
		dc.DrawStringAnchored(truncate(b.m.Venue, int(blockWidth/8)), txtX, txtY+30, 0, 0)
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawLegend рисует легенду справа: цвет и название каждого выбранного курса
func drawLegend(dc *gg.Context, w WeekImage, daysWidth int) {
	legendX := float64(leftLabelsWidth+daysWidth) + 12
	legendY := float64(headerHeight)

	loadFont(dc, legendItemFontSize, FontStyleBold)
	dc.SetColor(legendTextColor)
	dc.DrawStringAnchored(legendTitleDefault, legendX, legendY, 0, 0)

	names := make(map[string]string, len(w.Meetings))
	for _, m := range w.Meetings {
		if _, ok := names[m.CourseCode]; !ok {
			names[m.CourseCode] = m.DisplayCourse
		}
	}

	boxW, boxH := 20.0, 14.0
	liY := legendY + 16

	loadFont(dc, legendItemFontSize, FontStyleDefault)
	for i, code := range w.Selected {
		dc.SetColor(hexColor(CoursePalette[i%len(CoursePalette)], 255))
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		label := names[code]
		if label == "" {
			label = code
		}
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(truncate(label, legendMaxTextLen), legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// короткие дни недели
func weekdayShort(day model.Day) string {
	weekdays := map[model.Day]string{
		model.DayMon: "Пн",
		model.DayTue: "Вт",
		model.DayWed: "Ср",
		model.DayThu: "Чт",
		model.DayFri: "Пт",
		model.DaySat: "Сб",
	}
	return weekdays[day]
}
