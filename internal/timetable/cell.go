package timetable

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

// PlaceholderVenue аудитория, если ни ячейка, ни колонка Venue её не задают
const PlaceholderVenue = "TBA"

var (
	timeRangeRe  = regexp.MustCompile(`(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})`)
	dayVenueRe   = regexp.MustCompile(`((?:Th|M|T|W|F|S)+)\s*\(([^)]+)\)`)
	parenGroupRe = regexp.MustCompile(`\([^)]*\)`)
)

// SegmentIssue проблема в одном сегменте ячейки
type SegmentIssue struct {
	Kind    model.IssueKind
	Segment string
	Detail  string
}

// CellParse результат разбора ячейки времени
type CellParse struct {
	Meetings []model.PartialMeeting
	Issues   []SegmentIssue
}

// span полуоткрытый диапазон байтов [start, end), уже поглощённый явной парой "дни (аудитория)"
type span struct {
	start, end int
}

// ParseCell разбирает ячейку вида "M (L11) W (L11) F (L11) 09:00-10:00"
// или "T (T206) 10:30-11:45 ,Th (T206) 12:00-13:15" в список занятий.
// defaultVenue используется для дней без явной аудитории.
func ParseCell(cell, defaultVenue string) []model.PartialMeeting {
	return ParseCellDetailed(cell, defaultVenue).Meetings
}

// ParseCellDetailed как ParseCell, но дополнительно возвращает пропущенные сегменты
func ParseCellDetailed(cell, defaultVenue string) CellParse {
	var res CellParse

	cell = strings.TrimSpace(cell)
	if cell == "" {
		return res
	}

	venue := strings.TrimSpace(defaultVenue)
	if venue == "" {
		venue = PlaceholderVenue
	}

	// Сегменты независимы: "T ... , Th ..." это два разных определения
	for _, segment := range strings.Split(cell, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		meetings, issue := parseSegment(segment, venue)
		if issue != nil {
			res.Issues = append(res.Issues, *issue)
			continue
		}
		res.Meetings = append(res.Meetings, meetings...)
	}

	return res
}

func parseSegment(segment, defaultVenue string) ([]model.PartialMeeting, *SegmentIssue) {
	m := timeRangeRe.FindStringSubmatch(segment)
	if m == nil {
		return nil, &SegmentIssue{Kind: model.IssueNoTimeRange, Segment: segment, Detail: "no HH:MM-HH:MM range"}
	}

	start, err := model.ParseClock(m[1])
	if err != nil {
		return nil, &SegmentIssue{Kind: model.IssueBadTime, Segment: segment, Detail: err.Error()}
	}
	end, err := model.ParseClock(m[2])
	if err != nil {
		return nil, &SegmentIssue{Kind: model.IssueBadTime, Segment: segment, Detail: err.Error()}
	}
	if start >= end {
		return nil, &SegmentIssue{
			Kind:    model.IssueInvertedRange,
			Segment: segment,
			Detail:  fmt.Sprintf("start %s is not before end %s", start, end),
		}
	}

	remainder := strings.TrimSpace(strings.ReplaceAll(segment, m[0], ""))

	var meetings []model.PartialMeeting
	add := func(days []model.Day, venue string) {
		for _, d := range days {
			meetings = append(meetings, model.PartialMeeting{
				Day:   d,
				Start: start.String(),
				End:   end.String(),
				Venue: venue,
			})
		}
	}

	// Первый проход: явные пары "ДНИ (АУДИТОРИЯ)"
	var consumed []span
	for _, loc := range dayVenueRe.FindAllStringSubmatchIndex(remainder, -1) {
		consumed = append(consumed, span{start: loc[0], end: loc[1]})
		add(ParseDayRun(remainder[loc[2]:loc[3]]), strings.TrimSpace(remainder[loc[4]:loc[5]]))
	}

	// Второй проход: дни без аудитории в непоглощённом тексте
	for _, piece := range unconsumed(remainder, consumed) {
		piece = parenGroupRe.ReplaceAllString(piece, " ")
		add(ParseDayRun(piece), defaultVenue)
	}

	if len(meetings) == 0 {
		return nil, &SegmentIssue{Kind: model.IssueNoDays, Segment: segment, Detail: "time range without day tokens"}
	}

	return meetings, nil
}

// unconsumed возвращает куски s вне отсортированных непересекающихся диапазонов consumed
func unconsumed(s string, consumed []span) []string {
	var pieces []string
	pos := 0
	for _, sp := range consumed {
		if sp.start > pos {
			pieces = append(pieces, s[pos:sp.start])
		}
		pos = sp.end
	}
	if pos < len(s) {
		pieces = append(pieces, s[pos:])
	}
	return pieces
}
