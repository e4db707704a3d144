package model

// IssueKind тип проблемы разбора
type IssueKind string

const (
	IssueInvalidCode   IssueKind = "invalid_code"   // строка отброшена целиком
	IssueNoTimeRange   IssueKind = "no_time_range"  // сегмент без HH:MM-HH:MM
	IssueNoDays        IssueKind = "no_days"        // время есть, дней нет
	IssueBadTime       IssueKind = "bad_time"       // часы > 23 или минуты > 59
	IssueInvertedRange IssueKind = "inverted_range" // начало >= конца
	IssueEmptyCell     IssueKind = "empty_cell"     // непустая ячейка не дала ни одного занятия
)

// ParseIssue запись диагностики разбора (аналог листа ParseErrors)
type ParseIssue struct {
	Row      int       `json:"row" csv:"Row"` // номер строки как в таблице (заголовок = 1)
	Kind     IssueKind `json:"kind" csv:"Kind"`
	Course   string    `json:"course" csv:"Course"`
	RawTime  string    `json:"raw_time" csv:"RawTime"`
	RawVenue string    `json:"raw_venue" csv:"RawVenue"`
	Detail   string    `json:"detail" csv:"Detail"`
}
