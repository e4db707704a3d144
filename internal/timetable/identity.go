package timetable

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/timetable_bot/internal/model"
)

// IdentityStrategy имя стратегии, которой извлечён код курса
type IdentityStrategy string

const (
	StrategyTrailingCode  IdentityStrategy = "trailing_code"   // "TITLE (CODE)"
	StrategyDigitGroup    IdentityStrategy = "digit_group"     // "(SCHEME)(CODE) TITLE"
	StrategyCodeDashTitle IdentityStrategy = "code_dash_title" // "CODE - TITLE"
	StrategyFallback      IdentityStrategy = "fallback"        // вся строка как код и название
)

const (
	maxTrailingCodeLen = 12
	minCodeLen         = 2
	maxCodeLen         = 12
)

var (
	trailingCodeRe  = regexp.MustCompile(`^(.*?)\s*\(([^)]+)\)$`)
	digitGroupRe    = regexp.MustCompile(`\(([A-Z0-9]*\d+[A-Z0-9]*)\)`)
	codeDashTitleRe = regexp.MustCompile(`^([A-Z0-9]{3,10})\s*-\s*(.*)`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	emptyParensRe   = regexp.MustCompile(`\(\s*\)`)
	codeCharsetRe   = regexp.MustCompile(`(?i)^[A-Z0-9\-.]+$`)
)

var (
	ErrCodeLength  = errors.New("course code length must be between 2 and 12")
	ErrCodeCharset = errors.New("course code contains characters outside [A-Z0-9-.]")
)

type identityStrategy struct {
	name  IdentityStrategy
	match func(raw string) (model.CourseIdentity, bool)
}

// identityStrategies пробуются по порядку, первая сработавшая побеждает
var identityStrategies = []identityStrategy{
	{name: StrategyTrailingCode, match: matchTrailingCode},
	{name: StrategyDigitGroup, match: matchDigitGroup},
	{name: StrategyCodeDashTitle, match: matchCodeDashTitle},
}

// ExtractIdentity извлекает код и название курса из сырой строки.
// Никогда не возвращает ошибку: нераспознанная строка уходит в fallback
// и отсеивается позже валидацией кода.
func ExtractIdentity(raw string) model.CourseIdentity {
	identity, _ := ExtractIdentityWithStrategy(raw)
	return identity
}

// ExtractIdentityWithStrategy как ExtractIdentity, но сообщает какая стратегия сработала
func ExtractIdentityWithStrategy(raw string) (model.CourseIdentity, IdentityStrategy) {
	raw = strings.TrimSpace(raw)

	for _, s := range identityStrategies {
		if identity, ok := s.match(raw); ok {
			return identity, s.name
		}
	}

	return model.CourseIdentity{Code: raw, Title: raw}, StrategyFallback
}

func matchTrailingCode(raw string) (model.CourseIdentity, bool) {
	m := trailingCodeRe.FindStringSubmatch(raw)
	if m == nil {
		return model.CourseIdentity{}, false
	}

	code := strings.TrimSpace(m[2])
	if utf8.RuneCountInString(code) > maxTrailingCodeLen {
		return model.CourseIdentity{}, false
	}

	return model.CourseIdentity{Code: code, Title: strings.TrimSpace(m[1])}, true
}

func matchDigitGroup(raw string) (model.CourseIdentity, bool) {
	m := digitGroupRe.FindStringSubmatch(raw)
	if m == nil {
		return model.CourseIdentity{}, false
	}

	title := strings.ReplaceAll(raw, m[0], " ")
	title = whitespaceRe.ReplaceAllString(title, " ")
	title = emptyParensRe.ReplaceAllString(title, "")
	title = strings.TrimSpace(whitespaceRe.ReplaceAllString(title, " "))

	return model.CourseIdentity{Code: strings.TrimSpace(m[1]), Title: title}, true
}

func matchCodeDashTitle(raw string) (model.CourseIdentity, bool) {
	m := codeDashTitleRe.FindStringSubmatch(raw)
	if m == nil {
		return model.CourseIdentity{}, false
	}
	return model.CourseIdentity{Code: strings.TrimSpace(m[1]), Title: strings.TrimSpace(m[2])}, true
}

// NormalizeCode убирает пробелы внутри кода ("CS 101" -> "CS101")
func NormalizeCode(code string) string {
	return strings.ReplaceAll(code, " ", "")
}

// ValidateCode проверяет уже нормализованный код курса
func ValidateCode(code string) error {
	n := utf8.RuneCountInString(code)
	if n < minCodeLen || n > maxCodeLen {
		return ErrCodeLength
	}
	if !codeCharsetRe.MatchString(code) {
		return ErrCodeCharset
	}
	return nil
}
