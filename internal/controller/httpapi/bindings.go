package httpapi

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var hhmmRe = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// requestValidator подключает validator/v10 к echo.Context.Validate
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hhmmRe.MatchString(fl.Field().String())
	})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("query"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return &requestValidator{v: v}
}

func (rv *requestValidator) Validate(i interface{}) error {
	return rv.v.Struct(i)
}

type coursesQuery struct {
	Q     string `query:"q" validate:"max=100"`
	Limit int    `query:"limit" validate:"min=0,max=500"`
}

type codesQuery struct {
	Codes []string `query:"codes" validate:"required,min=1,max=6,dive,required,max=20"`
}

type lookupQuery struct {
	codesQuery
	Day   string `query:"day" validate:"required,oneof=Mon Tue Wed Thu Fri Sat"`
	Start string `query:"start" validate:"required,hhmm"`
	End   string `query:"end" validate:"required,hhmm"`
}

// bindCodes читает codes из повторяющихся параметров и списков через запятую:
// ?codes=CE612,CS101&codes=MA201. Повторы без учёта регистра отбрасываются.
func bindCodes(ctx echo.Context) []string {
	var codes []string
	seen := make(map[string]bool)
	for _, raw := range ctx.QueryParams()["codes"] {
		for _, code := range strings.Split(raw, ",") {
			code = timetable.NormalizeCode(strings.TrimSpace(code))
			key := strings.ToUpper(code)
			if code == "" || seen[key] {
				continue
			}
			seen[key] = true
			codes = append(codes, code)
		}
	}
	return codes
}
