package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Freeeeeet/timetable_bot/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var errInvertedRange = echo.NewHTTPError(http.StatusBadRequest, "end must be after start")

// newHTTPErrorHandler переводит ошибки сервиса и валидации в JSON ответы
func newHTTPErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message interface{}

			bindErr *echo.BindingError
			httpErr *echo.HTTPError
			valErrs validator.ValidationErrors
		)

		switch {
		case errors.As(err, &bindErr):
			code = http.StatusBadRequest
			message = map[string]string{bindErr.Field: "has invalid value"}
		case errors.As(err, &httpErr):
			if httpErr.Internal != nil {
				var inner *echo.HTTPError
				if errors.As(httpErr.Internal, &inner) {
					httpErr = inner
				}
			}
			code = httpErr.Code
			message = httpErr.Message
		case errors.As(err, &valErrs):
			fldErrs := make(map[string]string, len(valErrs))
			for _, vErr := range valErrs {
				fldErrs[vErr.Field()] = validationMessage(vErr)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case errors.Is(err, service.ErrTooManySelections):
			code = http.StatusBadRequest
			message = err.Error()
		case errors.Is(err, service.ErrNoTimetable), errors.Is(err, service.ErrCourseNotFound):
			code = http.StatusNotFound
			message = err.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)
			logger.Error("Request failed",
				zap.String("method", ctx.Request().Method),
				zap.String("uri", ctx.Request().RequestURI),
				zap.Error(err),
			)
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}
		if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		} else if fields, ok := message.(map[string]string); ok {
			message = echo.Map{"error": "validation failed", "fields": fields}
		}

		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead {
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				logger.Error("Failed to write error response", zap.Error(err))
			}
		}
	}
}

// validationMessage короткое описание нарушенного правила
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hhmm":
		return "must be a time in HH:MM format"
	case "max":
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	default:
		return fmt.Sprintf("failed on %q", fe.Tag())
	}
}
