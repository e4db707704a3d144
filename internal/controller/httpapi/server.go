package httpapi

import (
	"context"
	"net/http"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// QueryService запросы к текущему расписанию
type QueryService interface {
	SearchCourses(ctx context.Context, query string, limit int) ([]model.Course, error)
	Meetings(ctx context.Context, codes []string) ([]model.Meeting, error)
	Lookup(ctx context.Context, codes []string, day model.Day, start, end model.Clock) (timetable.CellResult, error)
	Grid(ctx context.Context, codes []string) (*timetable.Grid, error)
	Conflicts(ctx context.Context, codes []string) ([]timetable.Conflict, error)
	LatestRun(ctx context.Context) (*model.ImportRun, error)
	Issues(ctx context.Context) ([]model.ParseIssue, error)
}

type Options struct {
	Address        string
	DisableReqLogs bool
	Debug          bool
	Service        QueryService
	Logger         *zap.Logger
}

// Server JSON API над расписанием
type Server struct {
	opts *Options
	app  *echo.Echo
}

func NewServer(opts *Options) *Server {
	s := &Server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	s.app.HideBanner = true
	s.app.HidePort = true
	s.app.Debug = s.opts.Debug
	s.app.Validator = newRequestValidator()
	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.opts.Logger)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.opts.Logger))
	}
	s.app.Use(middleware.Recover())

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	registerTimetableAPI(v1, s.opts.Service)
}

// Start слушает Address и блокируется до Stop
func (s *Server) Start() error {
	s.opts.Logger.Info("Starting HTTP API", zap.String("address", s.opts.Address))
	if err := s.app.Start(s.opts.Address); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Course timetable API")
}

// requestLogger пишет каждый запрос в zap
func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("HTTP request", fields...)
			return nil
		},
	})
}
