package httpapi

import (
	"net/http"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/timetable"
	"github.com/labstack/echo/v4"
)

type timetableAPI struct {
	svc QueryService
}

func registerTimetableAPI(g *echo.Group, svc QueryService) {
	api := timetableAPI{svc: svc}

	g.GET("/courses", api.courses)
	g.GET("/meetings", api.meetings)
	g.GET("/lookup", api.lookup)
	g.GET("/grid", api.grid)
	g.GET("/conflicts", api.conflicts)
	g.GET("/issues", api.issues)
}

func (api timetableAPI) courses(ctx echo.Context) error {
	var q coursesQuery
	if err := echo.QueryParamsBinder(ctx).
		String("q", &q.Q).
		Int("limit", &q.Limit).
		BindError(); err != nil {
		return err
	}
	if err := ctx.Validate(&q); err != nil {
		return err
	}

	courses, err := api.svc.SearchCourses(ctx.Request().Context(), q.Q, q.Limit)
	if err != nil {
		return err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": len(courses), "courses": courses})
}

func (api timetableAPI) meetings(ctx echo.Context) error {
	q, err := bindCodesQuery(ctx)
	if err != nil {
		return err
	}

	meetings, err := api.svc.Meetings(ctx.Request().Context(), q.Codes)
	if err != nil {
		return err
	}
	if meetings == nil {
		meetings = []model.Meeting{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": len(meetings), "meetings": meetings})
}

type lookupResponse struct {
	timetable.CellResult
	Text string `json:"text"`
}

func (api timetableAPI) lookup(ctx echo.Context) error {
	q := lookupQuery{codesQuery: codesQuery{Codes: bindCodes(ctx)}}
	if err := echo.QueryParamsBinder(ctx).
		String("day", &q.Day).
		String("start", &q.Start).
		String("end", &q.End).
		BindError(); err != nil {
		return err
	}
	if err := ctx.Validate(&q); err != nil {
		return err
	}

	start, err := model.ParseClock(q.Start)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	end, err := model.ParseClock(q.End)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if end <= start {
		return errInvertedRange
	}

	cell, err := api.svc.Lookup(ctx.Request().Context(), q.Codes, model.Day(q.Day), start, end)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, lookupResponse{CellResult: cell, Text: cell.Text()})
}

func (api timetableAPI) grid(ctx echo.Context) error {
	q, err := bindCodesQuery(ctx)
	if err != nil {
		return err
	}

	grid, err := api.svc.Grid(ctx.Request().Context(), q.Codes)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, grid)
}

func (api timetableAPI) conflicts(ctx echo.Context) error {
	q, err := bindCodesQuery(ctx)
	if err != nil {
		return err
	}

	conflicts, err := api.svc.Conflicts(ctx.Request().Context(), q.Codes)
	if err != nil {
		return err
	}
	if conflicts == nil {
		conflicts = []timetable.Conflict{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"count": len(conflicts), "conflicts": conflicts})
}

func (api timetableAPI) issues(ctx echo.Context) error {
	run, err := api.svc.LatestRun(ctx.Request().Context())
	if err != nil {
		return err
	}
	issues, err := api.svc.Issues(ctx.Request().Context())
	if err != nil {
		return err
	}
	if issues == nil {
		issues = []model.ParseIssue{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"run": run, "count": len(issues), "issues": issues})
}

func bindCodesQuery(ctx echo.Context) (codesQuery, error) {
	q := codesQuery{Codes: bindCodes(ctx)}
	if err := ctx.Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}
