package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ImportRunRepository struct {
	*base.Repository
}

func NewImportRunRepository(pool *pgxpool.Pool) *ImportRunRepository {
	return &ImportRunRepository{Repository: base.NewRepository(pool)}
}

// Latest получает последний завершённый прогон импорта
func (r *ImportRunRepository) Latest(ctx context.Context) (*model.ImportRun, error) {
	query := `
		SELECT id, source, row_count, courses, meetings, issues, started_at, finished_at
		FROM import_runs
		WHERE finished_at IS NOT NULL
		ORDER BY finished_at DESC
		LIMIT 1
	`

	var run model.ImportRun
	err := r.Pool().QueryRow(ctx, query).Scan(
		&run.ID,
		&run.Source,
		&run.Rows,
		&run.Courses,
		&run.Meetings,
		&run.Issues,
		&run.StartedAt,
		&run.FinishedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Импорта ещё не было
		}
		return nil, fmt.Errorf("get latest import run: %w", err)
	}

	return &run, nil
}

// ListIssues получает диагностику разбора для прогона
func (r *ImportRunRepository) ListIssues(ctx context.Context, runID uuid.UUID) ([]model.ParseIssue, error) {
	query := `
		SELECT row_no, kind, course, raw_time, raw_venue, detail
		FROM parse_issues
		WHERE run_id = $1
		ORDER BY id
	`

	rows, err := r.Pool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list parse issues: %w", err)
	}
	defer rows.Close()

	var issues []model.ParseIssue
	for rows.Next() {
		var is model.ParseIssue
		if err := rows.Scan(&is.Row, &is.Kind, &is.Course, &is.RawTime, &is.RawVenue, &is.Detail); err != nil {
			return nil, fmt.Errorf("scan parse issue: %w", err)
		}
		issues = append(issues, is)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parse issues: %w", err)
	}

	return issues, nil
}

// DeleteOlderThan удаляет все прогоны, кроме keep последних
func (r *ImportRunRepository) DeleteOlderThan(ctx context.Context, keep int) (int64, error) {
	query := `
		DELETE FROM import_runs
		WHERE id NOT IN (
			SELECT id FROM import_runs ORDER BY started_at DESC LIMIT $1
		)
	`

	n, err := r.ExecAffected(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("delete old import runs: %w", err)
	}
	return n, nil
}
