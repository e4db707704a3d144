package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/timetable_bot/internal/model"
	"github.com/Freeeeeet/timetable_bot/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SelectionRepository выбранные пользователями курсы
type SelectionRepository struct {
	*base.Repository
}

func NewSelectionRepository(pool *pgxpool.Pool) *SelectionRepository {
	return &SelectionRepository{Repository: base.NewRepository(pool)}
}

// List возвращает выбранные курсы пользователя в порядке выбора
func (r *SelectionRepository) List(ctx context.Context, userID int64) ([]model.Selection, error) {
	query := `
		SELECT user_id, course_code, position, created_at
		FROM user_selections
		WHERE user_id = $1
		ORDER BY position
	`

	rows, err := r.Pool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	defer rows.Close()

	var selections []model.Selection
	for rows.Next() {
		var s model.Selection
		if err := rows.Scan(&s.UserID, &s.CourseCode, &s.Position, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		selections = append(selections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selections: %w", err)
	}

	return selections, nil
}

// Add добавляет курс в конец выборки, если в ней меньше limit курсов.
// Возвращает false если курс уже выбран или выборка заполнена.
func (r *SelectionRepository) Add(ctx context.Context, userID int64, code string, limit int) (bool, error) {
	var added int64
	err := r.InTx(ctx, func(tx pgx.Tx) error {
		// параллельные добавления одного пользователя выполняются по очереди
		if _, err := tx.Exec(ctx, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO user_selections (user_id, course_code, position)
			SELECT $1, $2, COALESCE(MAX(position), 0) + 1
			FROM user_selections
			WHERE user_id = $1
			HAVING COUNT(*) < $3
			ON CONFLICT (user_id, course_code) DO NOTHING
		`, userID, code, limit)
		if err != nil {
			return err
		}
		added = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("add selection: %w", err)
	}
	return added > 0, nil
}

// Remove удаляет курс из выборки. Возвращает false если курса в выборке не было.
func (r *SelectionRepository) Remove(ctx context.Context, userID int64, code string) (bool, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM user_selections WHERE user_id = $1 AND course_code = $2`, userID, code)
	if err != nil {
		return false, fmt.Errorf("remove selection: %w", err)
	}
	return n > 0, nil
}

// Clear очищает выборку пользователя
func (r *SelectionRepository) Clear(ctx context.Context, userID int64) (int64, error) {
	n, err := r.ExecAffected(ctx, `DELETE FROM user_selections WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("clear selections: %w", err)
	}
	return n, nil
}
