package model

import (
	"time"

	"github.com/google/uuid"
)

// ImportRun один прогон импорта таблицы расписания
type ImportRun struct {
	ID         uuid.UUID  `json:"id"`
	Source     string     `json:"source"`
	Rows       int        `json:"rows"`
	Courses    int        `json:"courses"`
	Meetings   int        `json:"meetings"`
	Issues     int        `json:"issues"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"` // nil пока импорт не завершён
}
