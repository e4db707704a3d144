package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	TelegramID   int64     `json:"telegram_id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	LanguageCode string    `json:"language_code"`
	CreatedAt    time.Time `json:"created_at"`
}

// Selection выбранный пользователем курс
type Selection struct {
	UserID     int64     `json:"user_id"`
	CourseCode string    `json:"course_code"`
	Position   int       `json:"position"` // порядок выбора, определяет цвет в сетке
	CreatedAt  time.Time `json:"created_at"`
}
