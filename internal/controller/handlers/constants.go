package handlers

const (
	// Курсов на одной странице результатов поиска
	CoursesPerPage = 8

	// Максимальная длина поискового запроса
	MaxQueryLength = 100

	// Пересечений в одном сообщении /conflicts, остальные сокращаются до счётчика
	MaxConflictsShown = 20
)

// Префиксы callback data
const (
	CallbackAddCourse    = "add:"          // add:CE612
	CallbackRemoveCourse = "remove:"       // remove:CE612
	CallbackCoursesPage  = "courses_page:" // courses_page:2
	CallbackClear        = "clear"
	CallbackClearConfirm = "clear_confirm"
	CallbackCancel       = "cancel"
)
