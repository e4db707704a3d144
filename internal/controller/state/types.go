package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Ожидаем текст запроса после /courses без аргументов
	StateSearchingCourses UserState = "searching_courses"
	// Ожидаем код курса после /add или /remove без аргументов
	StateAddingCourse   UserState = "adding_course"
	StateRemovingCourse UserState = "removing_course"
)

// Ключи временных данных диалога
const (
	DataLastQuery = "last_query" // последний поисковый запрос, для повторного показа после /add
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
