package model

import "fmt"

// CourseIdentity код и название курса, извлечённые из сырой строки
type CourseIdentity struct {
	Code  string `json:"code"`
	Title string `json:"title"`
}

// Display возвращает строку вида "CODE - TITLE"
func (ci CourseIdentity) Display() string {
	return DisplayCourse(ci.Code, ci.Title)
}

// DisplayCourse собирает отображаемое имя курса
func DisplayCourse(code, title string) string {
	return fmt.Sprintf("%s - %s", code, title)
}

// Course уникальный курс из источника (первое вхождение кода)
type Course struct {
	Code       string `json:"code" csv:"CourseCode"`
	Title      string `json:"title" csv:"CourseTitle"`
	Display    string `json:"display" csv:"DisplayCourse"`
	Instructor string `json:"instructor" csv:"Instructor"`
	RawName    string `json:"raw_name" csv:"OriginalRawString"`
}
