package model

// PartialMeeting занятие до привязки к курсу
type PartialMeeting struct {
	Day   Day    `json:"day"`
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
	Venue string `json:"venue"`
}

// Meeting занятие курса в конкретный день, время и аудитории
type Meeting struct {
	CourseCode    string `json:"course_code" csv:"CourseCode"`
	CourseTitle   string `json:"course_title" csv:"CourseTitle"`
	DisplayCourse string `json:"display_course" csv:"DisplayCourse"`
	Instructor    string `json:"instructor" csv:"Instructor"`
	Day           Day    `json:"day" csv:"Day"`
	StartTime     string `json:"start_time" csv:"StartTime"`
	EndTime       string `json:"end_time" csv:"EndTime"`
	Venue         string `json:"venue" csv:"Venue"`
}

// MeetingKey полный кортеж для дедупликации занятий
type MeetingKey struct {
	CourseCode string
	Day        Day
	StartTime  string
	EndTime    string
	Venue      string
	Instructor string
}

// Key возвращает ключ дедупликации
func (m Meeting) Key() MeetingKey {
	return MeetingKey{
		CourseCode: m.CourseCode,
		Day:        m.Day,
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		Venue:      m.Venue,
		Instructor: m.Instructor,
	}
}

// Interval возвращает время начала и конца занятия.
// ok=false если строки времени не в формате HH:MM.
func (m Meeting) Interval() (start, end Clock, ok bool) {
	start, err := ParseClock(m.StartTime)
	if err != nil {
		return 0, 0, false
	}
	end, err = ParseClock(m.EndTime)
	if err != nil {
		return 0, 0, false
	}
	return start, end, true
}
