package domain

type VisitedCourse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	CourseCode   string `json:"course_code"`
	DisplayName  string `json:"display_name,omitempty"`
	LastVisitAt  string `json:"last_visit_at,omitempty"`
	InstructorID int64  `json:"instructor_id,omitempty"`
}

type TodoItem struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	CourseID   int64  `json:"course_id"`
	CourseName string `json:"course_name"`
	CourseCode string `json:"course_code,omitempty"`
	EndTime    string `json:"end_time"`
	IsLocked   bool   `json:"is_locked,omitempty"`
}

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Instructor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Course struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	CourseCode   string       `json:"course_code"`
	Credit       string       `json:"credit,omitempty"`
	StartDate    string       `json:"start_date,omitempty"`
	EndDate      string       `json:"end_date,omitempty"`
	IsMute       bool         `json:"is_mute,omitempty"`
	Department   *Department  `json:"department,omitempty"`
	Instructors  []Instructor `json:"instructors,omitempty"`
	AcademicYear string       `json:"academic_year,omitempty"`
	Semester     string       `json:"semester,omitempty"`
}

type HomeworkActivity struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	StartTime       string `json:"start_time,omitempty"`
	EndTime         string `json:"end_time,omitempty"`
	Published       bool   `json:"published"`
	SubmittedStatus string `json:"submitted_status,omitempty"`
}
