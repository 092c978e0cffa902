package portal

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bnema/tronclass-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// dueSoonWindow is the horizon over which a deadline fades from grey to
// bright white.
const dueSoonWindow = 7 * 24 * time.Hour

type RenderOptions struct {
	Now time.Time
}

func RenderTodos(todos []domain.TodoItem, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return todosView(todos, opts, s) })
}

func RenderCourses(courses []domain.Course) (string, error) {
	return run(func(s styles) string { return coursesView(courses, s) })
}

func RenderRecent(courses []domain.VisitedCourse) (string, error) {
	return run(func(s styles) string { return recentView(courses, s) })
}

func RenderHomework(courseID int64, activities []domain.HomeworkActivity, opts RenderOptions) (string, error) {
	return run(func(s styles) string { return homeworkView(courseID, activities, opts, s) })
}

func todosView(todos []domain.TodoItem, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("To-do"),
		s.header.Render(fmt.Sprintf("items: %d", len(todos))),
	}
	if len(todos) == 0 {
		lines = append(lines, s.empty.Render("Nothing due."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	sorted := append([]domain.TodoItem(nil), todos...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return deadlineBefore(sorted[i].EndTime, sorted[j].EndTime)
	})

	for _, todo := range sorted {
		parts := []string{
			s.course.Render(courseTitle(todo.CourseName, todo.CourseCode)),
			lipgloss.JoinHorizontal(lipgloss.Top,
				s.item.Render(todo.Title),
				" ",
				s.detail.Render(typeLabel(todo.Type)),
			),
			deadlineLine(todo.EndTime, opts.Now, s),
		}
		if todo.IsLocked {
			parts = append(parts, s.warning.Render("[locked]"))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func coursesView(courses []domain.Course, s styles) string {
	lines := []string{
		s.title.Render("My courses"),
		s.header.Render(fmt.Sprintf("courses: %d", len(courses))),
	}
	if len(courses) == 0 {
		lines = append(lines, s.empty.Render("No courses."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, course := range courses {
		parts := []string{
			s.course.Render(courseTitle(course.Name, course.CourseCode)),
			s.detail.Render(fmt.Sprintf("id: %d", course.ID)),
		}
		if meta := courseMeta(course); meta != "" {
			parts = append(parts, s.code.Render(meta))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func recentView(courses []domain.VisitedCourse, s styles) string {
	lines := []string{
		s.title.Render("Recently visited"),
		s.header.Render(fmt.Sprintf("courses: %d", len(courses))),
	}
	if len(courses) == 0 {
		lines = append(lines, s.empty.Render("No recent courses."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, course := range courses {
		name := course.DisplayName
		if name == "" {
			name = course.Name
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			s.course.Render(courseTitle(name, course.CourseCode)),
			" ",
			s.detail.Render(fmt.Sprintf("id: %d", course.ID)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func homeworkView(courseID int64, activities []domain.HomeworkActivity, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Homework for course %d", courseID)),
		s.header.Render(fmt.Sprintf("activities: %d", len(activities))),
	}
	if len(activities) == 0 {
		lines = append(lines, s.empty.Render("No homework activities."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, activity := range activities {
		status := s.warning.Render("[not submitted]")
		if activity.SubmittedStatus != "" && activity.SubmittedStatus != "unsubmitted" {
			status = s.done.Render("[" + activity.SubmittedStatus + "]")
		}
		if !activity.Published {
			status = s.empty.Render("[unpublished]")
		}

		parts := []string{
			lipgloss.JoinHorizontal(lipgloss.Top, s.item.Render(activity.Title), " ", status),
			deadlineLine(activity.EndTime, opts.Now, s),
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func courseTitle(name string, code string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "(unnamed course)"
	}
	if code == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, code)
}

func courseMeta(course domain.Course) string {
	var parts []string
	if course.Department != nil && course.Department.Name != "" {
		parts = append(parts, course.Department.Name)
	}
	if len(course.Instructors) > 0 {
		names := make([]string, 0, len(course.Instructors))
		for _, instructor := range course.Instructors {
			names = append(names, instructor.Name)
		}
		parts = append(parts, strings.Join(names, ", "))
	}
	if course.AcademicYear != "" {
		term := course.AcademicYear
		if course.Semester != "" {
			term += "/" + course.Semester
		}
		parts = append(parts, term)
	}
	return strings.Join(parts, " · ")
}

func typeLabel(kind string) string {
	if kind == "" {
		return ""
	}
	return "[" + kind + "]"
}

func deadlineLine(raw string, now time.Time, s styles) string {
	if raw == "" {
		return s.detail.Render("no deadline")
	}

	deadline, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return s.detail.Render("due " + raw)
	}

	text := formatDue(deadline, now)
	if !now.IsZero() && deadline.Before(now) {
		return s.warning.Render(text)
	}
	return lipgloss.NewStyle().Foreground(dueColor(deadline, now)).Render(text)
}

func formatDue(deadline, now time.Time) string {
	local := deadline.Local()
	if now.IsZero() {
		return "due " + local.Format("15:04 on 02 Jan 2006")
	}
	if deadline.Before(now) {
		return "overdue since " + local.Format("15:04 on 02 Jan")
	}

	remaining := deadline.Sub(now)
	if remaining < 24*time.Hour {
		hours := int(math.Ceil(remaining.Hours()))
		if hours < 1 {
			hours = 1
		}
		suffix := "hours"
		if hours == 1 {
			suffix = "hour"
		}
		return fmt.Sprintf("due in %d %s (%s)", hours, suffix, local.Format("15:04"))
	}

	days := int(math.Ceil(remaining.Hours() / 24))
	suffix := "days"
	if days == 1 {
		suffix = "day"
	}
	return fmt.Sprintf("due in %d %s (%s)", days, suffix, local.Format("15:04 on 02 Jan"))
}

// deadlineBefore orders unparsable or empty deadlines last.
func deadlineBefore(a, b string) bool {
	ta, errA := time.Parse(time.RFC3339, a)
	tb, errB := time.Parse(time.RFC3339, b)
	switch {
	case errA != nil && errB != nil:
		return false
	case errA != nil:
		return false
	case errB != nil:
		return true
	default:
		return ta.Before(tb)
	}
}

func interpolateColor(value, min, max float64) lipgloss.Color {
	if max == min {
		return lipgloss.Color("255")
	}

	normalized := (value - min) / (max - min)
	if normalized < 0 {
		normalized = 0
	}
	if normalized > 1 {
		normalized = 1
	}

	// ANSI 256 greyscale ramp: 240 (faded) to 255 (bright white).
	baseColor := 240.0
	targetColor := 255.0
	colorCode := int(baseColor + (targetColor-baseColor)*normalized)

	return lipgloss.Color(fmt.Sprintf("%d", colorCode))
}

// dueColor brightens as the deadline approaches.
func dueColor(deadline, now time.Time) lipgloss.Color {
	if now.IsZero() {
		return lipgloss.Color("255")
	}

	inverted := dueSoonWindow.Seconds() - deadline.Sub(now).Seconds()
	return interpolateColor(inverted, 0, dueSoonWindow.Seconds())
}
