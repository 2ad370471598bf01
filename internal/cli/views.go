package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nsda/portal/internal/model"
	"github.com/nsda/portal/internal/view"
)

// loaded converts a view's load outcome into a command error.
func loaded(state view.State, msg string) error {
	switch state {
	case view.Ready:
		return nil
	case view.Error:
		return errors.New(msg)
	default:
		return fmt.Errorf("view still %s", state)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func taskStatus(t model.Task) model.TaskStatus {
	if t.Status != "" {
		return t.Status
	}
	if t.Submission != nil {
		return t.Submission.Status()
	}
	return model.TaskToDo
}

func printStudentTasks(w io.Writer, tasks []model.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		grade := "-"
		if t.Submission != nil && t.Submission.Status() == model.TaskGraded {
			grade = t.Submission.Grade
		}
		rows = append(rows, []string{t.ID, truncate(t.Title, 40), orDash(t.Deadline), string(taskStatus(t)), grade, strconv.Itoa(len(t.Resources))})
	}
	PrintTable(w, []string{"ID", "TITLE", "DEADLINE", "STATUS", "GRADE", "RESOURCES"}, rows)
}

func printAdminTasks(w io.Writer, tasks []model.Task) {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{t.ID, truncate(t.Title, 40), orDash(t.Deadline), strconv.Itoa(t.SubmissionCount), strconv.Itoa(t.PendingCount)})
	}
	PrintTable(w, []string{"ID", "TITLE", "DEADLINE", "SUBMISSIONS", "PENDING"}, rows)
}

func printSubmissions(w io.Writer, subs []model.Submission) {
	rows := make([][]string, 0, len(subs))
	for _, s := range subs {
		grade := "-"
		if s.Status() == model.TaskGraded {
			grade = s.Grade
		}
		rows = append(rows, []string{s.StudentID, orDash(s.StudentName), s.Link, string(s.Status()), grade, formatDate(s.SubmittedAt)})
	}
	PrintTable(w, []string{"STUDENT", "NAME", "LINK", "STATUS", "GRADE", "SUBMITTED"}, rows)
}

func printAnnouncements(w io.Writer, items []model.Announcement) {
	rows := make([][]string, 0, len(items))
	for _, a := range items {
		rows = append(rows, []string{a.ID, formatDate(a.CreatedAt), a.Category.Label(), truncate(a.Title, 30), truncate(a.Message, 50)})
	}
	PrintTable(w, []string{"ID", "DATE", "CATEGORY", "TITLE", "MESSAGE"}, rows)
}

func printResources(w io.Writer, items []model.Resource) {
	rows := make([][]string, 0, len(items))
	for _, r := range items {
		rows = append(rows, []string{r.ID, truncate(r.Name, 40), r.Category, r.Link})
	}
	PrintTable(w, []string{"ID", "NAME", "CATEGORY", "LINK"}, rows)
}

func printAttendance(w io.Writer, records []model.AttendanceRecord, withUser bool) {
	columns := []string{"DATE", "STATUS", "MARKED"}
	if withUser {
		columns = append([]string{"USER"}, columns...)
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := []string{r.Date, string(r.Status), formatDate(r.MarkedAt)}
		if withUser {
			row = append([]string{orDash(r.UserName)}, row...)
		}
		rows = append(rows, row)
	}
	PrintTable(w, columns, rows)
}

func printStudents(w io.Writer, students []model.Student) {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.ID, s.Name, s.Email, orDash(s.Track), orDash(s.Batch), orDash(s.Mentor), string(s.Status)})
	}
	PrintTable(w, []string{"ID", "NAME", "EMAIL", "TRACK", "BATCH", "MENTOR", "STATUS"}, rows)
}

func summaryFields(s *model.WeeklySummary) map[string]string {
	if s == nil {
		return map[string]string{"summary": "-"}
	}
	return map[string]string{
		"week":       orDash(s.WeekStart),
		"total":      strconv.Itoa(s.Total),
		"present":    strconv.Itoa(s.Present),
		"absent":     strconv.Itoa(s.Absent),
		"percentage": fmt.Sprintf("%.0f%%", s.Percentage),
	}
}
