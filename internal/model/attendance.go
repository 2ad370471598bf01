package model

import "time"

// AttendanceStatus is the outcome recorded for a day.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

// DateLayout is the calendar date format used by attendance records.
const DateLayout = "2006-01-02"

// AttendanceRecord is one user's attendance for one day.
type AttendanceRecord struct {
	ID       string           `json:"id"`
	UserID   string           `json:"userId"`
	UserName string           `json:"userName,omitempty"`
	Date     string           `json:"date"`
	Status   AttendanceStatus `json:"status"`
	MarkedAt time.Time        `json:"markedAt"`
}

// WeeklySummary aggregates the current week's attendance for one user.
type WeeklySummary struct {
	WeekStart  string  `json:"weekStart"`
	Total      int     `json:"total"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Percentage float64 `json:"percentage"`
}
