package model

// StudentStatus is the enrollment state shown in the admin roster.
type StudentStatus string

const (
	StudentActive      StudentStatus = "Active"
	StudentInactive    StudentStatus = "Inactive"
	StudentBlacklisted StudentStatus = "Blacklisted"
)

// Student is a roster entry managed by admins.
type Student struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Email  string        `json:"email"`
	Phone  string        `json:"phone,omitempty"`
	Track  string        `json:"track,omitempty"`
	Batch  string        `json:"batch,omitempty"`
	Mentor string        `json:"mentor,omitempty"`
	Status StudentStatus `json:"status"`
	Notes  string        `json:"notes,omitempty"`
}

// StudentRequest is the payload for creating or updating a roster entry.
type StudentRequest struct {
	Name   string        `json:"name" binding:"required,min=2,max=100"`
	Email  string        `json:"email" binding:"required,email,max=255"`
	Phone  string        `json:"phone" binding:"max=32"`
	Track  string        `json:"track" binding:"max=100"`
	Status StudentStatus `json:"status" binding:"omitempty,oneof=Active Inactive Blacklisted"`
	Notes  string        `json:"notes" binding:"max=2000"`
}

// AssignStudentRequest sets a student's track, batch and mentor.
type AssignStudentRequest struct {
	Track  string `json:"track" binding:"required,max=100"`
	Batch  string `json:"batch" binding:"max=100"`
	Mentor string `json:"mentor" binding:"max=100"`
}

// StudentStatusRequest is the payload for PATCH /students/:id/status.
type StudentStatusRequest struct {
	Status StudentStatus `json:"status" binding:"required,oneof=Active Inactive Blacklisted"`
}
