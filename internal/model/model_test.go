package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Satisfies(t *testing.T) {
	tests := []struct {
		held     Role
		required Role
		want     bool
	}{
		{RoleStudent, "", true},
		{"", "", true},
		{RoleStudent, RoleStudent, true},
		{RoleStudent, RoleAdmin, false},
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleStudent, false},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleSuperAdmin, true},
		{RoleSuperAdmin, RoleStudent, false},
		{RoleAdmin, RoleSuperAdmin, false},
		{"mentor", "mentor", true},
		{"mentor", RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.held)+"->"+string(tt.required), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.held.Satisfies(tt.required))
		})
	}
}

func TestRole_IsAdmin(t *testing.T) {
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleStudent.IsAdmin())
}

func TestSession_Authenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.Equal(t, Role(""), Session{}.Role())

	s := Session{User: &User{ID: "1", Role: RoleAdmin}, Credential: "tok"}
	assert.True(t, s.Authenticated())
	assert.Equal(t, RoleAdmin, s.Role())
}

func TestSubmission_Status(t *testing.T) {
	assert.Equal(t, TaskToDo, Submission{Grade: GradeNotSubmitted}.Status())
	assert.Equal(t, TaskSubmitted, Submission{Grade: GradePending}.Status())
	assert.Equal(t, TaskSubmitted, Submission{}.Status())
	assert.Equal(t, TaskGraded, Submission{Grade: "A-"}.Status())
}

func TestTaskResource_IsReadBy(t *testing.T) {
	r := TaskResource{ReadBy: []string{"s1", "s2"}}
	assert.True(t, r.IsReadBy("s2"))
	assert.False(t, r.IsReadBy("s3"))
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryUrgent, NormalizeCategory("URGENT"))
	assert.Equal(t, CategoryInfo, NormalizeCategory("info"))
	assert.Equal(t, CategoryNormal, NormalizeCategory(""))
	assert.Equal(t, CategoryNormal, NormalizeCategory("celebration"))
	assert.Equal(t, "WARNING", CategoryWarning.Label())
	assert.Equal(t, "NORMAL", AnnouncementCategory("odd").Label())
}

func TestSignupForm_Request(t *testing.T) {
	f := SignupForm{Name: "Ada", Email: "ada@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	assert.Equal(t, RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}, f.Request())
}
