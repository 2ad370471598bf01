package model

// User is the identity returned by the backend on login and persisted by
// the session store.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  Role   `json:"role"`
	Track string `json:"track,omitempty"`
}

// Session is the client-held authentication state. A session is
// authenticated iff Credential is non-empty, and Credential is non-empty iff
// User is non-nil.
type Session struct {
	User       *User  `json:"user"`
	Credential string `json:"-"`
}

// Authenticated reports whether the session carries a credential.
func (s Session) Authenticated() bool {
	return s.Credential != ""
}

// Role returns the session user's role, or the empty role when anonymous.
func (s Session) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is the body returned by POST /auth/login.
type LoginResponse struct {
	User        User   `json:"user"`
	AccessToken string `json:"accessToken"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// SignupForm is the signup screen's input. The confirmation is checked
// locally and never sent.
type SignupForm struct {
	Name            string `json:"name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email,max=255"`
	Password        string `json:"password" binding:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirmPassword" binding:"eqfield=Password"`
}

// Request converts the form into the wire payload.
func (f SignupForm) Request() RegisterRequest {
	return RegisterRequest{Name: f.Name, Email: f.Email, Password: f.Password}
}

// ChangePasswordRequest is the payload for PATCH /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" binding:"required"`
	NewPassword        string `json:"newPassword" binding:"required,min=6,max=128"`
	ConfirmNewPassword string `json:"confirmNewPassword" binding:"eqfield=NewPassword"`
}

// Profile is the student's editable profile.
type Profile struct {
	User    User   `json:"user"`
	Phone   string `json:"phone"`
	School  string `json:"school"`
	Address string `json:"address"`
	Bio     string `json:"bio"`
}

// ProfileUpdateRequest carries only the fields owned by the profile record.
type ProfileUpdateRequest struct {
	Phone   string `json:"phone" binding:"max=32"`
	School  string `json:"school" binding:"max=200"`
	Address string `json:"address" binding:"max=300"`
	Bio     string `json:"bio" binding:"max=1000"`
}
