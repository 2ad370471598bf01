package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/nsda/portal/internal/apiclient"
	"github.com/nsda/portal/internal/model"
)

// ErrMissingToken is returned when a login succeeds without a credential.
var ErrMissingToken = errors.New("login response did not include an access token")

// SessionWriter is the part of the session store AuthService mutates.
type SessionWriter interface {
	Login(ctx context.Context, user *model.User, credential string) error
	Logout(ctx context.Context) error
}

// AuthService signs users in and out and manages their password.
type AuthService struct {
	api     Requester
	session SessionWriter
}

// NewAuthService creates a new AuthService.
func NewAuthService(api Requester, session SessionWriter) *AuthService {
	return &AuthService{api: api, session: session}
}

// Login exchanges credentials for a session and stores it. The caller picks
// the landing page from the returned user's role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	req := model.LoginRequest{Email: email, Password: password}
	if err := validate(req); err != nil {
		return nil, err
	}

	raw, err := s.api.Request(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return nil, err
	}
	resp, err := apiclient.UnwrapObject[model.LoginResponse](raw)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, ErrMissingToken
	}

	user := resp.User
	if err := s.session.Login(ctx, &user, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &user, nil
}

// Register creates an account. It does not sign the user in.
func (s *AuthService) Register(ctx context.Context, form model.SignupForm) error {
	if err := validate(form); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodPost, "/auth/register", form.Request())
	return err
}

// Logout clears the local session. The backend holds no session to revoke.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

// ChangePassword updates the signed-in user's password.
func (s *AuthService) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	_, err := s.api.Request(ctx, http.MethodPatch, "/auth/password", req)
	return err
}
