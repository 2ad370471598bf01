package repository

import (
	"context"
	"sync"

	"github.com/nsda/portal/internal/model"
)

type userRecord struct {
	user         model.User
	passwordHash string
	profile      model.Profile
}

// UserRepository stores accounts and their profiles.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]*userRecord
	byEmail map[string]string
}

// NewUserRepository creates an empty UserRepository.
func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]*userRecord{}, byEmail: map[string]string{}}
}

// Create stores a new account and returns it with its assigned ID.
func (r *UserRepository) Create(_ context.Context, u model.User, passwordHash string) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u.Email = normalizeEmail(u.Email)
	if _, taken := r.byEmail[u.Email]; taken {
		return model.User{}, ErrDuplicateEmail
	}
	if u.ID == "" {
		u.ID = newID()
	}
	r.byID[u.ID] = &userRecord{user: u, passwordHash: passwordHash}
	r.byEmail[u.Email] = u.ID
	return u, nil
}

// GetByEmail returns the account and its password hash.
func (r *UserRepository) GetByEmail(_ context.Context, email string) (model.User, string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return model.User{}, "", ErrNotFound
	}
	rec := r.byID[id]
	return rec.user, rec.passwordHash, nil
}

// GetByID retrieves an account by ID.
func (r *UserRepository) GetByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return rec.user, nil
}

// ListByRole returns every account holding role.
func (r *UserRepository) ListByRole(_ context.Context, role model.Role) []model.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.User
	for _, rec := range r.byID {
		if rec.user.Role == role {
			out = append(out, rec.user)
		}
	}
	return out
}

// PasswordHash returns the stored hash for id.
func (r *UserRepository) PasswordHash(_ context.Context, id string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return "", ErrNotFound
	}
	return rec.passwordHash, nil
}

// UpdatePassword replaces the stored hash for id.
func (r *UserRepository) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	rec.passwordHash = passwordHash
	return nil
}

// GetProfile returns the profile of id, embedding the account.
func (r *UserRepository) GetProfile(_ context.Context, id string) (model.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return model.Profile{}, ErrNotFound
	}
	p := rec.profile
	p.User = rec.user
	return p, nil
}

// UpdateProfile replaces the profile fields of id.
func (r *UserRepository) UpdateProfile(_ context.Context, id string, req model.ProfileUpdateRequest) (model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return model.Profile{}, ErrNotFound
	}
	rec.profile = model.Profile{Phone: req.Phone, School: req.School, Address: req.Address, Bio: req.Bio}
	p := rec.profile
	p.User = rec.user
	return p, nil
}
