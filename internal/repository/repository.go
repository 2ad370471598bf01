// Package repository holds the development backend's data. Everything lives
// in memory and is lost on restart.
package repository

import (
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("record with this email already exists")
	ErrAlreadyMarked  = errors.New("attendance already marked for this date")
	ErrNotSubmitted   = errors.New("student has not submitted this task")
)

// Repositories bundles every repository of the backend.
type Repositories struct {
	Users         *UserRepository
	Tasks         *TaskRepository
	Announcements *AnnouncementRepository
	Resources     *ResourceRepository
	Attendance    *AttendanceRepository
	Students      *StudentRepository
}

// New creates empty repositories.
func New() *Repositories {
	return &Repositories{
		Users:         NewUserRepository(),
		Tasks:         NewTaskRepository(),
		Announcements: NewAnnouncementRepository(),
		Resources:     NewResourceRepository(),
		Attendance:    NewAttendanceRepository(),
		Students:      NewStudentRepository(),
	}
}

func newID() string {
	return uuid.New().String()
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ordered keeps insertion order so listings are stable; newest first.
type ordered[T any] struct {
	items map[string]*T
	seq   map[string]int
	next  int
}

func newOrdered[T any]() ordered[T] {
	return ordered[T]{items: map[string]*T{}, seq: map[string]int{}}
}

func (o *ordered[T]) put(id string, v *T) {
	if _, ok := o.items[id]; !ok {
		o.seq[id] = o.next
		o.next++
	}
	o.items[id] = v
}

func (o *ordered[T]) get(id string) (*T, bool) {
	v, ok := o.items[id]
	return v, ok
}

func (o *ordered[T]) remove(id string) bool {
	if _, ok := o.items[id]; !ok {
		return false
	}
	delete(o.items, id)
	delete(o.seq, id)
	return true
}

func (o *ordered[T]) newestFirst() []*T {
	ids := make([]string, 0, len(o.items))
	for id := range o.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return o.seq[ids[i]] > o.seq[ids[j]] })
	out := make([]*T, len(ids))
	for i, id := range ids {
		out[i] = o.items[id]
	}
	return out
}
