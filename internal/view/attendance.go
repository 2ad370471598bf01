package view

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nsda/portal/internal/model"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyMarked is returned by Mark when today's attendance is recorded.
var ErrAlreadyMarked = errors.New("attendance already marked for today")

// AttendanceAPI is what the attendance board needs from the backend.
type AttendanceAPI interface {
	History(ctx context.Context) ([]model.AttendanceRecord, error)
	WeeklySummary(ctx context.Context) (*model.WeeklySummary, error)
	Mark(ctx context.Context) (*model.AttendanceRecord, error)
	AdminAll(ctx context.Context) ([]model.AttendanceRecord, error)
}

// AttendanceSnapshot is a point-in-time copy of the board.
type AttendanceSnapshot struct {
	State   State
	Err     string
	History []model.AttendanceRecord
	Summary *model.WeeklySummary
	All     []model.AttendanceRecord
}

// AttendanceBoard shows the signed-in user's history and weekly summary and,
// for admins, everyone's records. The collections load concurrently and the
// board is Ready only when all of them arrive.
type AttendanceBoard struct {
	api   AttendanceAPI
	admin bool
	log   zerolog.Logger

	mu       sync.Mutex
	state    State
	err      string
	history  []model.AttendanceRecord
	summary  *model.WeeklySummary
	all      []model.AttendanceRecord
	gen      uint64
	disposed bool
}

// NewAttendanceBoard creates a board. admin adds the all-records collection.
func NewAttendanceBoard(api AttendanceAPI, admin bool, log zerolog.Logger) *AttendanceBoard {
	return &AttendanceBoard{
		api:   api,
		admin: admin,
		log:   log.With().Str("view", "attendance_board").Logger(),
		state: Loading,
	}
}

// Mount loads every collection. It reports whether the result was applied.
func (b *AttendanceBoard) Mount(ctx context.Context) bool {
	b.mu.Lock()
	if b.disposed {
		b.mu.Unlock()
		return false
	}
	b.gen++
	gen := b.gen
	b.state = Loading
	b.err = ""
	b.mu.Unlock()

	var (
		history []model.AttendanceRecord
		summary *model.WeeklySummary
		all     []model.AttendanceRecord
	)
	// A failed fetch leaves its siblings running.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		history, err = b.api.History(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary, err = b.api.WeeklySummary(ctx)
		return err
	})
	if b.admin {
		g.Go(func() error {
			var err error
			all, err = b.api.AdminAll(ctx)
			return err
		})
	}
	err := g.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed || gen != b.gen {
		return false
	}
	if err != nil {
		b.state = Error
		b.err = err.Error()
		b.log.Warn().Err(err).Msg("Load failed")
		return true
	}
	b.state = Ready
	b.history = nonNil(history)
	b.summary = summary
	b.all = nonNil(all)
	return true
}

// Dispose drops every later result.
func (b *AttendanceBoard) Dispose() {
	b.mu.Lock()
	b.disposed = true
	b.mu.Unlock()
}

func (b *AttendanceBoard) Snapshot() AttendanceSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	snap := AttendanceSnapshot{
		State:   b.state,
		Err:     b.err,
		History: clone(b.history),
		All:     clone(b.all),
	}
	if b.summary != nil {
		s := *b.summary
		snap.Summary = &s
	}
	return snap
}

// TodayMarked reports whether the history holds a record for now's UTC date.
func (b *AttendanceBoard) TodayMarked(now time.Time) bool {
	today := now.UTC().Format(model.DateLayout)
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.history {
		if r.Date == today {
			return true
		}
	}
	return false
}

// Mark records today's attendance and puts the returned record at the head
// of the history.
func (b *AttendanceBoard) Mark(ctx context.Context, now time.Time) (*model.AttendanceRecord, error) {
	if b.TodayMarked(now) {
		return nil, ErrAlreadyMarked
	}
	rec, err := b.api.Mark(ctx)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.disposed {
		return rec, nil
	}
	if rec == nil {
		rec = &model.AttendanceRecord{Date: now.UTC().Format(model.DateLayout), Status: model.AttendancePresent, MarkedAt: now.UTC()}
	}
	b.history = append([]model.AttendanceRecord{*rec}, b.history...)
	return rec, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
