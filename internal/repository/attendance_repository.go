package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/nsda/portal/internal/model"
)

// AttendanceRepository stores one record per user per UTC day.
type AttendanceRepository struct {
	mu      sync.RWMutex
	records map[string]map[string]*model.AttendanceRecord // user ID -> date -> record
}

// NewAttendanceRepository creates an empty AttendanceRepository.
func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: map[string]map[string]*model.AttendanceRecord{}}
}

// Mark records u as present on the UTC day of now. A second mark on the
// same day fails with ErrAlreadyMarked.
func (r *AttendanceRepository) Mark(_ context.Context, u model.User, now time.Time) (model.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	date := now.UTC().Format(model.DateLayout)
	days, ok := r.records[u.ID]
	if !ok {
		days = map[string]*model.AttendanceRecord{}
		r.records[u.ID] = days
	}
	if _, marked := days[date]; marked {
		return model.AttendanceRecord{}, ErrAlreadyMarked
	}
	rec := &model.AttendanceRecord{
		ID:       newID(),
		UserID:   u.ID,
		UserName: u.Name,
		Date:     date,
		Status:   model.AttendancePresent,
		MarkedAt: now.UTC(),
	}
	days[date] = rec
	return *rec, nil
}

// History returns a user's records, most recent first.
func (r *AttendanceRepository) History(_ context.Context, userID string) []model.AttendanceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.AttendanceRecord, 0, len(r.records[userID]))
	for _, rec := range r.records[userID] {
		out = append(out, *rec)
	}
	sortRecords(out)
	return out
}

// All returns every record, most recent first.
func (r *AttendanceRepository) All(_ context.Context) []model.AttendanceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.AttendanceRecord
	for _, days := range r.records {
		for _, rec := range days {
			out = append(out, *rec)
		}
	}
	sortRecords(out)
	return out
}

// WeeklySummary counts the user's attendance in the week of now. Weeks
// start on Monday; days after now are not counted.
func (r *AttendanceRepository) WeeklySummary(_ context.Context, userID string, now time.Time) model.WeeklySummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	today := now.UTC().Truncate(24 * time.Hour)
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset)

	s := model.WeeklySummary{WeekStart: start.Format(model.DateLayout), Total: offset + 1}
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		if rec, ok := r.records[userID][d.Format(model.DateLayout)]; ok && rec.Status == model.AttendancePresent {
			s.Present++
		}
	}
	s.Absent = s.Total - s.Present
	s.Percentage = math.Round(float64(s.Present)/float64(s.Total)*1000) / 10
	return s
}

func sortRecords(recs []model.AttendanceRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Date != recs[j].Date {
			return recs[i].Date > recs[j].Date
		}
		return recs[i].UserName < recs[j].UserName
	})
}
