package view

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string
	Name string
}

func rowID(r row) string { return r.ID }

func newRows(items ...row) *List[row] {
	l := NewList(rowID, zerolog.Nop())
	l.Load(context.Background(), "", func(context.Context) ([]row, error) { return items, nil })
	return l
}

func ids(items []row) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestList_MountResolvesReady(t *testing.T) {
	l := NewList(rowID, zerolog.Nop())
	assert.Equal(t, Loading, l.Snapshot().State)

	applied := l.Load(context.Background(), "", func(context.Context) ([]row, error) {
		return []row{{ID: "1", Name: "first"}}, nil
	})

	require.True(t, applied)
	snap := l.Snapshot()
	assert.Equal(t, Ready, snap.State)
	assert.Equal(t, []row{{ID: "1", Name: "first"}}, snap.Items)
}

func TestList_LoadErrorCapturesMessage(t *testing.T) {
	l := NewList(rowID, zerolog.Nop())
	l.Load(context.Background(), "", func(context.Context) ([]row, error) {
		return nil, errors.New("HTTP error! Status: 500")
	})

	snap := l.Snapshot()
	assert.Equal(t, Error, snap.State)
	assert.Equal(t, "HTTP error! Status: 500", snap.Err)
}

func TestList_DisposeBeforeResolveDropsResult(t *testing.T) {
	l := NewList(rowID, zerolog.Nop())

	var updates atomic.Int32
	l.Subscribe(func(Snapshot[row]) { updates.Add(1) })

	release := make(chan struct{})
	done := make(chan bool)
	go func() {
		done <- l.Load(context.Background(), "", func(context.Context) ([]row, error) {
			<-release
			return []row{{ID: "1"}}, nil
		})
	}()

	require.Eventually(t, func() bool { return updates.Load() == 1 }, time.Second, time.Millisecond)
	l.Dispose()
	close(release)

	assert.False(t, <-done, "late result must not be applied")
	assert.Equal(t, Loading, l.Snapshot().State)
	assert.Empty(t, l.Snapshot().Items)
	assert.Equal(t, int32(1), updates.Load(), "no render after dispose")
}

func TestList_LatestDependencyWins(t *testing.T) {
	l := NewList(rowID, zerolog.Nop())

	slowStarted := make(chan struct{})
	releaseSlow := make(chan struct{})
	slowDone := make(chan bool)

	go func() {
		slowDone <- l.Load(context.Background(), "all", func(context.Context) ([]row, error) {
			close(slowStarted)
			<-releaseSlow
			return []row{{ID: "stale"}}, nil
		})
	}()
	<-slowStarted

	// A later dependency change resolves first.
	applied := l.Load(context.Background(), "graded", func(context.Context) ([]row, error) {
		return []row{{ID: "fresh"}}, nil
	})
	require.True(t, applied)

	close(releaseSlow)
	assert.False(t, <-slowDone)

	snap := l.Snapshot()
	assert.Equal(t, "graded", snap.Deps)
	assert.Equal(t, []string{"fresh"}, ids(snap.Items))
}

func TestList_RemoveRollsBackOnFailure(t *testing.T) {
	l := newRows(row{ID: "41"}, row{ID: "42"}, row{ID: "43"})

	var during []string
	m, err := l.Remove(context.Background(), "42", func(context.Context) error {
		during = ids(l.Items())
		return errors.New("HTTP error! Status: 500")
	})

	require.Error(t, err)
	assert.Equal(t, []string{"41", "43"}, during, "item hidden while the request is pending")
	assert.Equal(t, RolledBack, m.Status)
	assert.Equal(t, []string{"41", "42", "43"}, ids(l.Items()), "restored at its position")
}

func TestList_RemoveCommits(t *testing.T) {
	l := newRows(row{ID: "41"}, row{ID: "42"})

	m, err := l.Remove(context.Background(), "42", func(context.Context) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, Committed, m.Status)
	assert.Equal(t, []string{"41"}, ids(l.Items()))
}

func TestList_RemoveAfterReloadDoesNotResurrect(t *testing.T) {
	l := newRows(row{ID: "42"})

	_, err := l.Remove(context.Background(), "42", func(ctx context.Context) error {
		l.Load(ctx, "", func(context.Context) ([]row, error) { return []row{{ID: "7"}}, nil })
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, []string{"7"}, ids(l.Items()))
}

func TestList_RemoveUnknownID(t *testing.T) {
	l := newRows(row{ID: "1"})
	_, err := l.Remove(context.Background(), "nope", func(context.Context) error {
		t.Fatal("commit must not run")
		return nil
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList_PrependKeepsItemOnFailure(t *testing.T) {
	l := newRows(row{ID: "1"})

	m, err := l.Prepend(context.Background(), row{ID: "pending-x", Name: "draft"}, func(context.Context) (*row, error) {
		return nil, errors.New("Title is required")
	})
	require.Error(t, err)
	assert.Equal(t, Failed, m.Status)
	assert.Equal(t, []string{"pending-x", "1"}, ids(l.Items()))

	// Retrying with the same id updates in place.
	m, err = l.Prepend(context.Background(), row{ID: "pending-x", Name: "draft 2"}, func(context.Context) (*row, error) {
		return &row{ID: "2", Name: "draft 2"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, Committed, m.Status)
	assert.Equal(t, "2", m.ID)
	assert.Equal(t, []string{"2", "1"}, ids(l.Items()))
}

func TestList_PatchKeepsChangeOnFailure(t *testing.T) {
	l := newRows(row{ID: "1", Name: "old"})

	m, err := l.Patch(context.Background(), "1", func(r row) row {
		r.Name = "new"
		return r
	}, func(context.Context) (*row, error) {
		return nil, errors.New("offline")
	})
	require.Error(t, err)
	assert.Equal(t, Failed, m.Status)

	got, ok := l.Find("1")
	require.True(t, ok)
	assert.Equal(t, "new", got.Name)
}

func TestList_MutationsOnDisposedView(t *testing.T) {
	l := newRows(row{ID: "1"})
	l.Dispose()

	noCommit := func(context.Context) error {
		t.Fatal("commit must not run")
		return nil
	}
	_, err := l.Remove(context.Background(), "1", noCommit)
	assert.ErrorIs(t, err, ErrDisposed)

	_, err = l.Prepend(context.Background(), row{ID: "2"}, func(context.Context) (*row, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrDisposed)

	assert.False(t, l.Load(context.Background(), "", func(context.Context) ([]row, error) { return nil, nil }))
}

func TestList_SnapshotIsolation(t *testing.T) {
	l := newRows(row{ID: "1", Name: "a"})
	snap := l.Snapshot()
	snap.Items[0].Name = "mutated"
	assert.Equal(t, "a", l.Items()[0].Name)
}

func TestList_ConcurrentLoads(t *testing.T) {
	l := NewList(rowID, zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Load(context.Background(), "", func(context.Context) ([]row, error) {
				return []row{{ID: "x"}}, nil
			})
		}()
	}
	wg.Wait()

	snap := l.Snapshot()
	assert.Equal(t, Ready, snap.State)
	assert.Equal(t, []string{"x"}, ids(snap.Items))
}

func TestMutationStatus_String(t *testing.T) {
	assert.Equal(t, "PENDING", Pending.String())
	assert.Equal(t, "ROLLED_BACK", RolledBack.String())
	assert.Equal(t, "READY", Ready.String())
}
