// Package view holds the portal's list-backed screens. Each view loads one
// or more backend collections, keeps a local copy, and applies user edits
// optimistically before the backend confirms them.
package view

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

var (
	// ErrDisposed is returned by mutations on a view that was torn down.
	ErrDisposed = errors.New("view disposed")
	// ErrNotFound is returned when a mutation targets an id the view does not hold.
	ErrNotFound = errors.New("item not in view")
	// ErrDraft is returned when an edit targets an item the backend has not saved.
	ErrDraft = errors.New("item is an unsaved draft")
)

// State is the load state of a view.
type State int

const (
	Loading State = iota
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "LOADING"
	case Ready:
		return "READY"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Snapshot is a point-in-time copy of a list view.
type Snapshot[T any] struct {
	State State
	Items []T
	Err   string
	Deps  string
}

// List is a collection view. The most recent Load wins regardless of the
// order in which fetches complete, and nothing is applied once the view is
// disposed.
type List[T any] struct {
	idOf func(T) string
	log  zerolog.Logger

	mu       sync.Mutex
	state    State
	items    []T
	err      string
	deps     string
	gen      uint64
	disposed bool

	listenersMu sync.Mutex
	listeners   map[int]func(Snapshot[T])
	nextID      int
}

// NewList creates a view in the Loading state. idOf identifies items for
// mutations.
func NewList[T any](idOf func(T) string, log zerolog.Logger) *List[T] {
	return &List[T]{
		idOf:      idOf,
		log:       log,
		state:     Loading,
		listeners: make(map[int]func(Snapshot[T])),
	}
}

// Load enters Loading, runs fetch, and applies its result unless the view
// was disposed or a newer Load started meanwhile. deps names the dependency
// set (e.g. a filter) the fetch belongs to. It reports whether the result
// was applied.
func (l *List[T]) Load(ctx context.Context, deps string, fetch func(context.Context) ([]T, error)) bool {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return false
	}
	l.gen++
	gen := l.gen
	l.state = Loading
	l.err = ""
	l.deps = deps
	l.mu.Unlock()
	l.notify()

	items, err := fetch(ctx)

	l.mu.Lock()
	if l.disposed || gen != l.gen {
		l.mu.Unlock()
		l.log.Debug().Str("deps", deps).Msg("Discarding stale load")
		return false
	}
	if err != nil {
		l.state = Error
		l.err = err.Error()
	} else {
		if items == nil {
			items = []T{}
		}
		l.state = Ready
		l.items = items
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Warn().Err(err).Str("deps", deps).Msg("Load failed")
	}
	l.notify()
	return true
}

// Dispose marks the view torn down. In-flight fetches and mutations keep
// running but their results are dropped.
func (l *List[T]) Dispose() {
	l.mu.Lock()
	l.disposed = true
	l.mu.Unlock()
}

// Disposed reports whether Dispose was called.
func (l *List[T]) Disposed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.disposed
}

// Snapshot returns a copy of the view's state.
func (l *List[T]) Snapshot() Snapshot[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Items returns a copy of the current items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return clone(l.items)
}

// Find returns the item with id.
func (l *List[T]) Find(id string) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexLocked(id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

// Subscribe registers fn for every state change and returns a function that
// removes it.
func (l *List[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	l.listenersMu.Lock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	l.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.listenersMu.Lock()
			delete(l.listeners, id)
			l.listenersMu.Unlock()
		})
	}
}

// Replace swaps the item with id for item, typically to reconcile a
// server-returned entity. It is a no-op on a disposed view.
func (l *List[T]) Replace(id string, item T) error {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return ErrDisposed
	}
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return ErrNotFound
	}
	l.items[i] = item
	l.mu.Unlock()
	l.notify()
	return nil
}

func (l *List[T]) snapshotLocked() Snapshot[T] {
	return Snapshot[T]{State: l.state, Items: clone(l.items), Err: l.err, Deps: l.deps}
}

func (l *List[T]) indexLocked(id string) int {
	for i, it := range l.items {
		if l.idOf(it) == id {
			return i
		}
	}
	return -1
}

// notify is called without l.mu held so listeners may read the view.
func (l *List[T]) notify() {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return
	}
	snap := l.snapshotLocked()
	l.mu.Unlock()

	l.listenersMu.Lock()
	fns := make([]func(Snapshot[T]), 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.listenersMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func clone[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
