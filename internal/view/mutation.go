package view

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync/atomic"
)

const draftPrefix = "draft-"

var draftSeq atomic.Uint64

// NewDraftID names an optimistic item until the backend assigns its id.
// Callers keep the id across retries of the same create.
func NewDraftID() string {
	return fmt.Sprintf("%s%d", draftPrefix, draftSeq.Add(1))
}

func draftOrNew(id string) string {
	if id == "" {
		return NewDraftID()
	}
	return id
}

// IsDraft reports whether id names an item the backend has not saved yet.
func IsDraft(id string) bool {
	return strings.HasPrefix(id, draftPrefix)
}

// Op names the kind of optimistic edit.
type Op string

const (
	OpRemove  Op = "remove"
	OpPrepend Op = "prepend"
	OpPatch   Op = "patch"
)

// MutationStatus is where an optimistic edit ended up. Every mutation
// starts Pending and finishes in exactly one of the other states.
type MutationStatus int

const (
	Pending MutationStatus = iota
	Committed
	// RolledBack means the backend refused and the local edit was undone.
	RolledBack
	// Failed means the backend refused and the local edit was kept so the
	// user can retry.
	Failed
)

func (s MutationStatus) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Committed:
		return "COMMITTED"
	case RolledBack:
		return "ROLLED_BACK"
	case Failed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// Mutation records one optimistic edit and its outcome.
type Mutation struct {
	Op     Op
	ID     string
	Status MutationStatus
	Err    error
}

// Remove drops the item with id immediately, then runs commit. If commit
// fails the item is put back where it was, unless the view was disposed or
// reloaded in the meantime. A draft is discarded locally and commit is not
// called.
func (l *List[T]) Remove(ctx context.Context, id string, commit func(context.Context) error) (Mutation, error) {
	m := Mutation{Op: OpRemove, ID: id, Status: Pending}
	if IsDraft(id) {
		return l.discard(m)
	}

	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return m, ErrDisposed
	}
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return m, ErrNotFound
	}
	removed := l.items[i]
	gen := l.gen
	l.items = slices.Delete(clone(l.items), i, i+1)
	l.mu.Unlock()
	l.notify()

	if err := commit(ctx); err != nil {
		m.Status = RolledBack
		m.Err = err

		l.mu.Lock()
		if !l.disposed && gen == l.gen && l.indexLocked(id) < 0 {
			at := min(i, len(l.items))
			l.items = slices.Insert(clone(l.items), at, removed)
		}
		l.mu.Unlock()

		l.log.Warn().Err(err).Str("id", id).Msg("Remove failed, restored item")
		l.notify()
		return m, err
	}

	m.Status = Committed
	return m, nil
}

func (l *List[T]) discard(m Mutation) (Mutation, error) {
	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return m, ErrDisposed
	}
	i := l.indexLocked(m.ID)
	if i < 0 {
		l.mu.Unlock()
		return m, ErrNotFound
	}
	l.items = slices.Delete(clone(l.items), i, i+1)
	l.mu.Unlock()
	l.notify()

	m.Status = Committed
	return m, nil
}

// Prepend puts item at the head of the list immediately, then runs commit.
// A non-nil entity returned by commit replaces the optimistic item. On
// failure the item stays so the caller can retry with the same id; a retry
// updates the existing item instead of adding another.
func (l *List[T]) Prepend(ctx context.Context, item T, commit func(context.Context) (*T, error)) (Mutation, error) {
	id := l.idOf(item)
	m := Mutation{Op: OpPrepend, ID: id, Status: Pending}

	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return m, ErrDisposed
	}
	if i := l.indexLocked(id); i >= 0 {
		l.items[i] = item
	} else {
		l.items = append([]T{item}, l.items...)
	}
	l.mu.Unlock()
	l.notify()

	saved, err := commit(ctx)
	if err != nil {
		m.Status = Failed
		m.Err = err
		l.log.Warn().Err(err).Str("id", id).Msg("Create failed")
		return m, err
	}

	m.Status = Committed
	if saved != nil {
		m.ID = l.idOf(*saved)
		_ = l.Replace(id, *saved)
	}
	return m, nil
}

// Patch applies fn to the item with id immediately, then runs commit. A
// non-nil entity returned by commit replaces the patched item. On failure
// the patch is kept. Drafts cannot be patched; retry their create instead.
func (l *List[T]) Patch(ctx context.Context, id string, fn func(T) T, commit func(context.Context) (*T, error)) (Mutation, error) {
	m := Mutation{Op: OpPatch, ID: id, Status: Pending}
	if IsDraft(id) {
		return m, ErrDraft
	}

	l.mu.Lock()
	if l.disposed {
		l.mu.Unlock()
		return m, ErrDisposed
	}
	i := l.indexLocked(id)
	if i < 0 {
		l.mu.Unlock()
		return m, ErrNotFound
	}
	l.items = clone(l.items)
	l.items[i] = fn(l.items[i])
	l.mu.Unlock()
	l.notify()

	saved, err := commit(ctx)
	if err != nil {
		m.Status = Failed
		m.Err = err
		l.log.Warn().Err(err).Str("id", id).Msg("Update failed")
		return m, err
	}

	m.Status = Committed
	if saved != nil {
		_ = l.Replace(id, *saved)
	}
	return m, nil
}
