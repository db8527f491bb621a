package store

import (
	"sync"
	"time"

	"github.com/jonathan/staffpilot/internal/lifecycle"
)

// ErrorInfo is a domain error flattened for read-only consumers.
type ErrorInfo struct {
	Domain    Name
	Operation string
	Message   string
	At        time.Time
}

// base is the lifecycle + snapshot pattern shared by every domain store.
// All access goes through mu; snapshots handed out are deep copies.
type base[K ~string, S any] struct {
	name  Name
	mu    sync.RWMutex
	ops   *lifecycle.Tracker[K]
	snap  S
	clone func(S) S
}

func (b *base[K, S]) init(name Name, opts Options, initial S, clone func(S) S) {
	b.name = name
	b.ops = lifecycle.NewTracker[K](opts.Policy, opts.Now)
	b.snap = initial
	b.clone = clone
}

// Name returns the domain name.
func (b *base[K, S]) Name() Name {
	return b.name
}

// Begin moves op to Pending, clears its error and returns the ticket that
// must accompany its result.
func (b *base[K, S]) Begin(op K) lifecycle.Ticket[K] {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ops.Begin(op)
}

// Fail settles ticket as Failed. The snapshot is never touched. It returns
// false when the ticket was superseded and the failure was dropped.
func (b *base[K, S]) Fail(ticket lifecycle.Ticket[K], message string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ops.Fail(ticket, message)
}

// ClearError drops the error recorded for op only.
func (b *base[K, S]) ClearError(op K) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops.ClearError(op)
}

// Status returns the lifecycle of op.
func (b *base[K, S]) Status(op K) lifecycle.Status {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ops.Status(op)
}

// Policy returns the ordering policy applied to overlapping invocations.
func (b *base[K, S]) Policy() lifecycle.Policy {
	return b.ops.Policy()
}

// AnyPending reports whether any operation in the domain is Pending.
func (b *base[K, S]) AnyPending() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ops.AnyPending()
}

// MostRecentError returns the newest error recorded in the domain.
func (b *base[K, S]) MostRecentError() (ErrorInfo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	rec, ok := b.ops.MostRecentError()
	if !ok {
		return ErrorInfo{}, false
	}
	return ErrorInfo{Domain: b.name, Operation: string(rec.Kind), Message: rec.Message, At: rec.At}, true
}

// Errors returns every error recorded in the domain, oldest first.
func (b *base[K, S]) Errors() []ErrorInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()
	records := b.ops.Errors()
	out := make([]ErrorInfo, 0, len(records))
	for _, rec := range records {
		out = append(out, ErrorInfo{Domain: b.name, Operation: string(rec.Kind), Message: rec.Message, At: rec.At})
	}
	return out
}

// snapshot returns a deep copy of the current snapshot.
func (b *base[K, S]) snapshot() S {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.clone(b.snap)
}

// succeed settles ticket and replaces the snapshot with merge(previous).
// merge must be pure; it is not called when the ticket was superseded.
func (b *base[K, S]) succeed(ticket lifecycle.Ticket[K], merge func(S) S) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ops.Current(ticket) {
		return false
	}
	b.snap = merge(b.snap)
	return b.ops.Succeed(ticket)
}

// accumulate merges the result of ticket even when a newer invocation of the
// same kind has begun. It is used by kinds whose merge appends, where every
// confirmed result must be kept. The lifecycle only settles for a current
// ticket.
func (b *base[K, S]) accumulate(ticket lifecycle.Ticket[K], merge func(S) S) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap = merge(b.snap)
	b.ops.Succeed(ticket)
	return true
}

// reset returns op to Idle and applies clear to the snapshot.
func (b *base[K, S]) reset(op K, clear func(S) S) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops.Reset(op)
	if clear != nil {
		b.snap = clear(b.snap)
	}
}

// cloneSlice keeps nil and empty distinct: an empty listing was fetched.
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func clonePtr[T any](in *T) *T {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}
