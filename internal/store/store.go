// Package store holds the four isolated domain stores (resume, chat, email,
// jobs). Each store owns its snapshot and the lifecycle of its operations;
// nothing is shared between domains.
package store

import (
	"context"
	"time"

	"github.com/jonathan/staffpilot/internal/lifecycle"
)

// Options configure every domain store.
type Options struct {
	Policy   lifecycle.Policy
	Now      func() time.Time // Defaults to time.Now
	Location *time.Location   // Calendar used for "today"; nil means time.Local
}

// Domain is the read-only projection every store exposes to the dashboard.
type Domain interface {
	Name() Name
	AnyPending() bool
	MostRecentError() (ErrorInfo, bool)
	Errors() []ErrorInfo
}

// Store is the root container. It is created once per session and passed
// explicitly or through a context.
type Store struct {
	Resume *Resume
	Chat   *Chat
	Email  *Email
	Jobs   *Jobs
}

// New creates a store with one isolated sub-store per domain.
func New(opts Options) *Store {
	return &Store{
		Resume: newResume(opts),
		Chat:   newChat(opts),
		Email:  newEmail(opts),
		Jobs:   newJobs(opts),
	}
}

// Domain returns the projection for name, or nil for an unknown name.
func (s *Store) Domain(name Name) Domain {
	switch name {
	case NameResume:
		return s.Resume
	case NameChat:
		return s.Chat
	case NameEmail:
		return s.Email
	case NameJobs:
		return s.Jobs
	default:
		return nil
	}
}

// Domains returns every domain projection in display order.
func (s *Store) Domains() []Domain {
	return []Domain{s.Resume, s.Chat, s.Email, s.Jobs}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the store carried by ctx.
func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(contextKey{}).(*Store)
	return s, ok && s != nil
}
