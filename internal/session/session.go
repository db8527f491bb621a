// Package session is the UI boundary: it turns operator actions into gateway
// calls, settles the matching domain store lifecycle and owns the local seed
// sequence merged into the chat timeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/dashboard"
	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

// DefaultRefreshConcurrency bounds how many fetches Refresh runs at once.
const DefaultRefreshConcurrency = 4

// ErrInvalidInput is wrapped by every error returned before a request is sent.
var ErrInvalidInput = errors.New("invalid input")

// OperationError is returned when an operation failed. Message is the string
// recorded in the domain store. Superseded is set when a newer invocation of
// the same kind had already begun and the failure was not recorded.
type OperationError struct {
	Domain     store.Name
	Operation  string
	Message    string
	Superseded bool
	Err        *gateway.Error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Domain, e.Operation, e.Message)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Options configure a Session.
type Options struct {
	Client             *gateway.Client
	Store              *store.Store // Created from Policy, Now and Location when nil
	Policy             lifecycle.Policy
	Now                func() time.Time
	Location           *time.Location
	Logger             *zap.Logger
	RefreshConcurrency int
}

// Session wires the gateway, the domain stores and the conversation seed.
// All methods are safe for concurrent use.
type Session struct {
	client *gateway.Client
	store  *store.Store
	dash   *dashboard.Coordinator
	ids    *conversation.IDSequence
	now    func() time.Time
	loc    *time.Location
	log    *zap.Logger
	limit  int

	// mu guards seed and every chat store write that must be observed
	// together with it.
	mu   sync.Mutex
	seed *conversation.Seed
}

// New creates a session.
func New(opts Options) (*Session, error) {
	if opts.Client == nil {
		return nil, errors.New("session requires a gateway client")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	st := opts.Store
	if st == nil {
		st = store.New(store.Options{Policy: opts.Policy, Now: now, Location: loc})
	}
	limit := opts.RefreshConcurrency
	if limit <= 0 {
		limit = DefaultRefreshConcurrency
	}

	ids := &conversation.IDSequence{}
	return &Session{
		client: opts.Client,
		store:  st,
		dash:   dashboard.New(st),
		ids:    ids,
		now:    now,
		loc:    loc,
		log:    logger,
		limit:  limit,
		seed:   conversation.NewSeed(ids, now),
	}, nil
}

// Store returns the domain stores.
func (s *Session) Store() *store.Store {
	return s.store
}

// Dashboard returns the read-only projection over the stores.
func (s *Session) Dashboard() *dashboard.Coordinator {
	return s.dash
}

// Timeline returns the merged chat timeline. The seed and the confirmed
// sequence are read under one lock, so a concurrent clear is observed either
// completely or not at all.
func (s *Session) Timeline() []conversation.Message {
	s.mu.Lock()
	seed := s.seed.Messages()
	confirmed := s.store.Chat.Snapshot().Confirmed
	s.mu.Unlock()
	return conversation.Merge(seed, confirmed)
}

func (s *Session) appendSeed(m conversation.Message) conversation.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed.Append(m)
}

func (s *Session) timestamp(value string) time.Time {
	if ts, err := types.ParseTimestamp(value, s.loc); err == nil {
		return ts
	}
	return s.now()
}

// tracked is the part of a domain store every action needs.
type tracked[K ~string] interface {
	Name() store.Name
	Begin(op K) lifecycle.Ticket[K]
	Fail(ticket lifecycle.Ticket[K], message string) bool
}

// invoke begins kind on d, performs the call and settles failures. Successes
// are settled by the caller with the domain-specific merge.
func invoke[T any, K ~string](ctx context.Context, s *Session, d tracked[K], kind K, ep gateway.Endpoint, req gateway.Request, fallback string) (T, lifecycle.Ticket[K], error) {
	ticket := d.Begin(kind)
	op := string(d.Name()) + "/" + string(kind)

	res := gateway.Do[T](ctx, s.client, op, ep, req)
	if res.OK() {
		return res.Value, ticket, nil
	}

	msg := res.Err.OperatorMessage(fallback)
	applied := d.Fail(ticket, msg)
	if !applied {
		s.log.Debug("superseded failure dropped", zap.String("op", op), zap.Uint64("generation", ticket.Generation))
	}
	var zero T
	return zero, ticket, &OperationError{
		Domain:     d.Name(),
		Operation:  string(kind),
		Message:    msg,
		Superseded: !applied,
		Err:        res.Err,
	}
}

func (s *Session) settled(applied bool, op string) {
	if !applied {
		s.log.Debug("superseded result dropped", zap.String("op", op))
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s. The session's store is
// attached as well.
func NewContext(ctx context.Context, s *Session) context.Context {
	ctx = store.NewContext(ctx, s.store)
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session carried by ctx.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
