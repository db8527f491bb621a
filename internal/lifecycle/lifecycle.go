// Package lifecycle tracks the Idle/Pending/Succeeded/Failed state of the
// asynchronous operations a domain store runs.
package lifecycle

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// State is the lifecycle position of one operation kind.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Policy decides which of several overlapping invocations of the same
// operation kind may settle the lifecycle and write the snapshot.
type Policy int

const (
	// LatestIssuedWins applies only the result of the most recently begun
	// invocation. Results of superseded invocations are dropped.
	LatestIssuedWins Policy = iota
	// LastSettledWins applies every result in arrival order, so whichever
	// invocation settles last overwrites the snapshot.
	LastSettledWins
)

func (p Policy) String() string {
	switch p {
	case LatestIssuedWins:
		return "latest-issued"
	case LastSettledWins:
		return "last-settled"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy parses the configuration spelling of a Policy.
func ParsePolicy(value string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "latest-issued", "latest_issued":
		return LatestIssuedWins, nil
	case "last-settled", "last_settled":
		return LastSettledWins, nil
	default:
		return 0, fmt.Errorf("unknown ordering policy %q (want latest-issued or last-settled)", value)
	}
}

// Ticket identifies one invocation. It is returned by Begin and must be
// presented when the invocation settles.
type Ticket[K comparable] struct {
	Kind       K
	Generation uint64
}

// Status is the observable lifecycle of one operation kind.
type Status struct {
	State      State
	Err        string
	FailedAt   time.Time
	Generation uint64 // Generation of the most recently begun invocation

	failSeq uint64
}

// ErrorRecord is a recorded failure message for one operation kind.
type ErrorRecord[K comparable] struct {
	Kind    K
	Message string
	At      time.Time

	seq uint64
}

// Tracker holds one Status per operation kind. It is not safe for concurrent
// use; the owning store serializes access.
type Tracker[K comparable] struct {
	policy  Policy
	now     func() time.Time
	failSeq uint64
	ops     map[K]*Status
}

// NewTracker creates a tracker. A nil now uses time.Now.
func NewTracker[K comparable](policy Policy, now func() time.Time) *Tracker[K] {
	if now == nil {
		now = time.Now
	}
	return &Tracker[K]{
		policy: policy,
		now:    now,
		ops:    make(map[K]*Status),
	}
}

// Policy returns the tracker's ordering policy.
func (t *Tracker[K]) Policy() Policy {
	return t.policy
}

func (t *Tracker[K]) entry(kind K) *Status {
	st, ok := t.ops[kind]
	if !ok {
		st = &Status{}
		t.ops[kind] = st
	}
	return st
}

// Begin moves kind to Pending, clears its error and issues a new ticket.
// Calling it again while Pending re-arms the operation.
func (t *Tracker[K]) Begin(kind K) Ticket[K] {
	st := t.entry(kind)
	st.Generation++
	st.State = Pending
	st.Err = ""
	st.FailedAt = time.Time{}
	st.failSeq = 0
	return Ticket[K]{Kind: kind, Generation: st.Generation}
}

// Current reports whether a result for ticket may be applied under the policy.
func (t *Tracker[K]) Current(ticket Ticket[K]) bool {
	if t.policy == LastSettledWins {
		return true
	}
	st, ok := t.ops[ticket.Kind]
	return ok && st.Generation == ticket.Generation
}

// Succeed settles ticket as Succeeded. It returns false, changing nothing,
// when the ticket has been superseded.
func (t *Tracker[K]) Succeed(ticket Ticket[K]) bool {
	if !t.Current(ticket) {
		return false
	}
	st := t.entry(ticket.Kind)
	st.State = Succeeded
	st.Err = ""
	st.FailedAt = time.Time{}
	st.failSeq = 0
	return true
}

// Fail settles ticket as Failed with message. It returns false, changing
// nothing, when the ticket has been superseded.
func (t *Tracker[K]) Fail(ticket Ticket[K], message string) bool {
	if !t.Current(ticket) {
		return false
	}
	t.failSeq++
	st := t.entry(ticket.Kind)
	st.State = Failed
	st.Err = message
	st.FailedAt = t.now()
	st.failSeq = t.failSeq
	return true
}

// ClearError drops the recorded error for kind. The lifecycle state is kept.
func (t *Tracker[K]) ClearError(kind K) {
	st, ok := t.ops[kind]
	if !ok {
		return
	}
	st.Err = ""
	st.FailedAt = time.Time{}
	st.failSeq = 0
}

// Reset returns kind to Idle with no error. Under LatestIssuedWins any
// invocation still in flight is superseded.
func (t *Tracker[K]) Reset(kind K) {
	st := t.entry(kind)
	st.Generation++
	st.State = Idle
	st.Err = ""
	st.FailedAt = time.Time{}
	st.failSeq = 0
}

// Status returns the lifecycle of kind; unknown kinds are Idle.
func (t *Tracker[K]) Status(kind K) Status {
	if st, ok := t.ops[kind]; ok {
		return *st
	}
	return Status{}
}

// AnyPending reports whether any operation kind is Pending.
func (t *Tracker[K]) AnyPending() bool {
	for _, st := range t.ops {
		if st.State == Pending {
			return true
		}
	}
	return false
}

// Errors returns every recorded error, oldest first.
func (t *Tracker[K]) Errors() []ErrorRecord[K] {
	var records []ErrorRecord[K]
	for kind, st := range t.ops {
		if st.Err == "" {
			continue
		}
		records = append(records, ErrorRecord[K]{Kind: kind, Message: st.Err, At: st.FailedAt, seq: st.failSeq})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	return records
}

// MostRecentError returns the last recorded error across all kinds.
func (t *Tracker[K]) MostRecentError() (ErrorRecord[K], bool) {
	records := t.Errors()
	if len(records) == 0 {
		return ErrorRecord[K]{}, false
	}
	return records[len(records)-1], true
}
