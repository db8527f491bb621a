package store

import (
	"time"

	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/types"
)

// EmailOp is an operation kind of the email domain.
type EmailOp string

// Email operation kinds.
const (
	EmailLogs EmailOp = "logs"
	EmailSend EmailOp = "send"
)

// EmailStats are the counters derived from a log listing.
type EmailStats struct {
	TotalSent          int
	SentToday          int
	LastEmailTimestamp time.Time // Zero when no entry carries a parseable timestamp
}

// EmailSnapshot is the latest email data known to the console.
type EmailSnapshot struct {
	Logs     []types.EmailLog
	Stats    EmailStats
	LastSent *types.SentEmail
}

// Email is the email domain store.
type Email struct {
	base[EmailOp, EmailSnapshot]
	now func() time.Time
	loc *time.Location
}

func newEmail(opts Options) *Email {
	e := &Email{now: opts.Now, loc: opts.Location}
	if e.now == nil {
		e.now = time.Now
	}
	e.init(NameEmail, opts, EmailSnapshot{}, cloneEmailSnapshot)
	return e
}

// Snapshot returns a copy of the email data.
func (e *Email) Snapshot() EmailSnapshot {
	return e.snapshot()
}

// Types returns the quick email catalogue.
func (e *Email) Types() []types.EmailTypeOption {
	return types.EmailTypes()
}

// SucceedLogs replaces the log listing and recomputes the counters against
// the store clock.
func (e *Email) SucceedLogs(ticket lifecycle.Ticket[EmailOp], logs []types.EmailLog) bool {
	now := e.now()
	return e.succeed(ticket, func(s EmailSnapshot) EmailSnapshot {
		return mergeLogs(s, logs, now, e.loc)
	})
}

// SucceedSend records the assistant's confirmation of a sent email.
func (e *Email) SucceedSend(ticket lifecycle.Ticket[EmailOp], sent types.SentEmail) bool {
	return e.succeed(ticket, func(s EmailSnapshot) EmailSnapshot {
		s.LastSent = cloneSentEmail(&sent)
		return s
	})
}

// Reset returns op to Idle, clears its error and drops the data it owns.
func (e *Email) Reset(op EmailOp) {
	e.reset(op, func(s EmailSnapshot) EmailSnapshot {
		switch op {
		case EmailLogs:
			s.Logs = nil
			s.Stats = EmailStats{}
		case EmailSend:
			s.LastSent = nil
		}
		return s
	})
}

func mergeLogs(prev EmailSnapshot, logs []types.EmailLog, now time.Time, loc *time.Location) EmailSnapshot {
	next := prev
	next.Logs = cloneSlice(logs)
	if next.Logs == nil {
		next.Logs = []types.EmailLog{}
	}
	next.Stats = ComputeStats(next.Logs, now, loc)
	return next
}

// ComputeStats derives the email counters from a full log listing. SentToday
// counts entries whose calendar day in loc equals that of now. Entries with
// unparseable timestamps count toward the total only.
func ComputeStats(logs []types.EmailLog, now time.Time, loc *time.Location) EmailStats {
	stats := EmailStats{TotalSent: len(logs)}
	for _, entry := range logs {
		ts, err := types.ParseTimestamp(entry.Timestamp, loc)
		if err != nil {
			continue
		}
		if types.SameLocalDay(ts, now, loc) {
			stats.SentToday++
		}
		if ts.After(stats.LastEmailTimestamp) {
			stats.LastEmailTimestamp = ts
		}
	}
	return stats
}

func cloneEmailSnapshot(s EmailSnapshot) EmailSnapshot {
	out := s
	out.Logs = cloneSlice(s.Logs)
	out.LastSent = cloneSentEmail(s.LastSent)
	return out
}

func cloneSentEmail(s *types.SentEmail) *types.SentEmail {
	if s == nil {
		return nil
	}
	out := *s
	out.Reply.TableData = s.Reply.TableData.Clone()
	out.Reply.SuggestedPrompts = cloneSlice(s.Reply.SuggestedPrompts)
	return &out
}
