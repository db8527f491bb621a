// Package conversation builds the displayable chat timeline from the locally
// seeded messages and the server-confirmed round trips.
package conversation

import (
	"sync/atomic"
	"time"

	"github.com/jonathan/staffpilot/internal/types"
)

// Origin is who a message is attributed to.
type Origin string

// Message origins.
const (
	OriginLocal     Origin = "local"
	OriginUser      Origin = "user"
	OriginAssistant Origin = "assistant"
)

// Source tells seed messages apart from confirmed ones.
type Source int

const (
	SourceSeed Source = iota
	SourceConfirmed
)

func (s Source) String() string {
	if s == SourceConfirmed {
		return "confirmed"
	}
	return "seed"
}

// Message is one render-ready timeline entry. Table, SuggestedPrompts and
// Action are only ever set on assistant messages.
type Message struct {
	ID               uint64
	Origin           Origin
	Source           Source
	Text             string
	Timestamp        time.Time
	Table            *types.TableData
	SuggestedPrompts []string
	Action           string
	FileName         string
}

// HasTable reports whether the message carries a non-empty table.
func (m Message) HasTable() bool {
	return m.Table != nil && len(m.Table.Headers) > 0
}

// Clone returns a deep copy of m.
func (m Message) Clone() Message {
	out := m
	out.Table = m.Table.Clone()
	if m.SuggestedPrompts != nil {
		out.SuggestedPrompts = append([]string(nil), m.SuggestedPrompts...)
	}
	return out
}

// IDSequence hands out message identities. It is monotonic and safe for
// concurrent use; identities never repeat within a sequence.
type IDSequence struct {
	last atomic.Uint64
}

// Next reserves one identity.
func (s *IDSequence) Next() uint64 {
	return s.last.Add(1)
}

// NextPair reserves two consecutive identities and returns the first. A round
// trip uses n for the user turn and n+1 for the assistant turn.
func (s *IDSequence) NextPair() uint64 {
	return s.last.Add(2) - 1
}
