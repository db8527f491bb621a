package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/types"
)

// ChatOp is an operation kind of the chat domain.
type ChatOp string

// Chat operation kinds.
const (
	ChatSend        ChatOp = "send"
	ChatClearMemory ChatOp = "clear-memory"
)

// ChatSnapshot is the server-confirmed conversation.
type ChatSnapshot struct {
	Confirmed            []types.RoundTrip // Arrival order
	LastMessageTimestamp time.Time
	ConversationID       uuid.UUID
}

// Chat is the chat domain store. It only ever holds confirmed round trips;
// locally generated messages live with the session.
type Chat struct {
	base[ChatOp, ChatSnapshot]
}

func newChat(opts Options) *Chat {
	c := &Chat{}
	c.init(NameChat, opts, ChatSnapshot{ConversationID: uuid.New()}, cloneChatSnapshot)
	return c
}

// Snapshot returns a copy of the confirmed conversation.
func (c *Chat) Snapshot() ChatSnapshot {
	return c.snapshot()
}

// ConversationID returns the id of the current server conversation.
func (c *Chat) ConversationID() uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap.ConversationID
}

// SucceedSend appends a confirmed round trip sent under conversationID.
// Round trips are never dropped by the ordering policy; overlapping sends
// all land in arrival order. A round trip whose conversation was cleared
// while it was in flight is discarded and only settles the lifecycle.
func (c *Chat) SucceedSend(ticket lifecycle.Ticket[ChatOp], conversationID uuid.UUID, rt types.RoundTrip) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops.Succeed(ticket)
	if c.snap.ConversationID != conversationID {
		return false
	}
	c.snap = mergeRoundTrip(c.snap, rt)
	return true
}

// SucceedClearMemory empties the confirmed sequence and starts a new
// conversation id. Callers that also hold a local seed must clear it under
// the same critical section.
func (c *Chat) SucceedClearMemory(ticket lifecycle.Ticket[ChatOp]) bool {
	return c.succeed(ticket, func(s ChatSnapshot) ChatSnapshot { return clearedChat(s, uuid.New()) })
}

// Reset returns op to Idle and clears its error. Chat data is only removed
// by a confirmed clear-memory.
func (c *Chat) Reset(op ChatOp) {
	c.reset(op, nil)
}

func mergeRoundTrip(prev ChatSnapshot, rt types.RoundTrip) ChatSnapshot {
	next := prev
	next.Confirmed = make([]types.RoundTrip, 0, len(prev.Confirmed)+1)
	next.Confirmed = append(next.Confirmed, prev.Confirmed...)
	next.Confirmed = append(next.Confirmed, rt.Clone())
	next.LastMessageTimestamp = rt.Timestamp
	return next
}

func clearedChat(_ ChatSnapshot, id uuid.UUID) ChatSnapshot {
	return ChatSnapshot{Confirmed: []types.RoundTrip{}, ConversationID: id}
}

func cloneChatSnapshot(s ChatSnapshot) ChatSnapshot {
	out := s
	if s.Confirmed != nil {
		out.Confirmed = make([]types.RoundTrip, len(s.Confirmed))
		for i, rt := range s.Confirmed {
			out.Confirmed[i] = rt.Clone()
		}
	}
	return out
}
