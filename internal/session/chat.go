package session

import (
	"context"
	"errors"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

// ConversationHeader carries the console's conversation id on chat calls.
const ConversationHeader = "X-Conversation-ID"

// SendChat submits text as one round trip. On success the confirmed pair
// is appended to the chat store unless memory was cleared while it was in
// flight; on failure a local error notice is added to the seed instead.
func (s *Session) SendChat(ctx context.Context, text string) (types.ChatReply, error) {
	req := types.ChatRequest{Message: text}
	if err := req.Validate(); err != nil {
		return types.ChatReply{}, invalid(err)
	}

	// Both identities are reserved before the call so the pair sorts by
	// submission, not by arrival.
	userID := s.ids.NextPair()
	chat := s.store.Chat
	conversationID := chat.ConversationID()
	reply, ticket, err := invoke[types.ChatReply](ctx, s, chat, store.ChatSend, gateway.Chat, gateway.Request{
		Body:    req,
		Headers: map[string]string{ConversationHeader: conversationID.String()},
	}, "Failed to send message")
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) {
			s.appendSeed(conversation.Message{Origin: conversation.OriginLocal, Text: "Chat Error: " + opErr.Message})
		}
		return types.ChatReply{}, err
	}

	userText := reply.Message
	if userText == "" {
		userText = text
	}
	rt := types.RoundTrip{
		UserID:           userID,
		UserText:         userText,
		ReplyText:        reply.Response,
		Timestamp:        s.timestamp(reply.Timestamp),
		Action:           reply.Action,
		TableData:        reply.TableData,
		SuggestedPrompts: reply.SuggestedPrompts,
	}

	s.mu.Lock()
	applied := chat.SucceedSend(ticket, conversationID, rt)
	s.mu.Unlock()
	s.settled(applied, "chat/send")
	return reply, nil
}

// ClearMemory asks the service to forget the conversation. Only a confirmed
// clear empties the local timeline; the confirmed sequence and the seed are
// reset together.
func (s *Session) ClearMemory(ctx context.Context) error {
	chat := s.store.Chat
	_, ticket, err := invoke[types.ClearMemoryResponse](ctx, s, chat, store.ChatClearMemory, gateway.ClearMemory, gateway.Request{
		Headers: map[string]string{ConversationHeader: chat.ConversationID().String()},
	}, "Failed to clear memory")
	if err != nil {
		return err
	}

	s.mu.Lock()
	applied := chat.SucceedClearMemory(ticket)
	if applied {
		s.seed.Reset(conversation.ClearedText)
	}
	s.mu.Unlock()
	s.settled(applied, "chat/clear-memory")
	return nil
}
