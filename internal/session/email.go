package session

import (
	"context"

	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

// FetchEmailLogs replaces the email log listing and its counters.
func (s *Session) FetchEmailLogs(ctx context.Context) ([]types.EmailLog, error) {
	email := s.store.Email
	resp, ticket, err := invoke[types.EmailLogsResponse](ctx, s, email, store.EmailLogs, gateway.EmailLogs, gateway.Request{}, "Failed to fetch email logs")
	if err != nil {
		return nil, err
	}
	s.settled(email.SucceedLogs(ticket, resp.EmailLogs), "email/logs")
	return resp.EmailLogs, nil
}

// SendDirectEmail asks the assistant to send a free-form email.
func (s *Session) SendDirectEmail(ctx context.Context, req types.DirectEmailRequest) (types.SentEmail, error) {
	if err := req.Validate(); err != nil {
		return types.SentEmail{}, invalid(err)
	}
	return s.sendEmail(ctx, req.Instruction(), req.RecipientEmail, "")
}

// SendQuickEmail asks the assistant to send a templated email.
func (s *Session) SendQuickEmail(ctx context.Context, req types.QuickEmailRequest) (types.SentEmail, error) {
	if err := req.Validate(); err != nil {
		return types.SentEmail{}, invalid(err)
	}
	return s.sendEmail(ctx, req.Instruction(), req.RecipientEmail, req.Type)
}

// sendEmail phrases the email as a chat instruction. The exchange belongs to
// the email domain and is not added to the chat timeline.
func (s *Session) sendEmail(ctx context.Context, instruction, recipient string, kind types.EmailType) (types.SentEmail, error) {
	email := s.store.Email
	reply, ticket, err := invoke[types.ChatReply](ctx, s, email, store.EmailSend, gateway.Chat, gateway.Request{
		Body: types.ChatRequest{Message: instruction},
	}, "Failed to send email")
	if err != nil {
		return types.SentEmail{}, err
	}
	sent := types.SentEmail{Reply: reply, RecipientEmail: recipient, Type: kind}
	s.settled(email.SucceedSend(ticket, sent), "email/send")
	return sent, nil
}
