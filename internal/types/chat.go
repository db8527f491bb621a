package types

import "time"

// ChatRequest is the body posted to /resume/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// Validate validates the ChatRequest using the validator.
func (r *ChatRequest) Validate() error {
	return validate.Struct(r)
}

// ChatReply is the body returned by POST /resume/chat. It carries both halves
// of a round trip: the echoed user message and the assistant response.
type ChatReply struct {
	Message          string     `json:"message"`
	Response         string     `json:"response"`
	Timestamp        string     `json:"timestamp"`
	Action           string     `json:"action,omitempty"`
	TableData        *TableData `json:"table_data,omitempty"`
	SuggestedPrompts []string   `json:"suggested_prompts,omitempty"`
}

// ClearMemoryResponse is the body returned by POST /resume/clear-memory.
type ClearMemoryResponse struct {
	Message string `json:"message"`
}

// RoundTrip is one confirmed chat exchange as recorded by the chat store.
// UserID identifies the user turn; the assistant turn is always UserID+1.
type RoundTrip struct {
	UserID           uint64
	UserText         string
	ReplyText        string
	Timestamp        time.Time
	Action           string
	TableData        *TableData
	SuggestedPrompts []string
}

// Clone returns a deep copy so callers cannot alias store-owned slices.
func (r RoundTrip) Clone() RoundTrip {
	out := r
	out.TableData = r.TableData.Clone()
	if r.SuggestedPrompts != nil {
		out.SuggestedPrompts = append([]string(nil), r.SuggestedPrompts...)
	}
	return out
}
