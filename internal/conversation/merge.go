package conversation

import "github.com/jonathan/staffpilot/internal/types"

// Merge builds the display timeline: the seed sequence followed by one user
// and one assistant entry per confirmed round trip, in arrival order. It never
// mutates its inputs and returns the same identities for the same inputs.
func Merge(seed []Message, confirmed []types.RoundTrip) []Message {
	out := make([]Message, 0, len(seed)+2*len(confirmed))
	for _, m := range seed {
		out = append(out, m.Clone())
	}
	for _, rt := range confirmed {
		out = append(out, expand(rt)...)
	}
	return out
}

// expand synthesizes the two entries of a round trip. The user entry never
// carries the optional assistant payload.
func expand(rt types.RoundTrip) []Message {
	user := Message{
		ID:        rt.UserID,
		Origin:    OriginUser,
		Source:    SourceConfirmed,
		Text:      rt.UserText,
		Timestamp: rt.Timestamp,
	}
	assistant := Message{
		ID:        rt.UserID + 1,
		Origin:    OriginAssistant,
		Source:    SourceConfirmed,
		Text:      rt.ReplyText,
		Timestamp: rt.Timestamp,
		Table:     rt.TableData.Clone(),
		Action:    rt.Action,
	}
	if rt.SuggestedPrompts != nil {
		assistant.SuggestedPrompts = append([]string(nil), rt.SuggestedPrompts...)
	}
	return []Message{user, assistant}
}

// LastSuggestions returns the suggested prompts of the newest assistant
// message that has any.
func LastSuggestions(timeline []Message) []string {
	for i := len(timeline) - 1; i >= 0; i-- {
		m := timeline[i]
		if m.Origin == OriginAssistant && len(m.SuggestedPrompts) > 0 {
			return append([]string(nil), m.SuggestedPrompts...)
		}
	}
	return nil
}
