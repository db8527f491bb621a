package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/staffpilot/internal/types"
)

// WelcomeText opens every new session.
const WelcomeText = `Hello! I'm your StaffPilot assistant. I can help you with:

- **Resume analysis**: upload PDF resumes and I'll extract candidate details
- **Candidate matching**: find the best candidates for a job title
- **Job listings**: search and browse open positions
- **Email dispatch**: send selection, rejection, interview or offer emails

What would you like to do?`

// ClearedText replaces the welcome message after conversation memory is cleared.
const ClearedText = "Conversation memory cleared. How can I help you today?"

// Seed is the locally owned message sequence. It always starts with exactly
// one assistant greeting. Seed is not safe for concurrent use; the session
// serializes access together with the chat store.
type Seed struct {
	ids      *IDSequence
	now      func() time.Time
	messages []Message
}

// NewSeed creates a seed holding a fresh welcome message. A nil now uses
// time.Now.
func NewSeed(ids *IDSequence, now func() time.Time) *Seed {
	if now == nil {
		now = time.Now
	}
	s := &Seed{ids: ids, now: now}
	s.Reset(WelcomeText)
	return s
}

// Reset drops every seed message and starts over with a single assistant
// greeting carrying text.
func (s *Seed) Reset(text string) {
	s.messages = []Message{{
		ID:        s.ids.Next(),
		Origin:    OriginAssistant,
		Source:    SourceSeed,
		Text:      text,
		Timestamp: s.now(),
	}}
}

// Append adds a local message and returns it.
func (s *Seed) Append(m Message) Message {
	m.ID = s.ids.Next()
	m.Source = SourceSeed
	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	if m.Origin != OriginAssistant {
		m.Table = nil
		m.SuggestedPrompts = nil
		m.Action = ""
	}
	s.messages = append(s.messages, m.Clone())
	return m
}

// AppendNotice adds a plain text message from origin.
func (s *Seed) AppendNotice(origin Origin, text string) Message {
	return s.Append(Message{Origin: origin, Text: text})
}

// AppendError adds a local error notice.
func (s *Seed) AppendError(prefix, message string) Message {
	return s.AppendNotice(OriginLocal, prefix+": "+message)
}

// Messages returns a copy of the seed sequence.
func (s *Seed) Messages() []Message {
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Len returns the number of seed messages.
func (s *Seed) Len() int {
	return len(s.messages)
}

// UploadNotice renders the assistant summary shown after a successful upload.
func UploadNotice(p *types.ParsedResume) string {
	if p == nil {
		return "Resume uploaded, but no candidate details were extracted."
	}
	skills := "None listed"
	if len(p.Skills) > 0 {
		skills = strings.Join(p.Skills, ", ")
	}
	return fmt.Sprintf("Resume uploaded and parsed successfully!\n\n"+
		"**Candidate Details:**\n"+
		"- **Name:** %s\n- **Email:** %s\n- **Phone:** %s\n- **Skills:** %s\n"+
		"- **Experience:** %d positions\n- **Education:** %d qualifications\n\n"+
		"You can now ask me questions about this candidate or send emails to them!",
		orDefault(p.FullName, "Unknown"), orDefault(p.Email, "Not provided"), orDefault(p.PhoneNumber, "Not provided"),
		skills, len(p.WorkExperience), len(p.Education))
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
