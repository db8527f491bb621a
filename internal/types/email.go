package types

import (
	"fmt"
	"strings"
)

// EmailLog is one send attempt recorded by the service.
type EmailLog struct {
	Timestamp string `json:"timestamp"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
}

// EmailLogsResponse is the body returned by GET /resume/email-logs.
type EmailLogsResponse struct {
	EmailLogs []EmailLog `json:"email_logs"`
	Message   string     `json:"message,omitempty"`
}

// EmailType selects the template used for a quick email.
type EmailType string

// Quick email templates understood by the assistant.
const (
	EmailSelection EmailType = "selection"
	EmailRejection EmailType = "rejection"
	EmailInterview EmailType = "interview"
	EmailOffer     EmailType = "offer"
	EmailFollowup  EmailType = "followup"
	EmailCustom    EmailType = "custom"
)

// EmailTypeOption pairs an EmailType with its display label.
type EmailTypeOption struct {
	Value EmailType `json:"value"`
	Label string    `json:"label"`
}

// EmailTypes returns the quick email catalogue in display order.
func EmailTypes() []EmailTypeOption {
	return []EmailTypeOption{
		{Value: EmailSelection, Label: "Selection for Next Round"},
		{Value: EmailRejection, Label: "Application Rejection"},
		{Value: EmailInterview, Label: "Interview Scheduling"},
		{Value: EmailOffer, Label: "Job Offer"},
		{Value: EmailFollowup, Label: "Follow-up/Status Update"},
		{Value: EmailCustom, Label: "Custom Email"},
	}
}

// DirectEmailRequest describes a free-form email sent through the assistant.
type DirectEmailRequest struct {
	RecipientEmail string `validate:"required,email"`
	Subject        string `validate:"required"`
	Body           string `validate:"required"`
	Reason         string `validate:"required"`
}

// Validate validates the DirectEmailRequest using the validator.
func (r *DirectEmailRequest) Validate() error {
	return validate.Struct(r)
}

// Instruction renders the chat message that asks the assistant to send the email.
func (r *DirectEmailRequest) Instruction() string {
	return fmt.Sprintf("Email %s about %s. Subject: %s. Content: %s", r.RecipientEmail, r.Reason, r.Subject, r.Body)
}

// QuickEmailRequest describes a templated email sent through the assistant.
type QuickEmailRequest struct {
	RecipientEmail    string    `validate:"required,email"`
	Type              EmailType `validate:"required"`
	AdditionalContext string
}

// Validate validates the QuickEmailRequest using the validator.
func (r *QuickEmailRequest) Validate() error {
	return validate.Struct(r)
}

// Instruction renders the chat message for the selected template. Unknown
// types fall back to a general inquiry.
func (r *QuickEmailRequest) Instruction() string {
	var topic string
	switch r.Type {
	case EmailSelection:
		topic = "selection for next round interview"
	case EmailRejection:
		topic = "application rejection"
	case EmailInterview:
		topic = "interview scheduling"
	case EmailOffer:
		topic = "job offer"
	case EmailFollowup:
		topic = "follow-up status update"
	default:
		topic = "general inquiry"
	}
	return strings.TrimSpace(fmt.Sprintf("Email %s about %s. %s", r.RecipientEmail, topic, r.AdditionalContext))
}

// SentEmail records the assistant's confirmation of an email request.
type SentEmail struct {
	Reply          ChatReply
	RecipientEmail string
	Type           EmailType
}
