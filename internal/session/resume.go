package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

// MaxUploadBytes is the largest resume accepted for upload.
const MaxUploadBytes = 10 << 20

const pdfMIME = "application/pdf"

// Upload contract violations. Both are returned before anything is sent and
// leave the stores untouched.
var (
	ErrNotPDF       = errors.New("only PDF files are supported")
	ErrFileTooLarge = fmt.Errorf("file exceeds the %d MiB limit", MaxUploadBytes>>20)
)

// CheckUpload enforces the upload contract: a non-empty PDF, sniffed from its
// content, of at most MaxUploadBytes.
func CheckUpload(data []byte) error {
	if len(data) > MaxUploadBytes {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrFileTooLarge)
	}
	if len(data) == 0 || !mimetype.Detect(data).Is(pdfMIME) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, ErrNotPDF)
	}
	return nil
}

// UploadResumeFile reads path and uploads it.
func (s *Session) UploadResumeFile(ctx context.Context, path string) (*types.ParsedResume, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, invalid(err)
	}
	if info.Size() > MaxUploadBytes {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrFileTooLarge)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, invalid(err)
	}
	return s.UploadResume(ctx, filepath.Base(path), data)
}

// UploadResume sends a PDF for parsing. The seed records the attempt and its
// outcome next to the chat so the operator sees it in the timeline.
func (s *Session) UploadResume(ctx context.Context, fileName string, data []byte) (*types.ParsedResume, error) {
	if err := CheckUpload(data); err != nil {
		return nil, err
	}

	s.appendSeed(conversation.Message{
		Origin:   conversation.OriginUser,
		Text:     "Uploading resume: " + fileName,
		FileName: fileName,
	})

	resume := s.store.Resume
	resp, ticket, err := invoke[types.UploadResponse](ctx, s, resume, store.ResumeUpload, gateway.ResumeUpload, gateway.Request{
		Upload: &gateway.Upload{FileName: fileName, ContentType: pdfMIME, Data: data},
	}, "Failed to upload resume")
	if err != nil {
		var opErr *OperationError
		if errors.As(err, &opErr) {
			s.appendSeed(conversation.Message{Origin: conversation.OriginLocal, Text: "Failed to upload resume: " + opErr.Message})
		}
		return nil, err
	}

	applied := resume.SucceedUpload(ticket, resp.ParsedResume)
	s.settled(applied, "resume/upload")
	if applied {
		s.appendSeed(conversation.Message{
			Origin: conversation.OriginAssistant,
			Text:   conversation.UploadNotice(resp.ParsedResume),
			Action: "resume_uploaded",
		})
	}
	return resp.ParsedResume, nil
}

// FetchResumeSummary refreshes the parsed-candidate listing.
func (s *Session) FetchResumeSummary(ctx context.Context) (types.ResumeSummaryResponse, error) {
	resume := s.store.Resume
	resp, ticket, err := invoke[types.ResumeSummaryResponse](ctx, s, resume, store.ResumeSummary, gateway.ResumeSummary, gateway.Request{}, "Failed to fetch resume summary")
	if err != nil {
		return resp, err
	}
	s.settled(resume.SucceedSummary(ticket, resp), "resume/summary")
	return resp, nil
}

// SendNotification emails HR about the latest upload.
func (s *Session) SendNotification(ctx context.Context, req types.NotificationRequest) (types.NotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return types.NotificationResponse{}, invalid(err)
	}
	resume := s.store.Resume
	resp, ticket, err := invoke[types.NotificationResponse](ctx, s, resume, store.ResumeNotification, gateway.SendNotification, gateway.Request{Body: req}, "Failed to send notification")
	if err != nil {
		return resp, err
	}
	s.settled(resume.SucceedNotification(ticket, resp), "resume/notification")
	return resp, nil
}

// SendTestEmail asks the service to send a test message to recipient.
func (s *Session) SendTestEmail(ctx context.Context, recipient string) (types.TestEmailResponse, error) {
	req := types.TestEmailRequest{RecipientEmail: recipient}
	if err := req.Validate(); err != nil {
		return types.TestEmailResponse{}, invalid(err)
	}
	resume := s.store.Resume
	resp, ticket, err := invoke[types.TestEmailResponse](ctx, s, resume, store.ResumeTestEmail, gateway.TestEmail, gateway.Request{
		Query: url.Values{"recipient_email": {recipient}},
	}, "Failed to send test email")
	if err != nil {
		return resp, err
	}
	s.settled(resume.SucceedTestEmail(ticket, resp), "resume/test-email")
	return resp, nil
}
