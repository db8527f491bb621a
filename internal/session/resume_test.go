package session

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/staffpilot/internal/conversation"
	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func TestCheckUpload(t *testing.T) {
	assert.NoError(t, CheckUpload(samplePDF))
	assert.ErrorIs(t, CheckUpload([]byte("plain text resume")), ErrNotPDF)
	assert.ErrorIs(t, CheckUpload(nil), ErrNotPDF)

	big := append(append([]byte(nil), samplePDF...), bytes.Repeat([]byte{' '}, MaxUploadBytes)...)
	err := CheckUpload(big)
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUploadResume_Success(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/upload", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "cv.pdf", header.Filename)
		assert.Equal(t, samplePDF, data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"parsed_resume": {
			"full_name": "Ada Lovelace",
			"email": "ada@example.com",
			"skills": ["math", "engines"],
			"work_experience": [{"position": "Analyst"}],
			"education": []
		}}`))
	})
	s := f.session(t, lifecycle.LatestIssuedWins)

	parsed, err := s.UploadResume(context.Background(), "cv.pdf", samplePDF)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", parsed.FullName)

	snap := s.Store().Resume.Snapshot()
	require.NotNil(t, snap.LastUploaded)
	assert.Equal(t, "ada@example.com", snap.LastUploaded.Email)
	assert.Nil(t, snap.Summaries)

	timeline := s.Timeline()
	require.Len(t, timeline, 3)
	assert.Equal(t, conversation.OriginUser, timeline[1].Origin)
	assert.Equal(t, "Uploading resume: cv.pdf", timeline[1].Text)
	assert.Equal(t, "cv.pdf", timeline[1].FileName)
	assert.Equal(t, conversation.OriginAssistant, timeline[2].Origin)
	assert.Equal(t, "resume_uploaded", timeline[2].Action)
	assert.Contains(t, timeline[2].Text, "Ada Lovelace")
}

func TestUploadResume_Failure(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodPost, "/resume/upload", http.StatusBadRequest, `{"detail": "Could not extract text from PDF"}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.UploadResume(context.Background(), "cv.pdf", samplePDF)
	require.Error(t, err)

	assert.Equal(t, "Could not extract text from PDF", s.Store().Resume.Status(store.ResumeUpload).Err)
	timeline := s.Timeline()
	require.Len(t, timeline, 3)
	assert.Equal(t, conversation.OriginLocal, timeline[2].Origin)
	assert.Equal(t, "Failed to upload resume: Could not extract text from PDF", timeline[2].Text)
}

func TestUploadResume_RejectsNonPDFBeforeSending(t *testing.T) {
	f := newFakeService(t)
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.UploadResume(context.Background(), "cv.txt", []byte("Ada Lovelace, analyst"))
	require.ErrorIs(t, err, ErrNotPDF)

	assert.Zero(t, f.calls.Load())
	assert.Equal(t, lifecycle.Idle, s.Store().Resume.Status(store.ResumeUpload).State)
	assert.Len(t, s.Timeline(), 1)
}

func TestUploadResumeFile(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodPost, "/resume/upload", http.StatusOK, `{"parsed_resume": {"full_name": "Ada"}}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	path := filepath.Join(t.TempDir(), "ada.pdf")
	require.NoError(t, os.WriteFile(path, samplePDF, 0o600))

	parsed, err := s.UploadResumeFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", parsed.FullName)
	assert.Equal(t, "Uploading resume: ada.pdf", s.Timeline()[1].Text)

	_, err = s.UploadResumeFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFetchResumeSummary(t *testing.T) {
	f := newFakeService(t)
	f.reply(http.MethodGet, "/resume/resume-summary", http.StatusOK, `{
		"resumes": [{"filename": "a.pdf", "full_name": "Ada", "email": "ada@example.com", "skills_count": 4, "experience_count": 2}],
		"total_resumes": 1
	}`)
	s := f.session(t, lifecycle.LatestIssuedWins)

	resp, err := s.FetchResumeSummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.TotalResumes)

	snap := s.Store().Resume.Snapshot()
	require.Len(t, snap.Summaries, 1)
	assert.Equal(t, 4, snap.Summaries[0].SkillsCount)
}

func TestSendNotification(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/send-notification", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"hr_email": "hr@example.com", "candidate_name": "Ada"}`, string(body))
		_, _ = w.Write([]byte(`{"message": "Notification sent", "candidate": "Ada"}`))
	})
	s := f.session(t, lifecycle.LatestIssuedWins)

	_, err := s.SendNotification(context.Background(), types.NotificationRequest{HREmail: "not-an-email"})
	require.ErrorIs(t, err, ErrInvalidInput)

	resp, err := s.SendNotification(context.Background(), types.NotificationRequest{HREmail: "hr@example.com", CandidateName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "Notification sent", resp.Message)
	assert.Equal(t, "Notification sent", s.Store().Resume.Snapshot().LastNotification.Message)
}

func TestSendTestEmail(t *testing.T) {
	f := newFakeService(t)
	f.handle(http.MethodPost, "/resume/test-email", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ops@example.com", r.URL.Query().Get("recipient_email"))
		_, _ = w.Write([]byte(`{"message": "Test email sent", "status": "success"}`))
	})
	s := f.session(t, lifecycle.LatestIssuedWins)

	resp, err := s.SendTestEmail(context.Background(), "ops@example.com")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, lifecycle.Succeeded, s.Store().Resume.Status(store.ResumeTestEmail).State)
}
