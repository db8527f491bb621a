package store

import (
	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/types"
)

// ResumeOp is an operation kind of the resume domain.
type ResumeOp string

// Resume operation kinds.
const (
	ResumeUpload       ResumeOp = "upload"
	ResumeSummary      ResumeOp = "summary"
	ResumeNotification ResumeOp = "notification"
	ResumeTestEmail    ResumeOp = "test-email"
)

// ResumeSnapshot is the latest resume data known to the console.
type ResumeSnapshot struct {
	LastUploaded     *types.ParsedResume
	Summaries        []types.ResumeSummary
	TotalResumes     int
	LastNotification *types.NotificationResponse
	LastTestEmail    *types.TestEmailResponse
}

// Resume is the resume domain store.
type Resume struct {
	base[ResumeOp, ResumeSnapshot]
}

func newResume(opts Options) *Resume {
	r := &Resume{}
	r.init(NameResume, opts, ResumeSnapshot{}, cloneResumeSnapshot)
	return r
}

// Snapshot returns a copy of the resume data.
func (r *Resume) Snapshot() ResumeSnapshot {
	return r.snapshot()
}

// SucceedUpload records the newly parsed record. The summary listing is left
// alone; only an explicit summary fetch refreshes it.
func (r *Resume) SucceedUpload(ticket lifecycle.Ticket[ResumeOp], parsed *types.ParsedResume) bool {
	return r.succeed(ticket, func(s ResumeSnapshot) ResumeSnapshot { return mergeUpload(s, parsed) })
}

// SucceedSummary replaces the summary listing.
func (r *Resume) SucceedSummary(ticket lifecycle.Ticket[ResumeOp], resp types.ResumeSummaryResponse) bool {
	return r.succeed(ticket, func(s ResumeSnapshot) ResumeSnapshot { return mergeSummary(s, resp) })
}

// SucceedNotification records the last HR notification confirmation.
func (r *Resume) SucceedNotification(ticket lifecycle.Ticket[ResumeOp], resp types.NotificationResponse) bool {
	return r.succeed(ticket, func(s ResumeSnapshot) ResumeSnapshot {
		s.LastNotification = &resp
		return s
	})
}

// SucceedTestEmail records the last test email confirmation.
func (r *Resume) SucceedTestEmail(ticket lifecycle.Ticket[ResumeOp], resp types.TestEmailResponse) bool {
	return r.succeed(ticket, func(s ResumeSnapshot) ResumeSnapshot {
		s.LastTestEmail = &resp
		return s
	})
}

// Reset returns op to Idle, clears its error and drops the data it owns.
func (r *Resume) Reset(op ResumeOp) {
	r.reset(op, func(s ResumeSnapshot) ResumeSnapshot {
		switch op {
		case ResumeUpload:
			s.LastUploaded = nil
		case ResumeSummary:
			s.Summaries = nil
			s.TotalResumes = 0
		case ResumeNotification:
			s.LastNotification = nil
		case ResumeTestEmail:
			s.LastTestEmail = nil
		}
		return s
	})
}

func mergeUpload(prev ResumeSnapshot, parsed *types.ParsedResume) ResumeSnapshot {
	next := prev
	next.LastUploaded = cloneParsedResume(parsed)
	return next
}

func mergeSummary(prev ResumeSnapshot, resp types.ResumeSummaryResponse) ResumeSnapshot {
	next := prev
	next.Summaries = cloneSlice(resp.Resumes)
	if next.Summaries == nil {
		next.Summaries = []types.ResumeSummary{}
	}
	next.TotalResumes = resp.TotalResumes
	return next
}

func cloneResumeSnapshot(s ResumeSnapshot) ResumeSnapshot {
	out := s
	out.LastUploaded = cloneParsedResume(s.LastUploaded)
	out.Summaries = cloneSlice(s.Summaries)
	out.LastNotification = clonePtr(s.LastNotification)
	out.LastTestEmail = clonePtr(s.LastTestEmail)
	return out
}

func cloneParsedResume(p *types.ParsedResume) *types.ParsedResume {
	if p == nil {
		return nil
	}
	out := *p
	out.Skills = cloneSlice(p.Skills)
	out.WorkExperience = cloneSlice(p.WorkExperience)
	out.Education = cloneSlice(p.Education)
	out.Certifications = cloneSlice(p.Certifications)
	return &out
}
