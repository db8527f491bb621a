package store

import (
	"github.com/jonathan/staffpilot/internal/lifecycle"
	"github.com/jonathan/staffpilot/internal/types"
)

// JobsOp is an operation kind of the jobs domain.
type JobsOp string

// Jobs operation kinds. Each owns its own slice of the snapshot.
const (
	JobsStatistics JobsOp = "statistics"
	JobsList       JobsOp = "list"
	JobsSearch     JobsOp = "search"
	JobsGet        JobsOp = "get"
	JobsMatch      JobsOp = "match"
	JobsEmail      JobsOp = "email"
	JobsQuickMatch JobsOp = "quick-match"
)

// JobsOps returns every jobs operation kind.
func JobsOps() []JobsOp {
	return []JobsOp{JobsStatistics, JobsList, JobsSearch, JobsGet, JobsMatch, JobsEmail, JobsQuickMatch}
}

// JobsSnapshot is the latest jobs data known to the console.
type JobsSnapshot struct {
	Statistics    *types.JobStatistics
	Jobs          []types.Job
	SearchResults []types.Job
	SelectedJob   *types.Job
	MatchResults  []types.JobMatchResult
	MatchJobTitle string
	ReachOuts     []types.ReachOutResponse
	QuickMatch    *types.JobMatchResult
}

// Jobs is the jobs domain store.
type Jobs struct {
	base[JobsOp, JobsSnapshot]
}

func newJobs(opts Options) *Jobs {
	j := &Jobs{}
	j.init(NameJobs, opts, JobsSnapshot{}, cloneJobsSnapshot)
	return j
}

// Snapshot returns a copy of the jobs data.
func (j *Jobs) Snapshot() JobsSnapshot {
	return j.snapshot()
}

// SucceedStatistics replaces the aggregate statistics.
func (j *Jobs) SucceedStatistics(ticket lifecycle.Ticket[JobsOp], stats types.JobStatistics) bool {
	return j.succeed(ticket, func(s JobsSnapshot) JobsSnapshot {
		s.Statistics = cloneStatistics(&stats)
		return s
	})
}

// SucceedList replaces the job listing.
func (j *Jobs) SucceedList(ticket lifecycle.Ticket[JobsOp], jobs []types.Job) bool {
	return j.succeed(ticket, func(s JobsSnapshot) JobsSnapshot {
		s.Jobs = nonNil(cloneSlice(jobs))
		return s
	})
}

// SucceedSearch replaces the search results.
func (j *Jobs) SucceedSearch(ticket lifecycle.Ticket[JobsOp], jobs []types.Job) bool {
	return j.succeed(ticket, func(s JobsSnapshot) JobsSnapshot {
		s.SearchResults = nonNil(cloneSlice(jobs))
		return s
	})
}

// SucceedGet replaces the selected job.
func (j *Jobs) SucceedGet(ticket lifecycle.Ticket[JobsOp], job types.Job) bool {
	return j.succeed(ticket, func(s JobsSnapshot) JobsSnapshot {
		s.SelectedJob = &job
		return s
	})
}

// SucceedMatch replaces the match results and remembers the job title they
// were scored against.
func (j *Jobs) SucceedMatch(ticket lifecycle.Ticket[JobsOp], jobTitle string, results []types.JobMatchResult) bool {
	return j.succeed(ticket, func(s JobsSnapshot) JobsSnapshot {
		return mergeMatch(s, jobTitle, results)
	})
}

// SucceedEmail appends a reach-out confirmation. Like chat sends, every
// confirmation is kept.
func (j *Jobs) SucceedEmail(ticket lifecycle.Ticket[JobsOp], resp types.ReachOutResponse) bool {
	return j.accumulate(ticket, func(s JobsSnapshot) JobsSnapshot {
		s.ReachOuts = append(cloneSlice(s.ReachOuts), resp)
		return s
	})
}

// SucceedQuickMatch replaces the single quick-match result.
func (j *Jobs) SucceedQuickMatch(ticket lifecycle.Ticket[JobsOp], result types.JobMatchResult) bool {
	return j.succeed(ticket, func(s JobsSnapshot) JobsSnapshot {
		m := cloneMatch(result)
		s.QuickMatch = &m
		return s
	})
}

// Reset returns op to Idle, clears its error and drops the data it owns.
// Data owned by other kinds is untouched.
func (j *Jobs) Reset(op JobsOp) {
	j.reset(op, func(s JobsSnapshot) JobsSnapshot {
		switch op {
		case JobsStatistics:
			s.Statistics = nil
		case JobsList:
			s.Jobs = nil
		case JobsSearch:
			s.SearchResults = nil
		case JobsGet:
			s.SelectedJob = nil
		case JobsMatch:
			s.MatchResults = nil
			s.MatchJobTitle = ""
		case JobsEmail:
			s.ReachOuts = nil
		case JobsQuickMatch:
			s.QuickMatch = nil
		}
		return s
	})
}

// ClearAllErrors drops every error in the jobs domain. Lifecycles and data
// are kept.
func (j *Jobs) ClearAllErrors() {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, op := range JobsOps() {
		j.ops.ClearError(op)
	}
}

func mergeMatch(prev JobsSnapshot, jobTitle string, results []types.JobMatchResult) JobsSnapshot {
	next := prev
	next.MatchJobTitle = jobTitle
	next.MatchResults = make([]types.JobMatchResult, 0, len(results))
	for _, r := range results {
		next.MatchResults = append(next.MatchResults, cloneMatch(r))
	}
	return next
}

func cloneJobsSnapshot(s JobsSnapshot) JobsSnapshot {
	out := s
	out.Statistics = cloneStatistics(s.Statistics)
	out.Jobs = cloneSlice(s.Jobs)
	out.SearchResults = cloneSlice(s.SearchResults)
	out.SelectedJob = clonePtr(s.SelectedJob)
	if s.MatchResults != nil {
		out.MatchResults = make([]types.JobMatchResult, len(s.MatchResults))
		for i, m := range s.MatchResults {
			out.MatchResults[i] = cloneMatch(m)
		}
	}
	out.ReachOuts = cloneSlice(s.ReachOuts)
	if s.QuickMatch != nil {
		m := cloneMatch(*s.QuickMatch)
		out.QuickMatch = &m
	}
	return out
}

func cloneMatch(m types.JobMatchResult) types.JobMatchResult {
	out := m
	out.MatchingSkills = cloneSlice(m.MatchingSkills)
	out.RelevantExperience = cloneSlice(m.RelevantExperience)
	if parsed := cloneParsedResume(&m.ResumeData); parsed != nil {
		out.ResumeData = *parsed
	}
	return out
}

func cloneStatistics(s *types.JobStatistics) *types.JobStatistics {
	if s == nil {
		return nil
	}
	out := *s
	if s.JobsByStatus != nil {
		out.JobsByStatus = make(map[string]int, len(s.JobsByStatus))
		for k, v := range s.JobsByStatus {
			out.JobsByStatus[k] = v
		}
	}
	out.EmploymentTypes = cloneSlice(s.EmploymentTypes)
	out.JobTypes = cloneSlice(s.JobTypes)
	return &out
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
