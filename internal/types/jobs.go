package types

import "net/url"

// Job is one open (or closed) position known to the service.
type Job struct {
	JobID          int    `json:"jobId"`
	ClientID       int    `json:"clientId"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	JobType        string `json:"jobType"`
	EmploymentType string `json:"employmentType"`
	Status         string `json:"status"`
	CreatedDate    string `json:"createdDate"`
}

// JobSearch holds the optional filters for GET /jobs/jobs/search.
type JobSearch struct {
	Title          string
	JobType        string
	EmploymentType string
}

// Query encodes the non-empty filters.
func (s JobSearch) Query() url.Values {
	q := url.Values{}
	if s.Title != "" {
		q.Set("title", s.Title)
	}
	if s.JobType != "" {
		q.Set("job_type", s.JobType)
	}
	if s.EmploymentType != "" {
		q.Set("employment_type", s.EmploymentType)
	}
	return q
}

// DefaultTopCandidates is the match size used when a request leaves it unset.
const DefaultTopCandidates = 5

// MatchRequest is the body posted to /jobs/match-candidates.
type MatchRequest struct {
	JobTitle      string `json:"job_title" validate:"required"`
	TopCandidates int    `json:"top_candidates" validate:"gte=0"`
}

// Validate validates the MatchRequest using the validator.
func (r *MatchRequest) Validate() error {
	return validate.Struct(r)
}

// JobMatchResult is one scored candidate for a job.
type JobMatchResult struct {
	CandidateName      string       `json:"candidate_name"`
	CandidateEmail     string       `json:"candidate_email"`
	MatchScore         float64      `json:"match_score"`
	MatchingSkills     []string     `json:"matching_skills"`
	RelevantExperience []string     `json:"relevant_experience"`
	EducationMatch     string       `json:"education_match"`
	Summary            string       `json:"summary"`
	ResumeData         ParsedResume `json:"resume_data"`
}

// JobStatistics is the body returned by GET /jobs/statistics.
type JobStatistics struct {
	TotalJobs       int            `json:"total_jobs"`
	TotalCandidates int            `json:"total_candidates"`
	JobsByStatus    map[string]int `json:"jobs_by_status"`
	EmploymentTypes []string       `json:"employment_types"`
	JobTypes        []string       `json:"job_types"`
}

// QuickMatchRequest scores one known candidate against one job title.
type QuickMatchRequest struct {
	CandidateEmail string `validate:"required,email"`
	JobTitle       string `validate:"required"`
}

// Validate validates the QuickMatchRequest using the validator.
func (r *QuickMatchRequest) Validate() error {
	return validate.Struct(r)
}

// Query encodes the request as query parameters.
func (r QuickMatchRequest) Query() url.Values {
	q := url.Values{}
	q.Set("candidate_email", r.CandidateEmail)
	q.Set("job_title", r.JobTitle)
	return q
}

// ReachOutRequest is the body posted to /resume/send-reach-out-email.
type ReachOutRequest struct {
	CandidateEmail   string   `json:"candidate_email" validate:"required,email"`
	CandidateName    string   `json:"candidate_name" validate:"required"`
	JobTitle         string   `json:"job_title" validate:"required"`
	MatchScore       float64  `json:"match_score"`
	MatchingSkills   []string `json:"matching_skills"`
	CandidateSummary string   `json:"candidate_summary"`
}

// Validate validates the ReachOutRequest using the validator.
func (r *ReachOutRequest) Validate() error {
	return validate.Struct(r)
}

// ReachOutFromMatch builds a reach-out request from a match result.
func ReachOutFromMatch(jobTitle string, m JobMatchResult) ReachOutRequest {
	return ReachOutRequest{
		CandidateEmail:   m.CandidateEmail,
		CandidateName:    m.CandidateName,
		JobTitle:         jobTitle,
		MatchScore:       m.MatchScore,
		MatchingSkills:   append([]string(nil), m.MatchingSkills...),
		CandidateSummary: m.Summary,
	}
}

// ReachOutResponse is the service's confirmation of a reach-out email.
type ReachOutResponse struct {
	Message        string `json:"message"`
	Status         string `json:"status,omitempty"`
	CandidateEmail string `json:"candidate_email,omitempty"`
	Timestamp      string `json:"timestamp,omitempty"`
}
