package session

import (
	"context"
	"net/url"
	"strings"

	"github.com/jonathan/staffpilot/internal/gateway"
	"github.com/jonathan/staffpilot/internal/store"
	"github.com/jonathan/staffpilot/internal/types"
)

// ListJobs fetches the job listing, optionally filtered by status.
func (s *Session) ListJobs(ctx context.Context, status string) ([]types.Job, error) {
	var q url.Values
	if status = strings.TrimSpace(status); status != "" {
		q = url.Values{"status": {status}}
	}
	jobs := s.store.Jobs
	list, ticket, err := invoke[[]types.Job](ctx, s, jobs, store.JobsList, gateway.ListJobs, gateway.Request{Query: q}, "Failed to fetch jobs")
	if err != nil {
		return nil, err
	}
	s.settled(jobs.SucceedList(ticket, list), "jobs/list")
	return list, nil
}

// SearchJobs fetches the jobs matching every non-empty filter.
func (s *Session) SearchJobs(ctx context.Context, search types.JobSearch) ([]types.Job, error) {
	jobs := s.store.Jobs
	list, ticket, err := invoke[[]types.Job](ctx, s, jobs, store.JobsSearch, gateway.SearchJobs, gateway.Request{Query: search.Query()}, "Failed to search jobs")
	if err != nil {
		return nil, err
	}
	s.settled(jobs.SucceedSearch(ticket, list), "jobs/search")
	return list, nil
}

// GetJob fetches a single job and makes it the selected job.
func (s *Session) GetJob(ctx context.Context, id int) (types.Job, error) {
	jobs := s.store.Jobs
	job, ticket, err := invoke[types.Job](ctx, s, jobs, store.JobsGet, gateway.JobByID(id), gateway.Request{}, "Failed to fetch job")
	if err != nil {
		return job, err
	}
	s.settled(jobs.SucceedGet(ticket, job), "jobs/get")
	return job, nil
}

// FetchJobStatistics refreshes the aggregate job statistics.
func (s *Session) FetchJobStatistics(ctx context.Context) (types.JobStatistics, error) {
	jobs := s.store.Jobs
	stats, ticket, err := invoke[types.JobStatistics](ctx, s, jobs, store.JobsStatistics, gateway.JobStatistics, gateway.Request{}, "Failed to fetch statistics")
	if err != nil {
		return stats, err
	}
	s.settled(jobs.SucceedStatistics(ticket, stats), "jobs/statistics")
	return stats, nil
}

// MatchCandidates scores stored candidates against a job title. A zero
// TopCandidates uses types.DefaultTopCandidates.
func (s *Session) MatchCandidates(ctx context.Context, req types.MatchRequest) ([]types.JobMatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	if req.TopCandidates == 0 {
		req.TopCandidates = types.DefaultTopCandidates
	}
	jobs := s.store.Jobs
	results, ticket, err := invoke[[]types.JobMatchResult](ctx, s, jobs, store.JobsMatch, gateway.MatchCandidates, gateway.Request{Body: req}, "Failed to match candidates")
	if err != nil {
		return nil, err
	}
	s.settled(jobs.SucceedMatch(ticket, req.JobTitle, results), "jobs/match")
	return results, nil
}

// QuickMatch scores one candidate against one job title.
func (s *Session) QuickMatch(ctx context.Context, req types.QuickMatchRequest) (types.JobMatchResult, error) {
	if err := req.Validate(); err != nil {
		return types.JobMatchResult{}, invalid(err)
	}
	jobs := s.store.Jobs
	result, ticket, err := invoke[types.JobMatchResult](ctx, s, jobs, store.JobsQuickMatch, gateway.QuickMatch, gateway.Request{Query: req.Query()}, "Failed to quick match")
	if err != nil {
		return result, err
	}
	s.settled(jobs.SucceedQuickMatch(ticket, result), "jobs/quick-match")
	return result, nil
}

// SendReachOutEmail emails a matched candidate about a job.
func (s *Session) SendReachOutEmail(ctx context.Context, req types.ReachOutRequest) (types.ReachOutResponse, error) {
	if err := req.Validate(); err != nil {
		return types.ReachOutResponse{}, invalid(err)
	}
	jobs := s.store.Jobs
	resp, ticket, err := invoke[types.ReachOutResponse](ctx, s, jobs, store.JobsEmail, gateway.SendReachOutEmail, gateway.Request{Body: req}, "Failed to send reach out email")
	if err != nil {
		return resp, err
	}
	s.settled(jobs.SucceedEmail(ticket, resp), "jobs/email")
	return resp, nil
}
