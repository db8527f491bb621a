package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffpilot/internal/observability"
	"github.com/jonathan/staffpilot/internal/types"
)

func newJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Browse jobs and match candidates",
	}
	cmd.AddCommand(
		newJobsListCmd(),
		newJobsSearchCmd(),
		newJobsGetCmd(),
		newJobsStatsCmd(),
		newJobsMatchCmd(),
		newJobsQuickMatchCmd(),
		newJobsReachOutCmd(),
	)
	return cmd
}

func newJobsListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs, optionally filtered by status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			jobs, err := s.ListJobs(cmd.Context(), status)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintJobs(fmt.Sprintf("JOBS (%d)", len(jobs)), jobs)
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "Only jobs with this status")
	return cmd
}

func newJobsSearchCmd() *cobra.Command {
	var search types.JobSearch

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search jobs by title, type or employment type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			jobs, err := s.SearchJobs(cmd.Context(), search)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintJobs(fmt.Sprintf("SEARCH RESULTS (%d)", len(jobs)), jobs)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&search.Title, "title", "", "Title contains")
	flags.StringVar(&search.JobType, "job-type", "", "Job type")
	flags.StringVar(&search.EmploymentType, "employment-type", "", "Employment type")
	return cmd
}

func newJobsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <job-id>",
		Short: "Show one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid job id %q: %w", args[0], err)
			}
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			job, err := s.GetJob(cmd.Context(), id)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintJob(job)
			return nil
		},
	}
}

func newJobsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show job and candidate statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			stats, err := s.FetchJobStatistics(cmd.Context())
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintStatistics(stats)
			return nil
		},
	}
}

func newJobsMatchCmd() *cobra.Command {
	var req types.MatchRequest

	cmd := &cobra.Command{
		Use:   "match <job-title>",
		Short: "Rank uploaded candidates against a job title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			req.JobTitle = args[0]
			matches, err := s.MatchCandidates(cmd.Context(), req)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(req.JobTitle, matches)
			return nil
		},
	}
	cmd.Flags().IntVar(&req.TopCandidates, "top", types.DefaultTopCandidates, "Number of candidates to return")
	return cmd
}

func newJobsQuickMatchCmd() *cobra.Command {
	var req types.QuickMatchRequest

	cmd := &cobra.Command{
		Use:   "quick-match",
		Short: "Score one candidate against one job title",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			result, err := s.QuickMatch(cmd.Context(), req)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(req.JobTitle, []types.JobMatchResult{result})
			return nil
		},
	}
	cmd.Flags().StringVar(&req.CandidateEmail, "candidate", "", "Candidate email (required)")
	cmd.Flags().StringVar(&req.JobTitle, "job-title", "", "Job title (required)")
	_ = cmd.MarkFlagRequired("candidate")
	_ = cmd.MarkFlagRequired("job-title")
	return cmd
}

func newJobsReachOutCmd() *cobra.Command {
	var req types.ReachOutRequest

	cmd := &cobra.Command{
		Use:   "reach-out",
		Short: "Email a matched candidate about a job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			resp, err := s.SendReachOutEmail(cmd.Context(), req)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("REACH-OUT SENT", resp.Message)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.CandidateEmail, "email", "", "Candidate email (required)")
	flags.StringVar(&req.CandidateName, "name", "", "Candidate name (required)")
	flags.StringVar(&req.JobTitle, "job-title", "", "Job title (required)")
	flags.Float64Var(&req.MatchScore, "score", 0, "Match score to mention")
	flags.StringSliceVar(&req.MatchingSkills, "skills", nil, "Matching skills to mention")
	flags.StringVar(&req.CandidateSummary, "summary", "", "Candidate summary")
	for _, name := range []string{"email", "name", "job-title"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
