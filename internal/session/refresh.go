package session

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Refresh fetches the resume summary, email logs, job listing and job
// statistics concurrently. Each failure is settled in its own domain; the
// returned error joins all of them.
func (s *Session) Refresh(ctx context.Context) error {
	fetches := []func(context.Context) error{
		func(ctx context.Context) error { _, err := s.FetchResumeSummary(ctx); return err },
		func(ctx context.Context) error { _, err := s.FetchEmailLogs(ctx); return err },
		func(ctx context.Context) error { _, err := s.ListJobs(ctx, ""); return err },
		func(ctx context.Context) error { _, err := s.FetchJobStatistics(ctx); return err },
	}

	errs := make([]error, len(fetches))
	var g errgroup.Group
	g.SetLimit(s.limit)
	for i, fetch := range fetches {
		g.Go(func() error {
			errs[i] = fetch(ctx)
			return nil
		})
	}
	_ = g.Wait()

	err := errors.Join(errs...)
	if err != nil {
		s.log.Info("refresh completed with failures", zap.Error(err))
	}
	return err
}
