package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/staffpilot/internal/observability"
	"github.com/jonathan/staffpilot/internal/store"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Refresh every domain and show its state",
		Long:  "Fetch resumes, email logs, job statistics and jobs in parallel, then print the per-domain state and any errors. Individual fetch failures are reported but do not abort the rest.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			refreshErr := s.Refresh(cmd.Context())

			printer := observability.NewPrinter(cmd.OutOrStdout())
			printer.PrintDashboard(s.Dashboard().Overview())

			snap := s.Store().Jobs.Snapshot()
			if snap.Statistics != nil {
				printer.PrintStatistics(*snap.Statistics)
			}
			printer.PrintEmailStats(s.Store().Email.Snapshot())

			var errs []store.ErrorInfo
			for _, d := range s.Store().Domains() {
				errs = append(errs, d.Errors()...)
			}
			printer.PrintErrors(errs)
			return refreshErr
		},
	}
}
