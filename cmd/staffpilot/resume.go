package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/staffpilot/internal/observability"
	"github.com/jonathan/staffpilot/internal/types"
)

func newUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <resume.pdf>",
		Short: "Upload and parse a PDF resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			parsed, err := s.UploadResumeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintParsedResume(parsed)
			return nil
		},
	}
}

func newResumesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resumes",
		Short: "List every parsed resume",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			resp, err := s.FetchResumeSummary(cmd.Context())
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintResumes(resp)
			return nil
		},
	}
}

func newNotifyCmd() *cobra.Command {
	var req types.NotificationRequest

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Notify HR about the most recent candidate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			resp, err := s.SendNotification(cmd.Context(), req)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("NOTIFICATION", resp.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.HREmail, "hr-email", "", "HR recipient address (required)")
	cmd.Flags().StringVar(&req.CandidateName, "candidate", "", "Candidate name (defaults to the latest upload)")
	_ = cmd.MarkFlagRequired("hr-email")
	return cmd
}

func newTestEmailCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-email <recipient>",
		Short: "Send a test email to check the mail configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			resp, err := s.SendTestEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("TEST EMAIL", resp.Message)
			return nil
		},
	}
}
