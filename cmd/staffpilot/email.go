package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffpilot/internal/observability"
	"github.com/jonathan/staffpilot/internal/types"
)

func newEmailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "emails",
		Short: "Show email activity and delivery counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if _, err := s.FetchEmailLogs(cmd.Context()); err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintEmailStats(s.Store().Email.Snapshot())
			return nil
		},
	}
}

func newEmailCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "email",
		Short: "Send email through the assistant",
	}
	cmd.AddCommand(newEmailSendCmd(), newEmailQuickCmd(), newEmailTypesCmd())
	return cmd
}

func newEmailSendCmd() *cobra.Command {
	var req types.DirectEmailRequest

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a free-form email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			sent, err := s.SendDirectEmail(cmd.Context(), req)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("EMAIL SENT", sent.Reply.Response)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.RecipientEmail, "to", "", "Recipient address (required)")
	flags.StringVar(&req.Subject, "subject", "", "Subject line (required)")
	flags.StringVar(&req.Body, "body", "", "Message body (required)")
	flags.StringVar(&req.Reason, "reason", "", "Why the email is being sent (required)")
	for _, name := range []string{"to", "subject", "body", "reason"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newEmailQuickCmd() *cobra.Command {
	var (
		req       types.QuickEmailRequest
		emailType string
	)

	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Send a templated email",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			req.Type = types.EmailType(emailType)
			sent, err := s.SendQuickEmail(cmd.Context(), req)
			if err != nil {
				return err
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("EMAIL SENT", sent.Reply.Response)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&req.RecipientEmail, "to", "", "Recipient address (required)")
	flags.StringVar(&emailType, "type", string(types.EmailSelection), "Template: "+emailTypeValues())
	flags.StringVar(&req.AdditionalContext, "context", "", "Extra detail for the assistant")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newEmailTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the quick email templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			var sb strings.Builder
			for _, opt := range s.Store().Email.Types() {
				sb.WriteString(fmt.Sprintf("%-10s %s\n", opt.Value, opt.Label))
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("EMAIL TYPES", sb.String())
			return nil
		},
	}
}

func emailTypeValues() string {
	opts := types.EmailTypes()
	values := make([]string, 0, len(opts))
	for _, opt := range opts {
		values = append(values, string(opt.Value))
	}
	return strings.Join(values, ", ")
}
