package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/staffpilot/internal/observability"
	"github.com/jonathan/staffpilot/internal/tui"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive assistant console",
		Long:  "Open a full-screen chat with the hiring assistant. Use /upload <file.pdf> to add a resume, /clear to reset the conversation and /quit to leave.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), s)
		},
	}
}

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>",
		Short: "Send one message to the assistant and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			reply, err := s.SendChat(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			printer := observability.NewPrinter(cmd.OutOrStdout())
			printer.PrintMessage("STAFFPILOT", reply.Response)
			printer.PrintTable("RESULTS", reply.TableData)
			for _, prompt := range reply.SuggestedPrompts {
				fmt.Fprintf(cmd.OutOrStdout(), "  → %s\n", prompt)
			}
			return nil
		},
	}
}

func newClearMemoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-memory",
		Short: "Clear the assistant's conversation memory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := sessionFrom(cmd)
			if err != nil {
				return err
			}
			if err := s.ClearMemory(cmd.Context()); err != nil {
				return err
			}
			timeline := s.Timeline()
			observability.NewPrinter(cmd.OutOrStdout()).PrintMessage("CHAT", timeline[len(timeline)-1].Text)
			return nil
		},
	}
}
