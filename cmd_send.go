package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medikbot/config"
	"medikbot/session"
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send one message and print the conversation",
	Long: `Sends a single message to the backend and prints the user message
followed by the reply, one line each. Exits non-zero when the backend could
not be reached or answered with an error.

Example:
  medikbot send "What can I take for a headache?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, closeLog, err := config.NewDebugLogger(cfg.DataDir(), cfg.Debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		defer closeLog()

		client, err := newClient(cfg, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return sendOnce(ctx, client, logger, strings.Join(args, " "), cmd.OutOrStdout())
	},
}

// sendOnce prints every message as it is rendered. The placeholder is not shown.
func sendOnce(ctx context.Context, sender session.Sender, logger *zap.Logger, text string, out io.Writer) error {
	transcript := session.NewTranscript()
	transcript.OnChange(func(c session.Change) {
		if c.Kind != session.Appended || c.Entry.Placeholder {
			return
		}
		name := "You"
		if !c.Entry.IsUser() {
			name = "MedikBot"
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", c.Entry.Clock(), name, c.Entry.Text)
	})

	ctrl := session.New(sender, transcript, session.WithLogger(logger))
	_, err := ctrl.Converse(ctx, text)
	if err != nil {
		return fmt.Errorf("chat request failed: %w", err)
	}
	return nil
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client, err := newClient(cfg, zap.NewNop())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("%s is unhealthy: %w", client.BaseURL(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is healthy\n", client.BaseURL())
		return nil
	},
}
