package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medikbot/config"
	"medikbot/devserver"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local echo backend for development",
	Long: `Starts a backend that answers /api/chat with "You said: <message>",
accepts /api/feedback and reports /health. Feedback is appended to
<data_dir>/feedback.log.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		logger, err := config.NewServerLogger(cfg.Debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		feedbackPath := filepath.Join(cfg.DataDir(), "feedback.log")
		feedbackLog, err := os.OpenFile(feedbackPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("could not open feedback log: %w", err)
		}
		defer feedbackLog.Close()

		srv := devserver.New(
			devserver.WithLogger(logger),
			devserver.WithFeedbackLog(feedbackLog),
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("feedback log", zap.String("path", feedbackPath))
		return srv.ListenAndServe(ctx, serveAddr)
	},
}

func init() {
	addr := ":5000"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", addr, "Listen address")
}
