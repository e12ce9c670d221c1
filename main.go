package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"medikbot/backend"
	"medikbot/config"
	"medikbot/ui"
)

const (
	Version = "v0.01.00"
	License = "Apache-2.0"
)

var (
	// Global flags
	endpointFlag string
	configFlag   string
	debugFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "medikbot",
	Short: "MedikBot - terminal chat client for the MedikBot health assistant",
	Long: `MedikBot sends your questions to a MedikBot backend and shows the replies
in a scrolling conversation.

Run without arguments to start the interactive chat interface.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&endpointFlag, "endpoint", "e", "", "Backend base URL (overrides settings and MEDIKBOT_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to settings.toml")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write diagnostics to <data_dir>/debug.log")

	rootCmd.AddCommand(sendCmd, healthCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults < settings file < environment < flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Endpoint = endpointFlag
	}
	if debugFlag {
		cfg.Debug = true
	}
	return cfg, nil
}

func newClient(cfg *config.Config, logger *zap.Logger) (*backend.Client, error) {
	return backend.NewClient(cfg.Endpoint,
		backend.WithTimeout(cfg.RequestTimeout),
		backend.WithLogger(logger),
		backend.WithUserAgent("medikbot/"+Version),
	)
}

func runInteractive(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return showConfigError(err, configFlag)
	}

	logger, closeLog, err := config.NewDebugLogger(cfg.DataDir(), cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	defer closeLog()

	if _, warning := cfg.Keybindings.Validate(); warning != "" {
		logger.Warn("keybinding configuration", zap.String("warning", warning))
	}

	client, err := newClient(cfg, logger)
	if err != nil {
		return showConfigError(err, cfg.SettingsPath)
	}

	logger.Info("starting chat", zap.String("endpoint", client.BaseURL()), zap.String("version", Version))

	p := tea.NewProgram(
		ui.NewAppView(cfg, client, logger, Version),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat interface: %w", err)
	}
	return nil
}

// showConfigError blocks on the error modal, then returns cause for the exit status
func showConfigError(cause error, settingsPath string) error {
	p := tea.NewProgram(
		ui.NewConfigErrorModal(cause, settingsPath),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		return err
	}
	return fmt.Errorf("configuration: %w", cause)
}
