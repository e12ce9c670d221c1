package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"medikbot/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or change settings.toml",
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Write one setting to settings.toml",
	Long: `Validates and stores a setting. Keys: ` + strings.Join(config.SettableKeys, ", ") + `.

Example:
  medikbot config set endpoint https://medikbot.example.com`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := settingsPath()
		if err := setSetting(path, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %q written to %s\n", args[0], args[1], path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), settingsPath())
	},
}

func init() {
	configCmd.AddCommand(configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func settingsPath() string {
	if configFlag != "" {
		return config.ExpandPath(configFlag)
	}
	return config.GetSettingsFilePath()
}

func setSetting(path, key, value string) error {
	fileCfg, err := config.LoadFileConfig(path)
	if err != nil {
		return err
	}
	if err := config.SetValue(fileCfg, key, value); err != nil {
		return err
	}
	return config.SaveFileConfig(fileCfg, path)
}
