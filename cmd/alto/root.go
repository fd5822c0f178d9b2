package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/altoai/alto-go"
	"github.com/altoai/alto-go/config"
)

var (
	flagAPIKey    string
	flagBaseURL   string
	flagWorkspace string
	flagModel     string
	flagVerbose   bool

	// loadedConfig holds the file/env configuration resolved before any
	// subcommand runs. Flags override it.
	loadedConfig config.Config
)

var rootCmd = &cobra.Command{
	Use:           "alto",
	Short:         "Command line client for the Alto multimodal AI service",
	Version:       alto.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
	Long: `alto talks to the Alto service from the terminal: stream text generation,
submit and manage asynchronous synthesis tasks, and generate images.

Credentials come from --api-key, the ` + alto.EnvAPIKey + ` environment
variable, or ~/.alto/config.yaml, in that order.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		loadedConfig, err = config.Load()
		return err
	},
}

// resolve returns the flag value if set, otherwise the configured fallback.
func resolve(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func apiKey() string       { return resolve(flagAPIKey, loadedConfig.APIKey) }
func baseURL() string      { return resolve(flagBaseURL, loadedConfig.BaseURL) }
func workspaceID() string  { return resolve(flagWorkspace, loadedConfig.Workspace) }
func defaultModel() string { return resolve(flagModel, loadedConfig.DefaultModel) }

func Execute() {
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "API key (overrides env and config file)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "service base URL")
	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "workspace ID")
	rootCmd.PersistentFlags().StringVarP(&flagModel, "model", "m", "", "model name")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
