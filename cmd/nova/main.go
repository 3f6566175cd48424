package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"novapro/internal/advisor"
	"novapro/internal/config"
	"novapro/internal/logging"
	"novapro/internal/perception"
	"novapro/internal/terminal"
)

var (
	// Global flags
	verbose    bool
	configPath string
	timeout    time.Duration

	// Loaded by PersistentPreRunE
	cfg *config.Config

	// Session log printed with --verbose/--explain
	session *terminal.Log
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nova",
	Short: "Nova Pro - AI strategy advisor",
	Long: `nova asks a hosted Gemini model for a tuning strategy (frame rate,
sensitivity and movement) for a device and playstyle.

The model is constrained to a fixed JSON shape. Any failure, including a
missing API key, yields a fixed fallback report instead of an error.

The API key is read from API_KEY, GOOGLE_API_KEY or GEMINI_API_KEY.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if timeout > 0 {
			loaded.LLM.Timeout = timeout.String()
		}
		if verbose {
			loaded.Logging.Level = "debug"
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if err := logging.Initialize(loaded.Logging.Options()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg = loaded
		session = terminal.NewLog(terminal.DefaultCapacity)
		logging.Boot("config loaded: path=%s provider=%s model=%s timeout=%v",
			configPath, cfg.LLM.Provider, cfg.LLM.Model, cfg.GetLLMTimeout())
		logging.BootDebug("config: %+v", cfg.Redacted().LLM)
		if cfg.LLM.APIKey == "" {
			logging.BootWarn("no API key configured (set API_KEY, GOOGLE_API_KEY or GEMINI_API_KEY); requests will fall back")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Path to YAML config")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (overrides llm.timeout)")

	rootCmd.AddCommand(adviseCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(schemaCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newAdvisor wires the configured client, wrapped for tracing, into an Advisor.
func newAdvisor(c *config.Config, sink perception.TraceSink) (*advisor.Advisor, error) {
	client, err := perception.NewClientFromConfig(c.LLM)
	if err != nil {
		return nil, err
	}
	return advisor.New(
		perception.NewTracingClient(client, sink),
		advisor.WithTimeout(c.GetLLMTimeout()),
		advisor.WithSystemPrompt(c.Advisor.SystemPrompt),
	), nil
}
