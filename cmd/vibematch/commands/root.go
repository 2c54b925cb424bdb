package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"yashubustudio/vibematch/internal/logging"
	"yashubustudio/vibematch/vibematch"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vibematch",
		Short: "Pair up a cohort by vibe, name fate and mutual preference",
		Long: `vibematch pairs the people in a form export one-to-one.

Each submission's free text is embedded, compared against every eligible
partner, blended with the FLAMES name game, and the best pairs are
committed greedily (or through shortlists). Results are written as a CSV
that the lookup server can serve back by name and class.

Configuration is read from config.yaml, then VIBEMATCH_* environment
variables (nested keys joined with a double underscore), e.g.
  VIBEMATCH_MATCHER__STRATEGY=shortlist
  VIBEMATCH_EMBEDDER__PROVIDER=openai
A .env file in the working directory is loaded first.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default ./config.yaml)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	cmd.AddCommand(newMatchCmd(), newFlamesCmd(), newLoveCmd(), newServeCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initialises logging from it.
func loadConfig(stderr io.Writer) (vibematch.Config, error) {
	cfg, err := vibematch.LoadConfig(configPath)
	if err != nil {
		return vibematch.Config{}, fmt.Errorf("load config: %w", err)
	}
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	logging.Init(logging.Config{Level: level, Format: cfg.Log.Format, Output: stderr})
	return cfg, nil
}
