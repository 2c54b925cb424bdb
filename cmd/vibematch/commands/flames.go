package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/vibematch/matcher"
	"yashubustudio/vibematch/vibematch"
)

func newFlamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "flames NAME NAME",
		Short:   "Play the FLAMES name game for two names",
		Example: `  vibematch flames "Romeo Montague" "Juliet Capulet"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := vibematch.LoadConfig(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cycle, err := cfg.Matcher.FlamesCycle()
			if err != nil {
				return err
			}
			out := matcher.FlamesWithCycle(args[0], args[1], cycle)
			fmt.Fprintf(cmd.OutOrStdout(), "%s + %s: %s (rank %d)\n", args[0], args[1], out, out.Rank())
			return nil
		},
	}
}
