package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"yashubustudio/vibematch/matcher"
)

// Version is overridden at build time with -ldflags "-X ...commands.Version=v1.2.3".
var Version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "vibematch %s\n", Version)
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "  go:       %s\n", runtime.Version())
				fmt.Fprintf(cmd.OutOrStdout(), "  strategy: %s\n", matcher.DefaultConfig().Strategy)
			}
		},
	}
}
