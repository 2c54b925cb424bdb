package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/vibematch/matcher"
)

func newLoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "love NAME NAME",
		Short:   "Run the love calculator for two names",
		Example: `  vibematch love Romeo Juliet`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := matcher.NewLoveCalculator(matcher.LoveLabels())
			if err != nil {
				return err
			}
			res := calc.Calculate(args[0], args[1])
			fmt.Fprintf(cmd.OutOrStdout(), "%s + %s: %d%% %s\n", args[0], args[1], res.Percent, res.Message)
			return nil
		},
	}
}
