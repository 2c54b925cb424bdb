package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"yashubustudio/vibematch/internal/logging"
	"yashubustudio/vibematch/matcher"
	"yashubustudio/vibematch/vibematch"
)

type matchOptions struct {
	input    string
	output   string
	strategy string
	stdout   bool
	columns  vibematch.InputParseOptions
}

func newMatchCmd() *cobra.Command {
	var opts matchOptions
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Pair the submissions in a CSV/TSV export",
		Example: `  vibematch match --input submissions.csv
  vibematch match -i form.tsv -o out/results.csv --strategy shortlist --stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(cmd, opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", "", "CSV/TSV file with the submissions")
	f.StringVarP(&opts.output, "output", "o", "", "result CSV (default: server.results_path from config)")
	f.StringVar(&opts.strategy, "strategy", "", "greedy or shortlist (overrides config)")
	f.BoolVar(&opts.stdout, "stdout", false, "print the pairs as a table")
	f.StringVar(&opts.columns.NameColumn, "name-column", "", "column name or #index for names")
	f.StringVar(&opts.columns.GroupColumn, "class-column", "", "column name or #index for classes")
	f.StringVar(&opts.columns.GenderColumn, "gender-column", "", "column name or #index for genders")
	f.StringVar(&opts.columns.TargetColumn, "target-column", "", "column name or #index for target genders")
	f.StringVar(&opts.columns.TextColumn, "text-column", "", "column name or #index for the free text")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runMatch(cmd *cobra.Command, opts matchOptions) error {
	cfg, err := loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if s := strings.TrimSpace(opts.strategy); s != "" {
		cfg.Matcher.Strategy = matcher.Strategy(s)
	}
	mergeColumns(&cfg.Columns, opts.columns)

	input := strings.TrimSpace(opts.input)
	if input == "" {
		return errors.New("missing required --input file")
	}
	output := strings.TrimSpace(opts.output)
	if output == "" {
		output = cfg.Server.ResultsPath
	}
	if output == "" {
		return errors.New("no output path: pass --output or set server.results_path")
	}
	if abs, err := filepath.Abs(output); err == nil {
		output = abs
	}

	svc, err := vibematch.OpenService(cfg, logging.Logger())
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	defer svc.Close()

	rows, err := svc.RunFile(cmd.Context(), input, output)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d results to %s\n", len(rows), output)
	if opts.stdout {
		printPairs(cmd.OutOrStdout(), rows)
	}
	return nil
}

// mergeColumns applies the non-empty flag overrides on top of the config.
func mergeColumns(dst *vibematch.InputParseOptions, src vibematch.InputParseOptions) {
	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&dst.NameColumn, src.NameColumn)
	set(&dst.GroupColumn, src.GroupColumn)
	set(&dst.GenderColumn, src.GenderColumn)
	set(&dst.TargetColumn, src.TargetColumn)
	set(&dst.TextColumn, src.TextColumn)
}

func printPairs(w io.Writer, rows []vibematch.ResultRow) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCLASS\tMATCH\tSCORE\tLABEL\tFATE")
	for _, r := range rows {
		if !r.Matched {
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t%s\t-\n", r.Name, r.Group, r.Label)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%s\t%s\n", r.Name, r.Group, r.MatchName, r.Score, r.Label, r.Fate)
	}
	_ = tw.Flush()
}
