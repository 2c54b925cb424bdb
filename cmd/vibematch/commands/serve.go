package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"yashubustudio/vibematch/internal/logging"
	"yashubustudio/vibematch/internal/server"
	"yashubustudio/vibematch/matcher"
	"yashubustudio/vibematch/vibematch"
)

func newServeCmd() *cobra.Command {
	var results, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve match results by name and class over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if s := strings.TrimSpace(results); s != "" {
				cfg.Server.ResultsPath = s
			}
			if s := strings.TrimSpace(addr); s != "" {
				cfg.Server.Addr = s
			}
			cycle, err := cfg.Matcher.FlamesCycle()
			if err != nil {
				return err
			}
			love, err := matcher.NewLoveCalculator(matcher.LoveLabels())
			if err != nil {
				return err
			}
			idx, err := vibematch.LoadResultIndex(cfg.Server.ResultsPath)
			if err != nil {
				return fmt.Errorf("load results %s: %w", cfg.Server.ResultsPath, err)
			}
			if !verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(idx, cycle, love, logging.Component("server")).ListenAndServe(ctx, cfg.Server.Addr)
		},
	}
	cmd.Flags().StringVar(&results, "results", "", "result CSV written by 'vibematch match'")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	return cmd
}
