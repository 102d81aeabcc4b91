package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"StockLens/internal/resolver"
	"StockLens/internal/session"
)

func newReportCmd(load appLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <input>...",
		Short: "Build a report for a ticker, stock ID or company name",
		Example: `  stocklens report 台積電
  stocklens report 2330 AAPL --compact
  stocklens report "Taiwan Semiconductor Manufacturing"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			compact, _ := cmd.Flags().GetBool("compact")
			timeout, _ := cmd.Flags().GetDuration("timeout")

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			app, err := load(ctx, false)
			if err != nil {
				return err
			}
			defer app.Log.Sync()

			// One CLI invocation is one session.
			sid := session.NewID()
			cache := session.NewMemoryStore().Session(sid)
			app.Log.Debug("cli session", zap.String("session", sid))
			var failed []string
			for _, raw := range args {
				r, err := app.Assembler.Build(ctx, cache, raw)
				if err != nil {
					if errors.Is(err, resolver.ErrNotFound) || errors.Is(err, resolver.ErrInvalidInput) {
						fmt.Fprintf(cmd.ErrOrStderr(), "❌ 找不到股票代號 / Symbol not found: %s\n", raw)
						failed = append(failed, raw)
						continue
					}
					return err
				}
				data, err := json.Marshal(r)
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}
				if compact {
					data = append(pretty.Ugly(data), '\n')
				} else {
					data = pretty.Pretty(data)
				}
				cmd.OutOrStdout().Write(data)
			}
			if len(failed) > 0 {
				return fmt.Errorf("unresolved input: %s", strings.Join(failed, ", "))
			}
			return nil
		},
	}
	cmd.Flags().Bool("compact", false, "print compact JSON")
	cmd.Flags().Duration("timeout", 2*time.Minute, "overall deadline")
	return cmd
}
