package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fib-entry-bot/pkg/config"
	"github.com/fib-entry-bot/pkg/entry"
	"github.com/fib-entry-bot/pkg/journal"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fib-entry-bot",
		Short: "Fibonacci retracement entry bot",
		Long: `fib-entry-bot scans the configured instruments for a candlestick
confirmation at a Fibonacci retracement level and opens risk-sized
market orders through the trading bridge.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(onceCmd())
	rootCmd.AddCommand(analyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run entry cycles on the configured interval until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := InitializeApp()
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			logStartup(a)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			err = a.Runner.Run(ctx)
			if errors.Is(err, context.Canceled) {
				a.Logger.Info("shutting down")
				return nil
			}
			return err
		},
	}
}

func onceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "once",
		Short: "Run a single entry cycle and print its outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := InitializeApp()
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			logStartup(a)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := a.Runner.RunOnce(ctx)
			printCycle(cmd, report)
			if err != nil {
				return err
			}
			return report.Err
		},
	}
}

func analyzeCmd() *cobra.Command {
	var journalPath, output string
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the trade journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if journalPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				journalPath = cfg.JournalPath
			}
			_, err := journal.Analyze(journalPath, output, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVarP(&journalPath, "journal", "j", "", "Journal file (.jsonl or .parquet, default: JOURNAL_PATH)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Export the report as JSON to this path")
	return cmd
}

func logStartup(a *App) {
	a.Logger.Info("fib-entry-bot starting",
		slog.String("mode", a.Config.Mode),
		slog.String("bridge", a.Config.BridgeURL),
		slog.String("instruments", strings.Join(a.Engine.Instruments(), ",")),
		slog.String("journal", a.Store.Path()),
		slog.Duration("interval", a.Config.CycleInterval),
	)
}

func printCycle(cmd *cobra.Command, report entry.CycleReport) {
	w := cmd.OutOrStdout()
	for _, o := range report.Outcomes {
		line := fmt.Sprintf("%-10s %-14s", o.Symbol, o.Event)
		if o.Gate != "" {
			line += " gate=" + o.Gate
		}
		if o.Reason != "" {
			line += " " + o.Reason
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nopened=%d failed=%d skipped=%d no_signal=%d errors=%d\n",
		report.Count(entry.EventTradeOpened),
		report.Count(entry.EventTradeFailed),
		report.Count(entry.EventSkip),
		report.Count(entry.EventNoSignal),
		report.Count(entry.EventError),
	)
}
