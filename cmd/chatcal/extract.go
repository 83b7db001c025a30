package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/liao/chatcal/internal/ai"
	"github.com/liao/chatcal/internal/config"
	"github.com/liao/chatcal/internal/event"
	"github.com/liao/chatcal/internal/extract"
	"github.com/liao/chatcal/internal/logging"
	"github.com/liao/chatcal/internal/report"
)

func extractCmd() *cobra.Command {
	var cfgPath, decryptKey string

	cmd := &cobra.Command{
		Use:   "extract <transcript>",
		Short: "Find future events in a chat transcript using an LLM",
		Long: `Parse an exported chat transcript, ask the configured model whether each
message describes an event, and report the ones that are confident and in the future.

The API key of the selected provider is read from GEMINI_API_KEY / OPENAI_API_KEY,
a local .env file, or the config file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath, cmd.Flags())
			if err != nil {
				return err
			}
			logging.Init(logging.ParseLevel(cfg.LogLevel))

			// 没有 key 时不解析，直接退出
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}

			records, err := readTranscript(args[0], decryptKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Parsed %d messages\n\n", len(records))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			interp, err := ai.New(ctx, cfg)
			if err != nil {
				return err
			}
			slog.Debug("interpreter ready", "provider", cfg.Provider, "model", cfg.Model().Model)

			rep, err := report.New(cfg.Output.Format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			p := extract.New(interp,
				event.NewFilter(cfg.Filter.MinConfidence, cfg.Location()),
				rep,
				extract.WithWorkers(cfg.Extract.Workers),
				extract.WithRequestTimeout(cfg.Extract.RequestTimeout),
				extract.WithSkipPlaceholders(cfg.Extract.SkipPlaceholders),
				extract.WithProgress(cmd.ErrOrStderr()),
			)
			_, runErr := p.Run(ctx, records)
			// ics 在 Close 时才写出，中断时也输出已找到的事件
			if err := rep.Close(); err != nil && runErr == nil {
				runErr = fmt.Errorf("close report: %w", err)
			}
			if errors.Is(runErr, context.Canceled) {
				slog.Warn("interrupted")
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfgPath, "config", "", "config file (default ./chatcal.yaml if present)")
	f.String("provider", "", "model provider: gemini or openai")
	f.String("model", "", "model name for the selected provider")
	f.String("timezone", "", "IANA timezone for timestamps without offset (default Asia/Kolkata)")
	f.Float64("min-confidence", event.DefaultMinConfidence, "accept judgments with confidence strictly above this")
	f.Int("workers", 1, "concurrent model requests")
	f.Duration("timeout", 0, "per-message request timeout (default 60s)")
	f.String("format", "", "report format: text, json, yaml, ics")
	f.String("log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&decryptKey, "decrypt-key", "", "password for encrypted .enc transcripts (or DECRYPT_KEY env)")
	f.Bool("skip-placeholders", false, "do not send media/deleted placeholders to the model")
	return cmd
}
