package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/akave-ai/logaudit/internal/audit"
	"github.com/akave-ai/logaudit/internal/config"
	"github.com/akave-ai/logaudit/internal/logging"
	"github.com/akave-ai/logaudit/internal/parser"
	"github.com/akave-ai/logaudit/internal/server"
)

func main() {
	envFile := flag.String("env", ".env", "Path to an optional .env file")
	input := flag.String("input", "", "Access log to analyze (overrides LOGAUDIT_INPUT__PATH)")
	output := flag.String("output", "", "CSV report path (overrides LOGAUDIT_OUTPUT__PATH)")
	format := flag.String("format", "", "Line format: clf or json")
	threshold := flag.Int("threshold", 0, "Failed logins needed to flag a source")
	topN := flag.Int("top", 0, "Top traffic rows in the report (0 keeps all)")
	compress := flag.Bool("gzip", false, "Gzip the report file")
	serve := flag.Bool("serve", false, "Serve POST /analyze over HTTP instead of running once")
	flag.Parse()

	// Only flags given on the command line override the environment.
	overrides := map[string]any{}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			overrides["input.path"] = *input
		case "output":
			overrides["output.path"] = *output
		case "format":
			overrides["input.format"] = *format
		case "threshold":
			overrides["analysis.brute_force_threshold"] = *threshold
		case "top":
			overrides["report.top_n"] = *topN
		case "gzip":
			overrides["output.compress"] = *compress
		}
	})

	cfg, err := config.LoadConfig(*envFile, overrides)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logaudit: %v\n", err)
		os.Exit(2)
	}
	logger := logging.New(cfg.Observability, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		srv := server.New(cfg, parser.DefaultRegistry, logger)
		if err := srv.Start(ctx); err != nil {
			logger.Error().Err(err).Msg("server exited")
			os.Exit(1)
		}
		return
	}

	out, err := audit.New(cfg, parser.DefaultRegistry, logger, os.Stdout).Run(ctx)
	switch {
	case errors.Is(err, audit.ErrInputNotFound):
		logger.Error().Err(err).Msg("input missing: create it or point -input at an access log")
		os.Exit(1)
	case err != nil:
		logger.Error().Err(err).Msg("analysis failed")
		os.Exit(1)
	}

	if out.WriteErr == nil {
		fmt.Fprintf(os.Stdout, "\nResults saved to %s\n", out.ReportPath)
	}
}
