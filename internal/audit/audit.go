// Package audit runs one batch analysis: read the input, parse it, run the
// analysis passes, then print the console summary and write the report.
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logaudit/internal/analysis"
	"github.com/akave-ai/logaudit/internal/config"
	"github.com/akave-ai/logaudit/internal/logging"
	"github.com/akave-ai/logaudit/internal/parser"
	"github.com/akave-ai/logaudit/internal/report"
)

var (
	// ErrInputNotFound means the input file does not exist.
	ErrInputNotFound = errors.New("input file not found")
	// ErrInputUnreadable covers every other failure to open or read the input.
	ErrInputUnreadable = errors.New("input file unreadable")
)

// Settings is the part of the configuration a single analysis needs.
type Settings struct {
	Format   string
	Parser   parser.Options
	Analysis analysis.Options
	Report   report.Options
}

// SettingsFromConfig extracts the analysis settings from cfg.
func SettingsFromConfig(cfg *config.Config) Settings {
	rule := analysis.BruteForceRule{
		Status:    cfg.Analysis.FailureStatus,
		Fragment:  cfg.Analysis.LoginFragment,
		Threshold: cfg.Analysis.Threshold(),
	}
	return Settings{
		Format: cfg.Input.Format,
		Parser: parser.Options{
			MinFields:       cfg.Parser.MinFields,
			MinStatusOffset: cfg.Parser.MinStatusOffset,
			EndpointOffset:  cfg.Parser.EndpointOffset,
		},
		Analysis: analysis.Options{
			BruteForce:     rule,
			SensitivePaths: cfg.Analysis.SensitivePaths,
		},
		Report: report.Options{
			TopN:                cfg.Report.TopN,
			MaxSensitiveSources: cfg.Report.MaxSensitiveSources,
			Rule:                rule,
		},
	}
}

// Analyze parses r and builds the report. Malformed lines are skipped and
// counted in the report summary.
func Analyze(ctx context.Context, r io.Reader, registry *parser.Registry, s Settings, logger zerolog.Logger) (report.Report, error) {
	decoder, err := registry.Create(s.Format, s.Parser)
	if err != nil {
		return report.Report{}, err
	}

	parsed, err := parser.New(decoder, logging.Component(logger, "parser")).Parse(ctx, r)
	if err != nil {
		if ctx.Err() != nil {
			return report.Report{}, err
		}
		return report.Report{}, fmt.Errorf("%w: %w", ErrInputUnreadable, err)
	}

	results, err := analysis.Run(ctx, parsed.Records, s.Analysis)
	if err != nil {
		return report.Report{}, fmt.Errorf("analyze records: %w", err)
	}

	rep := report.Build(results, s.Report)
	rep.Summary.SkippedLines = parsed.Rejected
	return rep, nil
}

// Outcome describes a finished run.
type Outcome struct {
	RunID      uuid.UUID
	Report     report.Report
	Empty      bool
	ReportPath string
	// WriteErr is set when the report file could not be written. The run
	// itself still counts as completed.
	WriteErr error
}

// Auditor runs the file based analysis described by a Config.
type Auditor struct {
	cfg      *config.Config
	registry *parser.Registry
	logger   zerolog.Logger
	console  io.Writer
}

// New returns an Auditor that prints its summary to console.
func New(cfg *config.Config, registry *parser.Registry, logger zerolog.Logger, console io.Writer) *Auditor {
	return &Auditor{cfg: cfg, registry: registry, logger: logger, console: console}
}

// Run performs one analysis. A missing or unreadable input is returned as
// an error before anything is analysed; a failed report write is not.
func (a *Auditor) Run(ctx context.Context) (*Outcome, error) {
	out := &Outcome{RunID: uuid.New(), ReportPath: a.cfg.Output.Path}
	logger := a.logger.With().Str("run_id", out.RunID.String()).Logger()

	f, err := openInput(a.cfg.Input.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	logger.Info().Str("path", a.cfg.Input.Path).Str("format", a.cfg.Input.Format).Msg("reading input")

	rep, err := Analyze(ctx, f, a.registry, SettingsFromConfig(a.cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", a.cfg.Input.Path, err)
	}
	out.Report = rep
	out.Empty = rep.Empty()
	if out.Empty {
		logger.Warn().Int("skipped_lines", rep.Summary.SkippedLines).Msg("nothing to analyze: no valid records")
	}

	if err := rep.RenderConsole(a.console); err != nil {
		logger.Error().Err(err).Msg("render console summary")
	}

	if err := report.WriteFile(a.cfg.Output.Path, rep, a.cfg.Output.Compress); err != nil {
		out.WriteErr = err
		logger.Error().Err(err).Str("path", a.cfg.Output.Path).Msg("report not saved")
		return out, nil
	}
	logger.Info().
		Str("path", a.cfg.Output.Path).
		Int("events", rep.Summary.TotalEvents).
		Int("brute_force_sources", rep.Summary.BruteForceSources).
		Msg("report saved")
	return out, nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	switch {
	case err == nil:
		return f, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	default:
		return nil, fmt.Errorf("%w: %s: %w", ErrInputUnreadable, path, err)
	}
}
