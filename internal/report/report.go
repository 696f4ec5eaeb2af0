// Package report shapes analysis results for the console and the CSV
// export. It never recomputes anything; truncation happens only here.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/akave-ai/logaudit/internal/analysis"
	"github.com/akave-ai/logaudit/internal/model"
)

// Options controls presentation.
type Options struct {
	TopN                int // traffic rows kept; 0 keeps all
	MaxSensitiveSources int // sensitive sources listed; 0 lists all
	Rule                analysis.BruteForceRule
}

// Summary holds the headline numbers of a run.
type Summary struct {
	TotalEvents        int    `json:"total_events"`
	MostActiveSource   string `json:"most_active_source,omitempty"`
	MostActiveRequests int    `json:"most_active_requests"`
	BruteForceSources  int    `json:"brute_force_sources"`
	SensitiveSources   int    `json:"sensitive_sources"`
	SensitiveHits      int    `json:"sensitive_hits"`
	SkippedLines       int    `json:"skipped_lines"`
}

// Report is the single document produced by a run.
// ID and GeneratedAt are for the JSON view only and never reach the CSV.
type Report struct {
	ID           uuid.UUID                 `json:"id"`
	GeneratedAt  time.Time                 `json:"generated_at"`
	Rule         analysis.BruteForceRule   `json:"rule"`
	TopTraffic   []model.TrafficEntry      `json:"top_traffic"`
	TotalSources int                       `json:"total_sources"`
	BruteForce   []model.BruteForceFinding `json:"brute_force"`
	Sensitive    []model.SourceHits        `json:"sensitive_hits"`
	Summary      Summary                   `json:"summary"`
}

// Build combines the results of the analysis passes.
func Build(res analysis.Results, opts Options) Report {
	rep := Report{
		ID:           uuid.New(),
		GeneratedAt:  time.Now().UTC(),
		Rule:         opts.Rule,
		TopTraffic:   truncate([]model.TrafficEntry(res.Traffic), opts.TopN),
		TotalSources: len(res.Traffic),
		BruteForce:   nonNil(res.BruteForce),
		Sensitive:    truncate(res.Sensitive, opts.MaxSensitiveSources),
		Summary: Summary{
			TotalEvents:       res.Records,
			BruteForceSources: len(res.BruteForce),
			SensitiveSources:  len(res.Sensitive),
		},
	}
	if len(res.Traffic) > 0 {
		rep.Summary.MostActiveSource = res.Traffic[0].Source
		rep.Summary.MostActiveRequests = res.Traffic[0].Requests
	}
	for _, g := range res.Sensitive {
		rep.Summary.SensitiveHits += len(g.Hits)
	}
	return rep
}

// Empty reports whether the run had no valid records.
func (r Report) Empty() bool {
	return r.Summary.TotalEvents == 0
}

func truncate[T any](s []T, n int) []T {
	if n > 0 && len(s) > n {
		s = s[:n]
	}
	return nonNil(s)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
