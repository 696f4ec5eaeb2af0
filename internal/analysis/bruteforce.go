package analysis

import (
	"sort"
	"strings"

	"github.com/akave-ai/logaudit/internal/model"
)

// BruteForceRule describes what counts as a failed login.
type BruteForceRule struct {
	Status    int    `json:"status"`    // e.g. 401
	Fragment  string `json:"fragment"`  // matched case-insensitively against the endpoint
	Threshold int    `json:"threshold"` // minimum failures for a source to be reported
}

// DetectBruteForce reports every source whose failed login count is at
// least rule.Threshold. Every source in records starts at zero, so a
// threshold of 0 reports all of them. Findings are ordered by failures,
// then by first appearance.
func DetectBruteForce(records []model.LogRecord, rule BruteForceRule) []model.BruteForceFinding {
	fragment := strings.ToLower(rule.Fragment)

	index := make(map[string]int)
	counts := []model.BruteForceFinding{}
	for _, rec := range records {
		i, ok := index[rec.Source]
		if !ok {
			i = len(counts)
			index[rec.Source] = i
			counts = append(counts, model.BruteForceFinding{Source: rec.Source})
		}
		if rec.Status == rule.Status && strings.Contains(strings.ToLower(rec.Endpoint), fragment) {
			counts[i].Failures++
		}
	}

	findings := counts[:0]
	for _, c := range counts {
		if c.Failures >= rule.Threshold {
			findings = append(findings, c)
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Failures > findings[j].Failures
	})
	return findings
}
