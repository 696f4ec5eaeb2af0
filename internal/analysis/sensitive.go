package analysis

import (
	"sort"
	"strings"

	"github.com/akave-ai/logaudit/internal/model"
)

// DetectSensitive collects requests whose endpoint contains any of the
// fragments, compared case-insensitively. A record produces at most one
// hit however many fragments it matches. Sources are listed in the order
// of their first hit and each source's hits are in line order.
func DetectSensitive(records []model.LogRecord, fragments []string) []model.SourceHits {
	lowered := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f != "" {
			lowered = append(lowered, strings.ToLower(f))
		}
	}

	index := make(map[string]int)
	groups := []model.SourceHits{}
	for _, rec := range records {
		if !matchesAny(strings.ToLower(rec.Endpoint), lowered) {
			continue
		}
		i, ok := index[rec.Source]
		if !ok {
			i = len(groups)
			index[rec.Source] = i
			groups = append(groups, model.SourceHits{Source: rec.Source})
		}
		groups[i].Hits = append(groups[i].Hits, model.SensitiveHit{
			Source:    rec.Source,
			Endpoint:  rec.Endpoint,
			Status:    rec.Status,
			Seq:       rec.Seq,
			Method:    rec.Method,
			Timestamp: rec.Timestamp,
		})
	}

	for _, g := range groups {
		hits := g.Hits
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Seq < hits[j].Seq })
	}
	return groups
}

func matchesAny(endpoint string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(endpoint, f) {
			return true
		}
	}
	return false
}
