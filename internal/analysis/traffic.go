package analysis

import (
	"sort"

	"github.com/akave-ai/logaudit/internal/model"
)

// TrafficRanking lists sources by request count, busiest first. Sources
// with equal counts keep the order in which they first appeared.
type TrafficRanking []model.TrafficEntry

// RankTraffic counts requests per source.
func RankTraffic(records []model.LogRecord) TrafficRanking {
	index := make(map[string]int)
	ranking := TrafficRanking{}
	for _, rec := range records {
		i, ok := index[rec.Source]
		if !ok {
			i = len(ranking)
			index[rec.Source] = i
			ranking = append(ranking, model.TrafficEntry{Source: rec.Source})
		}
		ranking[i].Requests++
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Requests > ranking[j].Requests
	})
	return ranking
}

// Total returns the number of requests across all sources.
func (r TrafficRanking) Total() int {
	total := 0
	for _, e := range r {
		total += e.Requests
	}
	return total
}
