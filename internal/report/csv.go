package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Section titles shared by the CSV export and the console view.
const (
	SectionTraffic    = "Top Traffic"
	SectionBruteForce = "Brute-Force"
	SectionSensitive  = "Sensitive Hits"
	SectionSummary    = "Summary"
)

type section struct {
	title  string
	header []string
	rows   [][]string
}

// WriteCSV writes the report as consecutive sections. Every section has a
// title row and a header row, even when it holds no data.
func (r Report) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	for _, s := range r.sections() {
		if err := cw.Write([]string{s.title}); err != nil {
			return err
		}
		if err := cw.Write(s.header); err != nil {
			return err
		}
		if err := cw.WriteAll(s.rows); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (r Report) sections() []section {
	traffic := section{title: SectionTraffic, header: []string{"source", "requests"}}
	for _, e := range r.TopTraffic {
		traffic.rows = append(traffic.rows, []string{e.Source, itoa(e.Requests)})
	}

	brute := section{title: SectionBruteForce, header: []string{"source", "failed_logins"}}
	for _, f := range r.BruteForce {
		brute.rows = append(brute.rows, []string{f.Source, itoa(f.Failures)})
	}

	sensitive := section{title: SectionSensitive, header: []string{"source", "endpoint", "status", "line"}}
	for _, g := range r.Sensitive {
		for _, h := range g.Hits {
			sensitive.rows = append(sensitive.rows, []string{h.Source, h.Endpoint, itoa(h.Status), itoa(h.Seq)})
		}
	}
	if hidden := r.Summary.SensitiveSources - len(r.Sensitive); hidden > 0 {
		sensitive.rows = append(sensitive.rows, []string{"...", itoa(hidden) + " more sources not listed", "", ""})
	}

	s := r.Summary
	summary := section{
		title:  SectionSummary,
		header: []string{"metric", "value"},
		rows: [][]string{
			{"total_events", itoa(s.TotalEvents)},
			{"most_active_source", s.MostActiveSource},
			{"most_active_requests", itoa(s.MostActiveRequests)},
			{"brute_force_sources", itoa(s.BruteForceSources)},
			{"sensitive_sources", itoa(s.SensitiveSources)},
			{"sensitive_hits", itoa(s.SensitiveHits)},
			{"skipped_lines", itoa(s.SkippedLines)},
		},
	}

	return []section{traffic, brute, sensitive, summary}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
