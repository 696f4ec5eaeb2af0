package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

const consoleEndpointPreview = 3

// RenderConsole writes the human-readable summary. Empty sections print an
// explicit "none" line instead of being left out.
func (r Report) RenderConsole(w io.Writer) error {
	ew := &errWriter{w: w}

	heading(ew, fmt.Sprintf("TOP TRAFFIC (%d of %d sources)", len(r.TopTraffic), r.TotalSources))
	if len(r.TopTraffic) == 0 {
		fmt.Fprintln(ew, "  No traffic recorded.")
	} else {
		tw := tabwriter.NewWriter(ew, 2, 4, 2, ' ', 0)
		for _, e := range r.TopTraffic {
			fmt.Fprintf(tw, "  %s\t%d requests\n", e.Source, e.Requests)
		}
		tw.Flush()
	}

	heading(ew, fmt.Sprintf("BRUTE-FORCE ALERTS (status %d on %q, threshold %d)", r.Rule.Status, r.Rule.Fragment, r.Rule.Threshold))
	if len(r.BruteForce) == 0 {
		fmt.Fprintln(ew, "  No brute-force detected.")
	} else {
		tw := tabwriter.NewWriter(ew, 2, 4, 2, ' ', 0)
		for _, f := range r.BruteForce {
			fmt.Fprintf(tw, "  ALERT\t%s\t%d failed logins\n", f.Source, f.Failures)
		}
		tw.Flush()
	}

	heading(ew, "SENSITIVE-ENDPOINT HITS")
	if len(r.Sensitive) == 0 {
		fmt.Fprintln(ew, "  No sensitive endpoints hit.")
	} else {
		tw := tabwriter.NewWriter(ew, 2, 4, 2, ' ', 0)
		for _, g := range r.Sensitive {
			endpoints := make([]string, 0, consoleEndpointPreview)
			for i, h := range g.Hits {
				if i == consoleEndpointPreview {
					break
				}
				endpoints = append(endpoints, h.Endpoint)
			}
			fmt.Fprintf(tw, "  %s\t%d hits\t%s\n", g.Source, len(g.Hits), strings.Join(endpoints, ", "))
		}
		tw.Flush()
		if hidden := r.Summary.SensitiveSources - len(r.Sensitive); hidden > 0 {
			fmt.Fprintf(ew, "  ... and %d more sources\n", hidden)
		}
	}

	s := r.Summary
	heading(ew, "SUMMARY")
	if r.Empty() {
		fmt.Fprintf(ew, "  Nothing to analyze: no valid log records (%d lines skipped).\n", s.SkippedLines)
		return ew.err
	}
	tw := tabwriter.NewWriter(ew, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Total events:\t%d\n", s.TotalEvents)
	fmt.Fprintf(tw, "  Most active source:\t%s (%d requests)\n", s.MostActiveSource, s.MostActiveRequests)
	fmt.Fprintf(tw, "  Confirmed brute-force sources:\t%d\n", s.BruteForceSources)
	fmt.Fprintf(tw, "  Sources on sensitive endpoints:\t%d (%d hits)\n", s.SensitiveSources, s.SensitiveHits)
	fmt.Fprintf(tw, "  Skipped lines:\t%d\n", s.SkippedLines)
	tw.Flush()
	return ew.err
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n=== %s ===\n", title)
}

// errWriter keeps the first write error so rendering code stays linear.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}
