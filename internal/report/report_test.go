package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/akave-ai/logaudit/internal/analysis"
	"github.com/akave-ai/logaudit/internal/model"
)

func sampleResults() analysis.Results {
	return analysis.Results{
		Records: 9,
		Traffic: analysis.TrafficRanking{
			{Source: "10.0.0.9", Requests: 5},
			{Source: "10.0.0.1", Requests: 3},
			{Source: "10.0.0.2", Requests: 1},
		},
		BruteForce: []model.BruteForceFinding{{Source: "10.0.0.9", Failures: 4}},
		Sensitive: []model.SourceHits{
			{Source: "10.0.0.9", Hits: []model.SensitiveHit{
				{Source: "10.0.0.9", Endpoint: "/login", Status: 401, Seq: 2},
				{Source: "10.0.0.9", Endpoint: "/admin", Status: 403, Seq: 6},
			}},
			{Source: "10.0.0.2", Hits: []model.SensitiveHit{
				{Source: "10.0.0.2", Endpoint: "/wp-login.php", Status: 404, Seq: 8},
			}},
		},
	}
}

var rule = analysis.BruteForceRule{Status: 401, Fragment: "login", Threshold: 3}

func TestBuild_TruncatesForPresentationOnly(t *testing.T) {
	res := sampleResults()
	rep := Build(res, Options{TopN: 2, MaxSensitiveSources: 1, Rule: rule})

	if len(rep.TopTraffic) != 2 || rep.TotalSources != 3 {
		t.Fatalf("top traffic = %+v (total %d)", rep.TopTraffic, rep.TotalSources)
	}
	if len(rep.Sensitive) != 1 || rep.Summary.SensitiveSources != 2 || rep.Summary.SensitiveHits != 3 {
		t.Fatalf("sensitive = %+v, summary = %+v", rep.Sensitive, rep.Summary)
	}
	if rep.Summary.MostActiveSource != "10.0.0.9" || rep.Summary.MostActiveRequests != 5 {
		t.Fatalf("most active = %+v", rep.Summary)
	}
	if len(res.Traffic) != 3 || len(res.Sensitive) != 2 {
		t.Fatal("Build modified its input")
	}
}

func TestBuild_ZeroLimitsKeepEverything(t *testing.T) {
	rep := Build(sampleResults(), Options{})
	if len(rep.TopTraffic) != 3 || len(rep.Sensitive) != 2 {
		t.Fatalf("unexpected truncation: %+v", rep)
	}
}

func TestWriteCSV_Sections(t *testing.T) {
	rep := Build(sampleResults(), Options{TopN: 10, Rule: rule})
	rep.Summary.SkippedLines = 2

	var buf bytes.Buffer
	if err := rep.WriteCSV(&buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := strings.Join([]string{
		"Top Traffic",
		"source,requests",
		"10.0.0.9,5",
		"10.0.0.1,3",
		"10.0.0.2,1",
		"Brute-Force",
		"source,failed_logins",
		"10.0.0.9,4",
		"Sensitive Hits",
		"source,endpoint,status,line",
		"10.0.0.9,/login,401,2",
		"10.0.0.9,/admin,403,6",
		"10.0.0.2,/wp-login.php,404,8",
		"Summary",
		"metric,value",
		"total_events,9",
		"most_active_source,10.0.0.9",
		"most_active_requests,5",
		"brute_force_sources,1",
		"sensitive_sources,2",
		"sensitive_hits,3",
		"skipped_lines,2",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWriteCSV_CappedSensitiveListingIsMarked(t *testing.T) {
	rep := Build(sampleResults(), Options{TopN: 10, MaxSensitiveSources: 1, Rule: rule})
	var buf bytes.Buffer
	if err := rep.WriteCSV(&buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	want := strings.Join([]string{
		"Sensitive Hits",
		"source,endpoint,status,line",
		"10.0.0.9,/login,401,2",
		"10.0.0.9,/admin,403,6",
		"...,1 more sources not listed,,",
		"Summary",
	}, "\n")
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("csv missing capped marker:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "sensitive_sources,2\n") {
		t.Fatalf("summary should count every sensitive source:\n%s", buf.String())
	}
}

func TestWriteCSV_EmptyReportKeepsHeaders(t *testing.T) {
	rep := Build(analysis.Results{}, Options{TopN: 10})
	var buf bytes.Buffer
	if err := rep.WriteCSV(&buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Top Traffic\nsource,requests\nBrute-Force\n",
		"Brute-Force\nsource,failed_logins\nSensitive Hits\n",
		"Sensitive Hits\nsource,endpoint,status,line\nSummary\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWriteCSV_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	if err := Build(sampleResults(), Options{TopN: 10}).WriteCSV(&first); err != nil {
		t.Fatal(err)
	}
	if err := Build(sampleResults(), Options{TopN: 10}).WriteCSV(&second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatal("two builds of the same results produced different CSV")
	}
}

func TestRenderConsole(t *testing.T) {
	rep := Build(sampleResults(), Options{TopN: 10, MaxSensitiveSources: 1, Rule: rule})
	var buf bytes.Buffer
	if err := rep.RenderConsole(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()

	order := []string{"=== TOP TRAFFIC", "=== BRUTE-FORCE ALERTS", "=== SENSITIVE-ENDPOINT HITS", "=== SUMMARY"}
	last := -1
	for _, h := range order {
		i := strings.Index(out, h)
		if i <= last {
			t.Fatalf("section %q missing or out of order:\n%s", h, out)
		}
		last = i
	}
	for _, want := range []string{"ALERT", "4 failed logins", "/login, /admin", "... and 1 more sources", "Most active source:"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderConsole_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Build(analysis.Results{}, Options{}).RenderConsole(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"No traffic recorded.", "No brute-force detected.", "No sensitive endpoints hit.", "Nothing to analyze"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}
