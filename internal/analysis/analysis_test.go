package analysis

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/akave-ai/logaudit/internal/model"
)

func rec(seq int, source, endpoint string, status int) model.LogRecord {
	return model.LogRecord{Source: source, Endpoint: endpoint, Status: status, Seq: seq}
}

func sample() []model.LogRecord {
	return []model.LogRecord{
		rec(1, "10.0.0.1", "/index.html", 200),
		rec(2, "10.0.0.2", "/login", 401),
		rec(3, "10.0.0.3", "/admin", 403),
		rec(4, "10.0.0.2", "/LOGIN", 401),
		rec(5, "10.0.0.1", "/about", 200),
		rec(6, "10.0.0.3", "/wp-login.php", 401),
		rec(7, "10.0.0.4", "/", 200),
	}
}

func TestRankTraffic_OrderAndTies(t *testing.T) {
	got := RankTraffic(sample())
	want := TrafficRanking{
		{Source: "10.0.0.1", Requests: 2},
		{Source: "10.0.0.2", Requests: 2},
		{Source: "10.0.0.3", Requests: 2},
		{Source: "10.0.0.4", Requests: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if got.Total() != 7 {
		t.Fatalf("total = %d, want 7", got.Total())
	}
}

func TestRankTraffic_SortedNonIncreasing(t *testing.T) {
	var records []model.LogRecord
	for i := 0; i < 50; i++ {
		records = append(records, rec(i+1, fmt.Sprintf("h%d", (i*7)%11), "/", 200))
	}
	ranking := RankTraffic(records)
	for i := 1; i < len(ranking); i++ {
		if ranking[i].Requests > ranking[i-1].Requests {
			t.Fatalf("ranking not sorted at %d: %+v", i, ranking)
		}
	}
}

func TestRankTraffic_DoesNotMutateInput(t *testing.T) {
	records := sample()
	before := append([]model.LogRecord(nil), records...)
	RankTraffic(records)
	if !reflect.DeepEqual(records, before) {
		t.Fatal("input was modified")
	}
}

func TestRankTraffic_Empty(t *testing.T) {
	if got := RankTraffic(nil); len(got) != 0 {
		t.Fatalf("expected empty ranking, got %+v", got)
	}
}

func TestRun_MatchesSequentialPasses(t *testing.T) {
	records := sample()
	opts := Options{
		BruteForce:     BruteForceRule{Status: 401, Fragment: "login", Threshold: 2},
		SensitivePaths: []string{"/admin", "/login", "/wp-login.php"},
	}

	got, err := Run(context.Background(), records, opts)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := Results{
		Records:    len(records),
		Traffic:    RankTraffic(records),
		BruteForce: DetectBruteForce(records, opts.BruteForce),
		Sensitive:  DetectSensitive(records, opts.SensitivePaths),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, sample(), Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
