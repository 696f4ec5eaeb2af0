package analysis

import (
	"testing"

	"github.com/akave-ai/logaudit/internal/model"
)

func TestDetectSensitive_OneHitPerRecord(t *testing.T) {
	records := []model.LogRecord{rec(1, "a", "/admin/login", 200)}
	got := DetectSensitive(records, []string{"/admin", "/login"})
	if len(got) != 1 || len(got[0].Hits) != 1 {
		t.Fatalf("expected exactly one hit, got %+v", got)
	}
}

func TestDetectSensitive_GroupingOrder(t *testing.T) {
	records := []model.LogRecord{
		rec(1, "b", "/index.html", 200),
		rec(2, "b", "/ADMIN", 403),
		rec(3, "a", "/wp-login.php", 404),
		rec(4, "b", "/login", 401),
		rec(5, "c", "/public", 200),
	}
	got := DetectSensitive(records, []string{"/admin", "/login", "/wp-login.php"})

	if len(got) != 2 {
		t.Fatalf("groups = %+v", got)
	}
	if got[0].Source != "b" || got[1].Source != "a" {
		t.Fatalf("source order = %s,%s; want b,a", got[0].Source, got[1].Source)
	}
	if len(got[0].Hits) != 2 || got[0].Hits[0].Seq != 2 || got[0].Hits[1].Seq != 4 {
		t.Fatalf("hits of b = %+v", got[0].Hits)
	}
	if got[1].Hits[0].Endpoint != "/wp-login.php" || got[1].Hits[0].Status != 404 {
		t.Fatalf("hit of a = %+v", got[1].Hits[0])
	}
}

func TestDetectSensitive_NoFragments(t *testing.T) {
	if got := DetectSensitive(sample(), []string{"", ""}); len(got) != 0 {
		t.Fatalf("expected no hits, got %+v", got)
	}
}
