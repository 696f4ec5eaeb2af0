package response

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	return echo.New().NewContext(httptest.NewRequest(method, target, nil), rec), rec
}

func TestOK_Envelope(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/analyze?threshold=3")
	if err := OK(c, map[string]int{"events": 2}, "nothing to analyze"); err != nil {
		t.Fatalf("ok: %v", err)
	}
	var body APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != http.StatusOK || body.Path != "/analyze" || body.Message != "nothing to analyze" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestBadRequest_Envelope(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/analyze")
	if err := BadRequest(c, "unknown format", "unknown log format: xml"); err != nil {
		t.Fatalf("bad request: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var body APIError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "unknown log format: xml" || body.Status != http.StatusBadRequest {
		t.Fatalf("unexpected error body: %+v", body)
	}
}

func TestCSV_Attachment(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/analyze?output=csv")
	err := CSV(c, "results.csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "Summary\nmetric,value\n")
		return err
	})
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "text/csv; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
	if got := rec.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="results.csv"` {
		t.Fatalf("disposition = %q", got)
	}
	if rec.Body.String() != "Summary\nmetric,value\n" {
		t.Fatalf("body = %q", rec.Body.String())
	}
}
