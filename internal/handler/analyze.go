package handler

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"

	"github.com/akave-ai/logaudit/internal/audit"
	"github.com/akave-ai/logaudit/internal/parser"
	"github.com/akave-ai/logaudit/internal/response"
)

// AnalyzeHandler serves /analyze and /formats. Every request runs a fresh,
// independent analysis of the uploaded body.
type AnalyzeHandler struct {
	Registry *parser.Registry
	Settings audit.Settings
	Logger   zerolog.Logger
}

// Analyze runs the full analysis on the request body (POST /analyze).
// Query parameters threshold, top_n and format override the defaults;
// output=csv returns the CSV export instead of JSON.
func (h *AnalyzeHandler) Analyze(c echo.Context) error {
	settings, err := h.settingsFor(c)
	if err != nil {
		return response.BadRequest(c, "invalid query parameter", err.Error())
	}
	if _, ok := h.Registry.Info(settings.Format); !ok {
		return response.BadRequest(c, "unknown format", "unknown log format: "+settings.Format)
	}

	body := c.Request().Body
	defer body.Close()

	rep, err := audit.Analyze(c.Request().Context(), body, h.Registry, settings, h.Logger)
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return response.Error(c, httpErr.Code, "log rejected", fmt.Sprint(httpErr.Message))
		}
		return response.InternalError(c, "analysis failed", err.Error())
	}
	h.Logger.Info().
		Str("report_id", rep.ID.String()).
		Int("events", rep.Summary.TotalEvents).
		Int("skipped", rep.Summary.SkippedLines).
		Msg("analysis served")

	if c.QueryParam("output") == "csv" {
		return response.CSV(c, "results.csv", rep.WriteCSV)
	}

	message := ""
	if rep.Empty() {
		message = "nothing to analyze"
	}
	return response.OK(c, rep, message)
}

func (h *AnalyzeHandler) settingsFor(c echo.Context) (audit.Settings, error) {
	s := h.Settings
	if v := c.QueryParam("format"); v != "" {
		s.Format = v
	}
	if v := c.QueryParam("threshold"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			return s, fmt.Errorf("threshold must be a non-negative integer, got %q", v)
		}
		s.Analysis.BruteForce.Threshold = n
		s.Report.Rule.Threshold = n
	}
	if v := c.QueryParam("top_n"); v != "" {
		n, err := cast.ToIntE(v)
		if err != nil || n < 0 {
			return s, fmt.Errorf("top_n must be a non-negative integer, got %q", v)
		}
		s.Report.TopN = n
	}
	return s, nil
}

// ListFormats returns the registered line formats (GET /formats).
func (h *AnalyzeHandler) ListFormats(c echo.Context) error {
	return response.OK(c, map[string]any{"formats": h.Registry.Formats()}, "")
}

// GetFormat returns one line format (GET /formats/:name).
func (h *AnalyzeHandler) GetFormat(c echo.Context) error {
	name := c.Param("name")
	info, ok := h.Registry.Info(name)
	if !ok {
		return response.NotFound(c, "unknown format", "unknown log format: "+name)
	}
	return response.OK(c, info, "")
}

// Health reports liveness (GET /health).
func Health(c echo.Context) error {
	return response.OK(c, map[string]string{"status": "ok"}, "")
}
