// Package response writes the JSON envelopes returned by the analysis API,
// plus the CSV attachment served for output=csv.
package response

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse carries a report, a format listing or a health probe.
// Message is set when the payload needs a caveat, e.g. "nothing to analyze".
type APIResponse struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path"`
}

// APIError is returned for rejected uploads and bad query overrides.
// Error holds the detail a client can act on; Message is a short category.
type APIError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Path    string `json:"path"`
	Status  int    `json:"status"`
}

// OK returns data with status 200.
func OK(c echo.Context, data any, message string) error {
	return c.JSON(http.StatusOK, APIResponse{
		Data:    data,
		Status:  http.StatusOK,
		Message: message,
		Path:    routePath(c),
	})
}

// CSV streams the report export as a download. Headers are committed
// before write runs, so a failing writer truncates the body.
func CSV(c echo.Context, filename string, write func(io.Writer) error) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	res.WriteHeader(http.StatusOK)
	return write(res)
}

func Error(c echo.Context, status int, message, detail string) error {
	return c.JSON(status, APIError{
		Message: message,
		Error:   detail,
		Path:    routePath(c),
		Status:  status,
	})
}

func BadRequest(c echo.Context, message, detail string) error {
	return Error(c, http.StatusBadRequest, message, detail)
}

func NotFound(c echo.Context, message, detail string) error {
	return Error(c, http.StatusNotFound, message, detail)
}

func InternalError(c echo.Context, message, detail string) error {
	return Error(c, http.StatusInternalServerError, message, detail)
}

// routePath echoes the request path back so clients can correlate replies
// with the endpoint that produced them.
func routePath(c echo.Context) string {
	if req := c.Request(); req != nil {
		return req.URL.Path
	}
	return ""
}
