package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akave-ai/logaudit/internal/model"
)

type clfFactory struct{}

func (clfFactory) Info() FormatInfo {
	return FormatInfo{
		Name:        "clf",
		Description: "Apache/Nginx common or combined access log. Source is the first field, endpoint and status are located from the quoted request.",
		Example:     `10.0.0.1 - - [10/Oct/2000:13:55:36 -0700] "GET /index.html HTTP/1.1" 200 512`,
	}
}

func (clfFactory) Create(opts Options) (LineDecoder, error) {
	if opts.MinFields < 1 || opts.MinStatusOffset < 1 || opts.EndpointOffset < 1 {
		return nil, fmt.Errorf("clf: offsets must be positive: %+v", opts)
	}
	return &clfDecoder{opts: opts}, nil
}

// clfDecoder extracts fields from access-log lines.
//
// The quoted request ("METHOD /path PROTO") anchors the line: the endpoint
// is its path token and the status is the first field after the closing
// quote. Lines without a quoted request fall back to positions: the status
// is found by scanning backward from the field before the trailing size
// field, and the endpoint is the path-shaped field before the status that
// sits closest to EndpointOffset.
// In both cases the status must sit at or after MinStatusOffset.
type clfDecoder struct {
	opts Options
}

func (d *clfDecoder) Name() string { return "clf" }

func (d *clfDecoder) Decode(line string, seq int) (model.LogRecord, error) {
	fields := strings.Fields(line)
	if len(fields) < d.opts.MinFields {
		return model.LogRecord{}, malformed(seq, line, ReasonTooFewFields)
	}

	source := fields[0]
	if strings.ContainsRune(source, '"') {
		return model.LogRecord{}, malformed(seq, line, ReasonNoSource)
	}

	rec := model.LogRecord{
		Source:    source,
		Seq:       seq,
		Timestamp: bracketed(line),
	}

	var (
		statusIdx = -1
		status    int
	)
	if open, end, ok := quotedRequest(line); ok {
		rec.Method, rec.Endpoint = splitRequest(line[open+1 : end])
		tail := strings.Fields(line[end+1:])
		if len(tail) > 0 {
			if n, ok := parseStatus(tail[0]); ok {
				statusIdx, status = len(fields)-len(tail), n
			}
		}
	} else {
		statusIdx, status = scanStatus(fields, d.opts.MinStatusOffset)
		if statusIdx > 0 {
			rec.Endpoint = nearestPath(fields[:statusIdx], d.opts.EndpointOffset)
		}
	}

	if !isPath(rec.Endpoint) {
		return model.LogRecord{}, malformed(seq, line, ReasonNoEndpoint)
	}
	if statusIdx < d.opts.MinStatusOffset {
		return model.LogRecord{}, malformed(seq, line, ReasonNoStatus)
	}
	rec.Status = status
	return rec, nil
}

// nearestPath returns the path-shaped field closest to offset, preferring the
// earlier field on a tie. Protocol tokens such as HTTP/1.1 never qualify.
func nearestPath(fields []string, offset int) string {
	best, bestDist := "", -1
	for i := 1; i < len(fields); i++ {
		tok := strings.Trim(fields[i], `"`)
		if !pathShaped(tok) {
			continue
		}
		dist := i - offset
		if dist < 0 {
			dist = -dist
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = tok, dist
		}
	}
	return best
}

func pathShaped(tok string) bool {
	if isProtocol(tok) {
		return false
	}
	return strings.HasPrefix(tok, "/") || strings.Contains(tok, "://")
}

// isProtocol matches HTTP/<digit>... tokens.
func isProtocol(tok string) bool {
	const prefix = "HTTP/"
	return len(tok) > len(prefix) &&
		strings.EqualFold(tok[:len(prefix)], prefix) &&
		tok[len(prefix)] >= '0' && tok[len(prefix)] <= '9'
}

// quotedRequest returns the positions of the first pair of double quotes.
func quotedRequest(line string) (open, end int, ok bool) {
	open = strings.IndexByte(line, '"')
	if open < 0 {
		return 0, 0, false
	}
	n := strings.IndexByte(line[open+1:], '"')
	if n < 0 {
		return 0, 0, false
	}
	return open, open + 1 + n, true
}

// splitRequest splits "GET /path HTTP/1.1" into method and path. A request
// holding a single token is treated as a bare path.
func splitRequest(request string) (method, endpoint string) {
	parts := strings.Fields(request)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return "", parts[0]
	default:
		return parts[0], parts[1]
	}
}

// scanStatus walks backward from the field before the trailing size field
// and returns the first valid status at or after minOffset.
func scanStatus(fields []string, minOffset int) (int, int) {
	for i := len(fields) - 2; i >= minOffset; i-- {
		if n, ok := parseStatus(fields[i]); ok {
			return i, n
		}
	}
	return -1, 0
}

func parseStatus(tok string) (int, bool) {
	if len(tok) != 3 {
		return 0, false
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 100 || n > 599 {
		return 0, false
	}
	return n, true
}

func isPath(endpoint string) bool {
	return endpoint != "" && strings.Contains(endpoint, "/") && !isProtocol(endpoint)
}

// bracketed returns the text of the first [...] group, if any.
func bracketed(line string) string {
	open := strings.IndexByte(line, '[')
	if open < 0 {
		return ""
	}
	n := strings.IndexByte(line[open+1:], ']')
	if n < 0 {
		return ""
	}
	return line[open+1 : open+1+n]
}
