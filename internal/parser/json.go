package parser

import (
	"strconv"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/akave-ai/logaudit/internal/model"
)

var (
	jsonSourceKeys   = []string{"remote_addr", "ip", "client_ip"}
	jsonEndpointKeys = []string{"path", "uri", "url"}
	jsonStatusKeys   = []string{"status", "status_code"}
	jsonTimeKeys     = []string{"time", "timestamp", "time_local"}
)

type jsonFactory struct{}

func (jsonFactory) Info() FormatInfo {
	return FormatInfo{
		Name:        "json",
		Description: "One JSON object per line (nginx/caddy json access logs). Reads remote_addr|ip|client_ip, path|uri|url or request, status|status_code.",
		Example:     `{"remote_addr":"10.0.0.1","request":"GET /index.html HTTP/1.1","status":200}`,
	}
}

func (jsonFactory) Create(Options) (LineDecoder, error) {
	return &jsonDecoder{}, nil
}

// jsonDecoder reuses one fastjson.Parser, so it must not be shared.
type jsonDecoder struct {
	p fastjson.Parser
}

func (d *jsonDecoder) Name() string { return "json" }

func (d *jsonDecoder) Decode(line string, seq int) (model.LogRecord, error) {
	v, err := d.p.Parse(line)
	if err != nil || v.Type() != fastjson.TypeObject {
		return model.LogRecord{}, malformed(seq, line, ReasonInvalidJSON)
	}

	rec := model.LogRecord{
		Seq:       seq,
		Source:    firstString(v, jsonSourceKeys),
		Method:    string(v.GetStringBytes("method")),
		Endpoint:  firstString(v, jsonEndpointKeys),
		Timestamp: firstString(v, jsonTimeKeys),
	}
	if rec.Source == "" {
		return model.LogRecord{}, malformed(seq, line, ReasonNoSource)
	}
	if rec.Endpoint == "" {
		method, endpoint := splitRequest(string(v.GetStringBytes("request")))
		rec.Endpoint = endpoint
		if rec.Method == "" {
			rec.Method = method
		}
	}
	if !isPath(rec.Endpoint) {
		return model.LogRecord{}, malformed(seq, line, ReasonNoEndpoint)
	}

	status, ok := jsonStatus(v)
	if !ok {
		return model.LogRecord{}, malformed(seq, line, ReasonNoStatus)
	}
	rec.Status = status
	return rec, nil
}

func firstString(v *fastjson.Value, keys []string) string {
	for _, k := range keys {
		if s := strings.TrimSpace(string(v.GetStringBytes(k))); s != "" {
			return s
		}
	}
	return ""
}

// jsonStatus accepts the status as a number or a numeric string.
func jsonStatus(v *fastjson.Value) (int, bool) {
	for _, k := range jsonStatusKeys {
		field := v.Get(k)
		if field == nil {
			continue
		}
		switch field.Type() {
		case fastjson.TypeNumber:
			n, err := field.Int()
			if err == nil {
				return parseStatus(strconv.Itoa(n))
			}
		case fastjson.TypeString:
			return parseStatus(string(field.GetStringBytes()))
		}
	}
	return 0, false
}
