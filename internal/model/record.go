package model

// LogRecord is one parsed access-log line.
// Records are created by the parser and never modified afterwards.
type LogRecord struct {
	Source    string `json:"source"`              // client address or host token
	Endpoint  string `json:"endpoint"`            // request path, quotes stripped
	Status    int    `json:"status"`              // 3-digit HTTP status
	Seq       int    `json:"seq"`                 // 1-based input line number
	Method    string `json:"method,omitempty"`    // request method when the line carries one
	Timestamp string `json:"timestamp,omitempty"` // raw time token, not parsed
}

// TrafficEntry is one row of the per-source request ranking.
type TrafficEntry struct {
	Source   string `json:"source"`
	Requests int    `json:"requests"`
}

// BruteForceFinding is a source whose failed login count reached the threshold.
type BruteForceFinding struct {
	Source   string `json:"source"`
	Failures int    `json:"failures"`
}

// SensitiveHit is a single request that touched a sensitive endpoint.
type SensitiveHit struct {
	Source    string `json:"source"`
	Endpoint  string `json:"endpoint"`
	Status    int    `json:"status"`
	Seq       int    `json:"seq"`
	Method    string `json:"method,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SourceHits groups the sensitive hits of one source in line order.
type SourceHits struct {
	Source string         `json:"source"`
	Hits   []SensitiveHit `json:"hits"`
}
