package parser

import (
	"fmt"
	"sort"
	"sync"

	"github.com/akave-ai/logaudit/internal/model"
)

// Options tunes field extraction for positional formats.
type Options struct {
	MinFields       int // lines with fewer whitespace fields are rejected
	MinStatusOffset int // lowest field index accepted for the status code
	EndpointOffset  int // endpoint field when the line has no quoted request
}

// DefaultOptions match the Common Log Format with a bracketed, zoned timestamp.
func DefaultOptions() Options {
	return Options{MinFields: 7, MinStatusOffset: 5, EndpointOffset: 6}
}

// LineDecoder turns one trimmed, non-blank line into a record.
// Decoders are not safe for concurrent use; create one per parse.
type LineDecoder interface {
	Name() string
	Decode(line string, seq int) (model.LogRecord, error)
}

// FormatInfo describes a registered line format.
type FormatInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Example     string `json:"example"`
}

// Factory creates decoders for one line format.
type Factory interface {
	Info() FormatInfo
	Create(opts Options) (LineDecoder, error)
}

// Registry holds the known line formats.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// DefaultRegistry has every built-in format registered.
var DefaultRegistry = NewRegistry()

func init() {
	DefaultRegistry.Register(clfFactory{})
	DefaultRegistry.Register(jsonFactory{})
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces a format.
func (r *Registry) Register(factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[factory.Info().Name] = factory
}

// Create builds a decoder for the named format.
func (r *Registry) Create(name string, opts Options) (LineDecoder, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown log format: %s", name)
	}
	return factory.Create(opts)
}

// Info returns the description of one format. ok is false if it is not registered.
func (r *Registry) Info(name string) (info FormatInfo, ok bool) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return FormatInfo{}, false
	}
	return factory.Info(), true
}

// Formats returns every registered format sorted by name.
func (r *Registry) Formats() []FormatInfo {
	r.mu.RLock()
	out := make([]FormatInfo, 0, len(r.factories))
	for _, factory := range r.factories {
		out = append(out, factory.Info())
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
