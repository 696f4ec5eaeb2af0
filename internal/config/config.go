package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "LOGAUDIT_"

type Config struct {
	Primary       Primary             `koanf:"primary" validate:"required"`
	Input         InputConfig         `koanf:"input" validate:"required"`
	Output        OutputConfig        `koanf:"output" validate:"required"`
	Parser        ParserConfig        `koanf:"parser" validate:"required"`
	Analysis      AnalysisConfig      `koanf:"analysis" validate:"required"`
	Report        ReportConfig        `koanf:"report" validate:"required"`
	Server        ServerConfig        `koanf:"server" validate:"required"`
	Observability ObservabilityConfig `koanf:"observability" validate:"required"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type InputConfig struct {
	Path   string `koanf:"path" validate:"required"`
	Format string `koanf:"format" validate:"required,oneof=clf json"`
}

type OutputConfig struct {
	Path     string `koanf:"path" validate:"required"`
	Compress bool   `koanf:"compress"`
}

// ParserConfig holds the field offsets used by the clf line format.
type ParserConfig struct {
	MinFields       int `koanf:"min_fields" validate:"min=1"`
	MinStatusOffset int `koanf:"min_status_offset" validate:"min=1"`
	EndpointOffset  int `koanf:"endpoint_offset" validate:"min=1"`
}

type AnalysisConfig struct {
	// BruteForceThreshold has no default and must be supplied by the caller.
	BruteForceThreshold *int     `koanf:"brute_force_threshold" validate:"required,min=0"`
	FailureStatus       int      `koanf:"failure_status" validate:"min=100,max=599"`
	LoginFragment       string   `koanf:"login_fragment" validate:"required"`
	SensitivePaths      []string `koanf:"sensitive_paths" validate:"dive,required"`
}

type ReportConfig struct {
	TopN                int `koanf:"top_n" validate:"min=0"`
	MaxSensitiveSources int `koanf:"max_sensitive_sources" validate:"min=0"`
}

type ServerConfig struct {
	Port         string `koanf:"port" validate:"required"`
	ReadTimeout  int    `koanf:"read_timeout" validate:"required"`
	WriteTimeout int    `koanf:"write_timeout" validate:"required"`
	IdleTimeout  int    `koanf:"idle_timeout" validate:"required"`
	MaxBodyBytes string `koanf:"max_body_bytes" validate:"required"`
}

type ObservabilityConfig struct {
	LogLevel  string `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"required,oneof=console json"`
}

// listKeys are split on commas when read from the environment.
var listKeys = map[string]bool{
	"analysis.sensitive_paths": true,
}

func defaults() map[string]any {
	return map[string]any{
		"primary.env":                  "development",
		"input.path":                   "data/sample.log",
		"input.format":                 "clf",
		"output.path":                  "outputs/results.csv",
		"output.compress":              false,
		"parser.min_fields":            7,
		"parser.min_status_offset":     5,
		"parser.endpoint_offset":       6,
		"analysis.failure_status":      401,
		"analysis.login_fragment":      "login",
		"analysis.sensitive_paths":     []string{"/admin", "/login", "/wp-login.php"},
		"report.top_n":                 10,
		"report.max_sensitive_sources": 5,
		"server.port":                  "8080",
		"server.read_timeout":          30,
		"server.write_timeout":         30,
		"server.idle_timeout":          60,
		"server.max_body_bytes":        "32M",
		"observability.log_level":      "info",
		"observability.log_format":     "console",
	}
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// LOGAUDIT_ environment variables and caller overrides, in that order.
// Nested keys use a double underscore: LOGAUDIT_ANALYSIS__BRUTE_FORCE_THRESHOLD.
func LoadConfig(envFile string, overrides map[string]any) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	err := k.Load(env.ProviderWithValue(envPrefix, ".", func(key, value string) (string, interface{}) {
		key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
		key = strings.ReplaceAll(key, "__", ".")
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("load overrides: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Threshold returns the configured brute-force threshold. LoadConfig
// guarantees it is set.
func (a AnalysisConfig) Threshold() int {
	if a.BruteForceThreshold == nil {
		return 0
	}
	return *a.BruteForceThreshold
}
