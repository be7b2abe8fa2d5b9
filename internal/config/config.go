// Package config loads process configuration from the environment,
// covering every tunable the engine exposes plus provider credentials.
package config

import (
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the engine's full runtime configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Addr     string `env:"ADDR" envDefault:":8080"`

	UseMockProviders     bool    `env:"USE_MOCK_PROVIDERS" envDefault:"true"`
	MaxCostPerCellCents  int     `env:"MAX_COST_PER_CELL_CENTS" envDefault:"10"`
	ConfidenceThreshold  float64 `env:"CONFIDENCE_THRESHOLD" envDefault:"0.8"`

	CacheEnabled            bool `env:"CACHE_ENABLED" envDefault:"true"`
	CacheDefaultTTLSeconds  int  `env:"CACHE_DEFAULT_TTL_SECONDS" envDefault:"3600"`
	CacheNegativeTTLSeconds int  `env:"CACHE_NEGATIVE_TTL_SECONDS" envDefault:"300"`
	CacheVersion            int  `env:"CACHE_VERSION" envDefault:"1"`
	CacheMaxMemoryEntries   int  `env:"CACHE_MAX_MEMORY_ENTRIES" envDefault:"10000"`

	SingleflightEnabled   bool `env:"SINGLEFLIGHT_ENABLED" envDefault:"true"`
	SingleflightTimeoutMs int  `env:"SINGLEFLIGHT_TIMEOUT_MS" envDefault:"15000"`

	ParallelProbesEnabled       bool `env:"PARALLEL_PROBES_ENABLED" envDefault:"true"`
	ParallelProbesMaxConcurrent int  `env:"PARALLEL_PROBES_MAX_CONCURRENT" envDefault:"5"`
	ParallelProbesTimeoutMs     int  `env:"PARALLEL_PROBES_TIMEOUT_MS" envDefault:"10000"`

	EnsembleFusionEnabled         bool    `env:"ENSEMBLE_FUSION_ENABLED" envDefault:"false"`
	EnsembleFusionAgreementThresh float64 `env:"ENSEMBLE_FUSION_AGREEMENT_THRESHOLD" envDefault:"0.85"`

	CircuitBreakerEnabled          bool `env:"CIRCUIT_BREAKER_ENABLED" envDefault:"true"`
	CircuitBreakerFailureThreshold int  `env:"CIRCUIT_BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	CircuitBreakerResetTimeoutMs   int  `env:"CIRCUIT_BREAKER_RESET_TIMEOUT_MS" envDefault:"30000"`
	CircuitBreakerSuccessThreshold int  `env:"CIRCUIT_BREAKER_SUCCESS_THRESHOLD" envDefault:"2"`
	CircuitBreakerWindowMs         int  `env:"CIRCUIT_BREAKER_WINDOW_MS" envDefault:"60000"`
	CircuitBreakerMinimumRequests  int  `env:"CIRCUIT_BREAKER_MINIMUM_REQUESTS" envDefault:"10"`

	MetricsEnabled            bool `env:"METRICS_ENABLED" envDefault:"true"`
	MetricsMaxLatencySamples  int  `env:"METRICS_MAX_LATENCY_SAMPLES" envDefault:"50"`
	MetricsLogIntervalRequests int `env:"METRICS_LOG_INTERVAL_REQUESTS" envDefault:"100"`

	SharedStoreURL string `env:"SHARED_STORE_URL" envDefault:""`

	PeoplesearchAPIKey  string `env:"PEOPLESEARCH_API_KEY" envDefault:""`
	HunterAPIKey        string `env:"HUNTER_API_KEY" envDefault:""`
	OpencorporatesAPIKey string `env:"OPENCORPORATES_API_KEY" envDefault:""`
	AnthropicAPIKey     string `env:"ANTHROPIC_API_KEY" envDefault:""`
	AnthropicModel      string `env:"ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ProviderKeys splits a comma-separated API key variable into a slice,
// trimming whitespace and dropping empty entries.
func ProviderKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
