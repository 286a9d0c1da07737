// Package config loads the service configuration from YAML and environment.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	LLM       LLMConfig       `yaml:"llm"`
	Search    SearchConfig    `yaml:"search"`
	Collector CollectorConfig `yaml:"collector"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Sentiment SentimentConfig `yaml:"sentiment"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8090"`
	Mode            string        `yaml:"mode"             env:"GIN_MODE"                env-default:"release"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"120s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig selects the gorm dialect and DSN.
type DatabaseConfig struct {
	Driver      string `yaml:"driver"       env:"DATABASE_DRIVER"       env-default:"sqlite"`
	DSN         string `yaml:"dsn"          env:"DATABASE_DSN"          env-default:"veille.db"`
	AutoMigrate bool   `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE" env-default:"true"`
	MaxConns    int    `yaml:"max_conns"    env:"DATABASE_MAX_CONNS"    env-default:"10"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// LLMConfig configures the language-model provider.
// Provider is "openai" (any chat-completions compatible gateway) or "anthropic".
// An empty BaseURL selects the provider's public endpoint.
type LLMConfig struct {
	Provider  string        `yaml:"provider"   env:"LLM_PROVIDER"   env-default:"openai"`
	BaseURL   string        `yaml:"base_url"   env:"LLM_BASE_URL"`
	APIKey    string        `yaml:"api_key"    env:"LLM_API_KEY"`
	Model     string        `yaml:"model"      env:"LLM_MODEL"      env-default:"gpt-4o-mini"`
	MaxTokens int           `yaml:"max_tokens" env:"LLM_MAX_TOKENS" env-default:"1024"`
	Timeout   time.Duration `yaml:"timeout"    env:"LLM_TIMEOUT"    env-default:"60s"`
}

// SearchConfig configures the web-search API used by the collector.
type SearchConfig struct {
	BaseURL string        `yaml:"base_url" env:"SEARCH_BASE_URL" env-default:"https://api.perplexity.ai"`
	APIKey  string        `yaml:"api_key"  env:"SEARCH_API_KEY"`
	Model   string        `yaml:"model"    env:"SEARCH_MODEL"    env-default:"sonar"`
	Timeout time.Duration `yaml:"timeout"  env:"SEARCH_TIMEOUT"  env-default:"90s"`
}

// CollectorConfig configures news collection.
type CollectorConfig struct {
	Feeds           []string `yaml:"feeds"             env:"COLLECTOR_FEEDS"             env-separator:","`
	Region          string   `yaml:"region"            env:"COLLECTOR_REGION"            env-default:"Côte d'Ivoire"`
	MaxDailyTerms   int      `yaml:"max_daily_terms"   env:"COLLECTOR_MAX_DAILY_TERMS"   env-default:"25"`
	CriticalMinimum int      `yaml:"critical_minimum"  env:"COLLECTOR_CRITICAL_MINIMUM"  env-default:"70"`
}

// SchedulerConfig holds intervals of the in-process jobs. Zero disables a job.
type SchedulerConfig struct {
	Enabled            bool          `yaml:"enabled"             env:"SCHEDULER_ENABLED"             env-default:"false"`
	CriticalCollection time.Duration `yaml:"critical_collection" env:"SCHEDULER_CRITICAL_COLLECTION" env-default:"2h"`
	DailyCollection    time.Duration `yaml:"daily_collection"    env:"SCHEDULER_DAILY_COLLECTION"    env-default:"24h"`
	SentimentSweep     time.Duration `yaml:"sentiment_sweep"     env:"SCHEDULER_SENTIMENT_SWEEP"     env-default:"6h"`
	SpdiBatch          time.Duration `yaml:"spdi_batch"          env:"SCHEDULER_SPDI_BATCH"          env-default:"24h"`
}

// RateLimitConfig configures the per-IP limiter of the pipeline endpoints.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"   env-default:"5"`
	Burst             int     `yaml:"burst"               env:"RATE_LIMIT_BURST" env-default:"10"`
}

// SentimentConfig bounds the batch sentiment sweep.
type SentimentConfig struct {
	DefaultLimit int `yaml:"default_limit" env:"SENTIMENT_DEFAULT_LIMIT" env-default:"100"`
	MaxLimit     int `yaml:"max_limit"     env:"SENTIMENT_MAX_LIMIT"     env-default:"500"`
	ChunkSize    int `yaml:"chunk_size"    env:"SENTIMENT_CHUNK_SIZE"    env-default:"20"`
}

// SentimentHardLimit is the ceiling of one sentiment sweep, whatever the
// configured maximum.
const SentimentHardLimit = 500

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
