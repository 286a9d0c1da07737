package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks cross-field constraints that env-default tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port: must be in 1..65535, got %d", c.Server.Port))
	}

	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("server.mode: must be debug, release or test, got %q", c.Server.Mode))
	}

	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("database.driver: must be sqlite or postgres, got %q", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn: required"))
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("llm.provider: must be openai or anthropic, got %q", c.LLM.Provider))
	}

	if c.Sentiment.DefaultLimit <= 0 {
		errs = append(errs, errors.New("sentiment.default_limit: must be positive"))
	}
	if c.Sentiment.MaxLimit < c.Sentiment.DefaultLimit {
		errs = append(errs, errors.New("sentiment.max_limit: must be >= default_limit"))
	}
	if c.Sentiment.MaxLimit > SentimentHardLimit {
		errs = append(errs, fmt.Errorf("sentiment.max_limit: must be <= %d, got %d", SentimentHardLimit, c.Sentiment.MaxLimit))
	}
	if c.Sentiment.ChunkSize <= 0 {
		errs = append(errs, errors.New("sentiment.chunk_size: must be positive"))
	}

	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		errs = append(errs, errors.New("rate_limit: requests_per_second and burst must be positive"))
	}

	return errors.Join(errs...)
}
