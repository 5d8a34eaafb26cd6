package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/multierr"

	"cofrinho/internal/core"
)

// Advice providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	// HTTP Server
	Port      string `envconfig:"PORT" default:"8081"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Requests per minute per client IP on mutating routes, 0 disables.
	RateLimit int `envconfig:"RATE_LIMIT" default:"60"`

	// Ledger
	LedgerBackend string `envconfig:"LEDGER_BACKEND" default:"memory"`
	PersonAName   string `envconfig:"PERSON_A_NAME" default:"José"`
	PersonBName   string `envconfig:"PERSON_B_NAME" default:"Stephanie"`

	// Advice
	AdviceProvider    string        `envconfig:"ADVICE_PROVIDER" default:"none"`
	AdviceAPIKey      string        `envconfig:"ADVICE_API_KEY"`
	AdviceModel       string        `envconfig:"ADVICE_MODEL"`
	AdviceBaseURL     string        `envconfig:"ADVICE_BASE_URL"`
	AdviceTemperature float64       `envconfig:"ADVICE_TEMPERATURE" default:"0.9"`
	AdviceTimeout     time.Duration `envconfig:"ADVICE_TIMEOUT" default:"0s"`
	AdviceCacheSize   int           `envconfig:"ADVICE_CACHE_SIZE" default:"64"`
	AdviceCacheTTL    time.Duration `envconfig:"ADVICE_CACHE_TTL" default:"1h"`

	// AMQP, disabled when the URL is empty
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"cofrinho"`
	AMQPQueue    string `envconfig:"AMQP_QUEUE" default:"ledger_events"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Household returns the configured display names.
func (c *Config) Household() core.Household {
	return core.Household{PersonA: c.PersonAName, PersonB: c.PersonBName}
}

var (
	validBackends  = []string{"memory", "sqlite"}
	validProviders = []string{ProviderGemini, ProviderOpenAI, ProviderNone}
	validLevels    = []string{"debug", "info", "warn", "warning", "error"}
	validFormats   = []string{"text", "json"}
)

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var err error

	if port, perr := strconv.Atoi(c.Port); perr != nil {
		err = multierr.Append(err, fmt.Errorf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		err = multierr.Append(err, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	if !slices.Contains(validLevels, strings.ToLower(c.LogLevel)) {
		err = multierr.Append(err, fmt.Errorf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}
	if !slices.Contains(validFormats, c.LogFormat) {
		err = multierr.Append(err, fmt.Errorf("invalid log format '%s': must be one of %v", c.LogFormat, validFormats))
	}
	if c.RateLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid rate limit %d: must not be negative", c.RateLimit))
	}

	if !slices.Contains(validBackends, c.LedgerBackend) {
		err = multierr.Append(err, fmt.Errorf("invalid ledger backend '%s': must be one of %v", c.LedgerBackend, validBackends))
	}
	if strings.TrimSpace(c.PersonAName) == "" || strings.TrimSpace(c.PersonBName) == "" {
		err = multierr.Append(err, errors.New("person names cannot be empty"))
	}

	err = multierr.Append(err, c.validateAdvice())
	err = multierr.Append(err, c.validateAMQP())

	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

func (c *Config) validateAdvice() error {
	var err error
	if !slices.Contains(validProviders, c.AdviceProvider) {
		err = multierr.Append(err, fmt.Errorf("invalid advice provider '%s': must be one of %v", c.AdviceProvider, validProviders))
	}
	if c.AdviceProvider == ProviderGemini && c.AdviceAPIKey == "" {
		err = multierr.Append(err, errors.New("ADVICE_API_KEY is required for the gemini provider"))
	}
	if c.AdviceProvider == ProviderOpenAI && c.AdviceAPIKey == "" && c.AdviceBaseURL == "" {
		err = multierr.Append(err, errors.New("ADVICE_API_KEY or ADVICE_BASE_URL is required for the openai provider"))
	}
	if c.AdviceBaseURL != "" {
		if u, uerr := url.Parse(c.AdviceBaseURL); uerr != nil || (u.Scheme != "http" && u.Scheme != "https") {
			err = multierr.Append(err, fmt.Errorf("invalid advice base URL '%s': must be http or https", c.AdviceBaseURL))
		}
	}
	if c.AdviceTemperature < 0 || c.AdviceTemperature > 2 {
		err = multierr.Append(err, fmt.Errorf("invalid advice temperature %v: must be between 0 and 2", c.AdviceTemperature))
	}
	if c.AdviceTimeout < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid advice timeout %v: must not be negative", c.AdviceTimeout))
	}
	if c.AdviceCacheSize < 1 {
		err = multierr.Append(err, fmt.Errorf("invalid advice cache size %d: must be at least 1", c.AdviceCacheSize))
	}
	if c.AdviceCacheTTL < 0 {
		err = multierr.Append(err, fmt.Errorf("invalid advice cache ttl %v: must not be negative", c.AdviceCacheTTL))
	}
	return err
}

func (c *Config) validateAMQP() error {
	if c.AMQPURL == "" {
		return nil
	}
	var err error
	if u, uerr := url.Parse(c.AMQPURL); uerr != nil {
		err = multierr.Append(err, fmt.Errorf("invalid AMQP URL '%s': %v", c.AMQPURL, uerr))
	} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
		err = multierr.Append(err, fmt.Errorf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
	}
	if c.AMQPExchange == "" {
		err = multierr.Append(err, errors.New("AMQP exchange name cannot be empty when AMQP URL is provided"))
	}
	if c.AMQPQueue == "" {
		err = multierr.Append(err, errors.New("AMQP queue name cannot be empty when AMQP URL is provided"))
	}
	return err
}
