package mws

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	mwslog "github.com/vahaponur/mws-go/internal/log"
)

// Config holds everything needed to build a Client. Zero values keep the
// client defaults.
type Config struct {
	SellerID    string `yaml:"seller_id"`
	AccessKey   string `yaml:"access_key"`
	SecretKey   string `yaml:"secret_key"`
	AuthToken   string `yaml:"auth_token"`
	Marketplace string `yaml:"marketplace"`
	BaseURL     string `yaml:"base_url"`
	UserAgent   string `yaml:"user_agent"`

	MaxRetries *int          `yaml:"max_retries"`
	RetryDelay time.Duration `yaml:"retry_delay"`
	RateLimit  int           `yaml:"rate_limit"` // requests per minute
	Timeout    time.Duration `yaml:"timeout"`
	LogLevel   string        `yaml:"log_level"`

	// Endpoints overrides section paths, keyed by section name.
	Endpoints map[string]string `yaml:"endpoints"`
}

// LoadConfig reads a YAML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// ConfigFromEnv reads MWS_* environment variables. A .env file in the
// working directory is loaded first when present; variables already set in
// the environment win.
func ConfigFromEnv(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		SellerID:    os.Getenv("MWS_SELLER_ID"),
		AccessKey:   os.Getenv("MWS_ACCESS_KEY"),
		SecretKey:   os.Getenv("MWS_SECRET_KEY"),
		AuthToken:   os.Getenv("MWS_AUTH_TOKEN"),
		Marketplace: os.Getenv("MWS_MARKETPLACE"),
		BaseURL:     os.Getenv("MWS_BASE_URL"),
		UserAgent:   os.Getenv("MWS_USER_AGENT"),
		LogLevel:    os.Getenv("MWS_LOG_LEVEL"),
	}

	if v := os.Getenv("MWS_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MWS_MAX_RETRIES %q: %w", v, err)
		}
		cfg.MaxRetries = &n
	}
	if v := os.Getenv("MWS_RATE_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MWS_RATE_LIMIT %q: %w", v, err)
		}
		cfg.RateLimit = n
	}
	for name, dst := range map[string]*time.Duration{
		"MWS_RETRY_DELAY": &cfg.RetryDelay,
		"MWS_TIMEOUT":     &cfg.Timeout,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		*dst = d
	}
	return cfg, nil
}

// Options translates the config into client options.
func (cfg *Config) Options() []ClientOption {
	var opts []ClientOption
	if cfg.AuthToken != "" {
		opts = append(opts, WithAuthToken(cfg.AuthToken))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, WithUserAgent(cfg.UserAgent))
	}
	if cfg.MaxRetries != nil || cfg.RetryDelay > 0 {
		retries, delay := 3, time.Second
		if cfg.MaxRetries != nil {
			retries = *cfg.MaxRetries
		}
		if cfg.RetryDelay > 0 {
			delay = cfg.RetryDelay
		}
		opts = append(opts, WithRetryConfig(retries, delay))
	}
	if cfg.RateLimit != 0 {
		opts = append(opts, WithRateLimit(cfg.RateLimit))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, withTimeout(cfg.Timeout))
	}
	if cfg.LogLevel != "" {
		opts = append(opts, WithLogger(mwslog.New(mwslog.Config{Level: cfg.LogLevel}).
			With().Str(mwslog.FieldComponent, "mws").Logger()))
	}
	if len(cfg.Endpoints) > 0 {
		opts = append(opts, WithEndpointOverrides(cfg.Endpoints))
	}
	return opts
}

// NewClientFromConfig builds a client from cfg. Options in opts are applied
// after the ones derived from cfg.
func NewClientFromConfig(cfg *Config, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	marketplace := cfg.Marketplace
	if marketplace == "" {
		marketplace = "US"
	}
	return NewClient(cfg.SellerID, cfg.AccessKey, cfg.SecretKey, marketplace, append(cfg.Options(), opts...)...)
}

// withTimeout sets the timeout on the client's current HTTP client copy.
func withTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}
