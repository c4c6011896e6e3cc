package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Log         struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"2m"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		CORSOrigins     []string      `yaml:"cors_origins"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	RateLimit struct {
		Enabled   bool          `yaml:"enabled" default:"true"`
		PerSecond float64       `yaml:"per_second" default:"2"`
		Burst     int           `yaml:"burst" default:"5"`
		IdleTTL   time.Duration `yaml:"idle_ttl" default:"10m"`
	} `yaml:"rate_limit"`
	Provider struct {
		BaseURL    string        `yaml:"base_url" default:"https://financialmodelingprep.com/api/v3"`
		APIKey     string        `yaml:"api_key"`
		Timeout    time.Duration `yaml:"timeout" default:"10s"`
		MaxRetries int           `yaml:"max_retries" default:"2"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"500ms"`
	} `yaml:"provider"`
	Scan      ScanConfig                `yaml:"scan"`
	Universes map[string]UniverseConfig `yaml:"universes"`
	Cache     struct {
		Enabled      bool          `yaml:"enabled" default:"true"`
		MemoryItems  int           `yaml:"memory_items" default:"2048"`
		PriceTTL     time.Duration `yaml:"price_ttl" default:"15m"`
		MetricsTTL   time.Duration `yaml:"metrics_ttl" default:"6h"`
		CandidateTTL time.Duration `yaml:"candidate_ttl" default:"1h"`
		L1TTL        time.Duration `yaml:"l1_ttl" default:"1m"`
		Redis        struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"finscore"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"finscore"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"30s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
		MaxStaleness     time.Duration `yaml:"max_staleness" default:"96h"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Enabled      bool     `yaml:"enabled"`
		Brokers      []string `yaml:"brokers"`
		RequestTopic string   `yaml:"request_topic" default:"finscore.scan.requests"`
		ResultTopic  string   `yaml:"result_topic" default:"finscore.scan.results"`
		RequiredAcks int      `yaml:"required_acks" default:"1"`
		Compression  string   `yaml:"compression" default:"snappy"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"10ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"finscore-scanner"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"16"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"200ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic" default:"finscore.scan.requests.dlq"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Scheduler struct {
		Enabled   bool     `yaml:"enabled"`
		Spec      string   `yaml:"spec" default:"30 21 * * 1-5"`
		Universes []string `yaml:"universes"`
		Strategy  string   `yaml:"strategy"`
	} `yaml:"scheduler"`
}

// ScanConfig drives the batch orchestrator.
type ScanConfig struct {
	BatchSize       int           `yaml:"batch_size" default:"5"`
	PaceInterval    time.Duration `yaml:"pace_interval" default:"300ms"`
	LookbackDays    int           `yaml:"lookback_days" default:"365"`
	MinBars         int           `yaml:"min_bars" default:"50"`
	Strategy        string        `yaml:"strategy" default:"scan"`
	DefaultUniverse string        `yaml:"default_universe" default:"default"`
	CandidatePool   int           `yaml:"candidate_pool" default:"50"`
}

type UniverseConfig struct {
	Name    string            `yaml:"name"`
	Symbols []string          `yaml:"symbols"`
	Names   map[string]string `yaml:"names"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse decodes YAML, applies defaults and validates the result.
func Parse(b []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("FMP_API_KEY"); ok && v != "" {
		c.Provider.APIKey = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Cache.Redis.Addr = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("CLICKHOUSE_HOST"); ok && v != "" {
		c.ClickHouse.Host = v
	}
	if v, ok := lookup("SERVER_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SERVER_PORT: %w", err)
		}
		c.Server.Port = port
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if c.Scan.BatchSize < 1 {
		return fmt.Errorf("scan.batch_size must be positive, got %d", c.Scan.BatchSize)
	}
	if c.Scan.MinBars < 1 {
		return fmt.Errorf("scan.min_bars must be positive, got %d", c.Scan.MinBars)
	}
	if c.Scan.LookbackDays < c.Scan.MinBars {
		return fmt.Errorf("scan.lookback_days (%d) must cover scan.min_bars (%d)", c.Scan.LookbackDays, c.Scan.MinBars)
	}
	if c.Scan.Strategy != "scan" && c.Scan.Strategy != "classic" {
		return fmt.Errorf("scan.strategy must be 'scan' or 'classic', got '%s'", c.Scan.Strategy)
	}
	if len(c.Universes) == 0 {
		return fmt.Errorf("universes cannot be empty")
	}
	if _, ok := c.Universes[c.Scan.DefaultUniverse]; !ok {
		return fmt.Errorf("scan.default_universe %q is not a configured universe", c.Scan.DefaultUniverse)
	}
	for id, u := range c.Universes {
		if len(u.Symbols) == 0 {
			return fmt.Errorf("universe %q has no symbols", id)
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Scheduler.Enabled {
		for _, id := range c.Scheduler.Universes {
			if _, ok := c.Universes[id]; !ok {
				return fmt.Errorf("scheduler universe %q is not configured", id)
			}
		}
	}
	return nil
}
