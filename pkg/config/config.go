package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	SourceTwelveData = "twelvedata"
	SourceClickHouse = "clickhouse"

	CacheMemory  = "memory"
	CacheRedis   = "redis"
	CacheLayered = "layered"
)

type Config struct {
	Environment string           `yaml:"environment" default:"development" validate:"required"`
	Server      ServerConfig     `yaml:"server"`
	Log         LogConfig        `yaml:"log"`
	Metrics     MetricsConfig    `yaml:"metrics"`
	Signals     SignalsConfig    `yaml:"signals"`
	Source      SourceConfig     `yaml:"source"`
	TwelveData  TwelveDataConfig `yaml:"twelvedata"`
	ClickHouse  ClickHouseConfig `yaml:"clickhouse"`
	Cache       CacheConfig      `yaml:"cache"`
	Kafka       KafkaConfig      `yaml:"kafka"`
	Dashboard   DashboardConfig  `yaml:"dashboard"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" default:"5000" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CORS            bool          `yaml:"cors" default:"true"`
}

type LogConfig struct {
	Level  string `yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `yaml:"output" default:"stdout"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" default:"true"`
	Path    string `yaml:"path" default:"/metrics"`
}

type SignalsConfig struct {
	Pairs        []string      `yaml:"pairs" default:"[\"EUR/USD\",\"USD/JPY\",\"GBP/USD\",\"USD/CHF\",\"AUD/USD\",\"USD/CAD\",\"NZD/USD\"]" validate:"required,min=1,dive,required"`
	Interval     string        `yaml:"interval" default:"5min" validate:"oneof=1min 5min 15min 30min 1h 4h 1day"`
	OutputSize   int           `yaml:"output_size" default:"100" validate:"gte=1,lte=5000"`
	MinCandles   int           `yaml:"min_candles" default:"50" validate:"gte=1"`
	RSIPeriod    int           `yaml:"rsi_period" default:"14" validate:"gte=1"`
	SMAFast      int           `yaml:"sma_fast" default:"20" validate:"gte=1"`
	SMASlow      int           `yaml:"sma_slow" default:"50" validate:"gte=1"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" default:"10s"`
	TimeZone     string        `yaml:"time_zone"`
}

type SourceConfig struct {
	Type string `yaml:"type" default:"twelvedata" validate:"oneof=twelvedata clickhouse"`
}

type TwelveDataConfig struct {
	BaseURL string `yaml:"base_url" default:"https://api.twelvedata.com" validate:"required,url"`
	APIKey  string `yaml:"api_key"`
}

type ClickHouseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port" default:"9000"`
	Database         string        `yaml:"database" default:"fxsignals"`
	User             string        `yaml:"user" default:"default"`
	Password         string        `yaml:"password"`
	UseHTTP          bool          `yaml:"use_http"`
	TablePrefix      string        `yaml:"table_prefix" default:"candles_"`
	DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
	ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
	MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"10s"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Backend string        `yaml:"backend" default:"memory" validate:"oneof=memory redis layered"`
	TTL     time.Duration `yaml:"ttl" default:"60s"`
	MaxSize int           `yaml:"max_size" default:"256" validate:"gte=1"`
	Redis   RedisConfig   `yaml:"redis"`
}

type RedisConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"6379"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix" default:"fxsignals"`
}

type KafkaConfig struct {
	Enabled      bool          `yaml:"enabled"`
	Brokers      []string      `yaml:"brokers"`
	Topic        string        `yaml:"topic" default:"fx.signals"`
	RequiredAcks int           `yaml:"required_acks" default:"-1"`
	Compression  string        `yaml:"compression" default:"gzip" validate:"oneof=gzip snappy lz4 zstd"`
	MaxAttempts  int           `yaml:"max_attempts" default:"3"`
	WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
}

type DashboardConfig struct {
	URL            string        `yaml:"url" default:"http://localhost:5000" validate:"required,url"`
	PollInterval   time.Duration `yaml:"poll_interval" default:"30s"`
	RequestTimeout time.Duration `yaml:"request_timeout" default:"15s"`
	TimeZone       string        `yaml:"time_zone" default:"Asia/Kolkata"`
}

// envOverrides maps FXSIGNALS_* variables onto the loaded file.
type envOverrides struct {
	APIKey       string   `envconfig:"TWELVEDATA_API_KEY"`
	Pairs        []string `envconfig:"PAIRS"`
	Port         int      `envconfig:"PORT"`
	Source       string   `envconfig:"SOURCE"`
	LogLevel     string   `envconfig:"LOG_LEVEL"`
	TimeZone     string   `envconfig:"TIME_ZONE"`
	DashboardURL string   `envconfig:"DASHBOARD_URL"`
	RedisHost    string   `envconfig:"REDIS_HOST"`
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
}

var validate = validator.New()

// Default returns a configuration populated only from struct defaults.
func Default() (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}
	return &c, nil
}

// Load reads a YAML configuration file over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A .env file in the working directory is loaded first when present.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	var o envOverrides
	if err := envconfig.Process("fxsignals", &o); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	c.applyOverrides(o)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyOverrides(o envOverrides) {
	if o.APIKey != "" {
		c.TwelveData.APIKey = o.APIKey
	}
	if len(o.Pairs) > 0 {
		c.Signals.Pairs = trimAll(o.Pairs)
	}
	if o.Port != 0 {
		c.Server.Port = o.Port
	}
	if o.Source != "" {
		c.Source.Type = o.Source
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.TimeZone != "" {
		c.Signals.TimeZone = o.TimeZone
	}
	if o.DashboardURL != "" {
		c.Dashboard.URL = o.DashboardURL
	}
	if o.RedisHost != "" {
		c.Cache.Redis.Host = o.RedisHost
	}
	if len(o.KafkaBrokers) > 0 {
		c.Kafka.Brokers = trimAll(o.KafkaBrokers)
	}
}

// Validate checks struct tags and cross-field rules shared by all commands.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if c.Signals.SMAFast >= c.Signals.SMASlow {
		return fmt.Errorf("signals.sma_fast (%d) must be below signals.sma_slow (%d)", c.Signals.SMAFast, c.Signals.SMASlow)
	}
	if c.Signals.MinCandles > c.Signals.OutputSize {
		return fmt.Errorf("signals.min_candles (%d) exceeds signals.output_size (%d)", c.Signals.MinCandles, c.Signals.OutputSize)
	}
	seen := make(map[string]struct{}, len(c.Signals.Pairs))
	for _, p := range c.Signals.Pairs {
		if _, dup := seen[p]; dup {
			return fmt.Errorf("signals.pairs contains duplicate %q", p)
		}
		seen[p] = struct{}{}
	}
	return nil
}

// ValidateServe checks the settings only the API server needs.
func (c *Config) ValidateServe() error {
	switch c.Source.Type {
	case SourceTwelveData:
		if c.TwelveData.APIKey == "" {
			return fmt.Errorf("twelvedata.api_key is required")
		}
	case SourceClickHouse:
		if c.ClickHouse.Host == "" {
			return fmt.Errorf("clickhouse.host is required")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// Location resolves the server display timezone: time_zone, then $TZ, then UTC.
func (s SignalsConfig) Location() (*time.Location, error) {
	name := s.TimeZone
	if name == "" {
		name = os.Getenv("TZ")
	}
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", name, err)
	}
	return loc, nil
}

// Location resolves the dashboard display timezone.
func (d DashboardConfig) Location() (*time.Location, error) {
	if d.TimeZone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("load time zone %q: %w", d.TimeZone, err)
	}
	return loc, nil
}

func trimAll(xs []string) []string {
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if x = strings.TrimSpace(x); x != "" {
			out = append(out, x)
		}
	}
	return out
}
