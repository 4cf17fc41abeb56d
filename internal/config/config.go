package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/Avi18971911/CycleWallet/internal/chart/model"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Collector     CollectorConfig     `yaml:"collector"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	Chart         ChartConfig         `yaml:"chart"`
	Cache         CacheConfig         `yaml:"cache"`
	WriteBuffer   WriteBufferConfig   `yaml:"write_buffer"`
	Auth          AuthConfig          `yaml:"auth"`
	Tracing       TracingConfig       `yaml:"tracing"`
}

type ServerConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type CollectorConfig struct {
	Address string `yaml:"address"`
}

type ElasticsearchConfig struct {
	Addresses []string `yaml:"addresses"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	// Refresh is one of wait_for, true or false.
	Refresh string `yaml:"refresh"`
}

type ChartConfig struct {
	DefaultCount     int             `yaml:"default_count"`
	MaxCount         int             `yaml:"max_count"`
	DefaultPrecision model.Precision `yaml:"default_precision"`
	Timezone         string          `yaml:"timezone"`
}

type CacheConfig struct {
	TTL     time.Duration `yaml:"ttl"`
	MaxCost int64         `yaml:"max_cost"`
}

type WriteBufferConfig struct {
	Size          int           `yaml:"size"`
	FlushTimeout  time.Duration `yaml:"flush_timeout"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

type AuthConfig struct {
	Enabled       bool   `yaml:"enabled"`
	PublicKeyFile string `yaml:"public_key_file"`
}

type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

func NewConfig() *Config {
	return &Config{}
}

const (
	DefaultServerAddress    = ":8081"
	DefaultCollectorAddress = ":4317"
	DefaultShutdownTimeout  = 10 * time.Second
	DefaultRefresh          = "wait_for"
	DefaultChartCount       = 20
	DefaultMaxChartCount    = 500
	DefaultTimezone         = "UTC"
	DefaultCacheTTL         = 30 * time.Second
	DefaultCacheMaxCost     = 1 << 20
	DefaultWriteBufferSize  = 30
	DefaultFlushTimeout     = 10 * time.Second
	DefaultFlushInterval    = 5 * time.Second
	DefaultServiceName      = "cycle-wallet"
)

var DefaultElasticsearchAddress = "http://localhost:9200"

func (c *Config) Validate() error {
	if _, ok := client.ParseRefreshRate(c.Elasticsearch.Refresh); !ok && c.Elasticsearch.Refresh != "" {
		return fmt.Errorf("elasticsearch refresh %q must be one of wait_for, true, false", c.Elasticsearch.Refresh)
	}
	if c.Chart.DefaultCount < 0 {
		return fmt.Errorf("chart default_count (%d) must not be negative", c.Chart.DefaultCount)
	}
	if c.Chart.MaxCount < 0 {
		return fmt.Errorf("chart max_count (%d) must not be negative", c.Chart.MaxCount)
	}
	if c.Chart.MaxCount > 0 && c.Chart.DefaultCount > c.Chart.MaxCount {
		return fmt.Errorf("chart default_count (%d) must be <= max_count (%d)",
			c.Chart.DefaultCount, c.Chart.MaxCount)
	}
	if c.Chart.DefaultPrecision != "" && !c.Chart.DefaultPrecision.IsValid() {
		return fmt.Errorf("chart default_precision %q is not a known precision", c.Chart.DefaultPrecision)
	}
	if c.Chart.Timezone != "" {
		if _, err := time.LoadLocation(c.Chart.Timezone); err != nil {
			return fmt.Errorf("chart timezone %q: %w", c.Chart.Timezone, err)
		}
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl (%v) must not be negative", c.Cache.TTL)
	}
	if c.WriteBuffer.Size < 0 {
		return fmt.Errorf("write_buffer size (%d) must not be negative", c.WriteBuffer.Size)
	}
	if c.WriteBuffer.FlushInterval < 0 {
		return fmt.Errorf("write_buffer flush_interval (%v) must not be negative", c.WriteBuffer.FlushInterval)
	}
	if c.Auth.Enabled && c.Auth.PublicKeyFile == "" {
		return fmt.Errorf("auth is enabled but no public_key_file is configured")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("tracing is enabled but no endpoint is configured")
	}
	return nil
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Collector.Address == "" {
		c.Collector.Address = DefaultCollectorAddress
	}
	if len(c.Elasticsearch.Addresses) == 0 {
		c.Elasticsearch.Addresses = []string{DefaultElasticsearchAddress}
	}
	if c.Elasticsearch.Refresh == "" {
		c.Elasticsearch.Refresh = DefaultRefresh
	}
	if c.Chart.DefaultCount == 0 {
		c.Chart.DefaultCount = DefaultChartCount
	}
	if c.Chart.MaxCount == 0 {
		c.Chart.MaxCount = DefaultMaxChartCount
	}
	if c.Chart.DefaultPrecision == "" {
		c.Chart.DefaultPrecision = model.Hour
	}
	if c.Chart.Timezone == "" {
		c.Chart.Timezone = DefaultTimezone
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if c.Cache.MaxCost == 0 {
		c.Cache.MaxCost = DefaultCacheMaxCost
	}
	if c.WriteBuffer.Size == 0 {
		c.WriteBuffer.Size = DefaultWriteBufferSize
	}
	if c.WriteBuffer.FlushTimeout == 0 {
		c.WriteBuffer.FlushTimeout = DefaultFlushTimeout
	}
	if c.WriteBuffer.FlushInterval == 0 {
		c.WriteBuffer.FlushInterval = DefaultFlushInterval
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = DefaultServiceName
	}
}

// Location returns the chart timezone. Validate has already checked it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Chart.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
