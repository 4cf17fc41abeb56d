package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Avi18971911/CycleWallet/internal/chart/model"
	"github.com/Avi18971911/CycleWallet/internal/db/elasticsearch/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validConfig = `
server:
  address: ":9000"
  shutdown_timeout: 5s
collector:
  address: ":4400"
elasticsearch:
  addresses:
    - "http://es-1:9200"
    - "http://es-2:9200"
  refresh: "true"
chart:
  default_count: 10
  max_count: 100
  default_precision: day
  timezone: America/Los_Angeles
cache:
  ttl: 1m
write_buffer:
  size: 5
  flush_timeout: 2s
  flush_interval: 1s
auth:
  enabled: true
  public_key_file: /etc/wallet/delegation.pem
tracing:
  enabled: true
  endpoint: otel-collector:4318
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewLoader(t *testing.T) {
	t.Run("Uses the given path", func(t *testing.T) {
		assert.Equal(t, "custom.yaml", NewLoader("custom.yaml").getConfigPath())
	})

	t.Run("Falls back to the default path", func(t *testing.T) {
		assert.Equal(t, DefaultConfigPath, NewLoader("").getConfigPath())
	})

	t.Run("Reads the path from the environment", func(t *testing.T) {
		t.Setenv(ConfigPathEnv, "/tmp/wallet.yaml")
		assert.Equal(t, "/tmp/wallet.yaml", NewLoaderFromEnv().getConfigPath())
	})
}

func TestLoader_Load(t *testing.T) {
	t.Run("Loads a complete file", func(t *testing.T) {
		cfg, err := NewLoader(writeConfig(t, validConfig)).Load()
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Server.Address)
		assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, ":4400", cfg.Collector.Address)
		assert.Equal(t, []string{"http://es-1:9200", "http://es-2:9200"}, cfg.Elasticsearch.Addresses)
		assert.Equal(t, "true", cfg.Elasticsearch.Refresh)
		assert.Equal(t, 10, cfg.Chart.DefaultCount)
		assert.Equal(t, 100, cfg.Chart.MaxCount)
		assert.Equal(t, model.Day, cfg.Chart.DefaultPrecision)
		assert.Equal(t, "America/Los_Angeles", cfg.Location().String())
		assert.Equal(t, time.Minute, cfg.Cache.TTL)
		assert.Equal(t, int64(DefaultCacheMaxCost), cfg.Cache.MaxCost)
		assert.Equal(t, 5, cfg.WriteBuffer.Size)
		assert.Equal(t, 2*time.Second, cfg.WriteBuffer.FlushTimeout)
		assert.Equal(t, time.Second, cfg.WriteBuffer.FlushInterval)
		assert.True(t, cfg.Auth.Enabled)
		assert.Equal(t, "/etc/wallet/delegation.pem", cfg.Auth.PublicKeyFile)
		assert.True(t, cfg.Tracing.Enabled)
		assert.Equal(t, DefaultServiceName, cfg.Tracing.ServiceName)
	})

	t.Run("Applies defaults to an empty file", func(t *testing.T) {
		cfg, err := NewLoader(writeConfig(t, "")).Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
		assert.Equal(t, DefaultCollectorAddress, cfg.Collector.Address)
		assert.Equal(t, []string{DefaultElasticsearchAddress}, cfg.Elasticsearch.Addresses)
		assert.Equal(t, DefaultRefresh, cfg.Elasticsearch.Refresh)
		assert.Equal(t, DefaultChartCount, cfg.Chart.DefaultCount)
		assert.Equal(t, model.Hour, cfg.Chart.DefaultPrecision)
		assert.Equal(t, time.UTC, cfg.Location())
		assert.Equal(t, DefaultCacheTTL, cfg.Cache.TTL)
		assert.Equal(t, DefaultWriteBufferSize, cfg.WriteBuffer.Size)
		assert.Equal(t, DefaultFlushInterval, cfg.WriteBuffer.FlushInterval)
		assert.False(t, cfg.Auth.Enabled)
		assert.False(t, cfg.Tracing.Enabled)
	})

	t.Run("Returns defaults when the default file is absent", func(t *testing.T) {
		cfg, err := NewLoader("").Load()
		require.NoError(t, err)
		assert.Equal(t, DefaultServerAddress, cfg.Server.Address)
	})

	t.Run("Fails when an explicit file is absent", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).Load()
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("Fails on malformed yaml", func(t *testing.T) {
		_, err := NewLoader(writeConfig(t, "server: [unclosed")).Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]string{
		"unknown refresh":          "elasticsearch:\n  refresh: sometimes\n",
		"negative count":           "chart:\n  default_count: -1\n",
		"default above max":        "chart:\n  default_count: 50\n  max_count: 10\n",
		"unknown precision":        "chart:\n  default_precision: decade\n",
		"unknown timezone":         "chart:\n  timezone: Mars/Olympus\n",
		"negative ttl":             "cache:\n  ttl: -1s\n",
		"auth without key":         "auth:\n  enabled: true\n",
		"tracing without endpoint": "tracing:\n  enabled: true\n",
		"negative write buffer":    "write_buffer:\n  size: -2\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewLoader(writeConfig(t, content)).Load()
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate_RefreshRates(t *testing.T) {
	for _, refresh := range []string{"wait_for", "true", "false"} {
		t.Run(refresh, func(t *testing.T) {
			cfg, err := NewLoader(writeConfig(t, "elasticsearch:\n  refresh: \""+refresh+"\"\n")).Load()
			require.NoError(t, err)
			_, ok := client.ParseRefreshRate(cfg.Elasticsearch.Refresh)
			assert.True(t, ok)
		})
	}
}
