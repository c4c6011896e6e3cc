package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimal = `
universes:
  default:
    name: Large caps
    symbols: [AAPL, MSFT]
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	assert.Equal(t, "development", c.Environment)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 5, c.Scan.BatchSize)
	assert.Equal(t, 300*time.Millisecond, c.Scan.PaceInterval)
	assert.Equal(t, 50, c.Scan.MinBars)
	assert.Equal(t, "scan", c.Scan.Strategy)
	assert.Equal(t, "default", c.Scan.DefaultUniverse)
	assert.Equal(t, []string{"AAPL", "MSFT"}, c.Universes["default"].Symbols)
	assert.False(t, c.Kafka.Enabled)
}

func TestParseKeepsExplicitValues(t *testing.T) {
	c, err := Parse([]byte(minimal + `
scan:
  batch_size: 3
  pace_interval: 1s
  strategy: classic
`))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Scan.BatchSize)
	assert.Equal(t, time.Second, c.Scan.PaceInterval)
	assert.Equal(t, "classic", c.Scan.Strategy)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no universes", "environment: test\n"},
		{"unknown strategy", minimal + "scan:\n  strategy: yolo\n"},
		{"missing default universe", minimal + "scan:\n  default_universe: tech\n"},
		{"empty universe", "universes:\n  default:\n    symbols: []\n"},
		{"kafka without brokers", minimal + "kafka:\n  enabled: true\n"},
		{"scheduler unknown universe", minimal + "scheduler:\n  enabled: true\n  universes: [nope]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	c, err := Parse([]byte(minimal))
	require.NoError(t, err)

	env := map[string]string{
		"FMP_API_KEY":   "secret",
		"KAFKA_BROKERS": "a:9092,b:9092",
		"SERVER_PORT":   "9090",
		"LOG_LEVEL":     "debug",
	}
	require.NoError(t, c.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}))

	assert.Equal(t, "secret", c.Provider.APIKey)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.Kafka.Brokers)
	assert.Equal(t, 9090, c.Server.Port)
	assert.Equal(t, "debug", c.Log.Level)

	err = c.applyEnv(func(k string) (string, bool) {
		if k == "SERVER_PORT" {
			return "eighty", true
		}
		return "", false
	})
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimal), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, c.Universes, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
