package clickhouse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDSN(t *testing.T) {
	cfg := ClientConfig{DialTimeout: 5 * time.Second, ReadTimeout: 30 * time.Second}
	for _, opt := range []ClientOption{
		WithAddr("ch", 9000),
		WithDatabase("finscore"),
		WithCredentials("default", "p@ss"),
		WithMaxExecutionTime(time.Minute),
		WithAsyncInsert(true, true),
	} {
		opt(&cfg)
	}

	assert.Equal(t,
		"clickhouse://default:p%40ss@ch:9000/finscore?async_insert=1&dial_timeout=5s&max_execution_time=60&read_timeout=30s&wait_for_async_insert=1",
		buildDSN(cfg))
}

func TestBuildDSNHTTP(t *testing.T) {
	dsn := buildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "db", UseHTTP: true})
	assert.Equal(t, "clickhouse+http://ch:8123/db", dsn)
}

func TestAsyncInsertOff(t *testing.T) {
	var cfg ClientConfig
	WithAsyncInsert(false, true)(&cfg)
	WithMaxExecutionTime(0)(&cfg)
	assert.Empty(t, cfg.Settings)
}

func TestDailyBarsSchema(t *testing.T) {
	stmts := DailyBarsSchema("finscore")
	assert.Len(t, stmts, 2)
	assert.Contains(t, stmts[1], "finscore.daily_bars")
	assert.Contains(t, stmts[1], "ReplacingMergeTree(fetched_at)")
}

func TestNewClientRequiresHost(t *testing.T) {
	_, err := NewClient(context.Background())
	assert.Error(t, err)
}
