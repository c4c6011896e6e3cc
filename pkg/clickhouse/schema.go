package clickhouse

import "fmt"

// DailyBarsTable is the archive of provider daily OHLCV bars.
const DailyBarsTable = "daily_bars"

// DailyBarsSchema returns idempotent DDL for the bar archive. ReplacingMergeTree
// keyed on (symbol, date) keeps the latest fetched version of each bar.
func DailyBarsSchema(database string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s
(
    symbol     LowCardinality(String),
    date       Date,
    open       Float64,
    high       Float64,
    low        Float64,
    close      Float64,
    volume     Float64,
    fetched_at DateTime64(3, 'UTC')
)
ENGINE = ReplacingMergeTree(fetched_at)
ORDER BY (symbol, date)`, database, DailyBarsTable),
	}
}
