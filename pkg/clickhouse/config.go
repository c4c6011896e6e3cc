package clickhouse

import "time"

// ClientOption configures Client.
type ClientOption func(*ClientConfig)

// ClientConfig holds ClickHouse connection and pool settings. Settings are
// passed through to the server as DSN query parameters.
type ClientConfig struct {
	Host            string
	Port            int
	Database        string
	User            string
	Password        string
	UseHTTP         bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	Settings        map[string]string
}

func WithAddr(host string, port int) ClientOption {
	return func(c *ClientConfig) {
		c.Host = host
		c.Port = port
	}
}

func WithDatabase(database string) ClientOption {
	return func(c *ClientConfig) {
		c.Database = database
	}
}

func WithCredentials(user, password string) ClientOption {
	return func(c *ClientConfig) {
		c.User = user
		c.Password = password
	}
}

// WithPool bounds the database/sql pool.
func WithPool(maxOpen, maxIdle int, lifetime time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.MaxOpenConns = maxOpen
		c.MaxIdleConns = maxIdle
		c.ConnMaxLifetime = lifetime
	}
}

// WithTimeouts sets the dial and read timeouts. Dial also bounds the
// startup ping.
func WithTimeouts(dial, read time.Duration) ClientOption {
	return func(c *ClientConfig) {
		c.DialTimeout = dial
		c.ReadTimeout = read
	}
}

// WithHTTP switches from the native protocol to HTTP.
func WithHTTP(useHTTP bool) ClientOption {
	return func(c *ClientConfig) {
		c.UseHTTP = useHTTP
	}
}

// WithSetting adds a server setting, e.g. max_execution_time.
func WithSetting(key, value string) ClientOption {
	return func(c *ClientConfig) {
		if c.Settings == nil {
			c.Settings = make(map[string]string)
		}
		c.Settings[key] = value
	}
}

// WithAsyncInsert lets the server buffer inserts. With wait the insert
// returns only after the buffer is flushed.
func WithAsyncInsert(enabled, wait bool) ClientOption {
	return func(c *ClientConfig) {
		if !enabled {
			return
		}
		WithSetting("async_insert", "1")(c)
		if wait {
			WithSetting("wait_for_async_insert", "1")(c)
		}
	}
}

// WithMaxExecutionTime caps server-side query time.
func WithMaxExecutionTime(d time.Duration) ClientOption {
	return func(c *ClientConfig) {
		if d > 0 {
			WithSetting("max_execution_time", formatSeconds(d))(c)
		}
	}
}
