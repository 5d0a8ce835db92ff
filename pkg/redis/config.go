package redis

import "time"

// Config configures the optional Redis connection. An empty URL disables
// Redis and callers fall back to in-process state.
type Config struct {
	URL            string        `env:"REDIS_URL"` // redis://:password@host:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"15s"`
}

// Enabled reports whether a URL is configured.
func (c Config) Enabled() bool {
	return c.URL != ""
}
