package autoindex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn      string
	maxConns int32

	timeColumn       string
	tier             Tier // empty: probe the server
	probeTimeout     time.Duration
	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the connection string of the event store.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithMaxConns caps the connection pool. Defaults to pgx's own default.
func WithMaxConns(n int32) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxConns = n
	})
}

// WithTimeColumn sets the event-time column that gets a BRIN index on modern
// servers. Defaults to "_time".
func WithTimeColumn(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeColumn = name
	})
}

// WithTier skips the version probe and uses the given tier. New rejects values
// other than TierLegacy and TierModern.
func WithTier(t Tier) Option {
	return optionFunc(func(c *clientConfig) {
		c.tier = t
	})
}

// WithProbeTimeout bounds the version probe. Default: 5s.
func WithProbeTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.probeTimeout = d
	})
}

// WithReadinessTimeout bounds the wait for the database in New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
