package translator

import (
	"time"

	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"
)

// ============================================================================
// TRANSLATOR OPTIONS — Functional options for New()
// ============================================================================

// Option configures translator behavior via functional options pattern.
type Option func(*options)

type options struct {
	log                 logger.Logger
	stats               stats.Stats
	labelKeywords       []string
	callInterval        time.Duration // minimum spacing between provider calls
	consecutiveFailures int           // breaker trips after this many failures in a row
	breakerTimeout      time.Duration // open → half-open after this long
}

// WithLogger sets the logger. Default: logger.NOP.
func WithLogger(log logger.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

// WithStats sets the stats factory used for usage counters. Default: stats.NOP.
func WithStats(s stats.Stats) Option {
	return func(o *options) {
		o.stats = s
	}
}

// WithLabelKeywords replaces the substrings that mark a column label as a
// natural-language prompt worth translating. Matching is case-insensitive.
// "?" and "¿" always match.
func WithLabelKeywords(keywords []string) Option {
	return func(o *options) {
		o.labelKeywords = keywords
	}
}

// WithCallInterval sets the minimum delay between provider calls.
// Zero disables throttling.
func WithCallInterval(d time.Duration) Option {
	return func(o *options) {
		o.callInterval = d
	}
}

// WithBreaker configures when repeated failures switch the translator
// into degraded mode and how long it stays there.
func WithBreaker(consecutiveFailures int, timeout time.Duration) Option {
	return func(o *options) {
		o.consecutiveFailures = consecutiveFailures
		o.breakerTimeout = timeout
	}
}

// applyOptions creates options from functional options.
func applyOptions(opts []Option) *options {
	o := &options{
		log:                 logger.NOP,
		stats:               stats.NOP,
		labelKeywords:       DefaultLabelKeywords,
		callInterval:        100 * time.Millisecond,
		consecutiveFailures: 5,
		breakerTimeout:      30 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
