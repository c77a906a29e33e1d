package docsearch

import (
	"log/slog"

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
	uri        string
	database   string
	collection string

	searchIndex string
	profile     string
	rawPattern  bool
	minLimit    int
	maxLimit    int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithMongo sets the connection string and target collection.
func WithMongo(uri, database, collection string) Option {
	return optionFunc(func(c *clientConfig) {
		c.uri = uri
		c.database = database
		c.collection = collection
	})
}

// WithSearchIndex names the Atlas Search index used by ranked searches.
// Default: "default".
func WithSearchIndex(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchIndex = name
	})
}

// WithFieldProfile selects the store field mapping ("teachings" or "articles").
// Default: "teachings".
func WithFieldProfile(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.profile = name
	})
}

// WithRawPattern sends fallback queries to $regex without escaping.
func WithRawPattern(raw bool) Option {
	return optionFunc(func(c *clientConfig) {
		c.rawPattern = raw
	})
}

// WithLimits bounds the per-search result count. Defaults: 1 and 1000.
func WithLimits(minLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.minLimit = minLimit
		c.maxLimit = maxLimit
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

// SearchOption tunes a single Search call.
type SearchOption func(*searchConfig)

type searchConfig struct {
	ranked bool
	limit  *int
}

// Ranked runs a relevance-ranked Atlas Search instead of the substring fallback.
func Ranked() SearchOption {
	return func(c *searchConfig) { c.ranked = true }
}

// Limit caps the result count. Out-of-range values are clamped.
func Limit(n int) SearchOption {
	return func(c *searchConfig) { c.limit = &n }
}
