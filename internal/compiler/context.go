// Package compiler holds the state shared by one build session: the
// configuration and its fingerprint, code generation metadata, the plugin
// driver, build statistics and the memoization caches.
//
// A Context is created at session start and dropped at session end. It is
// shared by reference across all concurrent code generation work; only the
// internally synchronized stores it holds are ever mutated.
package compiler

import (
	"io"
	"log/slog"

	"github.com/leapstack-labs/leapjs/internal/cache"
	"github.com/leapstack-labs/leapjs/internal/config"
	"github.com/leapstack-labs/leapjs/pkg/jsast"
)

// Cache capacities.
const (
	WrapperCacheSize = 20000
	RuntimeCacheSize = 5
)

// Context is the state of one build session.
type Context struct {
	Config *config.Config
	// ConfigHash is the fingerprint of Config taken when the session started.
	ConfigHash   uint64
	Meta         *Meta
	PluginDriver *PluginDriver
	Stats        *Stats
	Logger       *slog.Logger

	// WrapperCache maps a module cache key to its wrapped function.
	WrapperCache *cache.Sized[string, jsast.EFunction]
	// RuntimeCache maps a config fingerprint to the assembled runtime.
	RuntimeCache *cache.Sized[uint64, string]
}

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		c.Logger = logger
	}
}

// WithPlugins registers plugins in order.
func WithPlugins(plugins ...Plugin) Option {
	return func(c *Context) {
		c.PluginDriver = NewPluginDriver(plugins...)
	}
}

// NewContext creates a session for cfg. A nil cfg uses the defaults.
func NewContext(cfg *config.Config, opts ...Option) *Context {
	if cfg == nil {
		cfg = config.Default()
	}

	c := &Context{
		Config:       cfg,
		ConfigHash:   cfg.Fingerprint(),
		Meta:         NewMeta(),
		PluginDriver: NewPluginDriver(),
		Stats:        NewStats(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		WrapperCache: cache.MustNewSized[string, jsast.EFunction](WrapperCacheSize),
		RuntimeCache: cache.MustNewSized[uint64, string](RuntimeCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
