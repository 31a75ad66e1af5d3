package pasetoAuth

import (
	"errors"

	"github.com/MrEthical07/pasetoAuth/store"
	"github.com/MrEthical07/pasetoAuth/token"
)

// Builder defines a public type used by pasetoAuth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	store  store.Store

	userProvider UserProvider
	auditSink    AuditSink

	built bool
}

// New starts a [Builder] preloaded with default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the credential store backing refresh tokens.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithUserProvider sets the user lookup used to resolve user principals.
func (b *Builder) WithUserProvider(up UserProvider) *Builder {
	b.userProvider = up
	return b
}

// WithAuditSink sets the sink receiving audit events. Ignored unless auditing
// is enabled in the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles counter collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build assembles the [Engine]. Configuration is normalized (defaults filled,
// lifetime caps applied) before validation, so oversized lifetimes clamp
// rather than error.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.store == nil {
		return nil, errors.New("credential store required")
	}
	if b.userProvider == nil {
		return nil, errors.New("user provider required")
	}

	tm, err := token.NewManager(token.Config{
		SecretKey:           cfg.SecretKey,
		AccessTTL:           cfg.AccessLifetime,
		RefreshShortTTL:     cfg.RefreshShortLifetime,
		RefreshLongTTL:      cfg.RefreshLongLifetime,
		RefreshPermanentTTL: cfg.RefreshPermanentLifetime,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:       cfg,
		tokens:       tm,
		store:        b.store,
		userProvider: b.userProvider,
		audit:        newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:      NewMetrics(cfg.Metrics),
	}

	b.built = true

	return engine, nil
}
