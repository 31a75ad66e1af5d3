package pasetoAuth

import (
	"encoding/hex"
	"errors"
	"time"
)

// Hard caps on token lifetimes. Configured values above a cap are clamped,
// not rejected; the permanent tier is deliberately uncapped.
const (
	// MaxAccessLifetime is an exported constant or variable used by the authentication engine.
	MaxAccessLifetime = 10 * time.Minute
	// MaxRefreshShortLifetime is an exported constant or variable used by the authentication engine.
	MaxRefreshShortLifetime = 24 * time.Hour
	// MaxRefreshLongLifetime is an exported constant or variable used by the authentication engine.
	MaxRefreshLongLifetime = 60 * 24 * time.Hour
)

// Config defines a public type used by pasetoAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// SecretKey is the hex encoding of the 32-byte v4.local symmetric key shared
	// by access and refresh tokens. Required; there is no default.
	SecretKey string

	// AccessLifetime caps how long minted access tokens stay valid.
	// Clamped to MaxAccessLifetime.
	AccessLifetime time.Duration
	// RefreshShortLifetime is the "short" refresh tier, used for ordinary
	// logins. Clamped to MaxRefreshShortLifetime.
	RefreshShortLifetime time.Duration
	// RefreshLongLifetime is the "long" refresh tier, used for remembered
	// logins. Clamped to MaxRefreshLongLifetime.
	RefreshLongLifetime time.Duration
	// RefreshPermanentLifetime is the "permanent" tier used by app tokens.
	// Never clamped.
	RefreshPermanentLifetime time.Duration

	// HeaderPrefix is the Authorization scheme expected by
	// [Engine.AuthenticateRequest].
	HeaderPrefix string

	// KeyLength is the length of generated refresh-token keys.
	KeyLength int
	// MaxKeyAttempts bounds the retry loop around duplicate-key collisions.
	// Exhausting it means the key space is misconfigured, not unlucky.
	MaxKeyAttempts int

	Audit   AuditConfig
	Metrics MetricsConfig
}

// AuditConfig defines a public type used by pasetoAuth APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by pasetoAuth APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		AccessLifetime:           5 * time.Minute,
		RefreshShortLifetime:     12 * time.Hour,
		RefreshLongLifetime:      30 * 24 * time.Hour,
		RefreshPermanentLifetime: 2 * 365 * 24 * time.Hour,
		HeaderPrefix:             "Paseto",
		KeyLength:                32,
		MaxKeyAttempts:           10,
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// normalize fills zero values from defaults and applies the lifetime caps.
func (c *Config) normalize() {
	d := defaultConfig()

	if c.AccessLifetime <= 0 {
		c.AccessLifetime = d.AccessLifetime
	}
	if c.RefreshShortLifetime <= 0 {
		c.RefreshShortLifetime = d.RefreshShortLifetime
	}
	if c.RefreshLongLifetime <= 0 {
		c.RefreshLongLifetime = d.RefreshLongLifetime
	}
	if c.RefreshPermanentLifetime <= 0 {
		c.RefreshPermanentLifetime = d.RefreshPermanentLifetime
	}
	if c.HeaderPrefix == "" {
		c.HeaderPrefix = d.HeaderPrefix
	}
	if c.KeyLength <= 0 {
		c.KeyLength = d.KeyLength
	}
	if c.MaxKeyAttempts <= 0 {
		c.MaxKeyAttempts = d.MaxKeyAttempts
	}
	if c.Audit.BufferSize <= 0 {
		c.Audit.BufferSize = d.Audit.BufferSize
	}

	if c.AccessLifetime > MaxAccessLifetime {
		c.AccessLifetime = MaxAccessLifetime
	}
	if c.RefreshShortLifetime > MaxRefreshShortLifetime {
		c.RefreshShortLifetime = MaxRefreshShortLifetime
	}
	if c.RefreshLongLifetime > MaxRefreshLongLifetime {
		c.RefreshLongLifetime = MaxRefreshLongLifetime
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("SecretKey is required")
	}
	raw, err := hex.DecodeString(c.SecretKey)
	if err != nil {
		return errors.New("SecretKey must be hex encoded")
	}
	if len(raw) != 32 {
		return errors.New("SecretKey must decode to 32 bytes")
	}

	if c.AccessLifetime <= 0 {
		return errors.New("AccessLifetime must be > 0")
	}
	if c.RefreshShortLifetime <= 0 || c.RefreshLongLifetime <= 0 || c.RefreshPermanentLifetime <= 0 {
		return errors.New("refresh lifetimes must be > 0")
	}
	if c.KeyLength < 16 {
		return errors.New("KeyLength must be >= 16")
	}
	if c.MaxKeyAttempts <= 0 {
		return errors.New("MaxKeyAttempts must be > 0")
	}
	return nil
}
