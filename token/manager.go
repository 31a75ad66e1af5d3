package token

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// Type discriminates the two token classes minted by the engine.
type Type string

const (
	// TypeAccess marks short-lived tokens presented on every request.
	TypeAccess Type = "access"
	// TypeRefresh marks long-lived tokens exchanged for new access tokens.
	TypeRefresh Type = "refresh"
)

// Model names the principal class a token was minted for.
type Model string

const (
	// ModelUser is an exported constant or variable used by the authentication engine.
	ModelUser Model = "user"
	// ModelApp is an exported constant or variable used by the authentication engine.
	ModelApp Model = "app"
)

// Lifetime selects the refresh-token duration tier.
type Lifetime string

const (
	// LifetimeShort is an exported constant or variable used by the authentication engine.
	LifetimeShort Lifetime = "short"
	// LifetimeLong is an exported constant or variable used by the authentication engine.
	LifetimeLong Lifetime = "long"
	// LifetimePermanent is an exported constant or variable used by the authentication engine.
	LifetimePermanent Lifetime = "permanent"
)

var (
	// ErrTokenInvalid covers every decode failure: malformed envelope, failed
	// authentication tag, expiry, missing or mismatched claims. Callers get no
	// finer detail so the parse path cannot be used as an oracle.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrUnknownLifetime reports a lifetime label outside short/long/permanent.
	ErrUnknownLifetime = errors.New("unknown refresh lifetime")
)

// Claim names on the wire.
const (
	claimType     = "type"
	claimModel    = "model"
	claimPK       = "pk"
	claimKey      = "key"
	claimLifetime = "lifetime"
)

// Claims is the decrypted claim bundle carried by both token classes.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	// Type is stamped by the codec on encode and checked on decode. Values
	// supplied by callers are ignored.
	Type Type
	// Model names the principal class: user or app.
	Model Model
	// PK identifies the principal. For user tokens it is the user id; for app
	// tokens it is the refresh key itself.
	PK string
	// Key is the store key of the refresh record. Required on refresh tokens,
	// carried through to access tokens minted from them.
	Key string
	// Lifetime is the refresh duration tier. Only meaningful on refresh tokens.
	Lifetime Lifetime
}

// Config defines a public type used by pasetoAuth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	// SecretKey is the hex encoding of the 32-byte v4.local symmetric key.
	SecretKey           string
	AccessTTL           time.Duration
	RefreshShortTTL     time.Duration
	RefreshLongTTL      time.Duration
	RefreshPermanentTTL time.Duration
}

// Manager defines a public type used by pasetoAuth APIs.
//
// Manager instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Manager struct {
	config Config
	key    paseto.V4SymmetricKey
}

// NewManager validates the configuration and decodes the symmetric key.
//
// NewManager may return an error when input validation, dependency calls, or security checks fail.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessTTL <= 0 {
		return nil, errors.New("invalid access TTL configuration")
	}
	if cfg.RefreshShortTTL <= 0 || cfg.RefreshLongTTL <= 0 || cfg.RefreshPermanentTTL <= 0 {
		return nil, errors.New("invalid refresh TTL configuration")
	}
	key, err := paseto.V4SymmetricKeyFromHex(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}

	return &Manager{config: cfg, key: key}, nil
}

// CreateAccess mints an access token from the claim bundle. The type claim is
// always stamped by the codec; any Type set by the caller is ignored.
//
// CreateAccess may return an error when input validation, dependency calls, or security checks fail.
// CreateAccess does not mutate shared global state and can be used concurrently.
func (m *Manager) CreateAccess(c Claims) (string, error) {
	return m.encode(c, TypeAccess, m.config.AccessTTL, time.Time{})
}

// CreateAccessWithExpiry mints an access token with an explicit expiry instead
// of the configured TTL.
func (m *Manager) CreateAccessWithExpiry(c Claims, expiresAt time.Time) (string, error) {
	return m.encode(c, TypeAccess, 0, expiresAt)
}

// CreateRefresh mints a refresh token. The claim bundle must carry a store key
// and a recognized lifetime label, which selects the configured TTL tier.
//
// CreateRefresh may return an error when input validation, dependency calls, or security checks fail.
// CreateRefresh does not mutate shared global state and can be used concurrently.
func (m *Manager) CreateRefresh(c Claims) (string, error) {
	if c.Key == "" {
		return "", errors.New("refresh token requires a key claim")
	}
	ttl, err := m.RefreshTTL(c.Lifetime)
	if err != nil {
		return "", err
	}
	return m.encode(c, TypeRefresh, ttl, time.Time{})
}

// ParseAccess decrypts and validates an access token.
//
// ParseAccess may return an error when input validation, dependency calls, or security checks fail.
// ParseAccess does not mutate shared global state and can be used concurrently.
func (m *Manager) ParseAccess(tokenStr string) (*Claims, error) {
	return m.decode(tokenStr, TypeAccess)
}

// ParseRefresh decrypts and validates a refresh token.
//
// ParseRefresh may return an error when input validation, dependency calls, or security checks fail.
// ParseRefresh does not mutate shared global state and can be used concurrently.
func (m *Manager) ParseRefresh(tokenStr string) (*Claims, error) {
	return m.decode(tokenStr, TypeRefresh)
}

// RefreshTTL resolves a lifetime label to its configured duration.
func (m *Manager) RefreshTTL(lifetime Lifetime) (time.Duration, error) {
	switch lifetime {
	case LifetimeShort:
		return m.config.RefreshShortTTL, nil
	case LifetimeLong:
		return m.config.RefreshLongTTL, nil
	case LifetimePermanent:
		return m.config.RefreshPermanentTTL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLifetime, lifetime)
	}
}

func (m *Manager) encode(c Claims, typ Type, ttl time.Duration, expiresAt time.Time) (string, error) {
	switch c.Model {
	case ModelUser, ModelApp:
	default:
		return "", errors.New("claims require a recognized model")
	}
	if c.PK == "" {
		return "", errors.New("claims require a pk")
	}

	t := paseto.NewToken()
	t.SetString(claimType, string(typ))
	t.SetString(claimModel, string(c.Model))
	t.SetString(claimPK, c.PK)
	if c.Key != "" {
		t.SetString(claimKey, c.Key)
	}
	if c.Lifetime != "" {
		t.SetString(claimLifetime, string(c.Lifetime))
	}

	now := time.Now()
	t.SetIssuedAt(now)
	if expiresAt.IsZero() {
		expiresAt = now.Add(ttl)
	}
	t.SetExpiration(expiresAt)

	return t.V4Encrypt(m.key, nil), nil
}

func (m *Manager) decode(tokenStr string, want Type) (*Claims, error) {
	parser := paseto.NewParser()
	parsed, err := parser.ParseV4Local(m.key, tokenStr, nil)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	typ, err := parsed.GetString(claimType)
	if err != nil || Type(typ) != want {
		return nil, ErrTokenInvalid
	}
	model, err := parsed.GetString(claimModel)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	switch Model(model) {
	case ModelUser, ModelApp:
	default:
		return nil, ErrTokenInvalid
	}
	pk, err := parsed.GetString(claimPK)
	if err != nil || pk == "" {
		return nil, ErrTokenInvalid
	}

	c := &Claims{
		Type:  Type(typ),
		Model: Model(model),
		PK:    pk,
	}
	if key, err := parsed.GetString(claimKey); err == nil {
		c.Key = key
	}
	if lt, err := parsed.GetString(claimLifetime); err == nil {
		c.Lifetime = Lifetime(lt)
	}
	if want == TypeRefresh && c.Key == "" {
		return nil, ErrTokenInvalid
	}

	return c, nil
}
