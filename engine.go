package pasetoAuth

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/pasetoAuth/internal"
	"github.com/MrEthical07/pasetoAuth/store"
	"github.com/MrEthical07/pasetoAuth/token"
)

// Engine defines a public type used by pasetoAuth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config       Config
	tokens       *token.Manager
	store        store.Store
	userProvider UserProvider
	audit        *auditDispatcher
	metrics      *Metrics
}

// IssueTokenPair mints an access and refresh token for an already-verified
// user. Credential verification happens upstream; the engine only receives the
// user id. remember selects the long refresh tier instead of the short one.
//
// The refresh credential record is persisted before any token is encoded, so a
// store failure leaves no partial state.
func (e *Engine) IssueTokenPair(ctx context.Context, userID string, remember bool) (*TokenPair, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrUserNotFound
	}

	lifetime := token.LifetimeShort
	if remember {
		lifetime = token.LifetimeLong
	}
	ttl, err := e.tokens.RefreshTTL(lifetime)
	if err != nil {
		return nil, ErrInvalidLifetime
	}

	now := time.Now()
	ip := clientIPFromContext(ctx)
	ua := userAgentFromContext(ctx)

	key, err := e.generateUniqueKey(ctx, func(key string) error {
		return e.store.CreateUserToken(ctx, &store.UserTokenRecord{
			ID:        uuid.New(),
			Key:       key,
			UserID:    userID,
			UserAgent: ua,
			IP:        ip,
			CreatedAt: now,
			ExpiresAt: now.Add(ttl),
		})
	})
	if err != nil {
		e.metrics.Inc(MetricIssueFailure)
		e.emitAudit(ctx, AuditIssue, string(token.ModelUser), userID, "", err)
		return nil, err
	}

	claims := token.Claims{
		Model:    token.ModelUser,
		PK:       userID,
		Key:      key,
		Lifetime: lifetime,
	}

	refresh, err := e.tokens.CreateRefresh(claims)
	if err == nil {
		var access string
		access, err = e.tokens.CreateAccess(claims)
		if err == nil {
			e.metrics.Inc(MetricIssueSuccess)
			e.emitAudit(ctx, AuditIssue, string(token.ModelUser), userID, key, nil)
			return &TokenPair{Access: access, Refresh: refresh}, nil
		}
	}

	// Encoding failed after the record landed. Lock it so the orphan key can
	// never be used.
	if lockErr := e.store.Lock(ctx, store.KindUser, key); lockErr != nil {
		log.Print("pasetoAuth: failed to lock orphaned token record: ", lockErr)
	}
	e.metrics.Inc(MetricIssueFailure)
	e.emitAudit(ctx, AuditIssue, string(token.ModelUser), userID, key, err)
	return nil, err
}

// RefreshAccessToken exchanges a refresh token for a fresh access token. The
// backing record must still exist and be unlocked; the new access token
// preserves the refresh token's model, pk, and key.
//
// The owner's current account state is not re-checked here; it is enforced on
// every authenticate call instead.
func (e *Engine) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	claims, err := e.tokens.ParseRefresh(refreshToken)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefresh, "", "", "", ErrAuthenticationFailed)
		return "", ErrAuthenticationFailed
	}

	if err := e.checkRefreshRecord(ctx, claims); err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefresh, string(claims.Model), claims.PK, claims.Key, err)
		return "", err
	}

	access, err := e.tokens.CreateAccess(*claims)
	if err != nil {
		e.metrics.Inc(MetricRefreshFailure)
		e.emitAudit(ctx, AuditRefresh, string(claims.Model), claims.PK, claims.Key, err)
		return "", err
	}

	e.metrics.Inc(MetricRefreshSuccess)
	e.emitAudit(ctx, AuditRefresh, string(claims.Model), claims.PK, claims.Key, nil)
	return access, nil
}

func (e *Engine) checkRefreshRecord(ctx context.Context, claims *token.Claims) error {
	switch claims.Model {
	case token.ModelUser:
		rec, err := e.store.GetUserToken(ctx, claims.Key)
		if err != nil {
			return refreshLookupError(err)
		}
		if rec.Locked || rec.UserID != claims.PK {
			return ErrAuthenticationFailed
		}
	case token.ModelApp:
		rec, err := e.store.GetAppToken(ctx, claims.Key)
		if err != nil {
			return refreshLookupError(err)
		}
		if rec.Locked {
			return ErrAuthenticationFailed
		}
	default:
		return ErrAuthenticationFailed
	}
	return nil
}

// Store outages surface as-is so callers can retry; everything else collapses
// into the uniform authentication failure.
func refreshLookupError(err error) error {
	if errors.Is(err, store.ErrUnavailable) {
		return err
	}
	return ErrAuthenticationFailed
}

// AuthenticateRequest authenticates an Authorization header value. An empty
// header means authentication was not attempted and yields (nil, nil). A
// present header must carry the configured scheme and a valid access token;
// anything else fails with [ErrAuthenticationFailed].
//
// A valid token whose owner is missing, inactive, or revoked still
// authenticates, but resolves to [AnonymousPrincipal].
func (e *Engine) AuthenticateRequest(ctx context.Context, header string) (*Auth, error) {
	if err := e.ready(); err != nil {
		return nil, err
	}
	if header == "" {
		return nil, nil
	}

	start := time.Now()
	defer func() {
		e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))
	}()

	scheme, rawToken, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, e.config.HeaderPrefix) || strings.ContainsRune(rawToken, ' ') || rawToken == "" {
		e.metrics.Inc(MetricAuthFailure)
		e.emitAudit(ctx, AuditAuthenticate, "", "", "", ErrAuthenticationFailed)
		return nil, ErrAuthenticationFailed
	}

	claims, err := e.tokens.ParseAccess(rawToken)
	if err != nil {
		e.metrics.Inc(MetricAuthFailure)
		e.emitAudit(ctx, AuditAuthenticate, "", "", "", ErrAuthenticationFailed)
		return nil, ErrAuthenticationFailed
	}

	principal := e.resolvePrincipal(ctx, claims)
	if principal.Authenticated() {
		e.metrics.Inc(MetricAuthSuccess)
	} else {
		e.metrics.Inc(MetricAuthAnonymous)
	}
	e.emitAudit(ctx, AuditAuthenticate, string(claims.Model), claims.PK, claims.Key, nil)

	return &Auth{Principal: principal, Claims: *claims}, nil
}

// resolvePrincipal maps decoded claims to an authorization view. Lookup
// failures of any kind degrade to the anonymous principal rather than failing
// the request.
func (e *Engine) resolvePrincipal(ctx context.Context, claims *token.Claims) Principal {
	switch claims.Model {
	case token.ModelUser:
		rec, err := e.userProvider.GetActiveUser(ctx, claims.PK)
		if err != nil || !rec.Active {
			return AnonymousPrincipal{}
		}
		return NewUserPrincipal(rec)
	case token.ModelApp:
		// app tokens use the record key as their pk
		rec, err := e.store.GetAppTokenUnlocked(ctx, claims.PK)
		if err != nil {
			return AnonymousPrincipal{}
		}
		return NewAppPrincipal(rec)
	default:
		return AnonymousPrincipal{}
	}
}

// ProvisionAppToken creates a permanent app credential and mints its refresh
// token. The record key doubles as the token's pk, so app principals resolve
// without a second identifier.
func (e *Engine) ProvisionAppToken(ctx context.Context, input AppTokenInput) (string, *store.AppTokenRecord, error) {
	if err := e.ready(); err != nil {
		return "", nil, err
	}

	ttl, err := e.tokens.RefreshTTL(token.LifetimePermanent)
	if err != nil {
		return "", nil, ErrInvalidLifetime
	}

	now := time.Now()
	var rec *store.AppTokenRecord
	key, err := e.generateUniqueKey(ctx, func(key string) error {
		candidate := &store.AppTokenRecord{
			ID:          uuid.New(),
			Key:         key,
			Name:        input.Name,
			Owner:       input.Owner,
			UserAgent:   userAgentFromContext(ctx),
			IP:          clientIPFromContext(ctx),
			CreatedAt:   now,
			ExpiresAt:   now.Add(ttl),
			Groups:      input.Groups,
			Permissions: input.Permissions,
		}
		if err := e.store.CreateAppToken(ctx, candidate); err != nil {
			return err
		}
		rec = candidate
		return nil
	})
	if err != nil {
		e.metrics.Inc(MetricProvisionFailure)
		e.emitAudit(ctx, AuditProvision, string(token.ModelApp), "", "", err)
		return "", nil, err
	}

	refresh, err := e.tokens.CreateRefresh(token.Claims{
		Model:    token.ModelApp,
		PK:       key,
		Key:      key,
		Lifetime: token.LifetimePermanent,
	})
	if err != nil {
		if lockErr := e.store.Lock(ctx, store.KindApp, key); lockErr != nil {
			log.Print("pasetoAuth: failed to lock orphaned token record: ", lockErr)
		}
		e.metrics.Inc(MetricProvisionFailure)
		e.emitAudit(ctx, AuditProvision, string(token.ModelApp), key, key, err)
		return "", nil, err
	}

	e.metrics.Inc(MetricProvisionSuccess)
	e.emitAudit(ctx, AuditProvision, string(token.ModelApp), key, key, nil)
	return refresh, rec, nil
}

// Revoke locks the credential record behind a refresh token. Every refresh and
// app-token authentication that observes the lock afterwards fails; already
// minted access tokens die at their own expiry.
func (e *Engine) Revoke(ctx context.Context, kind store.Kind, key string) error {
	if err := e.ready(); err != nil {
		return err
	}

	if err := e.store.Lock(ctx, kind, key); err != nil {
		e.emitAudit(ctx, AuditRevoke, string(kind), "", key, err)
		return err
	}

	e.metrics.Inc(MetricRevoke)
	e.emitAudit(ctx, AuditRevoke, string(kind), "", key, nil)
	return nil
}

// Close flushes and stops the audit dispatcher.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped due to a full
// buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot copies the engine's counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) ready() error {
	if e == nil || e.tokens == nil || e.store == nil {
		return ErrEngineNotReady
	}
	return nil
}

// generateUniqueKey draws random keys until insert succeeds. Uniqueness is
// enforced by the store's conditional insert; the loop only decides how many
// collisions to tolerate before declaring the key space misconfigured.
func (e *Engine) generateUniqueKey(ctx context.Context, insert func(key string) error) (string, error) {
	for attempt := 0; attempt < e.config.MaxKeyAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		key, err := internal.NewTokenKey(e.config.KeyLength)
		if err != nil {
			return "", err
		}

		err = insert(key)
		if err == nil {
			return key, nil
		}
		if errors.Is(err, store.ErrDuplicateKey) {
			e.metrics.Inc(MetricKeyCollision)
			continue
		}
		return "", err
	}
	return "", ErrKeySpaceExhausted
}

func (e *Engine) emitAudit(ctx context.Context, eventType, model, pk, key string, opErr error) {
	if e.audit == nil {
		return
	}

	event := AuditEvent{
		EventID:   uuid.NewString(),
		Timestamp: time.Now(),
		EventType: eventType,
		Model:     model,
		PK:        pk,
		Key:       key,
		IP:        clientIPFromContext(ctx),
		UserAgent: userAgentFromContext(ctx),
		Success:   opErr == nil,
	}
	if opErr != nil {
		event.Error = opErr.Error()
	}

	e.audit.Emit(ctx, event)
}
