package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		SecretKey:           testKeyHex,
		AccessTTL:           5 * time.Minute,
		RefreshShortTTL:     12 * time.Hour,
		RefreshLongTTL:      30 * 24 * time.Hour,
		RefreshPermanentTTL: 2 * 365 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero access ttl", Config{SecretKey: testKeyHex, RefreshShortTTL: time.Hour, RefreshLongTTL: time.Hour, RefreshPermanentTTL: time.Hour}},
		{"zero refresh ttl", Config{SecretKey: testKeyHex, AccessTTL: time.Minute, RefreshLongTTL: time.Hour, RefreshPermanentTTL: time.Hour}},
		{"short key", Config{SecretKey: "abcd", AccessTTL: time.Minute, RefreshShortTTL: time.Hour, RefreshLongTTL: time.Hour, RefreshPermanentTTL: time.Hour}},
		{"non-hex key", Config{SecretKey: strings.Repeat("zz", 32), AccessTTL: time.Minute, RefreshShortTTL: time.Hour, RefreshLongTTL: time.Hour, RefreshPermanentTTL: time.Hour}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewManager(tc.cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestAccessRoundTrip(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.CreateAccess(Claims{Model: ModelUser, PK: "42", Key: "k1"})
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}
	if !strings.HasPrefix(tok, "v4.local.") {
		t.Fatalf("unexpected token format: %s", tok)
	}

	claims, err := m.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if claims.Type != TypeAccess || claims.Model != ModelUser || claims.PK != "42" || claims.Key != "k1" {
		t.Fatalf("claims not preserved: %+v", claims)
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.CreateRefresh(Claims{Model: ModelApp, PK: "abc123", Key: "abc123", Lifetime: LifetimePermanent})
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	claims, err := m.ParseRefresh(tok)
	if err != nil {
		t.Fatalf("ParseRefresh failed: %v", err)
	}
	if claims.Type != TypeRefresh || claims.Model != ModelApp || claims.PK != "abc123" {
		t.Fatalf("claims not preserved: %+v", claims)
	}
	if claims.Key != "abc123" || claims.Lifetime != LifetimePermanent {
		t.Fatalf("refresh claims not preserved: %+v", claims)
	}
}

func TestTypeStampedByCodec(t *testing.T) {
	m := newTestManager(t)

	// The caller-supplied Type must not leak into the encoded token.
	tok, err := m.CreateAccess(Claims{Type: TypeRefresh, Model: ModelUser, PK: "7"})
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}
	claims, err := m.ParseAccess(tok)
	if err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
	if claims.Type != TypeAccess {
		t.Fatalf("expected access type, got %q", claims.Type)
	}
}

func TestCrossTypeRejection(t *testing.T) {
	m := newTestManager(t)

	access, err := m.CreateAccess(Claims{Model: ModelUser, PK: "1", Key: "k"})
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}
	refresh, err := m.CreateRefresh(Claims{Model: ModelUser, PK: "1", Key: "k", Lifetime: LifetimeShort})
	if err != nil {
		t.Fatalf("CreateRefresh failed: %v", err)
	}

	if _, err := m.ParseRefresh(access); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for access token on refresh path, got %v", err)
	}
	if _, err := m.ParseAccess(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for refresh token on access path, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.CreateAccess(Claims{Model: ModelUser, PK: "1"})
	if err != nil {
		t.Fatalf("CreateAccess failed: %v", err)
	}

	raw := []byte(tok)
	pos := len(raw) / 2
	if raw[pos] == 'A' {
		raw[pos] = 'B'
	} else {
		raw[pos] = 'A'
	}
	if _, err := m.ParseAccess(string(raw)); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered token, got %v", err)
	}
}

func TestGarbageRejected(t *testing.T) {
	m := newTestManager(t)

	for _, tok := range []string{"", "not-a-token", "v4.local.", "v2.local.abcdef"} {
		if _, err := m.ParseAccess(tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", tok, err)
		}
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.CreateAccessWithExpiry(Claims{Model: ModelUser, PK: "1"}, time.Now().Add(-time.Second))
	if err != nil {
		t.Fatalf("CreateAccessWithExpiry failed: %v", err)
	}
	if _, err := m.ParseAccess(tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got %v", err)
	}
}

func TestFutureExpiryAccepted(t *testing.T) {
	m := newTestManager(t)

	tok, err := m.CreateAccessWithExpiry(Claims{Model: ModelUser, PK: "1"}, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("CreateAccessWithExpiry failed: %v", err)
	}
	if _, err := m.ParseAccess(tok); err != nil {
		t.Fatalf("ParseAccess failed: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.CreateAccess(Claims{Model: "robot", PK: "1"}); err == nil {
		t.Fatal("expected error for unrecognized model")
	}
	if _, err := m.CreateAccess(Claims{Model: ModelUser}); err == nil {
		t.Fatal("expected error for missing pk")
	}
	if _, err := m.CreateRefresh(Claims{Model: ModelUser, PK: "1", Lifetime: LifetimeShort}); err == nil {
		t.Fatal("expected error for missing key")
	}
	_, err := m.CreateRefresh(Claims{Model: ModelUser, PK: "1", Key: "k", Lifetime: "eternal"})
	if !errors.Is(err, ErrUnknownLifetime) {
		t.Fatalf("expected ErrUnknownLifetime, got %v", err)
	}
}

func TestRefreshTTLTable(t *testing.T) {
	m := newTestManager(t)

	cases := []struct {
		lifetime Lifetime
		want     time.Duration
	}{
		{LifetimeShort, 12 * time.Hour},
		{LifetimeLong, 30 * 24 * time.Hour},
		{LifetimePermanent, 2 * 365 * 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := m.RefreshTTL(tc.lifetime)
		if err != nil {
			t.Fatalf("RefreshTTL(%s) failed: %v", tc.lifetime, err)
		}
		if got != tc.want {
			t.Fatalf("RefreshTTL(%s) = %v, want %v", tc.lifetime, got, tc.want)
		}
	}
	if _, err := m.RefreshTTL("eternal"); !errors.Is(err, ErrUnknownLifetime) {
		t.Fatalf("expected ErrUnknownLifetime, got %v", err)
	}
}

func BenchmarkParseAccess(b *testing.B) {
	m, err := NewManager(Config{
		SecretKey:           testKeyHex,
		AccessTTL:           5 * time.Minute,
		RefreshShortTTL:     12 * time.Hour,
		RefreshLongTTL:      30 * 24 * time.Hour,
		RefreshPermanentTTL: 2 * 365 * 24 * time.Hour,
	})
	if err != nil {
		b.Fatalf("NewManager failed: %v", err)
	}
	tok, err := m.CreateAccess(Claims{Model: ModelUser, PK: "42", Key: "k1"})
	if err != nil {
		b.Fatalf("CreateAccess failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.ParseAccess(tok); err != nil {
			b.Fatal(err)
		}
	}
}
