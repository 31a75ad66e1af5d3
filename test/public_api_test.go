package test

import (
	"context"
	"net/http"
	"testing"

	pasetoAuth "github.com/MrEthical07/pasetoAuth"
	"github.com/MrEthical07/pasetoAuth/middleware"
	"github.com/MrEthical07/pasetoAuth/store"
	"github.com/MrEthical07/pasetoAuth/token"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = pasetoAuth.New

	var _ *pasetoAuth.Engine
	var _ pasetoAuth.Config
	var _ pasetoAuth.TokenPair
	var _ pasetoAuth.Auth
	var _ pasetoAuth.AppTokenInput
	var _ pasetoAuth.UserProvider
	var _ pasetoAuth.AuditSink
	var _ pasetoAuth.Principal = pasetoAuth.AnonymousPrincipal{}

	var _ error = pasetoAuth.ErrAuthenticationFailed
	var _ error = pasetoAuth.ErrInvalidLifetime
	var _ error = pasetoAuth.ErrKeySpaceExhausted
	var _ error = pasetoAuth.ErrEngineNotReady
	var _ error = pasetoAuth.ErrUserNotFound
	var _ error = token.ErrTokenInvalid
	var _ error = store.ErrDuplicateKey
	var _ error = store.ErrNotFound
	var _ error = store.ErrUnavailable

	var _ func(*pasetoAuth.Engine) func(http.Handler) http.Handler = middleware.Guard
	var _ func(string) func(http.Handler) http.Handler = middleware.RequirePermission

	var _ func(*pasetoAuth.Engine, context.Context, string, bool) (*pasetoAuth.TokenPair, error) = (*pasetoAuth.Engine).IssueTokenPair
	var _ func(*pasetoAuth.Engine, context.Context, string) (string, error) = (*pasetoAuth.Engine).RefreshAccessToken
	var _ func(*pasetoAuth.Engine, context.Context, string) (*pasetoAuth.Auth, error) = (*pasetoAuth.Engine).AuthenticateRequest
	var _ func(*pasetoAuth.Engine, context.Context, pasetoAuth.AppTokenInput) (string, *store.AppTokenRecord, error) = (*pasetoAuth.Engine).ProvisionAppToken
	var _ func(*pasetoAuth.Engine, context.Context, store.Kind, string) error = (*pasetoAuth.Engine).Revoke
}
