package middleware

import (
	"context"
	"net/http"

	pasetoAuth "github.com/MrEthical07/pasetoAuth"
)

type authContextKey struct{}

// AuthFromContext returns the authentication result stored by [Guard], if any.
func AuthFromContext(ctx context.Context) (*pasetoAuth.Auth, bool) {
	auth, ok := ctx.Value(authContextKey{}).(*pasetoAuth.Auth)
	return auth, ok
}

// Guard authenticates requests carrying an Authorization header. A missing
// header lets the request through unauthenticated; a present but invalid one
// is rejected with 401. On success the [pasetoAuth.Auth] lands in the request
// context for handlers and later middleware.
func Guard(engine *pasetoAuth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := pasetoAuth.WithRequest(r.Context(), r)

			auth, err := engine.AuthenticateRequest(ctx, r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if auth != nil {
				ctx = context.WithValue(ctx, authContextKey{}, auth)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission rejects requests whose principal does not hold the named
// permission. Unauthenticated requests and anonymous principals are rejected
// too. Wrap handlers with [Guard] first.
func RequirePermission(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, ok := AuthFromContext(r.Context())
			if !ok || !auth.Principal.HasPermission(name) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
