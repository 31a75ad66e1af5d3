package pasetoAuth

import (
	"context"

	"github.com/MrEthical07/pasetoAuth/permission"
	"github.com/MrEthical07/pasetoAuth/store"
	"github.com/MrEthical07/pasetoAuth/token"
)

// TokenPair is returned by [Engine.IssueTokenPair]: an encrypted access token
// and the refresh token backing it.
type TokenPair struct {
	Access  string
	Refresh string
}

// UserRecord is the account view that [UserProvider] hands back to the engine.
// The engine never writes user data; it only reads identity, activity, and
// authorization material.
type UserRecord struct {
	UserID      string
	Identifier  string
	Active      bool
	Permissions []string
	Groups      []permission.Group
}

// UserProvider is the interface callers implement to integrate pasetoAuth with
// their user database. GetActiveUser resolves a user id to an account record;
// implementations should return [ErrUserNotFound] for unknown ids. Inactive
// accounts may be reported either via the Active flag or with an error; both
// resolve to the anonymous principal.
type UserProvider interface {
	GetActiveUser(ctx context.Context, userID string) (UserRecord, error)
}

// Auth is the result of a successful [Engine.AuthenticateRequest]: the resolved
// principal and the decrypted access-token claims.
type Auth struct {
	Principal Principal
	Claims    token.Claims
}

// AppTokenInput describes an app token to provision.
//
// AppTokenInput instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AppTokenInput struct {
	// Name labels the token for operators ("reporting-daemon").
	Name string
	// Owner records who the token was provisioned for.
	Owner store.Owner
	// Groups and Permissions form the token's authorization material. App
	// principals carry their grants directly; there is no user lookup.
	Groups      []permission.Group
	Permissions []string
}
