package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/MrEthical07/pasetoAuth/permission"
)

var (
	// ErrDuplicateKey is returned by the create operations when the key is
	// already taken in the target partition.
	ErrDuplicateKey = errors.New("duplicate token key")
	// ErrNotFound is returned when no live record matches the key.
	ErrNotFound = errors.New("token record not found")
	// ErrUnavailable wraps backend transport failures.
	ErrUnavailable = errors.New("store unavailable")
)

// Kind selects the record partition: user tokens and app tokens never share a
// key space.
type Kind string

const (
	// KindUser is an exported constant or variable used by the authentication engine.
	KindUser Kind = "user"
	// KindApp is an exported constant or variable used by the authentication engine.
	KindApp Kind = "app"
)

// OwnerKind classifies who an app token was provisioned for.
type OwnerKind string

const (
	// OwnerNone marks an app token with no recorded owner.
	OwnerNone OwnerKind = "none"
	// OwnerUser marks an app token provisioned on behalf of a user.
	OwnerUser OwnerKind = "user"
	// OwnerSystem marks an app token provisioned for internal services.
	OwnerSystem OwnerKind = "system"
)

// Owner records who an app token belongs to. UserID is set only when Kind is
// [OwnerUser].
type Owner struct {
	Kind   OwnerKind
	UserID string
}

// UserOwner builds an [Owner] for a user-held app token.
func UserOwner(userID string) Owner {
	return Owner{Kind: OwnerUser, UserID: userID}
}

// SystemOwner builds an [Owner] for a service-held app token.
func SystemOwner() Owner {
	return Owner{Kind: OwnerSystem}
}

func (o Owner) normalized() Owner {
	if o.Kind == "" {
		o.Kind = OwnerNone
	}
	if o.Kind != OwnerUser {
		o.UserID = ""
	}
	return o
}

// UserTokenRecord is the persisted credential behind a user refresh token.
//
// UserTokenRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type UserTokenRecord struct {
	ID        uuid.UUID
	Key       string
	UserID    string
	UserAgent string
	IP        string
	CreatedAt time.Time
	ExpiresAt time.Time
	Locked    bool
}

// AppTokenRecord is the persisted credential behind an app refresh token,
// carrying its authorization material directly.
//
// AppTokenRecord instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AppTokenRecord struct {
	ID          uuid.UUID
	Key         string
	Name        string
	Owner       Owner
	UserAgent   string
	IP          string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Locked      bool
	Groups      []permission.Group
	Permissions []string
}

// Store is the credential persistence contract shared by all backends.
type Store interface {
	// CreateUserToken inserts a user record, failing with ErrDuplicateKey if
	// the key is taken.
	CreateUserToken(ctx context.Context, rec *UserTokenRecord) error
	// CreateAppToken inserts an app record, failing with ErrDuplicateKey if
	// the key is taken.
	CreateAppToken(ctx context.Context, rec *AppTokenRecord) error
	// GetUserToken fetches a live user record by key.
	GetUserToken(ctx context.Context, key string) (*UserTokenRecord, error)
	// GetAppToken fetches a live app record by key, locked or not.
	GetAppToken(ctx context.Context, key string) (*AppTokenRecord, error)
	// GetAppTokenUnlocked fetches a live app record by key, treating a locked
	// record the same as a missing one.
	GetAppTokenUnlocked(ctx context.Context, key string) (*AppTokenRecord, error)
	// Lock marks the record revoked. Every validation that observes the flag
	// afterwards fails; the record itself is retained.
	Lock(ctx context.Context, kind Kind, key string) error
}
