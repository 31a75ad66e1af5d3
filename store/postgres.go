package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MrEthical07/pasetoAuth/permission"
)

// Postgres is a pgx-backed [Store]. It expects the following schema; the
// primary keys on the key columns provide the uniqueness guarantee:
//
//	CREATE TABLE user_tokens (
//	    key        text PRIMARY KEY,
//	    id         uuid NOT NULL,
//	    user_id    text NOT NULL,
//	    user_agent text NOT NULL DEFAULT '',
//	    ip         text NOT NULL DEFAULT '',
//	    created_at timestamptz NOT NULL,
//	    expires_at timestamptz NOT NULL,
//	    locked     boolean NOT NULL DEFAULT false
//	);
//
//	CREATE TABLE app_tokens (
//	    key           text PRIMARY KEY,
//	    id            uuid NOT NULL,
//	    name          text NOT NULL,
//	    owner_kind    text NOT NULL DEFAULT 'none',
//	    owner_user_id text NOT NULL DEFAULT '',
//	    user_agent    text NOT NULL DEFAULT '',
//	    ip            text NOT NULL DEFAULT '',
//	    created_at    timestamptz NOT NULL,
//	    expires_at    timestamptz NOT NULL,
//	    locked        boolean NOT NULL DEFAULT false,
//	    groups        jsonb NOT NULL DEFAULT '[]',
//	    permissions   jsonb NOT NULL DEFAULT '[]'
//	);
//
// Expired rows are filtered on read; cleanup is left to operators.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres-backed [Store] bound to the given pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

const pgUniqueViolation = "23505"

func isDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// CreateUserToken inserts a user record, failing with [ErrDuplicateKey] if the
// key is taken.
func (p *Postgres) CreateUserToken(ctx context.Context, rec *UserTokenRecord) error {
	query := `
		INSERT INTO user_tokens (key, id, user_id, user_agent, ip, created_at, expires_at, locked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := p.pool.Exec(ctx, query,
		rec.Key, rec.ID, rec.UserID, rec.UserAgent, rec.IP, rec.CreatedAt, rec.ExpiresAt, rec.Locked)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// CreateAppToken inserts an app record, failing with [ErrDuplicateKey] if the
// key is taken. Groups and permissions land in jsonb columns.
func (p *Postgres) CreateAppToken(ctx context.Context, rec *AppTokenRecord) error {
	owner := rec.Owner.normalized()
	groups, err := json.Marshal(rec.Groups)
	if err != nil {
		return err
	}
	perms, err := json.Marshal(rec.Permissions)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO app_tokens (key, id, name, owner_kind, owner_user_id, user_agent, ip, created_at, expires_at, locked, groups, permissions)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = p.pool.Exec(ctx, query,
		rec.Key, rec.ID, rec.Name, string(owner.Kind), owner.UserID,
		rec.UserAgent, rec.IP, rec.CreatedAt, rec.ExpiresAt, rec.Locked, groups, perms)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// GetUserToken fetches a live user record by key.
func (p *Postgres) GetUserToken(ctx context.Context, key string) (*UserTokenRecord, error) {
	query := `
		SELECT id, user_id, user_agent, ip, created_at, expires_at, locked
		FROM user_tokens
		WHERE key = $1 AND expires_at > now()
	`
	rec := &UserTokenRecord{Key: key}
	err := p.pool.QueryRow(ctx, query, key).Scan(
		&rec.ID, &rec.UserID, &rec.UserAgent, &rec.IP, &rec.CreatedAt, &rec.ExpiresAt, &rec.Locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rec, nil
}

// GetAppToken fetches a live app record by key, locked or not.
func (p *Postgres) GetAppToken(ctx context.Context, key string) (*AppTokenRecord, error) {
	return p.appRecord(ctx, key, false)
}

// GetAppTokenUnlocked fetches a live app record by key, treating a locked
// record the same as a missing one.
func (p *Postgres) GetAppTokenUnlocked(ctx context.Context, key string) (*AppTokenRecord, error) {
	return p.appRecord(ctx, key, true)
}

func (p *Postgres) appRecord(ctx context.Context, key string, unlockedOnly bool) (*AppTokenRecord, error) {
	query := `
		SELECT id, name, owner_kind, owner_user_id, user_agent, ip, created_at, expires_at, locked, groups, permissions
		FROM app_tokens
		WHERE key = $1 AND expires_at > now()
	`
	if unlockedOnly {
		query += ` AND NOT locked`
	}

	var (
		rec       = &AppTokenRecord{Key: key}
		ownerKind string
		groups    []byte
		perms     []byte
	)
	err := p.pool.QueryRow(ctx, query, key).Scan(
		&rec.ID, &rec.Name, &ownerKind, &rec.Owner.UserID,
		&rec.UserAgent, &rec.IP, &rec.CreatedAt, &rec.ExpiresAt, &rec.Locked, &groups, &perms)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rec.Owner.Kind = OwnerKind(ownerKind)
	rec.Owner = rec.Owner.normalized()

	if len(groups) > 0 {
		var parsed []permission.Group
		if err := json.Unmarshal(groups, &parsed); err != nil {
			return nil, fmt.Errorf("corrupt app record %q: %v", key, err)
		}
		rec.Groups = parsed
	}
	if len(perms) > 0 {
		var parsed []string
		if err := json.Unmarshal(perms, &parsed); err != nil {
			return nil, fmt.Errorf("corrupt app record %q: %v", key, err)
		}
		rec.Permissions = parsed
	}
	return rec, nil
}

// Lock marks the record revoked. The row is retained for audit.
func (p *Postgres) Lock(ctx context.Context, kind Kind, key string) error {
	var query string
	switch kind {
	case KindUser:
		query = `UPDATE user_tokens SET locked = true WHERE key = $1`
	case KindApp:
		query = `UPDATE app_tokens SET locked = true WHERE key = $1`
	default:
		return ErrNotFound
	}

	tag, err := p.pool.Exec(ctx, query, key)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
