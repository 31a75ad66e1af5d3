package store

import (
	"context"
	"sync"
	"time"

	"github.com/MrEthical07/pasetoAuth/permission"
)

// Memory is an in-process [Store] used by tests and single-binary deployments.
// All methods are safe for concurrent use.
type Memory struct {
	mu   sync.Mutex
	user map[string]UserTokenRecord
	app  map[string]AppTokenRecord
}

// NewMemory creates an empty in-memory [Store].
func NewMemory() *Memory {
	return &Memory{
		user: make(map[string]UserTokenRecord),
		app:  make(map[string]AppTokenRecord),
	}
}

// CreateUserToken inserts a user record, failing with [ErrDuplicateKey] if the
// key is taken.
func (m *Memory) CreateUserToken(_ context.Context, rec *UserTokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.user[rec.Key]; exists {
		return ErrDuplicateKey
	}
	m.user[rec.Key] = *rec
	return nil
}

// CreateAppToken inserts an app record, failing with [ErrDuplicateKey] if the
// key is taken.
func (m *Memory) CreateAppToken(_ context.Context, rec *AppTokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.app[rec.Key]; exists {
		return ErrDuplicateKey
	}
	stored := *rec
	stored.Owner = stored.Owner.normalized()
	stored.Groups = append([]permission.Group(nil), rec.Groups...)
	stored.Permissions = append([]string(nil), rec.Permissions...)
	m.app[rec.Key] = stored
	return nil
}

// GetUserToken fetches a live user record by key.
func (m *Memory) GetUserToken(_ context.Context, key string) (*UserTokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.user[key]
	if !ok || expired(rec.ExpiresAt) {
		return nil, ErrNotFound
	}
	out := rec
	return &out, nil
}

// GetAppToken fetches a live app record by key, locked or not.
func (m *Memory) GetAppToken(_ context.Context, key string) (*AppTokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.appRecord(key)
}

// GetAppTokenUnlocked fetches a live app record by key, treating a locked
// record the same as a missing one.
func (m *Memory) GetAppTokenUnlocked(_ context.Context, key string) (*AppTokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.appRecord(key)
	if err != nil {
		return nil, err
	}
	if rec.Locked {
		return nil, ErrNotFound
	}
	return rec, nil
}

// Lock marks the record revoked without deleting it.
func (m *Memory) Lock(_ context.Context, kind Kind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch kind {
	case KindUser:
		rec, ok := m.user[key]
		if !ok {
			return ErrNotFound
		}
		rec.Locked = true
		m.user[key] = rec
	case KindApp:
		rec, ok := m.app[key]
		if !ok {
			return ErrNotFound
		}
		rec.Locked = true
		m.app[key] = rec
	default:
		return ErrNotFound
	}
	return nil
}

func (m *Memory) appRecord(key string) (*AppTokenRecord, error) {
	rec, ok := m.app[key]
	if !ok || expired(rec.ExpiresAt) {
		return nil, ErrNotFound
	}
	out := rec
	out.Groups = append([]permission.Group(nil), rec.Groups...)
	out.Permissions = append([]string(nil), rec.Permissions...)
	return &out, nil
}

func expired(expiresAt time.Time) bool {
	return !expiresAt.IsZero() && !expiresAt.After(time.Now())
}
