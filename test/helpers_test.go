//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	pasetoAuth "github.com/MrEthical07/pasetoAuth"
	"github.com/MrEthical07/pasetoAuth/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const integrationSecretHex = "603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4"

type integrationProvider struct{}

func (integrationProvider) GetActiveUser(_ context.Context, userID string) (pasetoAuth.UserRecord, error) {
	return pasetoAuth.UserRecord{
		UserID:      userID,
		Identifier:  userID + "@integration.local",
		Active:      true,
		Permissions: []string{"integration.run"},
	}, nil
}

func newIntegrationStore(t *testing.T) (*store.Redis, *redis.Client, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := store.NewRedis(rdb, "it")

	return s, rdb, func() {
		_ = rdb.Close()
		mr.Close()
	}
}

func newIntegrationEngine(t *testing.T, client redis.UniversalClient) *pasetoAuth.Engine {
	t.Helper()

	engine, err := pasetoAuth.New().
		WithConfig(pasetoAuth.Config{SecretKey: integrationSecretHex}).
		WithStore(store.NewRedis(client, "it")).
		WithUserProvider(integrationProvider{}).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("engine build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}
