package admin

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/sopiautomobile/lead-platform/pkg/logging"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour, logging.Default()), mr
}

func TestRedisStore_CreateAndValidate(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	token, err := store.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !store.Validate(ctx, token) {
		t.Error("fresh token must validate")
	}
	if store.Validate(ctx, "unknown") {
		t.Error("unknown token must not validate")
	}
	if !mr.Exists(redisSessionPrefix + token) {
		t.Error("session key missing in redis")
	}
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	token, _ := store.Create(ctx)
	mr.FastForward(2 * time.Hour)
	if store.Validate(ctx, token) {
		t.Error("expired session must not validate")
	}
}

func TestRedisStore_Destroy(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	token, _ := store.Create(ctx)
	if err := store.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if store.Validate(ctx, token) {
		t.Error("destroyed session must not validate")
	}
	if err := store.Destroy(ctx, token); err != nil {
		t.Errorf("double destroy: %v", err)
	}
}

func TestRedisStore_FailsClosed(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	token, _ := store.Create(ctx)
	mr.Close()
	if store.Validate(ctx, token) {
		t.Error("validation must fail closed when redis is down")
	}
}
