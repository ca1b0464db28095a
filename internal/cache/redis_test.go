package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type payload struct {
	Slots []string `json:"slots"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisCache(rdb, time.Minute, zap.NewNop()), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	var miss payload
	ok, err := c.Get(ctx, "q1", &miss)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := payload{Slots: []string{"09:00", "10:00"}}
	if err := c.Set(ctx, "q1", []uuid.UUID{uuid.New()}, want); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got payload
	ok, err = c.Get(ctx, "q1", &got)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(got.Slots) != 2 || got.Slots[1] != "10:00" {
		t.Fatalf("unexpected value %+v", got)
	}

	mr.FastForward(2 * time.Minute)
	ok, _ = c.Get(ctx, "q1", &got)
	if ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestRedisCache_InvalidateProvider(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()
	a, b := uuid.New(), uuid.New()

	if err := c.Set(ctx, "both", []uuid.UUID{a, b}, payload{}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := c.Set(ctx, "only-b", []uuid.UUID{b}, payload{}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := c.InvalidateProvider(ctx, a); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	var v payload
	if ok, _ := c.Get(ctx, "both", &v); ok {
		t.Fatalf("entry depending on A must be dropped")
	}
	if ok, _ := c.Get(ctx, "only-b", &v); !ok {
		t.Fatalf("entry of B only must survive")
	}

	// Повторная инвалидация без записей — не ошибка.
	if err := c.InvalidateProvider(ctx, a); err != nil {
		t.Fatalf("second invalidate: %v", err)
	}
}

func TestRedisCache_UndecodableIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	if err := mr.Set(valuePrefix+"broken", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var v payload
	ok, err := c.Get(context.Background(), "broken", &v)
	if err != nil || ok {
		t.Fatalf("expected miss without error, got ok=%v err=%v", ok, err)
	}
	if mr.Exists(valuePrefix + "broken") {
		t.Fatalf("broken entry must be removed")
	}
}
