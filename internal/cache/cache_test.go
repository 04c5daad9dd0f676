package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	c, err := New(fmt.Sprintf("redis://%s/0", mr.Addr()), zap.NewNop())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCache_SetGetDel(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	in := sample{Name: "batch", Count: 7}
	if err := c.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out sample
	ok, err := c.Get(ctx, "k", &out)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}

	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	ok, err = c.Get(ctx, "k", &out)
	if err != nil || ok {
		t.Fatalf("expected miss after delete: ok=%v err=%v", ok, err)
	}
}

func TestCache_MissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t)
	var out sample
	ok, err := c.Get(context.Background(), "absent", &out)
	if err != nil {
		t.Fatalf("miss returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected miss")
	}
}

func TestCache_CorruptEntryBehavesLikeMiss(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Set("bad", "{not json")

	var out sample
	ok, err := c.Get(context.Background(), "bad", &out)
	if err != nil {
		t.Fatalf("corrupt entry returned error: %v", err)
	}
	if ok {
		t.Fatalf("corrupt entry should read as a miss")
	}
	if mr.Exists("bad") {
		t.Fatalf("corrupt entry should be dropped")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "k", sample{Name: "x"}, time.Second); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(2 * time.Second)
	var out sample
	ok, err := c.Get(ctx, "k", &out)
	if err != nil || ok {
		t.Fatalf("expected expiry: ok=%v err=%v", ok, err)
	}
}
