package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCooldown(t *testing.T) (*MailCooldown, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewMailCooldown(client), mr
}

func TestMailCooldown_AllowThenBlock(t *testing.T) {
	cooldown, _ := newTestCooldown(t)
	ctx := context.Background()

	ok, err := cooldown.Allow(ctx, "verify", "user_1")
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if !ok {
		t.Fatalf("first send must be allowed")
	}

	if err := cooldown.Mark(ctx, "verify", "user_1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	ok, err = cooldown.Allow(ctx, "verify", "user_1")
	if err != nil {
		t.Fatalf("allow failed: %v", err)
	}
	if ok {
		t.Fatalf("second send must be blocked inside the cooldown window")
	}
}

func TestMailCooldown_KeysAreScoped(t *testing.T) {
	cooldown, _ := newTestCooldown(t)
	ctx := context.Background()

	if err := cooldown.Mark(ctx, "verify", "user_1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	// A different kind or a different user is unaffected.
	if ok, _ := cooldown.Allow(ctx, "reset", "user_1"); !ok {
		t.Fatalf("different kind must not be throttled")
	}
	if ok, _ := cooldown.Allow(ctx, "verify", "user_2"); !ok {
		t.Fatalf("different user must not be throttled")
	}
}

func TestMailCooldown_Expires(t *testing.T) {
	cooldown, mr := newTestCooldown(t)
	ctx := context.Background()

	if err := cooldown.Mark(ctx, "reset", "user_1"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if ttl := mr.TTL("mailcooldown:reset:user_1"); ttl != cooldownTTL {
		t.Fatalf("ttl = %v, want %v", ttl, cooldownTTL)
	}

	mr.FastForward(cooldownTTL + time.Second)
	if ok, _ := cooldown.Allow(ctx, "reset", "user_1"); !ok {
		t.Fatalf("send must be allowed after the cooldown expires")
	}
}
