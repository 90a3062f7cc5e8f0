package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cooldownTTL = 2 * time.Minute

// MailCooldown throttles repeated account mails (resend-verification,
// forgot-password) per user. Key format: mailcooldown:<kind>:<user_id>
type MailCooldown struct {
	client *redis.Client
}

// NewMailCooldown creates a MailCooldown wrapping the given Redis client.
func NewMailCooldown(client *redis.Client) *MailCooldown {
	return &MailCooldown{client: client}
}

// Allow reports whether another mail of this kind may be sent to the user.
func (c *MailCooldown) Allow(ctx context.Context, kind, userID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(kind, userID)).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown check: %w", err)
	}
	return n == 0, nil
}

// Mark records a send; further sends are blocked until the key expires.
func (c *MailCooldown) Mark(ctx context.Context, kind, userID string) error {
	return c.client.Set(ctx, c.key(kind, userID), "1", cooldownTTL).Err()
}

func (c *MailCooldown) key(kind, userID string) string {
	return fmt.Sprintf("mailcooldown:%s:%s", kind, userID)
}
