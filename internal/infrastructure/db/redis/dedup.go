package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 7 * 24 * time.Hour

// FeedDedup remembers which shipped-feed entries have already been
// dispatched, so repeated feed polls do not re-announce the same package.
// Key format: feed:<tracking_number>:<unix_ship_timestamp>
type FeedDedup struct {
	client *redis.Client
}

// NewFeedDedup creates a FeedDedup wrapping the given Redis client.
func NewFeedDedup(client *redis.Client) *FeedDedup {
	return &FeedDedup{client: client}
}

// Seen reports whether this feed entry was already dispatched.
func (d *FeedDedup) Seen(ctx context.Context, trackingNumber string, shippedAt time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(trackingNumber, shippedAt)).Result()
	if err != nil {
		return false, fmt.Errorf("feed dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this feed entry has been dispatched (expires after
// dedupTTL).
func (d *FeedDedup) Mark(ctx context.Context, trackingNumber string, shippedAt time.Time) error {
	return d.client.Set(ctx, d.key(trackingNumber, shippedAt), "1", dedupTTL).Err()
}

func (d *FeedDedup) key(trackingNumber string, shippedAt time.Time) string {
	return fmt.Sprintf("feed:%s:%d", trackingNumber, shippedAt.Unix())
}
