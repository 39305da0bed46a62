package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pubfit/membership-api/internal/core/ports"
)

const defaultDedupTTL = time.Hour

// keyStore is the subset of *redis.Client used by SubmissionDedup.
type keyStore interface {
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// SubmissionDedup suppresses repeated registration submissions backed by Redis.
// Key format: regreq:<lowercased username>:<phone>
type SubmissionDedup struct {
	client keyStore
	ttl    time.Duration
}

// NewSubmissionDedup wraps the Redis client. A non-positive ttl falls back to one hour.
func NewSubmissionDedup(client keyStore, ttl time.Duration) *SubmissionDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &SubmissionDedup{client: client, ttl: ttl}
}

// Claim atomically marks the submission as seen and reports whether it was new.
func (d *SubmissionDedup) Claim(ctx context.Context, username, phone string) (bool, error) {
	ok, err := d.client.SetNX(ctx, key(username, phone), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup claim: %w", err)
	}
	return ok, nil
}

// Release forgets a claim so the submission can be retried.
func (d *SubmissionDedup) Release(ctx context.Context, username, phone string) error {
	if err := d.client.Del(ctx, key(username, phone)).Err(); err != nil {
		return fmt.Errorf("dedup release: %w", err)
	}
	return nil
}

func key(username, phone string) string {
	return fmt.Sprintf("regreq:%s:%s", strings.ToLower(strings.TrimSpace(username)), strings.TrimSpace(phone))
}

var _ ports.SubmissionDedup = (*SubmissionDedup)(nil)
