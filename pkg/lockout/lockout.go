// Package lockout forwards failed-verification signals to a shared Redis
// counter keyed by user and source address. The lockout policy itself
// (thresholds, backoff, account locking) lives outside this module; the
// recorder only maintains the counters that policy reads.
package lockout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrRecordFailed = errors.New("failed to record verification failure")

// Config carries counter settings loaded from the environment.
type Config struct {
	KeyPrefix string        `env:"MFA_LOCKOUT_KEY_PREFIX" envDefault:"mfa:fail"` // namespace for counter keys
	Window    time.Duration `env:"MFA_LOCKOUT_WINDOW" envDefault:"15m"`          // counter lifetime per key
}

// Recorder implements mfa.AttemptRecorder on Redis.
type Recorder struct {
	client    redis.UniversalClient
	keyPrefix string
	window    time.Duration
}

// NewRecorder wraps an existing Redis client.
func NewRecorder(client redis.UniversalClient, cfg Config) *Recorder {
	return &Recorder{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		window:    cfg.Window,
	}
}

// RecordFailure increments the failure counter for (userID, sourceAddr)
// and refreshes its expiry, giving the external policy a sliding window to
// evaluate.
func (r *Recorder) RecordFailure(ctx context.Context, userID uuid.UUID, sourceAddr string) error {
	key := r.key(userID, sourceAddr)

	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrRecordFailed, err)
	}
	return nil
}

// Failures returns the current counter for (userID, sourceAddr). A missing
// key reads as zero.
func (r *Recorder) Failures(ctx context.Context, userID uuid.UUID, sourceAddr string) (int64, error) {
	count, err := r.client.Get(ctx, r.key(userID, sourceAddr)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read failure counter: %w", err)
	}
	return count, nil
}

func (r *Recorder) key(userID uuid.UUID, sourceAddr string) string {
	return fmt.Sprintf("%s:%s:%s", r.keyPrefix, userID, sourceAddr)
}

// NoopRecorder satisfies mfa.AttemptRecorder for deployments without a
// lockout backend.
type NoopRecorder struct{}

func (NoopRecorder) RecordFailure(context.Context, uuid.UUID, string) error {
	return nil
}
