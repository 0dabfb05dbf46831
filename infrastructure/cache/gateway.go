package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Status classifies how a read was served.
type Status string

const (
	StatusHit   Status = "HIT"
	StatusStale Status = "STALE"
	StatusMiss  Status = "MISS"
)

// Envelope is the stored shape of every cache entry: the payload plus the
// moment it was written, so readers can classify staleness themselves.
type Envelope struct {
	Value    json.RawMessage `json:"v"`
	StoredAt time.Time       `json:"at"`
}

// Age returns how long ago the entry was written.
func (e *Envelope) Age() time.Duration {
	return time.Since(e.StoredAt)
}

// Gateway is the keyed read/write/invalidate facade in front of the remote
// cache store. Every operation is best-effort: the system's correctness
// never depends on the cache being reachable.
type Gateway interface {
	// Get returns the entry for key, bounded by timeout. A miss, a
	// transport failure, a timeout and an open breaker all look the same
	// to the caller: no entry.
	Get(ctx context.Context, key string, timeout time.Duration) (*Envelope, bool)

	// Set stores value under key with the given TTL. Failures are logged
	// and reported but must never fail the surrounding operation.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key under prefix (wildcard suffix).
	DeletePattern(ctx context.Context, prefix string) error
}

// RedisGateway implements Gateway on a Redis-compatible store, with a
// circuit breaker so a down store degrades to instant misses instead of
// burning the read timeout on every request.
type RedisGateway struct {
	client  redis.UniversalClient
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	metrics *Metrics
}

// NewRedisGateway creates a gateway over an existing Redis client.
func NewRedisGateway(client redis.UniversalClient, logger *zap.Logger, metrics *Metrics) *RedisGateway {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Cache breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &RedisGateway{
		client:  client,
		breaker: breaker,
		logger:  logger,
		metrics: metrics,
	}
}

// NewRedisClient builds a Redis client from a redis:// or rediss:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opts), nil
}

// Get implements Gateway. The timeout is enforced with a context deadline:
// if the store has not answered when it expires, the call resolves as a
// miss and the caller proceeds to the source-of-record.
func (g *RedisGateway) Get(ctx context.Context, key string, timeout time.Duration) (*Envelope, bool) {
	if timeout <= 0 {
		timeout = 300 * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := g.breaker.Execute(func() (interface{}, error) {
		data, err := g.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		g.metrics.ObserveStoreError()
		g.logger.Debug("Cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	data, ok := raw.([]byte)
	if !ok || len(data) == 0 {
		return nil, false
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		// A corrupt entry is treated as a miss and cleared.
		g.logger.Warn("Cache entry corrupt, dropping", zap.String("key", key), zap.Error(err))
		g.Delete(context.WithoutCancel(ctx), key)
		return nil, false
	}

	return &env, true
}

// Set implements Gateway. The entry is a full replacement; partial updates
// do not exist at this layer.
func (g *RedisGateway) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Envelope{Value: payload, StoredAt: time.Now()})
	if err != nil {
		return err
	}

	_, err = g.breaker.Execute(func() (interface{}, error) {
		return nil, g.client.Set(ctx, key, data, ttl).Err()
	})
	if err != nil {
		g.metrics.ObserveStoreError()
		g.logger.Debug("Cache set failed", zap.String("key", key), zap.Error(err))
	}
	return err
}

// Delete implements Gateway.
func (g *RedisGateway) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		g.metrics.ObserveStoreError()
		g.logger.Debug("Cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
	return err
}

// DeletePattern implements Gateway using SCAN, never KEYS, so a large
// keyspace cannot block the store.
func (g *RedisGateway) DeletePattern(ctx context.Context, prefix string) error {
	match := prefix + "*"

	_, err := g.breaker.Execute(func() (interface{}, error) {
		var cursor uint64
		for {
			keys, next, err := g.client.Scan(ctx, cursor, match, 100).Result()
			if err != nil {
				return nil, err
			}
			if len(keys) > 0 {
				if err := g.client.Del(ctx, keys...).Err(); err != nil {
					return nil, err
				}
			}
			if next == 0 {
				return nil, nil
			}
			cursor = next
		}
	})
	if err != nil {
		g.metrics.ObserveStoreError()
		g.logger.Debug("Cache pattern delete failed", zap.String("prefix", prefix), zap.Error(err))
	}
	return err
}
