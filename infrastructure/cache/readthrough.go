package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"cozyberries-backend/infrastructure/config"
	"cozyberries-backend/pkg/async"
)

// Fetch loads the authoritative value from the source-of-record.
type Fetch[T any] func(ctx context.Context) (T, error)

// Result carries a value together with how it was obtained.
type Result[T any] struct {
	Value        T
	Status       Status
	TTLRemaining time.Duration
}

// Accessor is the read-through layer: it races a cache read against the
// resource's timeout, classifies the entry against the staleness window,
// serves stale data while refreshing in the background, and falls back to
// the source-of-record on a miss. Cache failures are invisible to callers;
// source-of-record failures are not.
type Accessor struct {
	gateway Gateway
	policy  *config.CachePolicy
	runner  *async.Runner
	logger  *zap.Logger
	metrics *Metrics
	group   singleflight.Group
}

// NewAccessor creates a read-through accessor.
func NewAccessor(gateway Gateway, policy *config.CachePolicy, runner *async.Runner, logger *zap.Logger, metrics *Metrics) *Accessor {
	return &Accessor{
		gateway: gateway,
		policy:  policy,
		runner:  runner,
		logger:  logger,
		metrics: metrics,
	}
}

// Policy exposes the staleness policy so write paths that overwrite
// entries can align their TTL with the read path.
func (a *Accessor) Policy() *config.CachePolicy {
	return a.policy
}

// Read serves the resource under key through the cache.
//
// FRESH entries are returned as HIT. Entries past the fresh window but
// inside the stale bound are returned immediately as STALE and a single
// background refresh is scheduled (concurrent refreshes for the same key
// collapse). Anything else is a MISS: the fetch runs synchronously, its
// result is returned, and the cache is populated in the background so the
// response never waits on a cache write.
func Read[T any](ctx context.Context, a *Accessor, tag, key string, fetch Fetch[T]) (Result[T], error) {
	p := a.policy.For(tag)

	if env, ok := a.gateway.Get(ctx, key, p.ReadTimeout()); ok {
		age := env.Age()
		if age < p.Stale() {
			var value T
			err := json.Unmarshal(env.Value, &value)
			switch {
			case err != nil:
				a.logger.Warn("Cache payload undecodable, refetching", zap.String("key", key), zap.Error(err))
			case age < p.Fresh():
				a.metrics.ObserveRead(tag, StatusHit)
				return Result[T]{Value: value, Status: StatusHit, TTLRemaining: p.Stale() - age}, nil
			default:
				a.refresh(tag, key, p.Stale(), func(ctx context.Context) (any, error) {
					return fetch(ctx)
				})
				a.metrics.ObserveRead(tag, StatusStale)
				return Result[T]{Value: value, Status: StatusStale, TTLRemaining: p.Stale() - age}, nil
			}
		}
	}

	value, err := fetch(ctx)
	if err != nil {
		// The source-of-record is authoritative: its errors surface.
		return Result[T]{}, err
	}

	a.populate(key, value, p.Stale())
	a.metrics.ObserveRead(tag, StatusMiss)
	return Result[T]{Value: value, Status: StatusMiss}, nil
}

// refresh re-fetches from the source-of-record and replaces the entry,
// detached from the request. A refresh that fails leaves the stale entry in
// place; the next read tries again.
func (a *Accessor) refresh(tag, key string, ttl time.Duration, fetch func(ctx context.Context) (any, error)) {
	a.runner.Submit("cache-refresh "+tag, func(ctx context.Context) error {
		_, err, _ := a.group.Do(key, func() (interface{}, error) {
			value, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return nil, a.gateway.Set(ctx, key, value, ttl)
		})
		return err
	})
}

// populate writes a freshly fetched value behind the response.
func (a *Accessor) populate(key string, value interface{}, ttl time.Duration) {
	a.runner.Submit("cache-populate "+key, func(ctx context.Context) error {
		return a.gateway.Set(ctx, key, value, ttl)
	})
}
