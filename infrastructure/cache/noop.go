package cache

import (
	"context"
	"time"
)

// NoopGateway is the gateway used when caching is disabled or the store is
// unreachable at startup: every read is a miss and writes vanish, so the
// service degrades to reading the source-of-record directly.
type NoopGateway struct{}

// NewNoopGateway creates a gateway that caches nothing.
func NewNoopGateway() *NoopGateway {
	return &NoopGateway{}
}

func (*NoopGateway) Get(ctx context.Context, key string, timeout time.Duration) (*Envelope, bool) {
	return nil, false
}

func (*NoopGateway) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (*NoopGateway) Delete(ctx context.Context, keys ...string) error {
	return nil
}

func (*NoopGateway) DeletePattern(ctx context.Context, prefix string) error {
	return nil
}
