package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ResourcePolicy describes caching behavior for one resource tag.
type ResourcePolicy struct {
	FreshSeconds      int `yaml:"fresh_seconds"`
	StaleSeconds      int `yaml:"stale_seconds"`
	ReadTimeoutMillis int `yaml:"read_timeout_ms"`
}

// Fresh returns the fresh window as a duration.
func (p ResourcePolicy) Fresh() time.Duration {
	return time.Duration(p.FreshSeconds) * time.Second
}

// Stale returns the stale bound as a duration.
func (p ResourcePolicy) Stale() time.Duration {
	return time.Duration(p.StaleSeconds) * time.Second
}

// ReadTimeout returns the bounded cache-read wait as a duration.
func (p ResourcePolicy) ReadTimeout() time.Duration {
	return time.Duration(p.ReadTimeoutMillis) * time.Millisecond
}

// defaultPolicies are the built-in windows; a policy file may override any
// of them at runtime.
var defaultPolicies = map[string]ResourcePolicy{
	"ORDER_DETAILS": {FreshSeconds: 60, StaleSeconds: 300, ReadTimeoutMillis: 1500},
	"ORDERS":        {FreshSeconds: 60, StaleSeconds: 300, ReadTimeoutMillis: 500},
	"ADDRESSES":     {FreshSeconds: 300, StaleSeconds: 1800, ReadTimeoutMillis: 300},
	"WISHLIST":      {FreshSeconds: 120, StaleSeconds: 600, ReadTimeoutMillis: 300},
	"CART":          {FreshSeconds: 60, StaleSeconds: 300, ReadTimeoutMillis: 300},
	"RATINGS":       {FreshSeconds: 300, StaleSeconds: 1800, ReadTimeoutMillis: 500},
	"SIZE_OPTIONS":  {FreshSeconds: 3600, StaleSeconds: 21600, ReadTimeoutMillis: 300},
}

// fallbackPolicy covers tags with no explicit entry.
var fallbackPolicy = ResourcePolicy{FreshSeconds: 60, StaleSeconds: 300, ReadTimeoutMillis: 300}

// CachePolicy resolves the staleness window and read timeout for a resource
// tag. It is safe for concurrent use and may be updated at runtime by the
// policy watcher.
type CachePolicy struct {
	mu    sync.RWMutex
	byTag map[string]ResourcePolicy
}

// NewCachePolicy returns the built-in policy set.
func NewCachePolicy() *CachePolicy {
	byTag := make(map[string]ResourcePolicy, len(defaultPolicies))
	for tag, p := range defaultPolicies {
		byTag[tag] = p
	}
	return &CachePolicy{byTag: byTag}
}

// For returns the policy for a tag, falling back to the default window.
func (c *CachePolicy) For(tag string) ResourcePolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.byTag[tag]; ok {
		return p
	}
	return fallbackPolicy
}

// Apply overlays the overrides from a policy file onto the defaults.
// Unknown tags are accepted; zero fields keep their default value.
func (c *CachePolicy) Apply(overrides map[string]ResourcePolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for tag, override := range overrides {
		base, ok := c.byTag[tag]
		if !ok {
			base = fallbackPolicy
		}
		if override.FreshSeconds > 0 {
			base.FreshSeconds = override.FreshSeconds
		}
		if override.StaleSeconds > 0 {
			base.StaleSeconds = override.StaleSeconds
		}
		if override.ReadTimeoutMillis > 0 {
			base.ReadTimeoutMillis = override.ReadTimeoutMillis
		}
		c.byTag[tag] = base
	}
}

// policyFile is the on-disk shape of the policy overrides.
type policyFile struct {
	Resources map[string]ResourcePolicy `yaml:"resources"`
}

// LoadPolicyFile reads policy overrides from a YAML file.
func LoadPolicyFile(path string) (map[string]ResourcePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	var file policyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse policy file: %w", err)
	}

	for tag, p := range file.Resources {
		if p.StaleSeconds > 0 && p.FreshSeconds > 0 && p.FreshSeconds >= p.StaleSeconds {
			return nil, fmt.Errorf("policy for %s: fresh window must be shorter than stale bound", tag)
		}
	}

	return file.Resources, nil
}
