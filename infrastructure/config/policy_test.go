package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachePolicyDefaults(t *testing.T) {
	policy := NewCachePolicy()

	orders := policy.For("ORDER_DETAILS")
	assert.Equal(t, 60, orders.FreshSeconds)
	assert.Equal(t, 300, orders.StaleSeconds)
	assert.Equal(t, 1500, orders.ReadTimeoutMillis)

	unknown := policy.For("SOMETHING_ELSE")
	assert.Equal(t, fallbackPolicy, unknown)
}

func TestCachePolicyApplyPartialOverride(t *testing.T) {
	policy := NewCachePolicy()

	policy.Apply(map[string]ResourcePolicy{
		"WISHLIST": {FreshSeconds: 30}, // stale and timeout untouched
	})

	wishlist := policy.For("WISHLIST")
	assert.Equal(t, 30, wishlist.FreshSeconds)
	assert.Equal(t, 600, wishlist.StaleSeconds)
	assert.Equal(t, 300, wishlist.ReadTimeoutMillis)
}

func TestLoadPolicyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `
resources:
  CART:
    fresh_seconds: 15
    stale_seconds: 120
    read_timeout_ms: 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	overrides, err := LoadPolicyFile(path)
	require.NoError(t, err)
	assert.Equal(t, 15, overrides["CART"].FreshSeconds)
	assert.Equal(t, 120, overrides["CART"].StaleSeconds)
	assert.Equal(t, 250, overrides["CART"].ReadTimeoutMillis)
}

func TestLoadPolicyFileRejectsInvertedWindow(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	content := `
resources:
  CART:
    fresh_seconds: 300
    stale_seconds: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := LoadPolicyFile(path)
	assert.Error(t, err)
}
