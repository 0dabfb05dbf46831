package collections

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeIdenticalIsRefreshNotSum(t *testing.T) {
	local := Collection{{ProductID: "a", Quantity: 2}}
	remote := Collection{{ProductID: "a", Quantity: 2}}

	merged := Merge(local, remote)

	assert.Len(t, merged, 1)
	assert.Equal(t, "a", merged[0].ProductID)
	assert.Equal(t, 2, merged[0].Quantity, "refresh must not double quantities")
}

func TestMergeDisjointKeepsBoth(t *testing.T) {
	local := Collection{{ProductID: "a", Quantity: 1}}
	remote := Collection{{ProductID: "b", Quantity: 3}}

	merged := Merge(local, remote)

	assert.Len(t, merged, 2)
	assert.Equal(t, 1, merged[merged.IndexOf("a")].Quantity)
	assert.Equal(t, 3, merged[merged.IndexOf("b")].Quantity)
}

func TestMergeOverlappingDivergenceSums(t *testing.T) {
	local := Collection{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
	}
	remote := Collection{
		{ProductID: "a", Name: "Onesie", Price: 24.99, Quantity: 2},
	}

	merged := Merge(local, remote)

	assert.Len(t, merged, 2)
	a := merged[merged.IndexOf("a")]
	assert.Equal(t, 3, a.Quantity, "genuine divergence sums quantities")
	assert.Equal(t, "Onesie", a.Name, "remote fields are authoritative")
	assert.Equal(t, 2, merged[merged.IndexOf("b")].Quantity)
}

func TestSimilar(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Collection
		expect bool
	}{
		{
			name:   "same items different order",
			a:      Collection{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 2}},
			b:      Collection{{ProductID: "b", Quantity: 2}, {ProductID: "a", Quantity: 1}},
			expect: true,
		},
		{
			name:   "same ids different quantity",
			a:      Collection{{ProductID: "a", Quantity: 1}},
			b:      Collection{{ProductID: "a", Quantity: 2}},
			expect: false,
		},
		{
			name:   "different ids",
			a:      Collection{{ProductID: "a", Quantity: 1}},
			b:      Collection{{ProductID: "b", Quantity: 1}},
			expect: false,
		},
		{
			name:   "both empty",
			a:      Collection{},
			b:      Collection{},
			expect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.a.Similar(tt.b))
		})
	}
}

func TestFingerprintIsOrderIndependent(t *testing.T) {
	a := Collection{{ProductID: "a", Quantity: 1}, {ProductID: "b", Quantity: 2}}
	b := Collection{{ProductID: "b", Quantity: 2}, {ProductID: "a", Quantity: 1}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), Collection{{ProductID: "a", Quantity: 2}}.Fingerprint())
}
