package feepolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFee(t *testing.T) {
	p := NewPolicy(1.0, 3.0, 1.15)

	tests := []struct {
		name       string
		base       uint64
		multiplier float64
		expected   uint64
	}{
		{name: "StartMultiplier", base: 1_000_000, multiplier: 1.0, expected: 1_000_000},
		{name: "AfterOneRateLimit", base: 1_000_000, multiplier: 1.15, expected: 1_150_000},
		{name: "Floors", base: 1_000_001, multiplier: 1.15, expected: 1_150_001},
		{name: "ClampedAtMax", base: 1_000_000, multiplier: 5.0, expected: 3_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ComputeFee(tt.base, tt.multiplier))
		})
	}
}

func TestOnRateLimitedEscalatesAndClamps(t *testing.T) {
	p := NewPolicy(1.0, 3.0, 1.15)

	mult := p.StartMultiplier()
	mult = p.OnRateLimited(mult)
	assert.InDelta(t, 1.15, mult, 1e-9)
	assert.Equal(t, uint64(1_150_000), p.ComputeFee(1_000_000, mult))

	// repeated 429s eventually clamp the fee at base*maxMultiplier
	prev := mult
	for i := 0; i < 50; i++ {
		mult = p.OnRateLimited(mult)
		require.GreaterOrEqual(t, mult, prev)
		prev = mult
	}
	assert.Equal(t, 3.0, mult)
	assert.Equal(t, uint64(3_000_000), p.ComputeFee(1_000_000, mult))
}

func TestNewPolicyDefaults(t *testing.T) {
	p := NewPolicy(0, 0, 0)
	assert.Equal(t, DefaultStartMultiplier, p.StartMultiplier())
	assert.Equal(t, uint64(3_000_000), p.ComputeFee(1_000_000, 10))

	// max below start snaps to start
	p = NewPolicy(2.0, 1.0, 1.15)
	assert.Equal(t, uint64(2_000_000), p.ComputeFee(1_000_000, 2.0))
}
