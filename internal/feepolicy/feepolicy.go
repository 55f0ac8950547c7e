package feepolicy

import "math"

// Reference values matching the relay operators' guidance.
const (
	DefaultStartMultiplier  = 1.0
	DefaultMaxMultiplier    = 3.0
	DefaultEscalationFactor = 1.15
)

// Policy computes the priority fee amount for each submission attempt and
// escalates the multiplier on rate limit signals. The multiplier itself is
// owned by the caller and lives for exactly one Send invocation.
type Policy struct {
	startMultiplier  float64
	maxMultiplier    float64
	escalationFactor float64
}

// NewPolicy builds a Policy, falling back to the defaults for
// non-positive parameters.
func NewPolicy(startMultiplier, maxMultiplier, escalationFactor float64) Policy {
	if startMultiplier <= 0 {
		startMultiplier = DefaultStartMultiplier
	}
	if maxMultiplier <= 0 {
		maxMultiplier = DefaultMaxMultiplier
	}
	if maxMultiplier < startMultiplier {
		maxMultiplier = startMultiplier
	}
	if escalationFactor <= 1 {
		escalationFactor = DefaultEscalationFactor
	}
	return Policy{
		startMultiplier:  startMultiplier,
		maxMultiplier:    maxMultiplier,
		escalationFactor: escalationFactor,
	}
}

// StartMultiplier is the multiplier every Send invocation begins with.
func (p Policy) StartMultiplier() float64 {
	return p.startMultiplier
}

// ComputeFee returns floor(baseAmount*multiplier) clamped to
// floor(baseAmount*maxMultiplier).
func (p Policy) ComputeFee(baseAmount uint64, multiplier float64) uint64 {
	fee := flooredProduct(baseAmount, multiplier)
	maxFee := flooredProduct(baseAmount, p.maxMultiplier)
	if fee > maxFee {
		return maxFee
	}
	return fee
}

// flooredProduct floors base*multiplier. The product is nudged up by one
// part in 1e12 first: 1_000_000*1.15 lands an ulp below 1_150_000 in
// float64 and must still floor to it.
func flooredProduct(base uint64, multiplier float64) uint64 {
	v := float64(base) * multiplier
	return uint64(math.Floor(v + v*1e-12))
}

// OnRateLimited escalates the multiplier in response to an HTTP 429,
// capped at the max multiplier.
func (p Policy) OnRateLimited(multiplier float64) float64 {
	next := multiplier * p.escalationFactor
	if next > p.maxMultiplier {
		return p.maxMultiplier
	}
	return next
}
