package inventory

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Sampler produces a market-price estimate around a mean. The default is
// deliberately noisy; tests inject a deterministic one.
type Sampler func(mean decimal.Decimal) decimal.Decimal

// GaussianSampler returns a Sampler drawing from a normal distribution
// with σ = mean/10, clamped at zero and truncated to whole currency
// units.
func GaussianSampler(rng *rand.Rand) Sampler {
	return func(mean decimal.Decimal) decimal.Decimal {
		m, _ := mean.Float64()
		sampled := rng.NormFloat64()*(m/10) + m
		if sampled < 0 {
			sampled = 0
		}
		return decimal.NewFromFloat(sampled).Truncate(0)
	}
}

// FixedSampler returns a Sampler that always reports the mean unchanged.
func FixedSampler() Sampler {
	return func(mean decimal.Decimal) decimal.Decimal { return mean }
}
