package common

import (
	"github.com/ulule/limiter"
)

var RateLimitAPI, _ = limiter.NewRateFromFormatted("100-S")

// RateLimitRule holds the default rate and the per-client overrides. An
// override with a zero limit disables limiting for that address.
type RateLimitRule struct {
	Default     limiter.Rate
	ByIPAddress map[string]limiter.Rate
}

func NewRateLimitRule(rate limiter.Rate) RateLimitRule {
	return RateLimitRule{
		Default:     rate,
		ByIPAddress: map[string]limiter.Rate{},
	}
}
