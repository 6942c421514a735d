package limiter

import (
	"context"
	"sync"

	"golang.org/x/time/rate"

	"github.com/soladipe/saas-provision/internal/core/ports"
)

const (
	defaultRateLimitRPS = 10
	minRateLimitRPS     = 1
	maxRateLimitRPS     = 50
)

var (
	apiLimiter  *rate.Limiter
	limiterOnce sync.Once
)

// WaitFunc is the indirection handlers call before every control-plane
// request; tests replace it with a no-op.
var WaitFunc = Wait

// Initialize sets up the process-wide ARM API limiter. Out-of-range values
// fall back to the default.
func Initialize(rps int, logger ports.Logger) {
	limiterOnce.Do(func() {
		limitValue := defaultRateLimitRPS
		if rps >= minRateLimitRPS && rps <= maxRateLimitRPS {
			limitValue = rps
		} else if rps != 0 {
			logger.Warnf(context.Background(), "Invalid ARM API RPS configured (%d), using default %d RPS (valid range %d-%d)",
				rps, defaultRateLimitRPS, minRateLimitRPS, maxRateLimitRPS)
		}
		apiLimiter = rate.NewLimiter(rate.Limit(limitValue), limitValue)
		logger.Debugf(context.Background(), "ARM API rate limiter initialized: %d RPS", limitValue)
	})
}

func Wait(ctx context.Context, logger ports.Logger) error {
	if apiLimiter == nil {
		Initialize(defaultRateLimitRPS, logger)
	}
	if err := apiLimiter.Wait(ctx); err != nil {
		if ctx.Err() == nil {
			logger.Warnf(ctx, "Error waiting for ARM API rate limiter: %v", err)
		}
		return err
	}
	return nil
}
