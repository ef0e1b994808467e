package notify

import (
	"context"

	"golang.org/x/time/rate"

	logx "statuswatch/pkg/logx"
)

const defaultRatePerSec = 3

// Service wraps a Provider with a token-bucket rate limit so a flapping
// feed cannot flood the transport. It satisfies Provider itself.
type Service struct {
	provider Provider
	limiter  *rate.Limiter
	log      logx.Logger
}

func NewService(provider Provider, ratePerSec int, log logx.Logger) *Service {
	if ratePerSec <= 0 {
		ratePerSec = defaultRatePerSec
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Service{
		provider: provider,
		// burst equals the per-second rate
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
		log:     log,
	}
}

func (s *Service) Send(ctx context.Context, title, body string) bool {
	if err := s.limiter.Wait(ctx); err != nil {
		s.log.Warn("notification dropped (rate limit wait cancelled)", logx.Err(err))
		return false
	}
	return s.provider.Send(ctx, title, body)
}
