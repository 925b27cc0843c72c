package ratelimit

import (
	"fmt"
	"time"

	"github.com/email-verify-api/internal/domain"
)

// TokenSigner issues and reads signed counter tokens.
type TokenSigner interface {
	Sign(count int, ttl time.Duration) (string, error)
	Verify(token string) (int, error)
}

// Limiter bounds how many codes a client may request per window. It keeps no
// per-client state: the running count travels in the token the client returns.
type Limiter struct {
	signer TokenSigner
	max    int
	window time.Duration
}

func NewLimiter(signer TokenSigner, max int, window time.Duration) *Limiter {
	return &Limiter{signer: signer, max: max, window: window}
}

// Next consumes one request. An empty, expired or unreadable token starts a
// fresh window at count 1. A token already at the ceiling is rejected.
func (l *Limiter) Next(token string) (string, int, error) {
	count := 1
	if token != "" {
		if n, err := l.signer.Verify(token); err == nil {
			if n >= l.max {
				return "", n, fmt.Errorf("resend limit of %d reached: %w", l.max, domain.ErrTooManyRequests)
			}
			count = n + 1
		}
	}
	next, err := l.signer.Sign(count, l.window)
	if err != nil {
		return "", count, fmt.Errorf("sign counter token: %w", err)
	}
	return next, count, nil
}
