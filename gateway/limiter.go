package gateway

import (
	"sync"
	"time"
)

// RateLimiter 控制请求速率，避免触发交易所限流（RATE_LIMIT_EXCEEDED）。
type RateLimiter interface {
	Allow() bool
}

// TokenBucketLimiter 是一个简单的令牌桶实现。
type TokenBucketLimiter struct {
	rate   float64
	burst  int
	tokens float64
	last   time.Time
	now    func() time.Time
	mu     sync.Mutex
}

func NewTokenBucketLimiter(rate float64, burst int) *TokenBucketLimiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucketLimiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
		now:    time.Now,
	}
}

// Allow 取一个令牌；桶空时立即返回 false，不阻塞调用方。
func (l *TokenBucketLimiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	elapsed := now.Sub(l.last).Seconds()
	l.last = now
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}
