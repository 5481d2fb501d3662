package echoapi

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/trezcool/aula/core/announcement"
)

const (
	limiterTTL           = 10 * time.Minute
	limiterCleanupPeriod = time.Minute
)

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// limiterPool holds one token bucket per client key.
// Entries not seen for limiterTTL are evicted by a background loop started on first use
// and running until Stop.
type limiterPool struct {
	rps   rate.Limit
	burst int

	mu           sync.Mutex
	m            map[string]*limiterEntry
	startCleanup sync.Once
	stopCleanup  sync.Once
	done         chan struct{}
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &limiterPool{
		rps:   rate.Limit(rps),
		burst: burst,
		m:     make(map[string]*limiterEntry),
		done:  make(chan struct{}),
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.startCleanup.Do(func() { go p.cleanupLoop() })

	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.m[key]; ok {
		e.lastSeen = time.Now()
		return e.l
	}
	l := rate.NewLimiter(p.rps, p.burst)
	p.m[key] = &limiterEntry{l: l, lastSeen: time.Now()}
	return l
}

func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

func (p *limiterPool) cleanupLoop() {
	ticker := time.NewTicker(limiterCleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case now := <-ticker.C:
			p.sweep(now)
		}
	}
}

// sweep evicts the entries not seen since now-limiterTTL.
func (p *limiterPool) sweep(now time.Time) {
	cutoff := now.Add(-limiterTTL)
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, e := range p.m {
		if e.lastSeen.Before(cutoff) {
			delete(p.m, k)
		}
	}
}

// Stop ends the cleanup loop. It is safe to call more than once.
func (p *limiterPool) Stop() {
	p.stopCleanup.Do(func() { close(p.done) })
}

// rateLimitMiddleware rejects requests over the client's budget with 429. Clients are keyed by real IP.
func rateLimitMiddleware(pool *limiterPool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			if !pool.Allow(ctx.RealIP()) {
				return errTooManyRequests
			}
			return next(ctx)
		}
	}
}

// canPostMiddleware lets through viewers whose role may publish announcements.
func canPostMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if announcement.CanPost(claims.Role) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
