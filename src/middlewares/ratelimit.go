package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdle = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore keeps one limiter per caller. Callers idle for longer than
// idle are dropped on the next sweep, which runs at most once per idle period.
type limiterStore struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	perMin    int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterStore(perMin int, idle time.Duration) *limiterStore {
	return &limiterStore{
		limiters: map[string]*limiterEntry{},
		perMin:   perMin,
		idle:     idle,
		now:      time.Now,
	}
}

func (s *limiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if now.Sub(s.lastSweep) >= s.idle {
		s.sweep(now)
	}
	e, ok := s.limiters[key]
	if !ok {
		burst := s.perMin / 4
		if burst < 1 {
			burst = 1
		}
		e = &limiterEntry{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMin)), burst)}
		s.limiters[key] = e
	}
	e.lastSeen = now
	return e.limiter
}

func (s *limiterStore) sweep(now time.Time) {
	for key, e := range s.limiters {
		if now.Sub(e.lastSeen) > s.idle {
			delete(s.limiters, key)
		}
	}
	s.lastSweep = now
}

func (s *limiterStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// RateLimit caps requests per authenticated user, or per client IP when the
// request carries no identity. A non-positive perMin disables the limit.
func RateLimit(perMin int, logger *zap.Logger) gin.HandlerFunc {
	if perMin <= 0 {
		return func(ctx *gin.Context) { ctx.Next() }
	}
	store := newLimiterStore(perMin, limiterIdle)
	return func(ctx *gin.Context) {
		key := UserID(ctx)
		if key == "" {
			key = "ip:" + ctx.ClientIP()
		}
		if !store.get(key).Allow() {
			logger.Warn("rate limit exceeded", zap.String("key", key), zap.String("path", ctx.FullPath()))
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, try again later"})
			return
		}
		ctx.Next()
	}
}
