// Package quota enforces the Gateway's per-subject daily limits and
// per-source burst rate limiting (C8, §4.8). Daily counters are Redis-backed
// so they survive across process instances; the burst limiter is an
// in-process token bucket per subject, using go-redis for cross-instance
// state and golang.org/x/time/rate for the burst limiter.
package quota

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/modernreader/orchestrator/internal/apierr"
)

// Route identifies which daily counter a request consumes.
type Route string

const (
	RoutePlay     Route = "play"
	RouteTTS      Route = "tts"
	RouteImageGen Route = "image_gen"
)

// DailyLimits maps a Route to its per-subject daily ceiling.
type DailyLimits struct {
	Play     int
	TTS      int
	ImageGen int
}

func (l DailyLimits) limitFor(r Route) int {
	switch r {
	case RoutePlay:
		return l.Play
	case RouteTTS:
		return l.TTS
	case RouteImageGen:
		return l.ImageGen
	default:
		return 0
	}
}

// Enforcer consults a daily quota before the Orchestrator runs and
// rate-limits bursts per subject with a token bucket.
type Enforcer struct {
	rdb    *redis.Client
	limits DailyLimits

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	burstPS  float64
}

func NewEnforcer(rdb *redis.Client, limits DailyLimits, burstPerSec float64) *Enforcer {
	return &Enforcer{
		rdb:      rdb,
		limits:   limits,
		limiters: make(map[string]*rate.Limiter),
		burstPS:  burstPerSec,
	}
}

// Allow consumes one burst token for subject, returning quota_exceeded if
// the source has exceeded its configured rate.
func (e *Enforcer) Allow(subject string) error {
	e.mu.Lock()
	l, ok := e.limiters[subject]
	if !ok {
		l = rate.NewLimiter(rate.Limit(e.burstPS), int(e.burstPS))
		e.limiters[subject] = l
	}
	e.mu.Unlock()

	if !l.Allow() {
		return apierr.QuotaHit("rate limit exceeded")
	}
	return nil
}

// ConsumeDaily increments subject's counter for route and returns
// quota_exceeded if the post-increment count exceeds the configured limit.
// The counter resets at UTC midnight via a Redis key TTL.
func (e *Enforcer) ConsumeDaily(ctx context.Context, subject string, r Route) error {
	limit := e.limits.limitFor(r)
	if limit <= 0 {
		return nil
	}
	if e.rdb == nil {
		return nil // no Redis configured: quota enforcement degrades to a no-op, not a hard failure
	}

	key := dailyKey(subject, r)
	count, err := e.rdb.Incr(ctx, key).Result()
	if err != nil {
		return apierr.Upstream("quota counter unavailable", err)
	}
	if count == 1 {
		e.rdb.Expire(ctx, key, secondsUntilMidnightUTC())
	}
	if int(count) > limit {
		return apierr.QuotaHit(fmt.Sprintf("daily %s quota exceeded", r))
	}
	return nil
}

func dailyKey(subject string, r Route) string {
	return fmt.Sprintf("quota:%s:%s:%s", r, subject, time.Now().UTC().Format("2006-01-02"))
}

func secondsUntilMidnightUTC() time.Duration {
	now := time.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	return midnight.Sub(now)
}
