package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/dreamcatchered/dreamDownloader/internal/logutils"
)

const (
	sweepInterval = time.Hour
	staleAfter    = 24 * time.Hour
)

// Limiter throttles download requests per user. Every user gets an
// independent token bucket that refills at perMinute tokens per minute and
// holds at most perMinute tokens, so a quiet user can burst a full minute's
// worth of requests at once.
type Limiter struct {
	mu        sync.Mutex
	users     map[int64]*userBucket
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

type userBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLimiter builds a limiter allowing perMinute requests per user.
// perMinute <= 0 disables limiting entirely.
func NewLimiter(perMinute int) *Limiter {
	l := &Limiter{
		users:     make(map[int64]*userBucket),
		burst:     perMinute,
		lastSweep: time.Now(),
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return l
}

// Allow reports whether userID may issue another request right now. A denied
// request does not consume a token.
func (l *Limiter) Allow(userID int64) bool {
	return l.allowAt(time.Now(), userID)
}

func (l *Limiter) allowAt(now time.Time, userID int64) bool {
	if l.burst <= 0 {
		return true
	}

	l.mu.Lock()
	b, ok := l.users[userID]
	if !ok {
		b = &userBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.users[userID] = b
	}
	b.lastSeen = now
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweepLocked(now)
	}
	l.mu.Unlock()

	allowed := b.limiter.AllowN(now, 1)
	if !allowed {
		logutils.Log.WithField("user_id", userID).Debug("Rate limit exceeded")
	}
	return allowed
}

// sweepLocked drops buckets idle for longer than staleAfter. An idle bucket
// is fully refilled anyway, so dropping it does not change behavior. Caller
// holds mu.
func (l *Limiter) sweepLocked(now time.Time) {
	for userID, b := range l.users {
		if now.Sub(b.lastSeen) > staleAfter {
			delete(l.users, userID)
		}
	}
	l.lastSweep = now
}
