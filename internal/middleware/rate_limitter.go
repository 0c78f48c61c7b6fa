package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"DentalPlanner/pkg/log"
	"DentalPlanner/pkg/response"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

var (
	ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")
)

const clientIdleTimeout = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client IP. Buckets of clients that
// have been idle for clientIdleTimeout are dropped on the next sweep.
type rateLimiter struct {
	bucket    map[string]*clientLimiter
	rate      rate.Limit
	burstSize int
	lastSweep time.Time
	now       func() time.Time
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*clientLimiter),
		rate:      reqRate,
		burstSize: burstSize,
		now:       time.Now,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= clientIdleTimeout {
		for key, c := range r.bucket {
			if now.Sub(c.lastSeen) >= clientIdleTimeout {
				delete(r.bucket, key)
			}
		}
		r.lastSweep = now
	}

	c, exist := r.bucket[ip]
	if !exist {
		c = &clientLimiter{limiter: rate.NewLimiter(r.rate, r.burstSize)}
		r.bucket[ip] = c
	}
	c.lastSeen = now

	return c.limiter
}

func (r *rateLimiter) size() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return len(r.bucket)
}

// retryAfter is the whole number of seconds until one token is available.
func (r *rateLimiter) retryAfter() int {
	if r.rate <= 0 || r.rate == rate.Inf {
		return 1
	}
	return int(math.Ceil(1 / float64(r.rate)))
}

// AllowClient takes one token from the bucket of ip. Long-lived connections
// use it to limit each message the way NewRateLimiter limits requests.
func (m *middleware) AllowClient(ip string) bool {
	return m.rateLimitter.GetLimiterFrom(ip).Allow()
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	clientIP := ctx.IP()

	if !m.AllowClient(clientIP) {
		m.log.WithFields(log.Fields{
			"request_id": m.GetRequestID(ctx),
			"ip":         clientIP,
			"path":       ctx.Path(),
		}).Warn("Rate limit exceeded")

		ctx.Set(fiber.HeaderRetryAfter, strconv.Itoa(m.rateLimitter.retryAfter()))
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
			"code":  "RATE_LIMITED",
		})
	}

	return ctx.Next()
}
