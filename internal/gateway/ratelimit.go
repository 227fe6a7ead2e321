package gateway

import (
	"net"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client address.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

// NewIPLimiter allows perMinute requests per address with the given burst.
// perMinute <= 0 disables limiting.
func NewIPLimiter(perMinute, burst int) *IPLimiter {
	if burst < 1 {
		burst = 1
	}
	l := &IPLimiter{
		visitors: make(map[string]*visitor),
		burst:    burst,
		now:      time.Now,
	}
	if perMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return l
}

func (l *IPLimiter) Allow(ip string) bool {
	if l.limit == 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, v := range l.visitors {
		if now.Sub(v.lastSeen) > visitorIdleTTL {
			delete(l.visitors, key)
		}
	}
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Handler limits by client address. Requests from a loopback address that
// carry no forwarded client address come from this process's own session
// side, which is already limited per user on its public routes.
func (l *IPLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := clientIP(c)
		if isLoopback(ip) {
			return c.Next()
		}
		if !l.Allow(ip) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": msgRateLimited})
		}
		return c.Next()
	}
}

// clientIP is the proxy-reported address when the app trusts a proxy header
// and the header is present, else the peer address.
func clientIP(c *fiber.Ctx) string {
	if ip := c.IP(); ip != "" {
		return ip
	}
	return c.Context().RemoteIP().String()
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}
