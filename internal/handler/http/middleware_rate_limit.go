package http

import (
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/MKhiriev/crowdblog-auth/internal/app"
	"github.com/MKhiriev/crowdblog-auth/internal/logger"
	"github.com/MKhiriev/crowdblog-auth/internal/utils"
)

const (
	// visitorIdleTTL is how long an idle client's bucket is kept.
	visitorIdleTTL = 10 * time.Minute
	// visitorGCThreshold is the map size at which idle buckets are swept.
	visitorGCThreshold = 1000
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter keeps one token bucket per client IP. The bucket refills
// perMinute tokens per minute and holds at most perMinute tokens.
type ipRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	perMinute int
	now       func() time.Time
}

// newIPRateLimiter returns nil when perMinute is not positive, which turns
// rate limiting off.
func newIPRateLimiter(perMinute int) *ipRateLimiter {
	if perMinute <= 0 {
		return nil
	}

	return &ipRateLimiter{
		visitors:  make(map[string]*visitor),
		perMinute: perMinute,
		now:       time.Now,
	}
}

func (rl *ipRateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[ip]
	if !ok {
		rl.gcLocked(now)
		v = &visitor{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMinute)), rl.perMinute),
		}
		rl.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

func (rl *ipRateLimiter) gcLocked(now time.Time) {
	if len(rl.visitors) < visitorGCThreshold {
		return
	}

	cutoff := now.Add(-visitorIdleTTL)
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
		}
	}
}

// withRateLimit rejects a client with 429 once its bucket is empty. The
// bucket is keyed by [Handler.clientIP].
func (h *Handler) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := h.clientIP(r)
		if !h.limiter.allow(ip) {
			logger.FromRequest(r).Warn().
				Str("func", "*Handler.withRateLimit").
				Str("ip", ip).
				Str("uri", r.RequestURI).
				Msg("rate limit exceeded")

			w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute.Seconds())/h.limiter.perMinute+1))
			utils.WriteError(w, app.MsgTooManyRequests, http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP returns the address the rate limiter keys on. It is the socket
// peer unless that peer is a trusted proxy, in which case the forwarded
// chain is walked from the right and the first untrusted hop wins.
func (h *Handler) clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		host = r.RemoteAddr
	}

	peer, err := netip.ParseAddr(host)
	if err != nil || !h.isTrustedProxy(peer) {
		return host
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
			if err != nil {
				// a garbled hop cannot be attributed, stop at the last good one
				return peer.Unmap().String()
			}
			if !h.isTrustedProxy(hop) {
				return hop.Unmap().String()
			}
			peer = hop
		}
		return peer.Unmap().String()
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(r.Header.Get("X-Real-IP"))); err == nil {
		return realIP.Unmap().String()
	}

	return host
}

func (h *Handler) isTrustedProxy(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range h.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
