// File: internal/ratelimit/ratelimit.go
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiting configuration
type Config struct {
	RequestsPerMinute int
	Burst             int
	CleanupPeriod     time.Duration // How often idle entries are swept
	IdleTTL           time.Duration // Entries unused for this long are dropped
}

// DefaultChatConfig limits the AI chat endpoint per user.
func DefaultChatConfig() *Config {
	return &Config{
		RequestsPerMinute: 20,
		Burst:             5,
		CleanupPeriod:     5 * time.Minute,
		IdleTTL:           10 * time.Minute,
	}
}

// DefaultAuthConfig limits login and registration per client IP.
func DefaultAuthConfig() *Config {
	return &Config{
		RequestsPerMinute: 10,
		Burst:             5,
		CleanupPeriod:     5 * time.Minute,
		IdleTTL:           30 * time.Minute,
	}
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter keeps one token bucket per key.
type KeyedLimiter struct {
	config   *Config
	limit    rate.Limit
	mu       sync.Mutex
	entries  map[string]*entry
	stopCh   chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewKeyedLimiter starts the janitor goroutine; call Stop to end it.
func NewKeyedLimiter(config *Config) *KeyedLimiter {
	if config == nil {
		config = DefaultChatConfig()
	}
	if config.Burst < 1 {
		config.Burst = 1
	}
	if config.CleanupPeriod <= 0 {
		config.CleanupPeriod = 5 * time.Minute
	}
	if config.IdleTTL <= 0 {
		config.IdleTTL = 10 * time.Minute
	}

	kl := &KeyedLimiter{
		config:  config,
		limit:   rate.Limit(float64(config.RequestsPerMinute) / 60.0),
		entries: make(map[string]*entry),
		stopCh:  make(chan struct{}),
		now:     time.Now,
	}
	go kl.cleanupLoop()
	return kl
}

// Allow reports whether one more request for key fits. When it does not,
// the returned duration is how long until it would.
func (kl *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	now := kl.now()

	kl.mu.Lock()
	e, ok := kl.entries[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(kl.limit, kl.config.Burst)}
		kl.entries[key] = e
	}
	e.lastSeen = now
	kl.mu.Unlock()

	res := e.limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, kl.config.IdleTTL
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Limit returns the configured requests per minute.
func (kl *KeyedLimiter) Limit() int {
	return kl.config.RequestsPerMinute
}

// Len returns the number of tracked keys.
func (kl *KeyedLimiter) Len() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.entries)
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			kl.sweep()
		case <-kl.stopCh:
			return
		}
	}
}

func (kl *KeyedLimiter) sweep() {
	cutoff := kl.now().Add(-kl.config.IdleTTL)

	kl.mu.Lock()
	defer kl.mu.Unlock()
	for key, e := range kl.entries {
		if e.lastSeen.Before(cutoff) {
			delete(kl.entries, key)
		}
	}
}

// Stop ends the janitor goroutine. It is safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.stopOnce.Do(func() { close(kl.stopCh) })
}

// GetClientIP returns the direct peer address. Forwarding headers are
// ignored; use ClientIPResolver behind a reverse proxy.
func GetClientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientIPResolver honours X-Forwarded-For and X-Real-IP only when the
// request arrives from a trusted proxy.
type ClientIPResolver struct {
	trusted []*net.IPNet
}

// NewClientIPResolver accepts CIDRs ("10.0.0.0/8") or bare IPs.
func NewClientIPResolver(proxies []string) (*ClientIPResolver, error) {
	res := &ClientIPResolver{}
	for _, p := range proxies {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.Contains(p, "/") {
			ip := net.ParseIP(p)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", p)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			res.trusted = append(res.trusted, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(p)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", p, err)
		}
		res.trusted = append(res.trusted, network)
	}
	return res, nil
}

func (c *ClientIPResolver) isTrusted(addr string) bool {
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range c.trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// ClientIP walks X-Forwarded-For from the right and returns the first hop
// that is not a trusted proxy. A nil resolver or an untrusted peer yields
// the peer address.
func (c *ClientIPResolver) ClientIP(r *http.Request) string {
	peer := GetClientIP(r)
	if c == nil || !c.isTrusted(peer) {
		return peer
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		hops := strings.Split(forwarded, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" {
				continue
			}
			if !c.isTrusted(hop) || i == 0 {
				return hop
			}
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return peer
}
