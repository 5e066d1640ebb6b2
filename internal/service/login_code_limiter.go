package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginCodeLimiter limita la frecuencia de solicitudes de código por email.
type LoginCodeLimiter interface {
	Allow(ctx context.Context, key string) bool
}

type memoryLoginCodeLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLoginCodeLimiter crea un limiter de ventana deslizante en memoria.
func NewMemoryLoginCodeLimiter(window time.Duration, max int) LoginCodeLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLoginCodeLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryLoginCodeLimiter) Allow(_ context.Context, key string) bool {
	key = normalizeLimiterKey(key)
	if key == "" {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}
	kept := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.max {
		l.hits[key] = kept
		return false
	}
	l.hits[key] = append(kept, now)
	return true
}

// sweep borra las claves sin hits dentro de la ventana. Los hits de cada
// clave están en orden, el último es el más reciente.
func (l *memoryLoginCodeLimiter) sweep(cutoff time.Time) {
	for k, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.hits, k)
		}
	}
}

const redisLimiterScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("EXPIRE", KEYS[1], ARGV[1])
end
return current
`

type redisEvaler interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

type redisLoginCodeLimiter struct {
	logger *zap.Logger
	client redisEvaler
	window time.Duration
	max    int
	prefix string
}

// NewRedisLoginCodeLimiter comparte el contador entre réplicas. Devuelve nil si no hay cliente.
func NewRedisLoginCodeLimiter(logger *zap.Logger, client *redis.Client, window time.Duration, max int) LoginCodeLimiter {
	if client == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisLoginCodeLimiter{
		logger: logger,
		client: client,
		window: window,
		max:    max,
		prefix: "login_code:rl:",
	}
}

func (l *redisLoginCodeLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.client == nil {
		return true
	}
	key = normalizeLimiterKey(key)
	if key == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	seconds := int(l.window.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	count, err := l.client.Eval(ctx, redisLimiterScript, []string{l.prefix + key}, seconds).Int()
	if err != nil {
		// Redis caído no bloquea el login.
		if l.logger != nil {
			l.logger.Warn("login code limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
		}
		return true
	}
	return count <= l.max
}

func normalizeLimiterKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
