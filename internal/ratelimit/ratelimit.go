// Package ratelimit ограничивает частоту запросов с одного клиента.
//
// При настроенном Redis используется общий для всех реплик счётчик
// фиксированного окна, иначе — token bucket в памяти процесса.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Decision — результат проверки лимита.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter решает, пропустить ли очередной запрос клиента key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Counter — счётчик фиксированного окна.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// RedisLimiter — лимит фиксированного окна на общем счётчике.
type RedisLimiter struct {
	counter Counter
	limit   int
	window  time.Duration
}

// NewRedisLimiter создаёт лимитер: не больше limit запросов за window.
func NewRedisLimiter(counter Counter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{counter: counter, limit: limit, window: window}
}

// Allow увеличивает счётчик клиента и сравнивает его с лимитом.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	const op = "ratelimit.RedisLimiter.Allow"

	n, ttl, err := l.counter.Incr(ctx, "ratelimit:"+key, l.window)
	if err != nil {
		return Decision{}, fmt.Errorf("%s: %w", op, err)
	}
	d := Decision{
		Allowed:   n <= int64(l.limit),
		Limit:     l.limit,
		Remaining: max(l.limit-int(n), 0),
	}
	if !d.Allowed {
		d.RetryAfter = ttl
	}
	return d, nil
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter — token bucket на клиента в памяти процесса.
// Ёмкость — limit запросов, пополнение — limit за window.
type MemoryLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	limit     int
	every     rate.Limit
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewMemoryLimiter создаёт лимитер в памяти.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		every:   rate.Limit(float64(limit) / window.Seconds()),
		window:  window,
		now:     time.Now,
	}
}

// Allow забирает токен из корзины клиента.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.limit)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, Limit: l.limit, RetryAfter: delay}, nil
	}
	return Decision{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: max(int(b.limiter.TokensAt(now)), 0),
	}, nil
}

// sweep удаляет корзины клиентов, молчавших дольше окна; не чаще раза в окно.
func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.window {
			delete(l.buckets, key)
		}
	}
}
