package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ==================== KeyedLimiter 按 key 限流 ====================

// KeyedLimiter 每个 key 一个令牌桶
// 公开接口按 storeId 限流，防止单个店铺刷爆上游 API
type KeyedLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	entries sync.Map // key -> *limiterEntry
	mu      sync.Mutex
	lastGC  time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	mu       sync.Mutex
}

// NewKeyedLimiter perSecond<=0 时不限流
func NewKeyedLimiter(perSecond float64, burst int) *KeyedLimiter {
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &KeyedLimiter{
		limit:  limit,
		burst:  burst,
		ttl:    10 * time.Minute,
		lastGC: time.Now(),
	}
}

// CheckResult 检查结果
type CheckResult struct {
	Allowed    bool          // 是否允许
	RetryAfter time.Duration // 建议等待时间
}

// Check 消耗一个令牌
func (l *KeyedLimiter) Check(key string) CheckResult {
	now := time.Now()
	l.gc(now)

	actual, _ := l.entries.LoadOrStore(key, &limiterEntry{
		limiter: rate.NewLimiter(l.limit, l.burst),
	})
	entry := actual.(*limiterEntry)

	entry.mu.Lock()
	entry.lastSeen = now
	entry.mu.Unlock()

	r := entry.limiter.ReserveN(now, 1)
	if !r.OK() {
		return CheckResult{Allowed: false}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return CheckResult{Allowed: false, RetryAfter: delay}
	}
	return CheckResult{Allowed: true}
}

// Reset 清除指定 key
func (l *KeyedLimiter) Reset(key string) {
	l.entries.Delete(key)
}

// gc 清理长时间未访问的 key，最多每个 ttl 执行一次
func (l *KeyedLimiter) gc(now time.Time) {
	l.mu.Lock()
	if now.Sub(l.lastGC) < l.ttl {
		l.mu.Unlock()
		return
	}
	l.lastGC = now
	l.mu.Unlock()

	l.entries.Range(func(key, value interface{}) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		idle := now.Sub(entry.lastSeen)
		entry.mu.Unlock()
		if idle > l.ttl {
			l.entries.Delete(key)
		}
		return true
	})
}
