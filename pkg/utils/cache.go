package utils

import (
	"sync"
	"time"
)

// stateTTL 足够完成一次授权跳转
const stateTTL = 10 * time.Minute

var memoryCache sync.Map

type cacheItem struct {
	value     string
	expiresAt time.Time
}

// SetCache 写入缓存，10 分钟过期
func SetCache(key string, value string) {
	SetCacheWithTTL(key, value, stateTTL)
}

// SetCacheWithTTL 指定过期时间写入
func SetCacheWithTTL(key string, value string, ttl time.Duration) {
	memoryCache.Store(key, cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
}

// GetCache 读取缓存，过期项顺带删除
func GetCache(key string) (string, bool) {
	val, ok := memoryCache.Load(key)
	if !ok {
		return "", false
	}

	item := val.(cacheItem)
	if time.Now().After(item.expiresAt) {
		memoryCache.Delete(key)
		return "", false
	}
	return item.value, true
}

// DeleteCache 用完即删
func DeleteCache(key string) {
	memoryCache.Delete(key)
}

// PurgeExpired 清理所有过期项，返回清理数量
func PurgeExpired() int {
	now := time.Now()
	purged := 0
	memoryCache.Range(func(key, value interface{}) bool {
		if now.After(value.(cacheItem).expiresAt) {
			memoryCache.Delete(key)
			purged++
		}
		return true
	})
	return purged
}
