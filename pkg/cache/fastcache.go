// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int // default 16MB
}

// FastCache 进程内缓存，过期时间由 ttls 记录，读取时惰性淘汰
type FastCache struct {
	cache *fastcache.Cache
	ttls  sync.Map // map[string]time.Time
	mu    sync.RWMutex
	now   func() time.Time
}

func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		now:   time.Now,
	}
}

// Get 未命中时返回 redis.Nil，与 RedisCache 保持一致
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if fc.expired(key) {
		fc.evict(key)
		cmd.SetErr(redis.Nil)
		return cmd
	}

	fc.mu.RLock()
	value, ok := fc.cache.HasGet(nil, []byte(key))
	fc.mu.RUnlock()
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(string(value))
	return cmd
}

func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	var valueBytes []byte
	switch v := value.(type) {
	case string:
		valueBytes = []byte(v)
	case []byte:
		valueBytes = v
	default:
		data, err := sonic.Marshal(v)
		if err != nil {
			cmd.SetErr(err)
			return cmd
		}
		valueBytes = data
	}

	fc.mu.Lock()
	fc.cache.Set([]byte(key), valueBytes)
	fc.mu.Unlock()

	if expiration > 0 {
		fc.ttls.Store(key, fc.now().Add(expiration))
	} else {
		fc.ttls.Delete(key)
	}

	cmd.SetVal("OK")
	return cmd
}

func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	var count int64
	for _, key := range keys {
		if fc.expired(key) {
			fc.evict(key)
			continue
		}
		fc.mu.Lock()
		if fc.cache.Has([]byte(key)) {
			fc.cache.Del([]byte(key))
			count++
		}
		fc.mu.Unlock()
		fc.ttls.Delete(key)
	}
	cmd.SetVal(count)
	return cmd
}

func (fc *FastCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	cmd := redis.NewBoolCmd(ctx, "expire", key)
	fc.mu.RLock()
	exists := fc.cache.Has([]byte(key))
	fc.mu.RUnlock()
	if !exists || fc.expired(key) {
		cmd.SetVal(false)
		return cmd
	}
	if expiration <= 0 {
		fc.evict(key)
	} else {
		fc.ttls.Store(key, fc.now().Add(expiration))
	}
	cmd.SetVal(true)
	return cmd
}

// Reset 清空全部数据
func (fc *FastCache) Reset() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.cache.Reset()
	fc.ttls.Range(func(k, _ any) bool {
		fc.ttls.Delete(k)
		return true
	})
}

func (fc *FastCache) expired(key string) bool {
	exp, ok := fc.ttls.Load(key)
	return ok && fc.now().After(exp.(time.Time))
}

func (fc *FastCache) evict(key string) {
	fc.mu.Lock()
	fc.cache.Del([]byte(key))
	fc.mu.Unlock()
	fc.ttls.Delete(key)
}
