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
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ModeRedis = "redis"
	ModeLocal = "local"
)

// ICache 缓存抽象，redis 与本地 fastcache 共用 redis 的命令返回类型
type ICache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Conf 缓存配置
type Conf struct {
	// Mode redis 或 local
	Mode string `mapstructure:"mode"`
	// LocalMaxBytes 本地缓存容量
	LocalMaxBytes int `mapstructure:"localMaxBytes"`
	// TTL 单位分钟
	TTL int `mapstructure:"ttl"`
}

func (c *Conf) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	if c.LocalMaxBytes <= 0 {
		c.LocalMaxBytes = defaultLocalMaxBytes
	}
	if c.TTL <= 0 {
		c.TTL = 30
	}
}

func (c Conf) GetTTL() time.Duration {
	return time.Duration(c.TTL) * time.Minute
}

// RedisCache redis 实现
type RedisCache struct {
	client redis.UniversalClient
}

func NewRedisCache(client redis.UniversalClient) ICache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.client.Get(ctx, key)
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	return r.client.Set(ctx, key, value, expiration)
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.client.Del(ctx, keys...)
}

func (r *RedisCache) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	return r.client.Expire(ctx, key, expiration)
}
