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
	"fmt"

	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/google/wire"
)

// defaultLocalMaxBytes is the default cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

var ProviderSet = wire.NewSet(ProvideICache)

// ProvideICache 按 cache.mode 选择 redis 或本地 fastcache
func ProvideICache(conf Conf, redisConf Redis) (ICache, func(), error) {
	conf.SetDefaults()
	switch conf.Mode {
	case ModeRedis:
		client, err := NewRedis(redisConf)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				log.Warnw("failed to close redis", "error", err)
			}
		}
		return NewRedisCache(client), cleanup, nil
	case ModeLocal:
		log.Infow("local cache enabled", "maxBytes", conf.LocalMaxBytes)
		return NewFastCache(FastCacheConfig{MaxBytes: conf.LocalMaxBytes}), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache mode: %s", conf.Mode)
	}
}
