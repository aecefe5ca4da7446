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

package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/arcade-admin/internal/admin/service"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/database"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/go-arcade/arcade-admin/pkg/trace"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 ADMIN_HTTP_AUTH_SECRET 覆盖 http.auth.secret
const EnvPrefix = "ADMIN"

type AppConfig struct {
	Log      log.Conf
	Http     httpx.Http
	Database database.Database
	Redis    cache.Redis
	Cache    cache.Conf
	Metrics  metrics.MetricsConfig
	Audit    service.AuditConf
	Trace    trace.Conf
}

var (
	cfg  AppConfig
	once sync.Once
)

func NewConf(confDir string) AppConfig {
	once.Do(func() {
		var err error
		cfg, err = LoadConfigFile(confDir)
		if err != nil {
			panic(fmt.Sprintf("load config file error: %s", err))
		}
	})
	return cfg
}

// secretKeys 没有写进配置文件时也要能从环境变量读取
var secretKeys = []string{
	"http.auth.secret",
	"database.mysql.password",
	"database.clickhouse.password",
	"redis.password",
}

func newViper(confDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(confDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range secretKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}
	return v, nil
}

// LoadConfigFile 读取配置文件并监听变更，变更时只热加载日志级别
func LoadConfigFile(confDir string) (AppConfig, error) {
	var conf AppConfig
	v, err := newViper(confDir)
	if err != nil {
		return conf, err
	}
	if err := v.Unmarshal(&conf); err != nil {
		return conf, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var changed AppConfig
		if err := v.Unmarshal(&changed); err != nil {
			log.Errorw("failed to reload configuration", "file", e.Name, "error", err)
			return
		}
		if changed.Log.Level != "" {
			log.SetLevel(changed.Log.Level)
		}
		log.Infow("configuration changed, log level reloaded", "file", e.Name, "level", changed.Log.Level)
	})
	v.WatchConfig()

	log.Infow("config file loaded",
		"path", confDir,
	)
	return conf, nil
}
