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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
[log]
output = "stdout"
level = "DEBUG"

[http]
port = 9090
contextPath = "/admin-api"

[http.auth]
secret = "file-secret"
expireMinutes = 60

[database]
driver = "sqlite"
autoMigrate = true

[database.sqlite]
dsn = "file:test.db"

[cache]
mode = "local"
ttl = 10

[audit]
retentionDays = 90
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	conf, err := LoadConfigFile(writeConfig(t))
	require.NoError(t, err)

	assert.Equal(t, "DEBUG", conf.Log.Level)
	assert.Equal(t, 9090, conf.Http.Port)
	assert.Equal(t, "/admin-api", conf.Http.ContextPath)
	assert.Equal(t, "file-secret", conf.Http.Auth.Secret)
	assert.Equal(t, 60, conf.Http.Auth.ExpireMinutes)
	assert.Equal(t, "sqlite", conf.Database.Driver)
	assert.True(t, conf.Database.AutoMigrate)
	assert.Equal(t, "file:test.db", conf.Database.SQLite.DSN)
	assert.Equal(t, 10, conf.Cache.TTL)
	assert.Equal(t, 90, conf.Audit.RetentionDays)
}

func TestLoadConfigFile_EnvOverride(t *testing.T) {
	t.Setenv("ADMIN_HTTP_AUTH_SECRET", "env-secret")
	t.Setenv("ADMIN_HTTP_PORT", "7070")

	conf, err := LoadConfigFile(writeConfig(t))
	require.NoError(t, err)
	assert.Equal(t, "env-secret", conf.Http.Auth.Secret)
	assert.Equal(t, 7070, conf.Http.Port)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestProviders(t *testing.T) {
	conf, err := LoadConfigFile(writeConfig(t))
	require.NoError(t, err)

	httpConf := ProvideHttpConfig(&conf)
	assert.Equal(t, "0.0.0.0", httpConf.Host)
	assert.Equal(t, "AdminSystem", httpConf.Auth.Issuer)

	cacheConf := ProvideCacheConfig(&conf)
	assert.Equal(t, 10, cacheConf.TTL)
	assert.Positive(t, cacheConf.LocalMaxBytes)

	traceConf := ProvideTraceConfig(&conf)
	assert.False(t, traceConf.Enabled)
	assert.Equal(t, "arcade-admin", traceConf.ServiceName)
}
