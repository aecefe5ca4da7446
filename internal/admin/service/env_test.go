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

package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/database"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-key-with-enough-length-for-hs256"

type testEnv struct {
	repos   *repo.Repositories
	svcs    *Services
	cache   *cache.FastCache
	metrics *metrics.AdminMetrics
}

func testAuth() httpx.Auth {
	return httpx.Auth{Secret: testSecret, BcryptCost: bcrypt.MinCost}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	m, err := database.NewManager(database.Database{
		Driver: database.DriverSQLite,
		SQLite: database.SQLiteConfig{DSN: fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", name)},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	db := database.NewDatabaseAdapter(m)
	require.NoError(t, database.AutoMigrate(db))
	repos := repo.NewRepositories(db)

	cred, err := NewCredentialService(testAuth())
	require.NoError(t, err)
	am, err := metrics.NewAdminMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	fc := cache.NewFastCache(cache.FastCacheConfig{})
	audit := NewAuditService(repos.Log, AuditConf{})
	t.Cleanup(audit.Flush)

	return &testEnv{
		repos:   repos,
		svcs:    NewServices(repos, cred, audit, am, fc, cache.Conf{}),
		cache:   fc,
		metrics: am,
	}
}

// seeded 初始化内置数据：角色 1=SuperAdmin 2=Admin 3=User，admin/123456
func seeded(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	require.NoError(t, env.svcs.Seeder.EnsureSeed(context.Background()))
	return env
}
