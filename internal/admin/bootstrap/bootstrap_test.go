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

package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/internal/admin/router"
	"github.com/go-arcade/arcade-admin/internal/admin/service"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/database"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/go-arcade/arcade-admin/pkg/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestApp(t *testing.T, dbConf database.Database, auditConf service.AuditConf) *App {
	t.Helper()
	m, err := database.NewManager(dbConf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	db := database.NewDatabaseAdapter(m)
	repos := repo.NewRepositories(db)

	httpConf := &httpx.Http{Auth: httpx.Auth{Secret: "bootstrap-test-secret-bootstrap", BcryptCost: bcrypt.MinCost}}
	httpConf.SetDefaults()
	cred, err := service.NewCredentialService(httpConf.Auth)
	require.NoError(t, err)

	server := metrics.NewServer(metrics.MetricsConfig{})
	am, err := metrics.NewAdminMetrics(server.GetRegistry())
	require.NoError(t, err)

	svcs := service.NewServices(repos, cred, service.NewAuditService(repos.Log, auditConf), am,
		cache.NewFastCache(cache.FastCacheConfig{}), cache.Conf{})

	logger, err := log.ProvideLogger(log.SetDefaults())
	require.NoError(t, err)

	app, cleanup, err := NewApp(router.NewRouter(httpConf, svcs, am), logger, httpConf, server, am, svcs, db, dbConf, trace.Conf{})
	require.NoError(t, err)
	t.Cleanup(cleanup)
	return app
}

func sqliteConf(t *testing.T) database.Database {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return database.Database{
		Driver:      database.DriverSQLite,
		AutoMigrate: true,
		AutoSeed:    true,
		SQLite:      database.SQLiteConfig{DSN: fmt.Sprintf("file:boot_%s?mode=memory&cache=shared", name)},
	}
}

func TestPrepare_MigratesAndSeeds(t *testing.T) {
	app := newTestApp(t, sqliteConf(t), service.AuditConf{})
	ctx := context.Background()

	require.NoError(t, app.Prepare(ctx))
	// 重复执行不报错
	require.NoError(t, app.Prepare(ctx))

	resp, err := app.Services.User.Login(ctx, &model.LoginReq{UserName: "admin", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SuperAdmin"}, resp.User.Roles)
}

func TestPrepare_Disabled(t *testing.T) {
	conf := sqliteConf(t)
	conf.AutoMigrate = false
	conf.AutoSeed = false
	app := newTestApp(t, conf, service.AuditConf{})

	require.NoError(t, app.Prepare(context.Background()))
	assert.False(t, app.DB.Database().Migrator().HasTable("t_user"))
}

func TestNewApp_RegistersRetention(t *testing.T) {
	app := newTestApp(t, sqliteConf(t), service.AuditConf{RetentionDays: 30})

	var names []string
	for _, e := range app.Cron.Entries() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, service.RetentionJobName)
}

func TestNewApp_NoRetention(t *testing.T) {
	app := newTestApp(t, sqliteConf(t), service.AuditConf{})
	assert.Empty(t, app.Cron.Entries())
}
