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
	"os/signal"
	"syscall"
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/router"
	"github.com/go-arcade/arcade-admin/internal/admin/service"
	"github.com/go-arcade/arcade-admin/pkg/cron"
	"github.com/go-arcade/arcade-admin/pkg/database"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/go-arcade/arcade-admin/pkg/trace"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"
)

type App struct {
	HttpApp       *fiber.App
	HttpConf      *httpx.Http
	MetricsServer *metrics.Server
	Cron          *cron.Cron
	Services      *service.Services
	DB            database.IDatabase
	DatabaseConf  database.Database
	TraceConf     trace.Conf
	Logger        *log.Logger
}

// InitAppFunc wire 生成的初始化函数
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	httpConf *httpx.Http,
	metricsServer *metrics.Server,
	adminMetrics *metrics.AdminMetrics,
	services *service.Services,
	db database.IDatabase,
	dbConf database.Database,
	traceConf trace.Conf,
) (*App, func(), error) {
	scheduler := cron.New(cron.WithRecorder(adminMetrics))
	if err := services.Audit.RegisterRetention(scheduler); err != nil {
		return nil, nil, err
	}

	app := &App{
		HttpApp:       rt.Router(),
		HttpConf:      httpConf,
		MetricsServer: metricsServer,
		Cron:          scheduler,
		Services:      services,
		DB:            db,
		DatabaseConf:  dbConf,
		TraceConf:     traceConf,
		Logger:        logger,
	}

	cleanup := func() {
		scheduler.Stop()
		// 等待尚未落库的审计日志
		services.Audit.Flush()
		_ = log.Sync()
	}
	return app, cleanup, nil
}

// Bootstrap init app, return App instance and cleanup function
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}
	return app, cleanup, nil
}

// Migrate 建表，审计表在配置了 ClickHouse 时建在 ClickHouse
func (a *App) Migrate() error {
	start := time.Now()
	if err := database.AutoMigrate(a.DB); err != nil {
		return err
	}
	log.Infow("database migrated", "driver", a.DatabaseConf.Driver, "duration", time.Since(start).String())
	return nil
}

// Seed 写入内置角色、部门、菜单和管理员账号，可重复执行
func (a *App) Seed(ctx context.Context) error {
	return a.Services.Seeder.EnsureSeed(ctx)
}

// Prepare 按配置自动建表与初始化数据
func (a *App) Prepare(ctx context.Context) error {
	if a.DatabaseConf.AutoMigrate {
		if err := a.Migrate(); err != nil {
			return err
		}
	}
	if a.DatabaseConf.AutoSeed {
		if err := a.Seed(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) error {
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	_, shutdownTracer, err := trace.InitTracerProvider(ctx, app.TraceConf)
	if err != nil {
		return err
	}
	defer shutdownTracer()

	if err := app.Prepare(ctx); err != nil {
		return err
	}

	app.Cron.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := app.HttpConf.Addr()
		log.Infow("HTTP listener started", "address", addr)
		if err := app.HttpApp.Listen(addr); err != nil {
			log.Errorw("HTTP listener failed", "address", addr, "error", err)
			return err
		}
		return nil
	})
	g.Go(app.MetricsServer.Serve)
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down gracefully", "cause", context.Cause(gctx))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(app.HttpConf.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := app.HttpApp.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorw("HTTP server shutdown error", "error", err)
		} else {
			log.Info("HTTP server shut down gracefully")
		}
		if err := app.MetricsServer.Stop(shutdownCtx); err != nil {
			log.Errorw("metrics server shutdown error", "error", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info("Server shutdown complete")
	return err
}
