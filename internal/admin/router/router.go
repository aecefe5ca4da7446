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

package router

import (
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/arcade-admin/internal/admin/service"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/http/middleware"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/go-arcade/arcade-admin/pkg/trace"
	"github.com/go-arcade/arcade-admin/pkg/version"
	"github.com/gofiber/fiber/v2"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
)

type Router struct {
	Http     *httpx.Http
	Services *service.Services
	Metrics  *metrics.AdminMetrics
}

func NewRouter(httpConf *httpx.Http, services *service.Services, adminMetrics *metrics.AdminMetrics) *Router {
	return &Router{
		Http:     httpConf,
		Services: services,
		Metrics:  adminMetrics,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Arcade Admin",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
		BodyLimit:             rt.Http.BodyLimit,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          errorHandler,
		// 审计日志异步写入，请求值不能复用底层缓冲
		Immutable: true,
	})

	app.Use(
		fiberrecover.New(),
		middleware.CorsMiddleware(),
		middleware.RequestMiddleware(),
		middleware.RealIPMiddleware(),
		trace.FiberMiddleware(),
		rt.Metrics.FiberMiddleware(),
		middleware.AccessLogMiddleware(rt.Http),
		middleware.TimeoutMiddleware(rt.Http.GetRequestTimeout()),
		middleware.UnifiedResponseMiddleware(),
		middleware.ExceptionMiddleware,
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	auth := middleware.AuthorizationMiddleware(rt.Services.Credential.JwtOptions())
	rt.accountRouter(api, auth)
	rt.userRouter(api, auth)
	rt.roleRouter(api, auth)
	rt.menuRouter(api, auth)
	rt.departmentRouter(api, auth)
	rt.logRouter(api, auth)

	// 必须在所有路由注册之后
	app.Use(func(c *fiber.Ctx) error {
		return httpx.WithRepErrMsg(c.Status(fiber.StatusNotFound), httpx.NotFound.Code, "request path not found", c.Path())
	})

	return app
}

// errorHandler 处理中间件链返回的错误
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return httpx.WithRepErrMsg(c.Status(fe.Code), fe.Code, fe.Message, c.Path())
	}
	c.Status(fiber.StatusInternalServerError)
	return httpx.WithRepErr(c, err)
}
