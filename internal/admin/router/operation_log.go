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
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

const (
	maxParamsLen   = 2000
	maxResponseLen = 2000
	maxErrorLen    = 1000
)

type opOption func(*opSpec)

type opSpec struct {
	hideParams bool
}

// hideParams 请求体包含密码时不记录
func hideParams() opOption {
	return func(s *opSpec) { s.hideParams = true }
}

// operationLog 记录写操作，挂在需要审计的路由上，位于授权中间件之后
func (rt *Router) operationLog(module string, op model.OperationType, content string, opts ...opOption) fiber.Handler {
	spec := &opSpec{}
	for _, o := range opts {
		o(spec)
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		entry := &model.OperationLog{
			OperationType: op,
			Module:        module,
			Content:       content,
			RequestUrl:    truncate(c.OriginalURL(), 500),
			RequestMethod: c.Method(),
			IpAddress:     middleware.ClientIP(c),
			Browser:       truncate(c.Get(fiber.HeaderUserAgent), 100),
			Duration:      time.Since(start).Milliseconds(),
		}
		if claims, ok := middleware.Claims(c); ok {
			if id, ok := claims.UserId(); ok {
				entry.UserId = &id
			}
			entry.UserName = claims.Name
		}
		if !spec.hideParams {
			entry.RequestParams = truncate(string(c.Body()), maxParamsLen)
		}

		switch {
		case err != nil:
			entry.ErrorMessage = truncate(err.Error(), maxErrorLen)
		case c.Locals(httpx.DETAIL) != nil || c.Locals(httpx.OPERATION) != nil:
			entry.IsSuccess = true
			if detail, ok := c.Locals(httpx.DETAIL).(string); ok {
				entry.Response = truncate(detail, maxResponseLen)
			}
		default:
			// handler 已写出失败响应
			entry.ErrorMessage = truncate(string(c.Response().Body()), maxErrorLen)
		}

		rt.Services.Audit.RecordOperation(c.UserContext(), entry)
		return err
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
