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

package middleware

import (
	"github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/gofiber/fiber/v2"
)

// UnifiedResponseMiddleware 根据 handler 写入的 Locals 生成统一响应
func UnifiedResponseMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status >= fiber.StatusBadRequest {
			// handler 已写出错误响应
			if len(c.Response().Body()) > 0 {
				return nil
			}
			return http.WithRepErrMsg(c, http.Failed.Code, http.Failed.Msg, c.Path())
		}

		if detail := c.Locals(http.DETAIL); detail != nil {
			return http.WithRepJSON(c, detail)
		}
		if c.Locals(http.OPERATION) != nil {
			return http.WithRepNotDetail(c)
		}
		return nil
	}
}
