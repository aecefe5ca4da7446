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
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) logRouter(r fiber.Router, auth fiber.Handler) {
	logGroup := r.Group("/logs", auth)
	{
		logGroup.Get("/login", rt.loginLogs)
		logGroup.Get("/operation", rt.operationLogs)
	}
}

func (rt *Router) loginLogs(c *fiber.Ctx) error {
	pageIndex, pageSize := queryPage(c)
	page, err := rt.Services.Audit.GetLoginLogs(c.UserContext(), pageIndex, pageSize, c.Query("userName"))
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, page)
	return nil
}

func (rt *Router) operationLogs(c *fiber.Ctx) error {
	pageIndex, pageSize := queryPage(c)
	page, err := rt.Services.Audit.GetOperationLogs(c.UserContext(), pageIndex, pageSize, c.Query("module"))
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, page)
	return nil
}
