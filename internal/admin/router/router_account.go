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
	"github.com/go-arcade/arcade-admin/internal/admin/consts"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/http/middleware"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) accountRouter(r fiber.Router, auth fiber.Handler) {
	accountGroup := r.Group("/account")
	{
		accountGroup.Post("/login", rt.login)

		accountGroup.Post("/logout", auth, rt.operationLog(consts.ModuleAccount, model.OperationLogout, "用户登出"), rt.logout)
		accountGroup.Get("/current", auth, rt.currentUser)
		accountGroup.Post("/password", auth, rt.operationLog(consts.ModuleAccount, model.OperationUpdate, "修改密码", hideParams()), rt.changePassword)
	}
}

func (rt *Router) login(c *fiber.Ctx) error {
	var req model.LoginReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	req.Ip = middleware.ClientIP(c)
	req.UserAgent = c.Get(fiber.HeaderUserAgent)

	resp, err := rt.Services.User.Login(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, resp)
	return nil
}

// logout 令牌无状态，只记录审计日志
func (rt *Router) logout(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserId(c)
	rt.Services.User.Logout(c.UserContext(), userId)
	c.Locals(httpx.OPERATION, "logout")
	return nil
}

func (rt *Router) currentUser(c *fiber.Ctx) error {
	userId, ok := middleware.CurrentUserId(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
	}
	profile, err := rt.Services.User.GetCurrentUser(c.UserContext(), userId)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, profile)
	return nil
}

func (rt *Router) changePassword(c *fiber.Ctx) error {
	userId, ok := middleware.CurrentUserId(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
	}
	var req model.ChangePasswordReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	if err := rt.Services.User.ChangePassword(c.UserContext(), userId, &req); err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.OPERATION, "change password")
	return nil
}
