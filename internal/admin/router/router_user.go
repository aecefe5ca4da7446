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
	"fmt"
	"strconv"

	"github.com/go-arcade/arcade-admin/internal/admin/consts"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) userRouter(r fiber.Router, auth fiber.Handler) {
	userGroup := r.Group("/users", auth)
	{
		// 静态路径需在 /:id 之前注册
		userGroup.Get("/page", rt.pageUsers)
		userGroup.Get("/check-username", rt.checkUserName)
		userGroup.Get("/:id", rt.getUser)

		userGroup.Post("/", rt.operationLog(consts.ModuleUser, model.OperationCreate, "新增用户", hideParams()), rt.createUser)
		userGroup.Put("/", rt.operationLog(consts.ModuleUser, model.OperationUpdate, "修改用户"), rt.updateUser)
		userGroup.Delete("/:id", rt.operationLog(consts.ModuleUser, model.OperationDelete, "删除用户"), rt.deleteUser)
		userGroup.Post("/:id/reset-password", rt.operationLog(consts.ModuleUser, model.OperationUpdate, "重置密码"), rt.resetPassword)
	}
}

func (rt *Router) pageUsers(c *fiber.Ctx) error {
	pageIndex, pageSize := queryPage(c)
	page, err := rt.Services.User.GetPagedUsers(c.UserContext(), pageIndex, pageSize, c.Query("keyword"))
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, page)
	return nil
}

func (rt *Router) checkUserName(c *fiber.Ctx) error {
	userName := c.Query("userName")
	if userName == "" {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, "用户名不能为空", c.Path())
	}
	var excludingId *uint64
	if raw := c.Query("excludeId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badParam(c)
		}
		excludingId = &id
	}
	taken, err := rt.Services.User.IsUsernameTaken(c.UserContext(), userName, excludingId)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, fiber.Map{"exists": taken})
	return nil
}

func (rt *Router) getUser(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	profile, err := rt.Services.User.GetById(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if profile == nil {
		return notFound(c, httpx.UserNotExist.Msg)
	}
	c.Locals(httpx.DETAIL, profile)
	return nil
}

func (rt *Router) createUser(c *fiber.Ctx) error {
	var req model.CreateUserReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	profile, err := rt.Services.User.CreateUser(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, profile)
	return nil
}

func (rt *Router) updateUser(c *fiber.Ctx) error {
	var req model.UpdateUserReq
	if err := c.BodyParser(&req); err != nil || req.Id == 0 {
		return badParam(c)
	}
	ok, err := rt.Services.User.UpdateUser(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !ok {
		return notFound(c, httpx.UserNotExist.Msg)
	}
	c.Locals(httpx.OPERATION, "update user")
	return nil
}

func (rt *Router) deleteUser(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	deleted, err := rt.Services.User.DeleteUser(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !deleted {
		return notFound(c, httpx.UserNotExist.Msg)
	}
	c.Locals(httpx.OPERATION, "delete user")
	return nil
}

func (rt *Router) resetPassword(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	reset, err := rt.Services.User.ResetPassword(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !reset {
		return notFound(c, httpx.UserNotExist.Msg)
	}
	msg := "重置密码成功"
	if rt.Http.Auth.DefaultPasswordDigest == "" {
		msg = fmt.Sprintf("重置密码成功，新密码为：%s", rt.Services.Credential.DefaultPassword())
	}
	c.Locals(httpx.DETAIL, msg)
	return nil
}
