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

const menuNotExist = "菜单不存在"

func (rt *Router) menuRouter(r fiber.Router, auth fiber.Handler) {
	menuGroup := r.Group("/menus", auth)
	{
		menuGroup.Get("/tree", rt.menuTree)
		menuGroup.Get("/user-tree", rt.userMenuTree)
		menuGroup.Get("/permissions", rt.userPermissions)
		menuGroup.Get("/:id", rt.getMenu)

		menuGroup.Post("/", rt.operationLog(consts.ModuleMenu, model.OperationCreate, "新增菜单"), rt.createMenu)
		menuGroup.Put("/", rt.operationLog(consts.ModuleMenu, model.OperationUpdate, "修改菜单"), rt.updateMenu)
		menuGroup.Delete("/:id", rt.operationLog(consts.ModuleMenu, model.OperationDelete, "删除菜单"), rt.deleteMenu)
	}
}

func (rt *Router) menuTree(c *fiber.Ctx) error {
	tree, err := rt.Services.Menu.GetMenuTree(c.UserContext())
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, tree)
	return nil
}

func (rt *Router) userMenuTree(c *fiber.Ctx) error {
	userId, ok := middleware.CurrentUserId(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
	}
	tree, err := rt.Services.Menu.GetUserMenuTree(c.UserContext(), userId)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, tree)
	return nil
}

func (rt *Router) userPermissions(c *fiber.Ctx) error {
	userId, ok := middleware.CurrentUserId(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.InvalidToken.Code, httpx.InvalidToken.Msg, c.Path())
	}
	codes, err := rt.Services.Menu.GetUserPermissions(c.UserContext(), userId)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, codes)
	return nil
}

func (rt *Router) getMenu(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	menu, err := rt.Services.Menu.GetMenu(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if menu == nil {
		return notFound(c, menuNotExist)
	}
	c.Locals(httpx.DETAIL, menu)
	return nil
}

func (rt *Router) createMenu(c *fiber.Ctx) error {
	var req model.MenuReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	menu, err := rt.Services.Menu.CreateMenu(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, menu)
	return nil
}

func (rt *Router) updateMenu(c *fiber.Ctx) error {
	var req model.MenuReq
	if err := c.BodyParser(&req); err != nil || req.Id == 0 {
		return badParam(c)
	}
	ok, err := rt.Services.Menu.UpdateMenu(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !ok {
		return notFound(c, menuNotExist)
	}
	c.Locals(httpx.OPERATION, "update menu")
	return nil
}

func (rt *Router) deleteMenu(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	deleted, err := rt.Services.Menu.DeleteMenu(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !deleted {
		return notFound(c, menuNotExist)
	}
	c.Locals(httpx.OPERATION, "delete menu")
	return nil
}
