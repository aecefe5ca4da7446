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
	"github.com/gofiber/fiber/v2"
)

const roleNotExist = "角色不存在"

func (rt *Router) roleRouter(r fiber.Router, auth fiber.Handler) {
	roleGroup := r.Group("/roles", auth)
	{
		roleGroup.Get("/page", rt.pageRoles)
		roleGroup.Get("/:id", rt.getRole)
		roleGroup.Get("/:id/menus", rt.getRoleMenus)

		roleGroup.Post("/", rt.operationLog(consts.ModuleRole, model.OperationCreate, "新增角色"), rt.createRole)
		roleGroup.Put("/", rt.operationLog(consts.ModuleRole, model.OperationUpdate, "修改角色"), rt.updateRole)
		roleGroup.Delete("/:id", rt.operationLog(consts.ModuleRole, model.OperationDelete, "删除角色"), rt.deleteRole)
		roleGroup.Put("/:id/toggle", rt.operationLog(consts.ModuleRole, model.OperationUpdate, "启用/停用角色"), rt.toggleRole)
		// 整体替换角色的菜单集合
		roleGroup.Put("/:id/menus", rt.operationLog(consts.ModuleRole, model.OperationUpdate, "分配菜单"), rt.assignRoleMenus)
	}
}

func (rt *Router) pageRoles(c *fiber.Ctx) error {
	pageIndex, pageSize := queryPage(c)
	page, err := rt.Services.Role.ListRoles(c.UserContext(), pageIndex, pageSize, c.Query("keyword"))
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, page)
	return nil
}

func (rt *Router) getRole(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	role, err := rt.Services.Role.GetRole(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if role == nil {
		return notFound(c, roleNotExist)
	}
	c.Locals(httpx.DETAIL, role)
	return nil
}

func (rt *Router) createRole(c *fiber.Ctx) error {
	var req model.RoleReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	role, err := rt.Services.Role.CreateRole(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, role)
	return nil
}

func (rt *Router) updateRole(c *fiber.Ctx) error {
	var req model.RoleReq
	if err := c.BodyParser(&req); err != nil || req.Id == 0 {
		return badParam(c)
	}
	ok, err := rt.Services.Role.UpdateRole(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !ok {
		return notFound(c, roleNotExist)
	}
	c.Locals(httpx.OPERATION, "update role")
	return nil
}

func (rt *Router) deleteRole(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	deleted, err := rt.Services.Role.DeleteRole(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !deleted {
		return notFound(c, roleNotExist)
	}
	c.Locals(httpx.OPERATION, "delete role")
	return nil
}

func (rt *Router) toggleRole(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	var req struct {
		IsEnabled *bool `json:"isEnabled"`
	}
	if err := c.BodyParser(&req); err != nil || req.IsEnabled == nil {
		return badParam(c)
	}
	toggled, err := rt.Services.Role.ToggleRole(c.UserContext(), id, *req.IsEnabled)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !toggled {
		return notFound(c, roleNotExist)
	}
	c.Locals(httpx.OPERATION, "toggle role")
	return nil
}

func (rt *Router) getRoleMenus(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	ids, err := rt.Services.Role.GetRoleMenus(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, ids)
	return nil
}

func (rt *Router) assignRoleMenus(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	var req model.AssignMenusReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	if err := rt.Services.Role.AssignMenus(c.UserContext(), id, req.MenuIds); err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.OPERATION, "assign menus")
	return nil
}
