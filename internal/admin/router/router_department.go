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

const departmentNotExist = "部门不存在"

func (rt *Router) departmentRouter(r fiber.Router, auth fiber.Handler) {
	deptGroup := r.Group("/departments", auth)
	{
		deptGroup.Get("/tree", rt.departmentTree)
		deptGroup.Get("/:id", rt.getDepartment)

		deptGroup.Post("/", rt.operationLog(consts.ModuleDepartment, model.OperationCreate, "新增部门"), rt.createDepartment)
		deptGroup.Put("/", rt.operationLog(consts.ModuleDepartment, model.OperationUpdate, "修改部门"), rt.updateDepartment)
		deptGroup.Delete("/:id", rt.operationLog(consts.ModuleDepartment, model.OperationDelete, "删除部门"), rt.deleteDepartment)
	}
}

func (rt *Router) departmentTree(c *fiber.Ctx) error {
	tree, err := rt.Services.Department.GetDepartmentTree(c.UserContext())
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, tree)
	return nil
}

func (rt *Router) getDepartment(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	dept, err := rt.Services.Department.GetDepartment(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if dept == nil {
		return notFound(c, departmentNotExist)
	}
	c.Locals(httpx.DETAIL, dept)
	return nil
}

func (rt *Router) createDepartment(c *fiber.Ctx) error {
	var req model.DepartmentReq
	if err := c.BodyParser(&req); err != nil {
		return badParam(c)
	}
	dept, err := rt.Services.Department.CreateDepartment(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	c.Locals(httpx.DETAIL, dept)
	return nil
}

func (rt *Router) updateDepartment(c *fiber.Ctx) error {
	var req model.DepartmentReq
	if err := c.BodyParser(&req); err != nil || req.Id == 0 {
		return badParam(c)
	}
	ok, err := rt.Services.Department.UpdateDepartment(c.UserContext(), &req)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !ok {
		return notFound(c, departmentNotExist)
	}
	c.Locals(httpx.OPERATION, "update department")
	return nil
}

func (rt *Router) deleteDepartment(c *fiber.Ctx) error {
	id, ok := paramId(c)
	if !ok {
		return badParam(c)
	}
	deleted, err := rt.Services.Department.DeleteDepartment(c.UserContext(), id)
	if err != nil {
		return httpx.WithRepErr(c, err)
	}
	if !deleted {
		return notFound(c, departmentNotExist)
	}
	c.Locals(httpx.OPERATION, "delete department")
	return nil
}
