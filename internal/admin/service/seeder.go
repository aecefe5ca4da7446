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

package service

import (
	"context"

	"github.com/go-arcade/arcade-admin/internal/admin/consts"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var seedRoles = []model.Role{
	{RoleName: "超级管理员", RoleCode: model.RoleSuperAdmin, Description: "系统超级管理员，拥有所有权限", Sort: 1, IsEnabled: true},
	{RoleName: "管理员", RoleCode: model.RoleAdmin, Description: "系统管理员", Sort: 2, IsEnabled: true},
	{RoleName: "普通用户", RoleCode: model.RoleUser, Description: "普通用户", Sort: 3, IsEnabled: true},
}

var seedDepartment = model.Department{
	DepartmentName: "总公司", DepartmentCode: "HQ", Sort: 1, IsEnabled: true, Description: "总公司",
}

type seedMenu struct {
	menu   model.Menu
	parent string
}

// 父菜单必须排在子菜单之前
var seedMenus = []seedMenu{
	{menu: model.Menu{MenuName: "系统管理", MenuCode: "System", MenuType: model.MenuTypeCatalog, Path: "/system", Icon: "setting", Sort: 1}},
	{parent: "System", menu: model.Menu{MenuName: "用户管理", MenuCode: "System:User", MenuType: model.MenuTypeMenu, Path: "/system/user", Component: "system/user/index", Icon: "user", Sort: 1}},
	{parent: "System", menu: model.Menu{MenuName: "角色管理", MenuCode: "System:Role", MenuType: model.MenuTypeMenu, Path: "/system/role", Component: "system/role/index", Icon: "team", Sort: 2}},
	{parent: "System", menu: model.Menu{MenuName: "菜单管理", MenuCode: "System:Menu", MenuType: model.MenuTypeMenu, Path: "/system/menu", Component: "system/menu/index", Icon: "menu", Sort: 3}},
	{parent: "System", menu: model.Menu{MenuName: "部门管理", MenuCode: "System:Department", MenuType: model.MenuTypeMenu, Path: "/system/department", Component: "system/department/index", Icon: "apartment", Sort: 4}},
	{menu: model.Menu{MenuName: "日志管理", MenuCode: "Log", MenuType: model.MenuTypeCatalog, Path: "/log", Icon: "file-text", Sort: 2}},
	{parent: "Log", menu: model.Menu{MenuName: "操作日志", MenuCode: "Log:Operation", MenuType: model.MenuTypeMenu, Path: "/log/operation", Component: "log/operation/index", Icon: "file-text", Sort: 1}},
	{parent: "Log", menu: model.Menu{MenuName: "登录日志", MenuCode: "Log:Login", MenuType: model.MenuTypeMenu, Path: "/log/login", Component: "log/login/index", Icon: "login", Sort: 2}},
}

// Seeder 初始化内置角色、部门、管理员与系统菜单，可重复执行
type Seeder struct {
	repos *repo.Repositories
	cred  *CredentialService
}

func NewSeeder(repos *repo.Repositories, cred *CredentialService) *Seeder {
	return &Seeder{repos: repos, cred: cred}
}

func (s *Seeder) EnsureSeed(ctx context.Context) error {
	return database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		r := s.repos.WithTx(tx)

		roles := make(map[string]*model.Role, len(seedRoles))
		for _, seed := range seedRoles {
			role, err := r.Role.GetByCode(ctx, seed.RoleCode)
			if err != nil {
				return err
			}
			if role == nil {
				role = new(model.Role)
				*role = seed
				if _, err := r.Role.Add(ctx, role); err != nil {
					return err
				}
				log.Infow("seed role created", "roleCode", role.RoleCode)
			}
			roles[seed.RoleCode] = role
		}

		dept, err := s.ensureDepartment(ctx, r)
		if err != nil {
			return err
		}
		if err := s.ensureAdmin(ctx, r, dept, roles[model.RoleSuperAdmin]); err != nil {
			return err
		}
		menuIds, err := s.ensureMenus(ctx, r)
		if err != nil {
			return err
		}

		// 超级管理员补齐系统菜单，保留已有授权
		superAdmin := roles[model.RoleSuperAdmin].Id
		granted, err := r.RoleMenu.MenuIdsOfRole(ctx, superAdmin)
		if err != nil {
			return err
		}
		return r.RoleMenu.ReplaceForRole(ctx, superAdmin, append(granted, menuIds...))
	})
}

func (s *Seeder) ensureDepartment(ctx context.Context, r *repo.Repositories) (*model.Department, error) {
	depts, err := r.Department.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range depts {
		if depts[i].DepartmentCode == seedDepartment.DepartmentCode {
			return &depts[i], nil
		}
	}
	dept := seedDepartment
	if _, err := r.Department.Add(ctx, &dept); err != nil {
		return nil, err
	}
	log.Infow("seed department created", "departmentCode", dept.DepartmentCode)
	return &dept, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, r *repo.Repositories, dept *model.Department, superAdmin *model.Role) error {
	admin, err := r.User.GetByUserName(ctx, consts.ProtectedUserName)
	if err != nil {
		return err
	}
	if admin != nil {
		return nil
	}
	digest, err := s.cred.HashPassword(s.cred.DefaultPassword())
	if err != nil {
		return errors.Wrap(err, "hash default password")
	}
	admin = &model.User{
		UserName:     consts.ProtectedUserName,
		Password:     digest,
		RealName:     "系统管理员",
		Email:        "admin@admin.com",
		Status:       model.UserStatusNormal,
		DepartmentId: &dept.Id,
	}
	if _, err := r.User.Add(ctx, admin); err != nil {
		return err
	}
	log.Infow("seed admin user created", "userId", admin.Id)
	return r.UserRole.ReplaceForUser(ctx, admin.Id, []uint64{superAdmin.Id})
}

func (s *Seeder) ensureMenus(ctx context.Context, r *repo.Repositories) ([]uint64, error) {
	byCode := make(map[string]uint64, len(seedMenus))
	ids := make([]uint64, 0, len(seedMenus))
	for _, seed := range seedMenus {
		menu, err := r.Menu.GetByCode(ctx, seed.menu.MenuCode)
		if err != nil {
			return nil, err
		}
		if menu == nil {
			menu = new(model.Menu)
			*menu = seed.menu
			menu.IsVisible = true
			menu.IsEnabled = true
			if seed.parent != "" {
				pid := byCode[seed.parent]
				menu.ParentId = &pid
			}
			if _, err := r.Menu.Add(ctx, menu); err != nil {
				return nil, err
			}
			log.Infow("seed menu created", "menuCode", menu.MenuCode)
		}
		byCode[menu.MenuCode] = menu.Id
		ids = append(ids, menu.Id)
	}
	return ids, nil
}
