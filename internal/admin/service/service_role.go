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
	"strings"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ProfileInvalidator 清理指定用户的资料缓存
type ProfileInvalidator func(ctx context.Context, userIds ...uint64)

// RoleService 角色的启停、编码变更和删除会清理该角色下所有用户的资料缓存
type RoleService struct {
	repos      *repo.Repositories
	invalidate ProfileInvalidator
}

func NewRoleService(repos *repo.Repositories, invalidate ProfileInvalidator) *RoleService {
	if invalidate == nil {
		invalidate = func(context.Context, ...uint64) {}
	}
	return &RoleService{repos: repos, invalidate: invalidate}
}

// roleUsers 需要在解除关联之前取出
func (s *RoleService) roleUsers(ctx context.Context, roleId uint64) ([]uint64, error) {
	return s.repos.UserRole.UserIdsOfRole(ctx, roleId)
}

func (s *RoleService) ListRoles(ctx context.Context, pageIndex, pageSize int, keyword string) (*database.PagedResult[model.Role], error) {
	return s.repos.Role.Page(ctx, pageIndex, pageSize, strings.TrimSpace(keyword))
}

func (s *RoleService) GetRole(ctx context.Context, id uint64) (*model.Role, error) {
	return s.repos.Role.GetById(ctx, id)
}

func validateRole(req *model.RoleReq) error {
	if strings.TrimSpace(req.RoleName) == "" {
		return errs.Validation("角色名称不能为空")
	}
	if strings.TrimSpace(req.RoleCode) == "" {
		return errs.Validation("角色编码不能为空")
	}
	return nil
}

func (s *RoleService) CreateRole(ctx context.Context, req *model.RoleReq) (*model.Role, error) {
	if err := validateRole(req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.RoleCode)
	taken, err := s.repos.Role.ExistsCode(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.WithStack(ErrCodeTaken)
	}

	role := &model.Role{
		RoleName:    strings.TrimSpace(req.RoleName),
		RoleCode:    code,
		Description: req.Description,
		Sort:        req.Sort,
		IsEnabled:   req.IsEnabled == nil || *req.IsEnabled,
	}
	if _, err := s.repos.Role.Add(ctx, role); err != nil {
		return nil, err
	}
	log.Infow("role created", "roleId", role.Id, "roleCode", role.RoleCode)
	return role, nil
}

func (s *RoleService) UpdateRole(ctx context.Context, req *model.RoleReq) (bool, error) {
	if err := validateRole(req); err != nil {
		return false, err
	}
	role, err := s.repos.Role.GetById(ctx, req.Id)
	if err != nil || role == nil {
		return false, err
	}
	code := strings.TrimSpace(req.RoleCode)
	if code != role.RoleCode {
		taken, err := s.repos.Role.ExistsCode(ctx, code, &role.Id)
		if err != nil {
			return false, err
		}
		if taken {
			return false, errors.WithStack(ErrCodeTaken)
		}
	}

	role.RoleName = strings.TrimSpace(req.RoleName)
	role.RoleCode = code
	role.Description = req.Description
	role.Sort = req.Sort
	if req.IsEnabled != nil {
		role.IsEnabled = *req.IsEnabled
	}
	users, err := s.roleUsers(ctx, role.Id)
	if err != nil {
		return false, err
	}
	if err := s.repos.Role.Update(ctx, role); err != nil {
		return false, err
	}
	s.invalidate(ctx, users...)
	log.Infow("role updated", "roleId", role.Id)
	return true, nil
}

// DeleteRole 软删除角色并解除与用户、菜单的关联
func (s *RoleService) DeleteRole(ctx context.Context, id uint64) (bool, error) {
	role, err := s.repos.Role.GetById(ctx, id)
	if err != nil || role == nil {
		return false, err
	}
	users, err := s.roleUsers(ctx, id)
	if err != nil {
		return false, err
	}
	err = database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		txRepos := s.repos.WithTx(tx)
		if err := txRepos.Role.DeleteById(ctx, id); err != nil {
			return err
		}
		if err := txRepos.UserRole.DeleteByRole(ctx, id); err != nil {
			return err
		}
		return txRepos.RoleMenu.DeleteByRole(ctx, id)
	})
	if err != nil {
		return false, err
	}
	s.invalidate(ctx, users...)
	log.Infow("role deleted", "roleId", id, "users", len(users))
	return true, nil
}

func (s *RoleService) ToggleRole(ctx context.Context, id uint64, enabled bool) (bool, error) {
	role, err := s.repos.Role.GetById(ctx, id)
	if err != nil || role == nil {
		return false, err
	}
	if role.IsEnabled == enabled {
		return true, nil
	}
	users, err := s.roleUsers(ctx, id)
	if err != nil {
		return false, err
	}
	role.IsEnabled = enabled
	if err := s.repos.Role.Update(ctx, role); err != nil {
		return false, err
	}
	s.invalidate(ctx, users...)
	log.Infow("role toggled", "roleId", id, "enabled", enabled)
	return true, nil
}

func (s *RoleService) GetRoleMenus(ctx context.Context, id uint64) ([]uint64, error) {
	role, err := s.repos.Role.GetById(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, errors.WithStack(ErrRoleNotFound)
	}
	return s.repos.RoleMenu.MenuIdsOfRole(ctx, id)
}

// AssignMenus 整体替换角色的菜单集合
func (s *RoleService) AssignMenus(ctx context.Context, id uint64, menuIds []uint64) error {
	role, err := s.repos.Role.GetById(ctx, id)
	if err != nil {
		return err
	}
	if role == nil {
		return errors.WithStack(ErrRoleNotFound)
	}
	err = database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		return s.repos.WithTx(tx).RoleMenu.ReplaceForRole(ctx, id, menuIds)
	})
	if err != nil {
		return err
	}
	log.Infow("role menus assigned", "roleId", id, "count", len(menuIds))
	return nil
}
