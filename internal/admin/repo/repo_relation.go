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

package repo

import (
	"context"
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"gorm.io/gorm"
)

// 关联表没有软删除，解除关联即物理删除

type IUserRoleRepository interface {
	// ReplaceForUser 用给定角色集合覆盖用户原有角色
	ReplaceForUser(ctx context.Context, userId uint64, roleIds []uint64) error
	DeleteByUser(ctx context.Context, userId uint64) error
	DeleteByRole(ctx context.Context, roleId uint64) error
	RoleIdsOfUser(ctx context.Context, userId uint64) ([]uint64, error)
	UserIdsOfRole(ctx context.Context, roleId uint64) ([]uint64, error)
}

type UserRoleRepo struct {
	db *gorm.DB
}

func NewUserRoleRepo(db *gorm.DB) IUserRoleRepository {
	return &UserRoleRepo{db: db}
}

func (r *UserRoleRepo) ReplaceForUser(ctx context.Context, userId uint64, roleIds []uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userId).Delete(&model.UserRole{}).Error; err != nil {
		return errs.Storage(err, "clear user roles")
	}
	ids := uniqueIds(roleIds)
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	links := make([]model.UserRole, 0, len(ids))
	for _, id := range ids {
		links = append(links, model.UserRole{UserId: userId, RoleId: id, CreatedAt: now})
	}
	if err := db.Omit("Role").Create(&links).Error; err != nil {
		return errs.Storage(err, "assign user roles")
	}
	return nil
}

func (r *UserRoleRepo) DeleteByUser(ctx context.Context, userId uint64) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UserRole{}).Error; err != nil {
		return errs.Storage(err, "delete user roles by user")
	}
	return nil
}

func (r *UserRoleRepo) DeleteByRole(ctx context.Context, roleId uint64) error {
	if err := r.db.WithContext(ctx).Where("role_id = ?", roleId).Delete(&model.UserRole{}).Error; err != nil {
		return errs.Storage(err, "delete user roles by role")
	}
	return nil
}

func (r *UserRoleRepo) RoleIdsOfUser(ctx context.Context, userId uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("user_id = ?", userId).Order("role_id").Pluck("role_id", &ids).Error
	if err != nil {
		return nil, errs.Storage(err, "list user roles")
	}
	return ids, nil
}

func (r *UserRoleRepo) UserIdsOfRole(ctx context.Context, roleId uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	err := r.db.WithContext(ctx).Model(&model.UserRole{}).
		Where("role_id = ?", roleId).Order("user_id").Pluck("user_id", &ids).Error
	if err != nil {
		return nil, errs.Storage(err, "list role users")
	}
	return ids, nil
}

type IRoleMenuRepository interface {
	ReplaceForRole(ctx context.Context, roleId uint64, menuIds []uint64) error
	DeleteByRole(ctx context.Context, roleId uint64) error
	DeleteByMenu(ctx context.Context, menuId uint64) error
	MenuIdsOfRole(ctx context.Context, roleId uint64) ([]uint64, error)
	// MenuIdsOfRoles 多个角色菜单的并集
	MenuIdsOfRoles(ctx context.Context, roleIds []uint64) ([]uint64, error)
}

type RoleMenuRepo struct {
	db *gorm.DB
}

func NewRoleMenuRepo(db *gorm.DB) IRoleMenuRepository {
	return &RoleMenuRepo{db: db}
}

func (r *RoleMenuRepo) ReplaceForRole(ctx context.Context, roleId uint64, menuIds []uint64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("role_id = ?", roleId).Delete(&model.RoleMenu{}).Error; err != nil {
		return errs.Storage(err, "clear role menus")
	}
	ids := uniqueIds(menuIds)
	if len(ids) == 0 {
		return nil
	}
	now := time.Now()
	links := make([]model.RoleMenu, 0, len(ids))
	for _, id := range ids {
		links = append(links, model.RoleMenu{RoleId: roleId, MenuId: id, CreatedAt: now})
	}
	if err := db.Create(&links).Error; err != nil {
		return errs.Storage(err, "assign role menus")
	}
	return nil
}

func (r *RoleMenuRepo) DeleteByRole(ctx context.Context, roleId uint64) error {
	if err := r.db.WithContext(ctx).Where("role_id = ?", roleId).Delete(&model.RoleMenu{}).Error; err != nil {
		return errs.Storage(err, "delete role menus by role")
	}
	return nil
}

func (r *RoleMenuRepo) DeleteByMenu(ctx context.Context, menuId uint64) error {
	if err := r.db.WithContext(ctx).Where("menu_id = ?", menuId).Delete(&model.RoleMenu{}).Error; err != nil {
		return errs.Storage(err, "delete role menus by menu")
	}
	return nil
}

func (r *RoleMenuRepo) MenuIdsOfRole(ctx context.Context, roleId uint64) ([]uint64, error) {
	return r.MenuIdsOfRoles(ctx, []uint64{roleId})
}

func (r *RoleMenuRepo) MenuIdsOfRoles(ctx context.Context, roleIds []uint64) ([]uint64, error) {
	ids := make([]uint64, 0)
	roleIds = uniqueIds(roleIds)
	if len(roleIds) == 0 {
		return ids, nil
	}
	err := r.db.WithContext(ctx).Model(&model.RoleMenu{}).
		Where("role_id IN ?", roleIds).Distinct("menu_id").Order("menu_id").Pluck("menu_id", &ids).Error
	if err != nil {
		return nil, errs.Storage(err, "list role menus")
	}
	return ids, nil
}
