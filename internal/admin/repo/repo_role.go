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

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"gorm.io/gorm"
)

type IRoleRepository interface {
	GetById(ctx context.Context, id uint64) (*model.Role, error)
	GetByCode(ctx context.Context, code string) (*model.Role, error)
	GetByIds(ctx context.Context, ids []uint64) ([]model.Role, error)
	ListEnabled(ctx context.Context) ([]model.Role, error)
	ExistsCode(ctx context.Context, code string, excludingId *uint64) (bool, error)
	Page(ctx context.Context, pageIndex, pageSize int, keyword string) (*database.PagedResult[model.Role], error)
	Add(ctx context.Context, role *model.Role) (*model.Role, error)
	Update(ctx context.Context, role *model.Role) error
	DeleteById(ctx context.Context, id uint64) error
}

type RoleRepo struct {
	*database.Repository[model.Role, *model.Role]
}

func NewRoleRepo(db *gorm.DB) IRoleRepository {
	return &RoleRepo{Repository: database.NewRepository[model.Role](db)}
}

func (r *RoleRepo) GetByCode(ctx context.Context, code string) (*model.Role, error) {
	return r.First(ctx, database.Eq("role_code", code))
}

func (r *RoleRepo) GetByIds(ctx context.Context, ids []uint64) ([]model.Role, error) {
	return r.GetWhere(ctx, database.In("id", uniqueIds(ids)))
}

func (r *RoleRepo) ListEnabled(ctx context.Context) ([]model.Role, error) {
	return r.GetWhere(ctx, database.Eq("is_enabled", true), database.OrderBy("sort, id"))
}

func (r *RoleRepo) ExistsCode(ctx context.Context, code string, excludingId *uint64) (bool, error) {
	return r.Exists(ctx, database.Eq("role_code", code), excludeId(excludingId))
}

func (r *RoleRepo) Page(ctx context.Context, pageIndex, pageSize int, keyword string) (*database.PagedResult[model.Role], error) {
	return r.GetPage(ctx, pageIndex, pageSize,
		containsAny(keyword, "role_name", "role_code"),
		database.OrderBy("sort, id"),
	)
}
