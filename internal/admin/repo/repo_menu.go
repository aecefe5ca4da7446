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

type IMenuRepository interface {
	GetById(ctx context.Context, id uint64) (*model.Menu, error)
	GetByCode(ctx context.Context, code string) (*model.Menu, error)
	// ListAll 按 sort、id 升序
	ListAll(ctx context.Context) ([]model.Menu, error)
	ListByIds(ctx context.Context, ids []uint64) ([]model.Menu, error)
	ExistsCode(ctx context.Context, code string, excludingId *uint64) (bool, error)
	CountChildren(ctx context.Context, parentId uint64) (int64, error)
	Add(ctx context.Context, menu *model.Menu) (*model.Menu, error)
	Update(ctx context.Context, menu *model.Menu) error
	DeleteById(ctx context.Context, id uint64) error
}

type MenuRepo struct {
	*database.Repository[model.Menu, *model.Menu]
}

func NewMenuRepo(db *gorm.DB) IMenuRepository {
	return &MenuRepo{Repository: database.NewRepository[model.Menu](db)}
}

func (r *MenuRepo) GetByCode(ctx context.Context, code string) (*model.Menu, error) {
	return r.First(ctx, database.Eq("menu_code", code))
}

func (r *MenuRepo) ListAll(ctx context.Context) ([]model.Menu, error) {
	return r.GetWhere(ctx, database.OrderBy("sort, id"))
}

func (r *MenuRepo) ListByIds(ctx context.Context, ids []uint64) ([]model.Menu, error) {
	return r.GetWhere(ctx, database.In("id", uniqueIds(ids)), database.OrderBy("sort, id"))
}

func (r *MenuRepo) ExistsCode(ctx context.Context, code string, excludingId *uint64) (bool, error) {
	return r.Exists(ctx, database.Eq("menu_code", code), excludeId(excludingId))
}

func (r *MenuRepo) CountChildren(ctx context.Context, parentId uint64) (int64, error) {
	return r.Count(ctx, database.Eq("parent_id", parentId))
}
