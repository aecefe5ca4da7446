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

type IDepartmentRepository interface {
	GetById(ctx context.Context, id uint64) (*model.Department, error)
	ListAll(ctx context.Context) ([]model.Department, error)
	ExistsCode(ctx context.Context, code string, excludingId *uint64) (bool, error)
	CountChildren(ctx context.Context, parentId uint64) (int64, error)
	Add(ctx context.Context, dept *model.Department) (*model.Department, error)
	Update(ctx context.Context, dept *model.Department) error
	DeleteById(ctx context.Context, id uint64) error
}

type DepartmentRepo struct {
	*database.Repository[model.Department, *model.Department]
}

func NewDepartmentRepo(db *gorm.DB) IDepartmentRepository {
	return &DepartmentRepo{Repository: database.NewRepository[model.Department](db)}
}

func (r *DepartmentRepo) ListAll(ctx context.Context) ([]model.Department, error) {
	return r.GetWhere(ctx, database.OrderBy("sort, id"))
}

func (r *DepartmentRepo) ExistsCode(ctx context.Context, code string, excludingId *uint64) (bool, error) {
	return r.Exists(ctx, database.Eq("department_code", code), excludeId(excludingId))
}

func (r *DepartmentRepo) CountChildren(ctx context.Context, parentId uint64) (int64, error) {
	return r.Count(ctx, database.Eq("parent_id", parentId))
}
