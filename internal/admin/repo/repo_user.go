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
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"gorm.io/gorm"
)

type IUserRepository interface {
	WithTx(tx *gorm.DB) IUserRepository
	GetById(ctx context.Context, id uint64) (*model.User, error)
	// GetDetail 附带部门与角色
	GetDetail(ctx context.Context, id uint64) (*model.User, error)
	GetByUserName(ctx context.Context, userName string) (*model.User, error)
	ExistsUserName(ctx context.Context, userName string, excludingId *uint64) (bool, error)
	Page(ctx context.Context, pageIndex, pageSize int, keyword string) (*database.PagedResult[model.User], error)
	CountByDepartment(ctx context.Context, departmentId uint64) (int64, error)
	Add(ctx context.Context, user *model.User) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	DeleteById(ctx context.Context, id uint64) error
}

type UserRepo struct {
	*database.Repository[model.User, *model.User]
}

func NewUserRepo(db *gorm.DB) IUserRepository {
	return &UserRepo{Repository: database.NewRepository[model.User](db)}
}

func (r *UserRepo) WithTx(tx *gorm.DB) IUserRepository {
	return &UserRepo{Repository: r.Repository.WithTx(tx)}
}

func withRelations() []database.Condition {
	return []database.Condition{
		database.Preload("Department"),
		database.Preload("UserRoles", func(tx *gorm.DB) *gorm.DB { return tx.Order("role_id") }),
		database.Preload("UserRoles.Role"),
	}
}

func (r *UserRepo) GetDetail(ctx context.Context, id uint64) (*model.User, error) {
	return r.First(ctx, append(withRelations(), database.Eq("id", id))...)
}

func (r *UserRepo) GetByUserName(ctx context.Context, userName string) (*model.User, error) {
	return r.First(ctx, append(withRelations(), database.Eq("user_name", userName))...)
}

func (r *UserRepo) ExistsUserName(ctx context.Context, userName string, excludingId *uint64) (bool, error) {
	return r.Exists(ctx, database.Eq("user_name", userName), excludeId(excludingId))
}

func (r *UserRepo) CountByDepartment(ctx context.Context, departmentId uint64) (int64, error) {
	return r.Count(ctx, database.Eq("department_id", departmentId))
}

// Page 关键字匹配用户名、姓名、手机号、邮箱，按创建时间倒序
func (r *UserRepo) Page(ctx context.Context, pageIndex, pageSize int, keyword string) (*database.PagedResult[model.User], error) {
	page, err := r.GetPage(ctx, pageIndex, pageSize,
		containsAny(keyword, "user_name", "real_name", "phone", "email"),
		database.OrderBy("created_at DESC, id DESC"),
	)
	if err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, page.Items); err != nil {
		return nil, err
	}
	return page, nil
}

// loadRelations 为一页用户批量加载部门与角色
func (r *UserRepo) loadRelations(ctx context.Context, users []model.User) error {
	if len(users) == 0 {
		return nil
	}
	userIds := make([]uint64, 0, len(users))
	deptIds := make([]uint64, 0, len(users))
	for _, u := range users {
		userIds = append(userIds, u.Id)
		if u.DepartmentId != nil {
			deptIds = append(deptIds, *u.DepartmentId)
		}
	}

	db := database.ReadDB(r.DB().WithContext(ctx))

	var links []model.UserRole
	if err := db.Preload("Role").Where("user_id IN ?", userIds).Order("role_id").Find(&links).Error; err != nil {
		return errs.Storage(err, "load user roles")
	}
	rolesByUser := make(map[uint64][]model.UserRole, len(users))
	for _, l := range links {
		rolesByUser[l.UserId] = append(rolesByUser[l.UserId], l)
	}

	deptById := make(map[uint64]*model.Department)
	if ids := uniqueIds(deptIds); len(ids) > 0 {
		var depts []model.Department
		if err := db.Where("id IN ?", ids).Find(&depts).Error; err != nil {
			return errs.Storage(err, "load user departments")
		}
		for i := range depts {
			deptById[depts[i].Id] = &depts[i]
		}
	}

	for i := range users {
		users[i].UserRoles = rolesByUser[users[i].Id]
		if users[i].DepartmentId != nil {
			users[i].Department = deptById[*users[i].DepartmentId]
		}
	}
	return nil
}
