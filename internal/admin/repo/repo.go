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
	"github.com/go-arcade/arcade-admin/pkg/database"
	"gorm.io/gorm"
)

// Repositories 业务仓储集合，审计日志可能位于独立数据源
type Repositories struct {
	db         database.IDatabase
	primary    *gorm.DB
	User       IUserRepository
	Role       IRoleRepository
	Menu       IMenuRepository
	Department IDepartmentRepository
	UserRole   IUserRoleRepository
	RoleMenu   IRoleMenuRepository
	Log        ILogRepository
}

func NewRepositories(db database.IDatabase) *Repositories {
	r := newRepositories(db.Database())
	r.db = db
	r.Log = NewLogRepo(db.AuditDatabase())
	return r
}

func newRepositories(primary *gorm.DB) *Repositories {
	return &Repositories{
		primary:    primary,
		User:       NewUserRepo(primary),
		Role:       NewRoleRepo(primary),
		Menu:       NewMenuRepo(primary),
		Department: NewDepartmentRepo(primary),
		UserRole:   NewUserRoleRepo(primary),
		RoleMenu:   NewRoleMenuRepo(primary),
	}
}

// DB 主库连接，用于开启事务
func (r *Repositories) DB() *gorm.DB {
	return r.primary
}

// WithTx 返回绑定到事务的主库仓储，审计仓储保持不变
func (r *Repositories) WithTx(tx *gorm.DB) *Repositories {
	out := newRepositories(tx)
	out.db = r.db
	out.Log = r.Log
	return out
}
