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

package model

import (
	"time"

	"github.com/go-arcade/arcade-admin/pkg/database"
)

// BaseModel 除关联表外所有实体共用的字段
type BaseModel struct {
	Id        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time  `gorm:"column:created_at;not null" json:"createdAt"`
	CreatedBy *uint64    `gorm:"column:created_by" json:"createdBy,omitempty"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt,omitempty"`
	UpdatedBy *uint64    `gorm:"column:updated_by" json:"updatedBy,omitempty"`
	IsDeleted bool       `gorm:"column:is_deleted;not null;index" json:"-"`
}

func (m *BaseModel) GetId() uint64 {
	return m.Id
}

func (m *BaseModel) MarkCreated(at time.Time, by *uint64) {
	m.CreatedAt = at
	m.CreatedBy = by
}

func (m *BaseModel) MarkUpdated(at time.Time, by *uint64) {
	m.UpdatedAt = &at
	m.UpdatedBy = by
}

func (m *BaseModel) MarkDeleted(at time.Time, by *uint64) {
	m.IsDeleted = true
	m.MarkUpdated(at, by)
}

func init() {
	database.RegisterModels(
		&User{},
		&Role{},
		&Menu{},
		&Department{},
		&UserRole{},
		&RoleMenu{},
	)
	database.RegisterAuditModels(
		&OperationLog{},
		&LoginLog{},
	)
}
