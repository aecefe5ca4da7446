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
)

// UserRole 用户角色关联，联合主键
type UserRole struct {
	UserId    uint64    `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"userId"`
	RoleId    uint64    `gorm:"column:role_id;primaryKey;autoIncrement:false;index" json:"roleId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	Role      *Role     `gorm:"foreignKey:RoleId" json:"-"`
}

func (UserRole) TableName() string {
	return "t_user_role"
}

// RoleMenu 角色菜单关联，联合主键
type RoleMenu struct {
	RoleId    uint64    `gorm:"column:role_id;primaryKey;autoIncrement:false" json:"roleId"`
	MenuId    uint64    `gorm:"column:menu_id;primaryKey;autoIncrement:false;index" json:"menuId"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (RoleMenu) TableName() string {
	return "t_role_menu"
}
