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

// 内置角色编码
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleAdmin      = "Admin"
	RoleUser       = "User"
)

type Role struct {
	BaseModel
	RoleName    string `gorm:"column:role_name;size:50;not null" json:"roleName"`
	RoleCode    string `gorm:"column:role_code;size:50;not null;index" json:"roleCode"`
	Description string `gorm:"column:description;size:200" json:"description"`
	Sort        int    `gorm:"column:sort;default:0" json:"sort"`
	IsEnabled   bool   `gorm:"column:is_enabled;not null" json:"isEnabled"`
}

func (Role) TableName() string {
	return "t_role"
}

type RoleReq struct {
	Id          uint64 `json:"id"`
	RoleName    string `json:"roleName"`
	RoleCode    string `json:"roleCode"`
	Description string `json:"description"`
	Sort        int    `json:"sort"`
	IsEnabled   *bool  `json:"isEnabled"`
}

type AssignMenusReq struct {
	MenuIds []uint64 `json:"menuIds"`
}
