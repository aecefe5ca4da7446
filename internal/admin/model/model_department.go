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

type Department struct {
	BaseModel
	DepartmentName string  `gorm:"column:department_name;size:50;not null" json:"departmentName"`
	DepartmentCode string  `gorm:"column:department_code;size:50;not null;index" json:"departmentCode"`
	ParentId       *uint64 `gorm:"column:parent_id;index" json:"parentId"`
	ManagerId      *uint64 `gorm:"column:manager_id" json:"managerId"`
	Phone          string  `gorm:"column:phone;size:20" json:"phone"`
	Email          string  `gorm:"column:email;size:100" json:"email"`
	Sort           int     `gorm:"column:sort;default:0" json:"sort"`
	IsEnabled      bool    `gorm:"column:is_enabled;not null" json:"isEnabled"`
	Description    string  `gorm:"column:description;size:500" json:"description"`
}

func (Department) TableName() string {
	return "t_department"
}

func (d Department) GetParentId() *uint64 {
	return d.ParentId
}

type DepartmentReq struct {
	Id             uint64  `json:"id"`
	DepartmentName string  `json:"departmentName"`
	DepartmentCode string  `json:"departmentCode"`
	ParentId       *uint64 `json:"parentId"`
	ManagerId      *uint64 `json:"managerId"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Sort           int     `json:"sort"`
	IsEnabled      *bool   `json:"isEnabled"`
	Description    string  `json:"description"`
}

type DepartmentNode struct {
	Department
	Children []*DepartmentNode `json:"children"`
}
