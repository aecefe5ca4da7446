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

type MenuType int

const (
	MenuTypeCatalog MenuType = 0
	MenuTypeMenu    MenuType = 1
	MenuTypeButton  MenuType = 2
)

func (t MenuType) Valid() bool {
	return t >= MenuTypeCatalog && t <= MenuTypeButton
}

// Menu 菜单与按钮权限点
type Menu struct {
	BaseModel
	MenuName  string   `gorm:"column:menu_name;size:50;not null" json:"menuName"`
	MenuCode  string   `gorm:"column:menu_code;size:100;not null;index" json:"menuCode"`
	MenuType  MenuType `gorm:"column:menu_type;not null" json:"menuType"`
	ParentId  *uint64  `gorm:"column:parent_id;index" json:"parentId"`
	Path      string   `gorm:"column:path;size:200" json:"path"`
	Component string   `gorm:"column:component;size:200" json:"component"`
	Icon      string   `gorm:"column:icon;size:100" json:"icon"`
	Sort      int      `gorm:"column:sort;default:0" json:"sort"`
	IsVisible bool     `gorm:"column:is_visible;not null" json:"isVisible"`
	IsEnabled bool     `gorm:"column:is_enabled;not null" json:"isEnabled"`
	Remark    string   `gorm:"column:remark;size:500" json:"remark"`
}

func (Menu) TableName() string {
	return "t_menu"
}

// GetParentId 供树构建使用
func (m Menu) GetParentId() *uint64 {
	return m.ParentId
}

type MenuReq struct {
	Id        uint64   `json:"id"`
	MenuName  string   `json:"menuName"`
	MenuCode  string   `json:"menuCode"`
	MenuType  MenuType `json:"menuType"`
	ParentId  *uint64  `json:"parentId"`
	Path      string   `json:"path"`
	Component string   `json:"component"`
	Icon      string   `json:"icon"`
	Sort      int      `json:"sort"`
	IsVisible *bool    `json:"isVisible"`
	IsEnabled *bool    `json:"isEnabled"`
	Remark    string   `json:"remark"`
}

type MenuNode struct {
	Menu
	Children []*MenuNode `json:"children"`
}
