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

type UserStatus int

const (
	UserStatusNormal   UserStatus = 0
	UserStatusDisabled UserStatus = 1
)

func (s UserStatus) Valid() bool {
	return s == UserStatusNormal || s == UserStatusDisabled
}

type User struct {
	BaseModel
	UserName      string      `gorm:"column:user_name;size:50;not null;index" json:"userName"`
	Password      string      `gorm:"column:password;size:100;not null" json:"-"`
	RealName      string      `gorm:"column:real_name;size:50" json:"realName"`
	Phone         string      `gorm:"column:phone;size:20" json:"phone"`
	Email         string      `gorm:"column:email;size:100" json:"email"`
	Avatar        string      `gorm:"column:avatar;size:500" json:"avatar"`
	Status        UserStatus  `gorm:"column:status;not null;default:0" json:"status"`
	DepartmentId  *uint64     `gorm:"column:department_id;index" json:"departmentId"`
	LastLoginTime *time.Time  `gorm:"column:last_login_time" json:"lastLoginTime"`
	LastLoginIp   string      `gorm:"column:last_login_ip;size:50" json:"lastLoginIp"`
	Department    *Department `gorm:"foreignKey:DepartmentId" json:"-"`
	UserRoles     []UserRole  `gorm:"foreignKey:UserId" json:"-"`
}

func (User) TableName() string {
	return "t_user"
}

// EnabledRoleCodes 只统计已启用且未删除的角色，顺序与关联一致
func (u *User) EnabledRoleCodes() []string {
	codes := make([]string, 0, len(u.UserRoles))
	for _, ur := range u.UserRoles {
		if ur.Role == nil || ur.Role.IsDeleted || !ur.Role.IsEnabled {
			continue
		}
		codes = append(codes, ur.Role.RoleCode)
	}
	return codes
}

// UserProfile 对外展示的用户信息，不包含密码摘要
type UserProfile struct {
	Id             uint64     `json:"id"`
	UserName       string     `json:"userName"`
	RealName       string     `json:"realName"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email"`
	Avatar         string     `json:"avatar"`
	Status         UserStatus `json:"status"`
	DepartmentId   *uint64    `json:"departmentId"`
	DepartmentName string     `json:"departmentName"`
	Roles          []string   `json:"roles"`
	LastLoginTime  *time.Time `json:"lastLoginTime"`
	LastLoginIp    string     `json:"lastLoginIp"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (u *User) Profile() UserProfile {
	p := UserProfile{
		Id:            u.Id,
		UserName:      u.UserName,
		RealName:      u.RealName,
		Phone:         u.Phone,
		Email:         u.Email,
		Avatar:        u.Avatar,
		Status:        u.Status,
		DepartmentId:  u.DepartmentId,
		Roles:         u.EnabledRoleCodes(),
		LastLoginTime: u.LastLoginTime,
		LastLoginIp:   u.LastLoginIp,
		CreatedAt:     u.CreatedAt,
	}
	if u.Department != nil && !u.Department.IsDeleted {
		p.DepartmentName = u.Department.DepartmentName
	}
	return p
}

type CreateUserReq struct {
	UserName     string     `json:"userName"`
	Password     string     `json:"password"`
	RealName     string     `json:"realName"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Status       UserStatus `json:"status"`
	DepartmentId *uint64    `json:"departmentId"`
	RoleIds      []uint64   `json:"roleIds"`
}

type UpdateUserReq struct {
	Id           uint64     `json:"id"`
	RealName     string     `json:"realName"`
	Phone        string     `json:"phone"`
	Email        string     `json:"email"`
	Status       UserStatus `json:"status"`
	DepartmentId *uint64    `json:"departmentId"`
	RoleIds      []uint64   `json:"roleIds"`
}

type LoginReq struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
	// 以下由接口层填充
	Ip        string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResp struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

type ChangePasswordReq struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
