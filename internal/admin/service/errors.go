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

package service

import "github.com/go-arcade/arcade-admin/pkg/errs"

// 业务错误，调用方用 errors.Is 判断
var (
	ErrInvalidCredentials      = errs.New(errs.KindUnauthorized, "用户名或密码错误")
	ErrUsernameTaken           = errs.New(errs.KindConflict, "用户名已存在")
	ErrUserNotFound            = errs.New(errs.KindNotFound, "用户不存在")
	ErrProtectedAccount        = errs.New(errs.KindConflict, "不能删除系统管理员")
	ErrOldPasswordMismatch     = errs.New(errs.KindValidation, "旧密码不正确")
	ErrPasswordConfirmMismatch = errs.New(errs.KindValidation, "新密码和确认密码不一致")
	ErrCodeTaken               = errs.New(errs.KindConflict, "编码已存在")
	ErrParentCycle             = errs.New(errs.KindValidation, "上级节点不能是自身或其下级")
	ErrParentNotFound          = errs.New(errs.KindValidation, "上级节点不存在")
	ErrHasChildren             = errs.New(errs.KindConflict, "存在下级节点，不能删除")
	ErrDepartmentInUse         = errs.New(errs.KindConflict, "部门下存在用户，不能删除")
	ErrRoleNotFound            = errs.New(errs.KindNotFound, "角色不存在")
	ErrMenuNotFound            = errs.New(errs.KindNotFound, "菜单不存在")
	ErrDepartmentNotFound      = errs.New(errs.KindNotFound, "部门不存在")
)
