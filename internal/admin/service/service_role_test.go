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

import (
	"context"
	"testing"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleService_CodeUniqueness(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)

	_, err := env.svcs.Role.CreateRole(ctx, &model.RoleReq{RoleName: "重复", RoleCode: model.RoleAdmin})
	require.ErrorIs(t, err, ErrCodeTaken)

	r, err := env.svcs.Role.CreateRole(ctx, &model.RoleReq{RoleName: "审计员", RoleCode: "Auditor"})
	require.NoError(t, err)
	assert.True(t, r.IsEnabled)

	_, err = env.svcs.Role.UpdateRole(ctx, &model.RoleReq{Id: r.Id, RoleName: "审计员", RoleCode: model.RoleUser})
	require.ErrorIs(t, err, ErrCodeTaken)

	ok, err := env.svcs.Role.UpdateRole(ctx, &model.RoleReq{Id: r.Id, RoleName: "审计", RoleCode: "Auditor"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = env.svcs.Role.CreateRole(ctx, &model.RoleReq{RoleName: "x"})
	assert.True(t, errs.IsValidation(err))

	page, err := env.svcs.Role.ListRoles(ctx, 1, 10, "Aud")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "审计", page.Items[0].RoleName)
}

func TestRoleService_DeleteCascadesJunctions(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)

	p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123", RoleIds: []uint64{2, 3}})
	require.NoError(t, err)
	require.NoError(t, env.svcs.Role.AssignMenus(ctx, 2, []uint64{1, 2}))

	ids, err := env.svcs.Role.GetRoleMenus(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)

	ok, err := env.svcs.Role.DeleteRole(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	roleIds, err := env.repos.UserRole.RoleIdsOfUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, roleIds)
	menuIds, err := env.repos.RoleMenu.MenuIdsOfRole(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, menuIds)

	_, err = env.svcs.Role.GetRoleMenus(ctx, 2)
	assert.ErrorIs(t, err, ErrRoleNotFound)
	ok, err = env.svcs.Role.DeleteRole(ctx, 2)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRoleService_ToggleAffectsLogin(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	_, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123", RoleIds: []uint64{2, 3}})
	require.NoError(t, err)

	ok, err := env.svcs.Role.ToggleRole(ctx, 3, false)
	require.NoError(t, err)
	assert.True(t, ok)

	resp, err := login(env, "bob", "abc123")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleAdmin}, resp.User.Roles)
}

func TestRoleService_RoleChangesRefreshCachedProfile(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123", RoleIds: []uint64{2, 3}})
	require.NoError(t, err)

	users, err := env.repos.UserRole.UserIdsOfRole(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []uint64{p.Id}, users)

	cur, err := env.svcs.User.GetCurrentUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleAdmin, model.RoleUser}, cur.Roles)

	_, err = env.svcs.Role.ToggleRole(ctx, 3, false)
	require.NoError(t, err)
	cur, err = env.svcs.User.GetCurrentUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleAdmin}, cur.Roles)

	_, err = env.svcs.Role.UpdateRole(ctx, &model.RoleReq{Id: 2, RoleName: "管理员", RoleCode: "Operator"})
	require.NoError(t, err)
	cur, err = env.svcs.User.GetCurrentUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Operator"}, cur.Roles)

	_, err = env.svcs.Role.DeleteRole(ctx, 2)
	require.NoError(t, err)
	cur, err = env.svcs.User.GetCurrentUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Empty(t, cur.Roles)
}
