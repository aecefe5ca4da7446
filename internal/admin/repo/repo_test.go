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
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRepos(t *testing.T) *Repositories {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	m, err := database.NewManager(database.Database{
		Driver: database.DriverSQLite,
		SQLite: database.SQLiteConfig{DSN: fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name)},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	db := database.NewDatabaseAdapter(m)
	require.NoError(t, database.AutoMigrate(db))
	return NewRepositories(db)
}

func addUser(t *testing.T, repos *Repositories, u *model.User) *model.User {
	t.Helper()
	if u.Password == "" {
		u.Password = "x"
	}
	out, err := repos.User.Add(context.Background(), u)
	require.NoError(t, err)
	return out
}

func TestUserRepo_GetByUserNameLoadsRelations(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	dept, err := repos.Department.Add(ctx, &model.Department{DepartmentName: "研发部", DepartmentCode: "RD", IsEnabled: true})
	require.NoError(t, err)
	admin, err := repos.Role.Add(ctx, &model.Role{RoleName: "管理员", RoleCode: model.RoleAdmin, IsEnabled: true})
	require.NoError(t, err)
	off, err := repos.Role.Add(ctx, &model.Role{RoleName: "停用", RoleCode: "Off", IsEnabled: false})
	require.NoError(t, err)

	u := addUser(t, repos, &model.User{UserName: "alice", DepartmentId: &dept.Id})
	require.NoError(t, repos.UserRole.ReplaceForUser(ctx, u.Id, []uint64{off.Id, admin.Id, admin.Id}))

	got, err := repos.User.GetByUserName(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Department)
	assert.Equal(t, "研发部", got.Department.DepartmentName)
	assert.Len(t, got.UserRoles, 2)
	assert.Equal(t, []string{model.RoleAdmin}, got.EnabledRoleCodes())

	missing, err := repos.User.GetByUserName(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_ExistsUserName(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	u := addUser(t, repos, &model.User{UserName: "alice"})

	exists, err := repos.User.ExistsUserName(ctx, "alice", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repos.User.ExistsUserName(ctx, "alice", &u.Id)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repos.User.DeleteById(ctx, u.Id))
	exists, err = repos.User.ExistsUserName(ctx, "alice", nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestUserRepo_PageKeywordIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	addUser(t, repos, &model.User{UserName: "Alice", RealName: "爱丽丝"})
	addUser(t, repos, &model.User{UserName: "bob", Email: "alice@example.com"})
	addUser(t, repos, &model.User{UserName: "carol", Phone: "13800000000"})

	page, err := repos.User.Page(ctx, 1, 10, "alice")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob", page.Items[0].UserName)

	page, err = repos.User.Page(ctx, 1, 10, "138")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "carol", page.Items[0].UserName)

	page, err = repos.User.Page(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
}

func TestUserRepo_PageOrdersNewestFirstAndLoadsRoles(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	role, err := repos.Role.Add(ctx, &model.Role{RoleName: "用户", RoleCode: model.RoleUser, IsEnabled: true})
	require.NoError(t, err)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		u := addUser(t, repos, &model.User{UserName: fmt.Sprintf("u%d", i)})
		require.NoError(t, repos.DB().Model(&model.User{}).Where("id = ?", u.Id).
			Update("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
		require.NoError(t, repos.UserRole.ReplaceForUser(ctx, u.Id, []uint64{role.Id}))
	}

	page, err := repos.User.Page(ctx, 2, 2, "")
	require.NoError(t, err)
	assert.EqualValues(t, 5, page.TotalCount)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "u2", page.Items[0].UserName)
	assert.Equal(t, "u1", page.Items[1].UserName)
	assert.Equal(t, []string{model.RoleUser}, page.Items[0].EnabledRoleCodes())

	page, err = repos.User.Page(ctx, 9, 2, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.EqualValues(t, 5, page.TotalCount)
}

func TestRoleMenuRepo_ReplaceAndUnion(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	require.NoError(t, repos.RoleMenu.ReplaceForRole(ctx, 1, []uint64{3, 1, 3}))
	require.NoError(t, repos.RoleMenu.ReplaceForRole(ctx, 2, []uint64{2, 3}))

	ids, err := repos.RoleMenu.MenuIdsOfRole(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids)

	ids, err = repos.RoleMenu.MenuIdsOfRoles(ctx, []uint64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 3}, ids)

	require.NoError(t, repos.RoleMenu.ReplaceForRole(ctx, 1, nil))
	ids, err = repos.RoleMenu.MenuIdsOfRole(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, repos.RoleMenu.DeleteByMenu(ctx, 3))
	ids, err = repos.RoleMenu.MenuIdsOfRole(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids)
}

func TestMenuRepo_CountChildrenIgnoresDeleted(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	root, err := repos.Menu.Add(ctx, &model.Menu{MenuName: "系统管理", MenuCode: "system"})
	require.NoError(t, err)
	child, err := repos.Menu.Add(ctx, &model.Menu{MenuName: "用户管理", MenuCode: "system:user", ParentId: &root.Id})
	require.NoError(t, err)

	n, err := repos.Menu.CountChildren(ctx, root.Id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repos.Menu.DeleteById(ctx, child.Id))
	n, err = repos.Menu.CountChildren(ctx, root.Id)
	require.NoError(t, err)
	assert.Zero(t, n)

	exists, err := repos.Menu.ExistsCode(ctx, "system:user", nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositories_WithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)

	err := database.Transaction(ctx, repos.DB(), func(tx *gorm.DB) error {
		txRepos := repos.WithTx(tx)
		u, err := txRepos.User.Add(ctx, &model.User{UserName: "alice", Password: "x"})
		if err != nil {
			return err
		}
		if err := txRepos.UserRole.ReplaceForUser(ctx, u.Id, []uint64{1}); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	exists, err := repos.User.ExistsUserName(ctx, "alice", nil)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLogRepo_PageAndPurge(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	now := time.Now()

	for i, name := range []string{"alice", "bob", "alice"} {
		require.NoError(t, repos.Log.AddLogin(ctx, &model.LoginLog{
			UserName:  name,
			LoginTime: now.Add(-time.Duration(i) * 24 * time.Hour * 100),
			IsSuccess: true,
		}))
	}
	require.NoError(t, repos.Log.AddOperation(ctx, &model.OperationLog{Module: "user", Content: "create"}))

	page, err := repos.Log.PageLogin(ctx, 1, 10, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalCount)

	ops, err := repos.Log.PageOperation(ctx, 1, 10, "user")
	require.NoError(t, err)
	assert.EqualValues(t, 1, ops.TotalCount)

	n, err := repos.Log.PurgeBefore(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	page, err = repos.Log.PageLogin(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)

	// 保留策略只做软删除，行仍在表中
	var rows []model.LoginLog
	require.NoError(t, repos.DB().Order("id").Find(&rows).Error)
	require.Len(t, rows, 3)
	assert.False(t, rows[0].IsDeleted)
	assert.True(t, rows[1].IsDeleted)
	assert.True(t, rows[2].IsDeleted)

	n, err = repos.Log.PurgeBefore(ctx, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}
