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

	"github.com/go-arcade/arcade-admin/internal/admin/consts"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func login(env *testEnv, userName, password string) (*model.LoginResp, error) {
	return env.svcs.User.Login(context.Background(), &model.LoginReq{UserName: userName, Password: password, Ip: "10.0.0.1"})
}

func TestUserService_LoginSeededAdmin(t *testing.T) {
	env := seeded(t)

	resp, err := login(env, "admin", "123456")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleSuperAdmin}, resp.User.Roles)
	assert.Equal(t, "admin", resp.User.UserName)
	assert.Equal(t, "总公司", resp.User.DepartmentName)

	claims, err := env.svcs.Credential.ParseToken(resp.Token)
	require.NoError(t, err)
	id, ok := claims.UserId()
	require.True(t, ok)
	assert.Equal(t, resp.User.Id, id)
	assert.Equal(t, []string{model.RoleSuperAdmin}, claims.Roles)

	user, err := env.repos.User.GetById(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, user.LastLoginTime)
	assert.Equal(t, "10.0.0.1", user.LastLoginIp)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LoginTotal.WithLabelValues(metrics.LoginSuccess)))
}

func TestUserService_LoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	_, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{
		UserName: "carol", Password: "abc123", Status: model.UserStatusDisabled,
	})
	require.NoError(t, err)

	cases := []struct {
		name, user, pass string
	}{
		{"wrong password", "admin", "654321"},
		{"unknown user", "nobody", "123456"},
		{"disabled account", "carol", "abc123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := login(env, tc.user, tc.pass)
			require.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Equal(t, "用户名或密码错误", errs.Message(err))
		})
	}

	_, err = login(env, "", "")
	assert.True(t, errs.IsValidation(err))

	env.svcs.Audit.Flush()
	page, err := env.svcs.Audit.GetLoginLogs(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
	for _, l := range page.Items {
		assert.False(t, l.IsSuccess)
		assert.NotEmpty(t, l.FailureReason)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.LoginTotal.WithLabelValues(metrics.LoginFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.LoginTotal.WithLabelValues(metrics.LoginDisabled)))
}

func TestUserService_UnknownUserStillComparesDigest(t *testing.T) {
	env := seeded(t)
	compares := 0
	env.svcs.Credential.compare = func(digest, plaintext []byte) error {
		compares++
		return bcrypt.CompareHashAndPassword(digest, plaintext)
	}

	_, err := login(env, "nobody", "123456")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, compares)

	_, err = login(env, "admin", "654321")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 2, compares)
}

func TestUserService_LegacyDigestIsRehashedOnLogin(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u, err := env.repos.User.Add(ctx, &model.User{UserName: "legacy", Password: "E10ADC3949BA59ABBE56E057F20F883E"})
	require.NoError(t, err)

	_, err = login(env, "legacy", "123456")
	require.NoError(t, err)

	stored, err := env.repos.User.GetById(ctx, u.Id)
	require.NoError(t, err)
	assert.NotEqual(t, "E10ADC3949BA59ABBE56E057F20F883E", stored.Password)
	assert.False(t, env.svcs.Credential.NeedsRehash(stored.Password))

	_, err = login(env, "legacy", "123456")
	assert.NoError(t, err)
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)

	p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123", RoleIds: []uint64{3}})
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, p.Roles)

	got, err := env.svcs.User.GetById(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, got.Roles)

	resp, err := login(env, "bob", "abc123")
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, resp.User.Roles)

	before, err := env.repos.User.Page(ctx, 1, 100, "")
	require.NoError(t, err)
	_, err = env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "other"})
	require.ErrorIs(t, err, ErrUsernameTaken)
	assert.True(t, errs.IsConflict(err))
	after, err := env.repos.User.Page(ctx, 1, 100, "")
	require.NoError(t, err)
	assert.Equal(t, before.TotalCount, after.TotalCount)

	t.Run("validation", func(t *testing.T) {
		_, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: " ", Password: "x"})
		assert.True(t, errs.IsValidation(err))
		_, err = env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "dave"})
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("dangling and disabled roles", func(t *testing.T) {
		_, err := env.svcs.Role.ToggleRole(ctx, 2, false)
		require.NoError(t, err)
		p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "erin", Password: "x", RoleIds: []uint64{2, 3, 99}})
		require.NoError(t, err)
		assert.Equal(t, []string{model.RoleUser}, p.Roles)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)

	admin, err := env.repos.User.GetByUserName(ctx, "admin")
	require.NoError(t, err)
	ok, err := env.svcs.User.DeleteUser(ctx, admin.Id)
	require.ErrorIs(t, err, ErrProtectedAccount)
	assert.False(t, ok)
	still, err := env.svcs.User.GetById(ctx, admin.Id)
	require.NoError(t, err)
	assert.NotNil(t, still)

	p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123", RoleIds: []uint64{3}})
	require.NoError(t, err)

	ok, err = env.svcs.User.DeleteUser(ctx, p.Id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = env.svcs.User.DeleteUser(ctx, p.Id)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = env.svcs.User.DeleteUser(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	gone, err := env.svcs.User.GetById(ctx, p.Id)
	require.NoError(t, err)
	assert.Nil(t, gone)
	roleIds, err := env.repos.UserRole.RoleIdsOfUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Empty(t, roleIds)

	// 删除后用户名可以再次使用
	taken, err := env.svcs.User.IsUsernameTaken(ctx, "bob", nil)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserService_UpdateUser(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123", RoleIds: []uint64{3}})
	require.NoError(t, err)

	cur, err := env.svcs.User.GetCurrentUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{model.RoleUser}, cur.Roles)

	ok, err := env.svcs.User.UpdateUser(ctx, &model.UpdateUserReq{Id: p.Id, RealName: "Bob", Email: "bob@example.com", RoleIds: []uint64{2}})
	require.NoError(t, err)
	assert.True(t, ok)

	cur, err = env.svcs.User.GetCurrentUser(ctx, p.Id)
	require.NoError(t, err)
	assert.Equal(t, "Bob", cur.RealName)
	assert.Equal(t, []string{model.RoleAdmin}, cur.Roles)

	ok, err = env.svcs.User.UpdateUser(ctx, &model.UpdateUserReq{Id: 9999})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = env.svcs.User.UpdateUser(ctx, &model.UpdateUserReq{Id: p.Id, Status: 7})
	assert.True(t, errs.IsValidation(err))
}

func TestUserService_GetCurrentUserIsCached(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	admin, err := env.repos.User.GetByUserName(ctx, "admin")
	require.NoError(t, err)

	_, err = env.svcs.User.GetCurrentUser(ctx, admin.Id)
	require.NoError(t, err)
	cached, err := env.cache.Get(ctx, consts.UserInfoCacheKey+"1").Result()
	require.NoError(t, err)
	assert.Contains(t, cached, `"userName":"admin"`)

	_, err = env.svcs.User.GetCurrentUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_Passwords(t *testing.T) {
	ctx := context.Background()
	env := seeded(t)
	p, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: "bob", Password: "abc123"})
	require.NoError(t, err)

	err = env.svcs.User.ChangePassword(ctx, p.Id, &model.ChangePasswordReq{OldPassword: "wrong", NewPassword: "n1", ConfirmPassword: "n1"})
	assert.ErrorIs(t, err, ErrOldPasswordMismatch)
	err = env.svcs.User.ChangePassword(ctx, p.Id, &model.ChangePasswordReq{OldPassword: "abc123", NewPassword: "n1", ConfirmPassword: "n2"})
	assert.ErrorIs(t, err, ErrPasswordConfirmMismatch)
	err = env.svcs.User.ChangePassword(ctx, p.Id, &model.ChangePasswordReq{OldPassword: "abc123"})
	assert.True(t, errs.IsValidation(err))
	err = env.svcs.User.ChangePassword(ctx, 9999, &model.ChangePasswordReq{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, env.svcs.User.ChangePassword(ctx, p.Id, &model.ChangePasswordReq{OldPassword: "abc123", NewPassword: "n1", ConfirmPassword: "n1"}))
	_, err = login(env, "bob", "n1")
	require.NoError(t, err)

	ok, err := env.svcs.User.ResetPassword(ctx, p.Id)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = login(env, "bob", "123456")
	require.NoError(t, err)

	ok, err = env.svcs.User.ResetPassword(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserService_GetPagedUsers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	page, err := env.svcs.User.GetPagedUsers(ctx, 1, 10, "")
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalPages)
	assert.False(t, page.HasNextPage)
	assert.False(t, page.HasPreviousPage)

	for _, name := range []string{"alice", "bob", "Alina"} {
		_, err := env.svcs.User.CreateUser(ctx, &model.CreateUserReq{UserName: name, Password: "x"})
		require.NoError(t, err)
	}
	page, err = env.svcs.User.GetPagedUsers(ctx, 1, 10, "ali")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "alice", page.Items[0].UserName)

	_, err = env.svcs.User.GetPagedUsers(ctx, 0, 10, "")
	assert.True(t, errs.IsValidation(err))
}
