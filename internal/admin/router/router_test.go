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

package router

import (
	"bytes"
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/internal/admin/service"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/database"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testServer struct {
	app   *fiber.App
	svcs  *service.Services
	token string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	m, err := database.NewManager(database.Database{
		Driver: database.DriverSQLite,
		SQLite: database.SQLiteConfig{DSN: fmt.Sprintf("file:router_%s?mode=memory&cache=shared", name)},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	db := database.NewDatabaseAdapter(m)
	require.NoError(t, database.AutoMigrate(db))
	repos := repo.NewRepositories(db)

	httpConf := &httpx.Http{Auth: httpx.Auth{
		Secret:     "router-test-secret-router-test-secret",
		BcryptCost: bcrypt.MinCost,
	}}
	httpConf.SetDefaults()

	cred, err := service.NewCredentialService(httpConf.Auth)
	require.NoError(t, err)
	am, err := metrics.NewAdminMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	audit := service.NewAuditService(repos.Log, service.AuditConf{})
	t.Cleanup(audit.Flush)

	svcs := service.NewServices(repos, cred, audit, am, cache.NewFastCache(cache.FastCacheConfig{}), cache.Conf{})
	require.NoError(t, svcs.Seeder.EnsureSeed(context.Background()))

	return &testServer{
		app:  NewRouter(httpConf, svcs, am).Router(),
		svcs: svcs,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if s.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, sonic.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T) {
	t.Helper()
	_, out := s.do(t, nethttp.MethodPost, "/api/account/login", model.LoginReq{UserName: "admin", Password: "123456"})
	require.EqualValues(t, 200, out["code"], "login failed: %v", out)
	detail := out["detail"].(map[string]any)
	s.token = detail["token"].(string)
	require.NotEmpty(t, s.token)
}

func detailOf(t *testing.T, out map[string]any) map[string]any {
	t.Helper()
	detail, ok := out["detail"].(map[string]any)
	require.True(t, ok, "unexpected response: %v", out)
	return detail
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, err := s.app.Test(httptest.NewRequest(nethttp.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	t.Run("wrong password", func(t *testing.T) {
		status, out := s.do(t, nethttp.MethodPost, "/api/account/login", model.LoginReq{UserName: "admin", Password: "bad"})
		assert.Equal(t, nethttp.StatusOK, status)
		assert.EqualValues(t, httpx.AuthenticationFailed.Code, out["code"])
		assert.Equal(t, "用户名或密码错误", out["errMsg"])
	})

	t.Run("unknown user gets same message", func(t *testing.T) {
		_, out := s.do(t, nethttp.MethodPost, "/api/account/login", model.LoginReq{UserName: "ghost", Password: "123456"})
		assert.EqualValues(t, httpx.AuthenticationFailed.Code, out["code"])
		assert.Equal(t, "用户名或密码错误", out["errMsg"])
	})

	t.Run("success", func(t *testing.T) {
		_, out := s.do(t, nethttp.MethodPost, "/api/account/login", model.LoginReq{UserName: "admin", Password: "123456"})
		assert.EqualValues(t, httpx.Success.Code, out["code"])
		assert.Equal(t, httpx.Success.Msg, out["msg"])
		detail := detailOf(t, out)
		assert.NotEmpty(t, detail["token"])
		user := detail["user"].(map[string]any)
		assert.Equal(t, "admin", user["userName"])
		assert.Equal(t, []any{"SuperAdmin"}, user["roles"])
	})
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	_, out := s.do(t, nethttp.MethodGet, "/api/account/current", nil)
	assert.EqualValues(t, httpx.TokenBeEmpty.Code, out["code"])

	s.token = "not-a-jwt"
	_, out = s.do(t, nethttp.MethodGet, "/api/users/page", nil)
	assert.EqualValues(t, httpx.InvalidToken.Code, out["code"])
}

func TestCurrentUser(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodGet, "/api/account/current", nil)
	detail := detailOf(t, out)
	assert.Equal(t, "admin", detail["userName"])
	assert.Equal(t, "总公司", detail["departmentName"])
}

func TestNotFoundRoute(t *testing.T) {
	s := newTestServer(t)
	status, out := s.do(t, nethttp.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.EqualValues(t, httpx.NotFound.Code, out["code"])
	assert.Equal(t, "/api/nothing-here", out["path"])
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodPost, "/api/users/", model.CreateUserReq{
		UserName: "alice",
		Password: "secret",
		RealName: "Alice",
		RoleIds:  []uint64{3},
	})
	created := detailOf(t, out)
	assert.Equal(t, "alice", created["userName"])
	assert.Equal(t, []any{"User"}, created["roles"])
	id := uint64(created["id"].(float64))

	_, out = s.do(t, nethttp.MethodPost, "/api/users/", model.CreateUserReq{UserName: "alice", Password: "x"})
	assert.EqualValues(t, httpx.Conflict.Code, out["code"])
	assert.Equal(t, "用户名已存在", out["errMsg"])

	_, out = s.do(t, nethttp.MethodGet, "/api/users/check-username?userName=alice", nil)
	assert.Equal(t, true, detailOf(t, out)["exists"])
	_, out = s.do(t, nethttp.MethodGet, fmt.Sprintf("/api/users/check-username?userName=alice&excludeId=%d", id), nil)
	assert.Equal(t, false, detailOf(t, out)["exists"])

	_, out = s.do(t, nethttp.MethodGet, "/api/users/page?pageIndex=1&pageSize=10&keyword=ali", nil)
	page := detailOf(t, out)
	assert.EqualValues(t, 1, page["totalCount"])

	_, out = s.do(t, nethttp.MethodGet, "/api/users/999", nil)
	assert.EqualValues(t, httpx.NotFound.Code, out["code"])

	_, out = s.do(t, nethttp.MethodGet, "/api/users/abc", nil)
	assert.EqualValues(t, httpx.RequestParameterParsingFailed.Code, out["code"])

	_, out = s.do(t, nethttp.MethodPost, fmt.Sprintf("/api/users/%d/reset-password", id), nil)
	assert.EqualValues(t, httpx.Success.Code, out["code"])
	assert.Equal(t, "重置密码成功，新密码为：123456", out["detail"])

	_, out = s.do(t, nethttp.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	assert.EqualValues(t, httpx.Success.Code, out["code"])
	assert.Nil(t, out["detail"])

	_, out = s.do(t, nethttp.MethodDelete, fmt.Sprintf("/api/users/%d", id), nil)
	assert.EqualValues(t, httpx.NotFound.Code, out["code"])
}

func TestDeleteProtectedAdmin(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodDelete, "/api/users/1", nil)
	assert.EqualValues(t, httpx.Conflict.Code, out["code"])
	assert.Equal(t, "不能删除系统管理员", out["errMsg"])
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodPost, "/api/account/password", model.ChangePasswordReq{
		OldPassword: "wrong", NewPassword: "n1", ConfirmPassword: "n1",
	})
	assert.EqualValues(t, httpx.BadRequest.Code, out["code"])
	assert.Equal(t, "旧密码不正确", out["errMsg"])

	_, out = s.do(t, nethttp.MethodPost, "/api/account/password", model.ChangePasswordReq{
		OldPassword: "123456", NewPassword: "n1", ConfirmPassword: "n1",
	})
	assert.EqualValues(t, httpx.Success.Code, out["code"])

	s.token = ""
	_, out = s.do(t, nethttp.MethodPost, "/api/account/login", model.LoginReq{UserName: "admin", Password: "n1"})
	assert.EqualValues(t, httpx.Success.Code, out["code"])
}

func TestRoleRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodPost, "/api/roles/", model.RoleReq{RoleName: "审计员", RoleCode: "Auditor"})
	role := detailOf(t, out)
	id := uint64(role["id"].(float64))
	assert.Equal(t, true, role["isEnabled"])

	_, out = s.do(t, nethttp.MethodPost, "/api/roles/", model.RoleReq{RoleName: "重复", RoleCode: "Auditor"})
	assert.EqualValues(t, httpx.Conflict.Code, out["code"])

	_, out = s.do(t, nethttp.MethodPut, fmt.Sprintf("/api/roles/%d/menus", id), model.AssignMenusReq{MenuIds: []uint64{2, 1, 2}})
	assert.EqualValues(t, httpx.Success.Code, out["code"])
	_, out = s.do(t, nethttp.MethodGet, fmt.Sprintf("/api/roles/%d/menus", id), nil)
	assert.Equal(t, []any{float64(1), float64(2)}, out["detail"])

	_, out = s.do(t, nethttp.MethodPut, fmt.Sprintf("/api/roles/%d/toggle", id), map[string]any{"isEnabled": false})
	assert.EqualValues(t, httpx.Success.Code, out["code"])
	_, out = s.do(t, nethttp.MethodGet, fmt.Sprintf("/api/roles/%d", id), nil)
	assert.Equal(t, false, detailOf(t, out)["isEnabled"])

	_, out = s.do(t, nethttp.MethodPut, "/api/roles/999/toggle", map[string]any{})
	assert.EqualValues(t, httpx.RequestParameterParsingFailed.Code, out["code"])

	_, out = s.do(t, nethttp.MethodGet, "/api/roles/999/menus", nil)
	assert.EqualValues(t, httpx.NotFound.Code, out["code"])
	assert.Equal(t, "角色不存在", out["errMsg"])

	_, out = s.do(t, nethttp.MethodDelete, fmt.Sprintf("/api/roles/%d", id), nil)
	assert.EqualValues(t, httpx.Success.Code, out["code"])
}

func TestMenuRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodGet, "/api/menus/tree", nil)
	roots, ok := out["detail"].([]any)
	require.True(t, ok)
	assert.Len(t, roots, 2)

	_, out = s.do(t, nethttp.MethodGet, "/api/menus/permissions", nil)
	perms, ok := out["detail"].([]any)
	require.True(t, ok)
	assert.Contains(t, perms, "System:User")

	_, out = s.do(t, nethttp.MethodDelete, "/api/menus/1", nil)
	assert.EqualValues(t, httpx.Conflict.Code, out["code"])
	assert.Equal(t, "存在下级节点，不能删除", out["errMsg"])

	_, out = s.do(t, nethttp.MethodPut, "/api/menus/", model.MenuReq{Id: 1, MenuName: "系统管理", MenuCode: "System", ParentId: ptr(uint64(2))})
	assert.EqualValues(t, httpx.BadRequest.Code, out["code"])
	assert.Equal(t, "上级节点不能是自身或其下级", out["errMsg"])

	_, out = s.do(t, nethttp.MethodGet, "/api/menus/999", nil)
	assert.EqualValues(t, httpx.NotFound.Code, out["code"])
}

func TestDepartmentRoutes(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	_, out := s.do(t, nethttp.MethodPost, "/api/departments/", model.DepartmentReq{DepartmentName: "研发部", DepartmentCode: "RD", ParentId: ptr(uint64(1))})
	dept := detailOf(t, out)
	assert.Equal(t, "研发部", dept["departmentName"])

	_, out = s.do(t, nethttp.MethodGet, "/api/departments/tree", nil)
	roots, ok := out["detail"].([]any)
	require.True(t, ok)
	require.Len(t, roots, 1)
	children := roots[0].(map[string]any)["children"].([]any)
	assert.Len(t, children, 1)

	// 总公司下仍有 admin 与子部门
	_, out = s.do(t, nethttp.MethodDelete, "/api/departments/1", nil)
	assert.EqualValues(t, httpx.Conflict.Code, out["code"])
}

func TestOperationLogRecorded(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	s.do(t, nethttp.MethodDelete, "/api/users/1", nil)
	s.do(t, nethttp.MethodPost, "/api/roles/", model.RoleReq{RoleName: "访客", RoleCode: "Guest"})
	s.svcs.Audit.Flush()

	_, out := s.do(t, nethttp.MethodGet, "/api/logs/operation?module=role", nil)
	page := detailOf(t, out)
	assert.EqualValues(t, 1, page["totalCount"])
	items := page["items"].([]any)
	entry := items[0].(map[string]any)
	assert.Equal(t, true, entry["isSuccess"])
	assert.Equal(t, "admin", entry["userName"])

	_, out = s.do(t, nethttp.MethodGet, "/api/logs/operation?module=user", nil)
	page = detailOf(t, out)
	require.EqualValues(t, 1, page["totalCount"])
	entry = page["items"].([]any)[0].(map[string]any)
	assert.Equal(t, false, entry["isSuccess"])
	assert.Contains(t, entry["errorMessage"], "不能删除系统管理员")

	_, out = s.do(t, nethttp.MethodGet, "/api/logs/login?userName=admin", nil)
	assert.EqualValues(t, 1, detailOf(t, out)["totalCount"])
}

func ptr[T any](v T) *T {
	return &v
}
