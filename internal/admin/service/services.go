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
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
)

// Services 统一管理所有 service
type Services struct {
	Credential *CredentialService
	User       *UserService
	Role       *RoleService
	Menu       *MenuService
	Department *DepartmentService
	Audit      *AuditService
	Seeder     *Seeder
}

// NewServices 初始化所有 service
func NewServices(
	repos *repo.Repositories,
	cred *CredentialService,
	audit *AuditService,
	adminMetrics *metrics.AdminMetrics,
	c cache.ICache,
	cacheConf cache.Conf,
) *Services {
	cacheConf.SetDefaults()
	ttl := cacheConf.GetTTL()
	user := NewUserService(repos, cred, audit, adminMetrics, c, ttl)
	return &Services{
		Credential: cred,
		User:       user,
		Role:       NewRoleService(repos, user.InvalidateProfiles),
		Menu:       NewMenuService(repos, c, ttl),
		Department: NewDepartmentService(repos),
		Audit:      audit,
		Seeder:     NewSeeder(repos, cred),
	}
}
