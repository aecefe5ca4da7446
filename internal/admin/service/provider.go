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
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet 提供服务层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideCredentialService,
	ProvideAuditService,
	ProvideServices,
)

func ProvideCredentialService(httpConf *httpx.Http) (*CredentialService, error) {
	return NewCredentialService(httpConf.Auth)
}

func ProvideAuditService(repos *repo.Repositories, conf AuditConf) *AuditService {
	return NewAuditService(repos.Log, conf)
}

// ProvideServices 提供统一的 Services 实例
func ProvideServices(
	repos *repo.Repositories,
	cred *CredentialService,
	audit *AuditService,
	adminMetrics *metrics.AdminMetrics,
	c cache.ICache,
	cacheConf cache.Conf,
) *Services {
	return NewServices(repos, cred, audit, adminMetrics, c, cacheConf)
}
