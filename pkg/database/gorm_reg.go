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

package database

import (
	"sync"

	"gorm.io/gorm"
)

var (
	regMu            sync.Mutex
	registeredModels []any
	auditModels      []any
)

// RegisterModels 注册业务表，AutoMigrate 时在主库建表
func RegisterModels(models ...any) {
	regMu.Lock()
	defer regMu.Unlock()
	registeredModels = append(registeredModels, models...)
}

// RegisterAuditModels 注册审计表，配置 ClickHouse 时建在 ClickHouse
func RegisterAuditModels(models ...any) {
	regMu.Lock()
	defer regMu.Unlock()
	auditModels = append(auditModels, models...)
}

func AutoMigrate(db IDatabase) error {
	regMu.Lock()
	models := append([]any(nil), registeredModels...)
	audits := append([]any(nil), auditModels...)
	regMu.Unlock()

	if err := db.Database().AutoMigrate(models...); err != nil {
		return err
	}
	return migrateAudit(db.AuditDatabase(), audits)
}

func migrateAudit(db *gorm.DB, models []any) error {
	if len(models) == 0 {
		return nil
	}
	return db.AutoMigrate(models...)
}

func GetRegisteredModels() []any {
	regMu.Lock()
	defer regMu.Unlock()
	return append(append([]any(nil), registeredModels...), auditModels...)
}
