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
	"fmt"
	"time"

	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/go-arcade/arcade-admin/pkg/trace"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type Manager interface {
	// Primary 业务主库（MySQL 或 SQLite）
	Primary() *gorm.DB

	// ClickHouse 审计日志库，未配置时返回 nil
	ClickHouse() *gorm.DB

	// Close 关闭全部连接
	Close() error
}

type managerImpl struct {
	primary    *gorm.DB
	clickHouse *gorm.DB
}

func (m *managerImpl) Primary() *gorm.DB {
	return m.primary
}

func (m *managerImpl) ClickHouse() *gorm.DB {
	return m.clickHouse
}

func (m *managerImpl) Close() error {
	var errs []error

	for name, db := range map[string]*gorm.DB{"primary": m.primary, "clickhouse": m.clickHouse} {
		if db == nil {
			continue
		}
		sqlDB, err := db.DB()
		if err != nil {
			continue
		}
		if err := sqlDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close %s: %w", name, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %v", errs)
	}
	return nil
}

func NewManager(cfg Database) (Manager, error) {
	cfg.SetDefaults()
	m := &managerImpl{}

	var err error
	switch cfg.Driver {
	case DriverSQLite:
		m.primary, err = newSQLiteConnection(cfg.SQLite, cfg)
	case DriverMySQL:
		m.primary, err = newMySQLConnection(cfg.MySQL, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s: %w", cfg.Driver, err)
	}
	log.Infow("database connected", "driver", cfg.Driver)
	if err := trace.RegisterGormPlugin(m.primary, cfg.Driver, cfg.OutPut); err != nil {
		log.Warnw("failed to register OpenTelemetry gorm plugin", "driver", cfg.Driver, "error", err)
	}

	if cfg.ClickHouse.Enabled() {
		chDB, err := NewClickHouseConnection(cfg.ClickHouse, cfg)
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("failed to connect ClickHouse: %w", err)
		}
		m.clickHouse = chDB
		log.Info("ClickHouse audit database connected successfully")
		if err := trace.RegisterGormPlugin(m.clickHouse, "clickhouse", cfg.OutPut); err != nil {
			log.Warnw("failed to register OpenTelemetry gorm plugin", "driver", "clickhouse", "error", err)
		}
	}

	return m, nil
}

// newGormConfig 所有数据源共用的 gorm 配置
func newGormConfig(commonCfg Database, tablePrefix string) *gorm.Config {
	logConfig := gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Silent,
		Colorful:                  false,
		IgnoreRecordNotFoundError: true,
		ParameterizedQueries:      true,
	}

	var gormLogger gormlogger.Interface
	if commonCfg.OutPut {
		logConfig.LogLevel = gormlogger.Info
		gormLogger = NewGormLoggerAdapter(logConfig, gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	// 关联关系只用于预加载，不建外键约束
	return &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   tablePrefix,
			SingularTable: true,
		},
	}
}
