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
	"sync"
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/cron"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/go-arcade/arcade-admin/pkg/id"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/go-arcade/arcade-admin/pkg/safe"
)

const RetentionJobName = "audit.retention"

// AuditConf 审计日志配置
type AuditConf struct {
	// RetentionDays 保留天数，0 表示不清理
	RetentionDays int `mapstructure:"retentionDays"`
	// Retention 清理任务的 cron 表达式
	Retention string `mapstructure:"retention"`
	// WriteTimeout 异步写入超时，单位秒
	WriteTimeout int `mapstructure:"writeTimeout"`
}

func (c *AuditConf) SetDefaults() {
	if c.Retention == "" {
		c.Retention = "@daily"
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5
	}
	if c.RetentionDays < 0 {
		c.RetentionDays = 0
	}
}

// AuditService 登录日志与操作日志，写入异步进行，不影响请求耗时
type AuditService struct {
	logs    repo.ILogRepository
	conf    AuditConf
	now     func() time.Time
	pending sync.WaitGroup
}

func NewAuditService(logs repo.ILogRepository, conf AuditConf) *AuditService {
	conf.SetDefaults()
	return &AuditService{logs: logs, conf: conf, now: time.Now}
}

func (s *AuditService) RecordLogin(ctx context.Context, entry *model.LoginLog) {
	if entry.LoginTime.IsZero() {
		entry.LoginTime = s.now()
	}
	s.write(ctx, "login", func(ctx context.Context) error {
		return s.logs.AddLogin(ctx, entry)
	})
}

func (s *AuditService) RecordOperation(ctx context.Context, entry *model.OperationLog) {
	if entry.TraceId == "" {
		entry.TraceId = id.GetUlid()
	}
	s.write(ctx, "operation", func(ctx context.Context) error {
		return s.logs.AddOperation(ctx, entry)
	})
}

// write 与请求生命周期解绑，只保留操作人
func (s *AuditService) write(ctx context.Context, kind string, fn func(ctx context.Context) error) {
	detached := context.Background()
	if by := database.OperatorFrom(ctx); by != nil {
		detached = database.WithOperator(detached, *by)
	}
	timeout := time.Duration(s.conf.WriteTimeout) * time.Second

	s.pending.Add(1)
	safe.Go(func() {
		defer s.pending.Done()
		wctx, cancel := context.WithTimeout(detached, timeout)
		defer cancel()
		if err := fn(wctx); err != nil {
			log.Errorw("failed to write audit log", "kind", kind, "error", err)
		}
	})
}

// Flush 等待已提交的异步写入完成
func (s *AuditService) Flush() {
	s.pending.Wait()
}

func (s *AuditService) GetLoginLogs(ctx context.Context, pageIndex, pageSize int, userName string) (*database.PagedResult[model.LoginLog], error) {
	return s.logs.PageLogin(ctx, pageIndex, pageSize, userName)
}

func (s *AuditService) GetOperationLogs(ctx context.Context, pageIndex, pageSize int, module string) (*database.PagedResult[model.OperationLog], error) {
	return s.logs.PageOperation(ctx, pageIndex, pageSize, module)
}

func (s *AuditService) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.logs.PurgeBefore(ctx, cutoff)
	if err != nil {
		return n, err
	}
	log.Infow("audit logs purged", "cutoff", cutoff, "rows", n)
	return n, nil
}

// RegisterRetention 注册日志清理任务，RetentionDays 为 0 时不注册
func (s *AuditService) RegisterRetention(c *cron.Cron) error {
	if s.conf.RetentionDays == 0 {
		log.Infow("audit retention disabled")
		return nil
	}
	return c.AddFunc(s.conf.Retention, func() error {
		cutoff := s.now().AddDate(0, 0, -s.conf.RetentionDays)
		_, err := s.PurgeBefore(context.Background(), cutoff)
		return err
	}, RetentionJobName)
}
