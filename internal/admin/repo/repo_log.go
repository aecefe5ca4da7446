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
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"gorm.io/gorm"
)

type ILogRepository interface {
	AddLogin(ctx context.Context, l *model.LoginLog) error
	AddOperation(ctx context.Context, l *model.OperationLog) error
	PageLogin(ctx context.Context, pageIndex, pageSize int, userName string) (*database.PagedResult[model.LoginLog], error)
	PageOperation(ctx context.Context, pageIndex, pageSize int, module string) (*database.PagedResult[model.OperationLog], error)
	// PurgeBefore 软删除 cutoff 之前的日志，行仍保留在表中，返回本次标记条数
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type LogRepo struct {
	login     *database.Repository[model.LoginLog, *model.LoginLog]
	operation *database.Repository[model.OperationLog, *model.OperationLog]
}

func NewLogRepo(db *gorm.DB) ILogRepository {
	return &LogRepo{
		login:     database.NewRepository[model.LoginLog](db),
		operation: database.NewRepository[model.OperationLog](db),
	}
}

func (r *LogRepo) AddLogin(ctx context.Context, l *model.LoginLog) error {
	_, err := r.login.Add(ctx, l)
	return err
}

func (r *LogRepo) AddOperation(ctx context.Context, l *model.OperationLog) error {
	_, err := r.operation.Add(ctx, l)
	return err
}

func (r *LogRepo) PageLogin(ctx context.Context, pageIndex, pageSize int, userName string) (*database.PagedResult[model.LoginLog], error) {
	var cond database.Condition
	if userName != "" {
		cond = database.Eq("user_name", userName)
	}
	return r.login.GetPage(ctx, pageIndex, pageSize, cond, database.OrderBy("login_time DESC, id DESC"))
}

func (r *LogRepo) PageOperation(ctx context.Context, pageIndex, pageSize int, module string) (*database.PagedResult[model.OperationLog], error) {
	var cond database.Condition
	if module != "" {
		cond = database.Eq("module", module)
	}
	return r.operation.GetPage(ctx, pageIndex, pageSize, cond, database.OrderBy("created_at DESC, id DESC"))
}

func (r *LogRepo) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	login, err := r.login.DeleteWhere(ctx, database.Where("login_time < ?", cutoff))
	if err != nil {
		return 0, err
	}
	op, err := r.operation.DeleteWhere(ctx, database.Where("created_at < ?", cutoff))
	if err != nil {
		return login, err
	}
	return login + op, nil
}
