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
	"context"
	"time"
)

// Entity 可被通用仓储管理的实体：有主键、时间戳和软删除标记
type Entity interface {
	GetId() uint64
	MarkCreated(at time.Time, by *uint64)
	MarkUpdated(at time.Time, by *uint64)
	MarkDeleted(at time.Time, by *uint64)
}

// EntityPtr 约束 *T 实现 Entity，使 Repository 可以按值类型实例化
type EntityPtr[T any] interface {
	*T
	Entity
}

type operatorKey struct{}

// WithOperator 在 ctx 中记录当前操作人，仓储写入时据此填充 created_by / updated_by
func WithOperator(ctx context.Context, userId uint64) context.Context {
	if userId == 0 {
		return ctx
	}
	return context.WithValue(ctx, operatorKey{}, userId)
}

func OperatorFrom(ctx context.Context) *uint64 {
	if ctx == nil {
		return nil
	}
	if id, ok := ctx.Value(operatorKey{}).(uint64); ok {
		return &id
	}
	return nil
}
