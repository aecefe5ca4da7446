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
	"errors"
	"fmt"
	"time"

	"github.com/go-arcade/arcade-admin/pkg/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultBatchSize = 100

// Repository 通用仓储，所有读路径隐式过滤软删除记录
type Repository[T any, P EntityPtr[T]] struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRepository[T any, P EntityPtr[T]](db *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: db, now: time.Now}
}

// WithTx 返回绑定到事务的仓储副本
func (r *Repository[T, P]) WithTx(tx *gorm.DB) *Repository[T, P] {
	return &Repository[T, P]{db: tx, now: r.now}
}

func (r *Repository[T, P]) DB() *gorm.DB {
	return r.db
}

func (r *Repository[T, P]) query(ctx context.Context, conds ...Condition) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T)).Scopes(notDeleted).Scopes(scopes(conds)...)
}

func (r *Repository[T, P]) wrap(err error, op string) error {
	return errs.Storage(err, fmt.Sprintf("%s %T", op, *new(T)))
}

func (r *Repository[T, P]) GetById(ctx context.Context, id uint64) (*T, error) {
	var entity T
	err := r.query(ctx, Eq("id", id)).Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap(err, "get by id")
	}
	return &entity, nil
}

func (r *Repository[T, P]) GetAll(ctx context.Context) ([]T, error) {
	return r.GetWhere(ctx)
}

func (r *Repository[T, P]) GetWhere(ctx context.Context, conds ...Condition) ([]T, error) {
	items := make([]T, 0)
	if err := r.query(ctx, conds...).Find(&items).Error; err != nil {
		return nil, r.wrap(err, "get where")
	}
	return items, nil
}

// First 返回第一条匹配记录，不存在时返回 nil
func (r *Repository[T, P]) First(ctx context.Context, conds ...Condition) (*T, error) {
	var entity T
	err := r.query(ctx, conds...).Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.wrap(err, "first")
	}
	return &entity, nil
}

// GetPage 总数在 skip/take 之前计算，越界页返回空列表
func (r *Repository[T, P]) GetPage(ctx context.Context, pageIndex, pageSize int, conds ...Condition) (*PagedResult[T], error) {
	if pageIndex < 1 {
		return nil, errs.Validation("pageIndex must be greater than or equal to 1")
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return nil, errs.Validation(fmt.Sprintf("pageSize must be between 1 and %d", MaxPageSize))
	}

	var total int64
	if err := ReadDB(r.query(ctx, conds...)).Count(&total).Error; err != nil {
		return nil, r.wrap(err, "count page")
	}

	items := make([]T, 0)
	skip := offset(pageIndex, pageSize)
	if int64(skip) < total {
		err := ReadDB(r.query(ctx, conds...)).Offset(skip).Limit(pageSize).Find(&items).Error
		if err != nil {
			return nil, r.wrap(err, "get page")
		}
	}

	return NewPagedResult(items, total, pageIndex, pageSize), nil
}

func (r *Repository[T, P]) Add(ctx context.Context, entity *T) (*T, error) {
	P(entity).MarkCreated(r.now(), OperatorFrom(ctx))
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entity).Error; err != nil {
		return nil, r.wrap(err, "add")
	}
	return entity, nil
}

func (r *Repository[T, P]) AddRange(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	now, by := r.now(), OperatorFrom(ctx)
	for _, e := range entities {
		P(e).MarkCreated(now, by)
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).CreateInBatches(entities, defaultBatchSize).Error; err != nil {
		return r.wrap(err, "add range")
	}
	return nil
}

// Update 全量保存，后写覆盖先写，不级联保存关联
func (r *Repository[T, P]) Update(ctx context.Context, entity *T) error {
	if P(entity).GetId() == 0 {
		return errs.Validation("cannot update an entity without id")
	}
	P(entity).MarkUpdated(r.now(), OperatorFrom(ctx))
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(entity).Error; err != nil {
		return r.wrap(err, "update")
	}
	return nil
}

func (r *Repository[T, P]) Delete(ctx context.Context, entity *T) error {
	now, by := r.now(), OperatorFrom(ctx)
	P(entity).MarkDeleted(now, by)
	return r.softDelete(ctx, now, by, P(entity).GetId())
}

// DeleteById id 不存在或已删除时为空操作
func (r *Repository[T, P]) DeleteById(ctx context.Context, id uint64) error {
	return r.softDelete(ctx, r.now(), OperatorFrom(ctx), id)
}

func (r *Repository[T, P]) DeleteRange(ctx context.Context, entities []*T) error {
	if len(entities) == 0 {
		return nil
	}
	now, by := r.now(), OperatorFrom(ctx)
	ids := make([]uint64, 0, len(entities))
	for _, e := range entities {
		P(e).MarkDeleted(now, by)
		ids = append(ids, P(e).GetId())
	}
	return r.softDelete(ctx, now, by, ids...)
}

// DeleteWhere 按条件批量软删除，返回受影响行数；不带条件时拒绝执行
func (r *Repository[T, P]) DeleteWhere(ctx context.Context, conds ...Condition) (int64, error) {
	if len(scopes(conds)) == 0 {
		return 0, errs.Validation("delete without condition")
	}
	res := r.softDeleteQuery(ctx, r.now(), OperatorFrom(ctx), scopes(conds)...)
	if res.Error != nil {
		return 0, r.wrap(res.Error, "delete where")
	}
	return res.RowsAffected, nil
}

func (r *Repository[T, P]) softDelete(ctx context.Context, now time.Time, by *uint64, ids ...uint64) error {
	res := r.softDeleteQuery(ctx, now, by, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.IN{Column: column("id"), Values: toAny(ids)})
	})
	if res.Error != nil {
		return r.wrap(res.Error, "delete")
	}
	return nil
}

func (r *Repository[T, P]) softDeleteQuery(ctx context.Context, now time.Time, by *uint64, conds ...func(*gorm.DB) *gorm.DB) *gorm.DB {
	values := map[string]any{
		"is_deleted": true,
		"updated_at": now,
	}
	if by != nil {
		values["updated_by"] = *by
	}
	return r.db.WithContext(ctx).Model(new(T)).
		Scopes(conds...).
		Where(clause.Eq{Column: column("is_deleted"), Value: false}).
		UpdateColumns(values)
}

func (r *Repository[T, P]) Exists(ctx context.Context, conds ...Condition) (bool, error) {
	n, err := r.Count(ctx, conds...)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository[T, P]) Count(ctx context.Context, conds ...Condition) (int64, error) {
	var n int64
	if err := r.query(ctx, conds...).Count(&n).Error; err != nil {
		return 0, r.wrap(err, "count")
	}
	return n, nil
}

func toAny(ids []uint64) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, id)
	}
	return out
}
