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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Condition 调用方提供的查询条件
type Condition func(tx *gorm.DB) *gorm.DB

func scopes(conds []Condition) []func(*gorm.DB) *gorm.DB {
	out := make([]func(*gorm.DB) *gorm.DB, 0, len(conds))
	for _, c := range conds {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

func Where(query any, args ...any) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(query, args...)
	}
}

func Eq(name string, value any) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.Eq{Column: column(name), Value: value})
	}
}

func Neq(name string, value any) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.Neq{Column: column(name), Value: value})
	}
}

func In[V any](name string, values []V) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		if len(values) == 0 {
			return tx.Where("1 = 0")
		}
		args := make([]any, 0, len(values))
		for _, v := range values {
			args = append(args, v)
		}
		return tx.Where(clause.IN{Column: column(name), Values: args})
	}
}

// Like 子串匹配，大小写敏感性取决于列的排序规则
func Like(name, keyword string) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where(clause.Like{Column: column(name), Value: "%" + keyword + "%"})
	}
}

func OrderBy(order string) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Order(order)
	}
}

// Preload 预加载关联，只对查询明细生效
func Preload(query string, args ...any) Condition {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Preload(query, args...)
	}
}

func notDeleted(tx *gorm.DB) *gorm.DB {
	return tx.Where(clause.Eq{Column: column("is_deleted"), Value: false})
}
