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

const (
	DefaultPageIndex = 1
	DefaultPageSize  = 10
	MaxPageSize      = 100
)

type PagedResult[T any] struct {
	Items           []T   `json:"items"`
	TotalCount      int64 `json:"totalCount"`
	PageIndex       int   `json:"pageIndex"`
	PageSize        int   `json:"pageSize"`
	TotalPages      int   `json:"totalPages"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
	HasNextPage     bool  `json:"hasNextPage"`
}

func NewPagedResult[T any](items []T, totalCount int64, pageIndex, pageSize int) *PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return &PagedResult[T]{
		Items:           items,
		TotalCount:      totalCount,
		PageIndex:       pageIndex,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasPreviousPage: pageIndex > 1,
		HasNextPage:     pageIndex < totalPages,
	}
}

// MapPage 转换分页结果中的元素类型，分页信息保持不变
func MapPage[T, R any](p *PagedResult[T], fn func(T) R) *PagedResult[R] {
	items := make([]R, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return &PagedResult[R]{
		Items:           items,
		TotalCount:      p.TotalCount,
		PageIndex:       p.PageIndex,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages,
		HasPreviousPage: p.HasPreviousPage,
		HasNextPage:     p.HasNextPage,
	}
}

// NormalizePage 接口层使用：缺省值 1/10，页大小上限 100
func NormalizePage(pageIndex, pageSize int) (int, int) {
	if pageIndex < 1 {
		pageIndex = DefaultPageIndex
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return pageIndex, pageSize
}

func offset(pageIndex, pageSize int) int {
	return (pageIndex - 1) * pageSize
}
