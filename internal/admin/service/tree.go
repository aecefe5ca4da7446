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

// buildForest 按 parentId 组装森林，items 的顺序即同级顺序。
// 父节点不在 items 中的节点提升为根节点，其 id 通过 orphans 返回
func buildForest[T any, N any](
	items []T,
	idOf func(T) uint64,
	parentOf func(T) *uint64,
	newNode func(T) *N,
	addChild func(parent, child *N),
) (roots []*N, orphans []uint64) {
	nodes := make(map[uint64]*N, len(items))
	for _, it := range items {
		nodes[idOf(it)] = newNode(it)
	}

	roots = make([]*N, 0)
	for _, it := range items {
		n := nodes[idOf(it)]
		pid := parentOf(it)
		if pid == nil || *pid == 0 {
			roots = append(roots, n)
			continue
		}
		parent, ok := nodes[*pid]
		if !ok || *pid == idOf(it) {
			orphans = append(orphans, idOf(it))
			roots = append(roots, n)
			continue
		}
		addChild(parent, n)
	}
	return roots, orphans
}

// createsCycle 判断把 id 挂到 parentId 下是否成环，parents 为 id 到上级 id 的映射
func createsCycle(id, parentId uint64, parents map[uint64]*uint64) bool {
	cur := parentId
	for steps := 0; steps <= len(parents); steps++ {
		if cur == id {
			return true
		}
		next, ok := parents[cur]
		if !ok || next == nil || *next == 0 {
			return false
		}
		cur = *next
	}
	// 已有数据中存在环
	return true
}
