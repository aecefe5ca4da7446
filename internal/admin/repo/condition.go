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
	"fmt"
	"strings"

	"github.com/go-arcade/arcade-admin/pkg/database"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsAny 大小写敏感的子串匹配，任一列命中即可
func containsAny(keyword string, columns ...string) database.Condition {
	return func(tx *gorm.DB) *gorm.DB {
		if keyword == "" || len(columns) == 0 {
			return tx
		}

		var pattern string
		var arg any
		switch tx.Dialector.Name() {
		case "mysql":
			pattern, arg = "%s LIKE BINARY ?", "%"+likeEscaper.Replace(keyword)+"%"
		case "sqlite":
			pattern, arg = "instr(%s, ?) > 0", keyword
		default:
			pattern, arg = "%s LIKE ?", "%"+likeEscaper.Replace(keyword)+"%"
		}

		parts := make([]string, 0, len(columns))
		args := make([]any, 0, len(columns))
		for _, col := range columns {
			parts = append(parts, fmt.Sprintf(pattern, col))
			args = append(args, arg)
		}
		return tx.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

// excludeId 排除自身，用于改名时的唯一性检查
func excludeId(id *uint64) database.Condition {
	if id == nil || *id == 0 {
		return nil
	}
	return database.Neq("id", *id)
}

func uniqueIds(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
