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

package router

import (
	"strconv"

	"github.com/go-arcade/arcade-admin/pkg/database"
	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func queryInt(c *fiber.Ctx, key string) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return value
}

// queryPage 读取 pageIndex/pageSize，缺省 1/10，页大小上限 100
func queryPage(c *fiber.Ctx) (int, int) {
	return database.NormalizePage(queryInt(c, "pageIndex"), queryInt(c, "pageSize"))
}

func paramId(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	return id, err == nil && id > 0
}

func badParam(c *fiber.Ctx) error {
	return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
}

func notFound(c *fiber.Ctx, msg string) error {
	return httpx.WithRepErrMsg(c, httpx.NotFound.Code, msg, c.Path())
}
