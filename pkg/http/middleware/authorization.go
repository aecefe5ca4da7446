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

package middleware

import (
	"errors"
	"strings"

	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/http/jwt"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// AuthorizationMiddleware 校验 Bearer token，通过后把 claims 写入 Locals，操作人写入 UserContext
func AuthorizationMiddleware(opts jwt.Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get(fiber.HeaderAuthorization)
		if aToken == "" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(aToken, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return http.WithRepErrMsg(c, http.AuthorizationIncorrect.Code, http.AuthorizationIncorrect.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(strings.TrimSpace(parts[1]), opts)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Debugw("parse token failed", "path", c.Path(), "error", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		userId, ok := claims.UserId()
		if !ok {
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		c.Locals(http.CLAIMS, claims)
		c.SetUserContext(database.WithOperator(c.UserContext(), userId))
		return c.Next()
	}
}

// Claims 读取已认证请求的 claims
func Claims(c *fiber.Ctx) (*jwt.AuthClaims, bool) {
	claims, ok := c.Locals(http.CLAIMS).(*jwt.AuthClaims)
	return claims, ok && claims != nil
}

// CurrentUserId 当前登录用户 id
func CurrentUserId(c *fiber.Ctx) (uint64, bool) {
	claims, ok := Claims(c)
	if !ok {
		return 0, false
	}
	return claims.UserId()
}
