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

package http

import (
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// ResponseErr 失败响应
type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  any    `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// CodeOf 按错误分类映射响应码
func CodeOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return BadRequest.Code
	case errs.KindNotFound:
		return NotFound.Code
	case errs.KindConflict:
		return Conflict.Code
	case errs.KindUnauthorized:
		return AuthenticationFailed.Code
	default:
		return InternalError.Code
	}
}

// WithRepErr 把服务层错误写成失败响应，存储错误只返回通用消息
func WithRepErr(c *fiber.Ctx, err error) error {
	kind := errs.KindOf(err)
	switch kind {
	case errs.KindValidation, errs.KindNotFound, errs.KindConflict, errs.KindUnauthorized:
		return WithRepErrMsg(c, CodeOf(kind), errs.Message(err), c.Path())
	default:
		log.WithContext(c.UserContext()).Errorw("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		return WithRepErrMsg(c, InternalError.Code, InternalError.Msg, c.Path())
	}
}
