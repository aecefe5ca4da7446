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

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"time"

	httpx "github.com/go-arcade/arcade-admin/pkg/http"
	"github.com/go-arcade/arcade-admin/pkg/http/jwt"
	"golang.org/x/crypto/bcrypt"
)

// 历史数据中的无盐 MD5 摘要，32 位十六进制
var legacyDigest = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// CredentialService 密码摘要与令牌的签发、校验
type CredentialService struct {
	opts          jwt.Options
	cost          int
	defaultPass   string
	defaultDigest string

	// 用户不存在时也做一次同等 cost 的比对，登录失败耗时与密码错误一致
	dummyDigest string
	compare     func(digest, plaintext []byte) error
}

func NewCredentialService(auth httpx.Auth) (*CredentialService, error) {
	auth.SetDefaults()
	if auth.Secret == "" {
		return nil, errors.New("http.auth.secret must not be empty")
	}
	cost := auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, errors.New("http.auth.bcryptCost out of range")
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("arcade-absent-account"), cost)
	if err != nil {
		return nil, err
	}
	return &CredentialService{
		opts: jwt.Options{
			Secret:   []byte(auth.Secret),
			Issuer:   auth.Issuer,
			Audience: auth.Audience,
			TTL:      auth.TTL(),
		},
		cost:          cost,
		defaultPass:   auth.DefaultPassword,
		defaultDigest: auth.DefaultPasswordDigest,
		dummyDigest:   string(dummy),
		compare:       bcrypt.CompareHashAndPassword,
	}, nil
}

// JwtOptions 授权中间件校验令牌使用
func (s *CredentialService) JwtOptions() jwt.Options {
	return s.opts
}

// WithClock 替换令牌时钟，测试使用
func (s *CredentialService) WithClock(now func() time.Time) *CredentialService {
	out := *s
	out.opts.Now = now
	return &out
}

func (s *CredentialService) HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (s *CredentialService) VerifyPassword(plaintext, digest string) bool {
	if legacyDigest.MatchString(digest) {
		return strings.EqualFold(md5Hex(plaintext), digest)
	}
	return s.compare([]byte(digest), []byte(plaintext)) == nil
}

// VerifyAbsent 账号不存在时调用，结果恒为 false
func (s *CredentialService) VerifyAbsent(plaintext string) bool {
	_ = s.VerifyPassword(plaintext, s.dummyDigest)
	return false
}

// NeedsRehash 旧 MD5 摘要或 cost 低于配置的 bcrypt 摘要需要在下次登录时重新生成
func (s *CredentialService) NeedsRehash(digest string) bool {
	if legacyDigest.MatchString(digest) {
		return true
	}
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return true
	}
	return cost < s.cost
}

// DefaultDigest 重置密码写入的摘要
func (s *CredentialService) DefaultDigest() (string, error) {
	if s.defaultDigest != "" {
		return s.defaultDigest, nil
	}
	return s.HashPassword(s.defaultPass)
}

func (s *CredentialService) DefaultPassword() string {
	return s.defaultPass
}

func (s *CredentialService) IssueToken(userId uint64, userName string, roleCodes []string) (string, error) {
	return jwt.GenToken(s.opts, userId, userName, roleCodes)
}

// ValidateToken 任何校验失败都返回 false
func (s *CredentialService) ValidateToken(token string) bool {
	_, err := jwt.ParseToken(token, s.opts)
	return err == nil
}

func (s *CredentialService) ParseToken(token string) (*jwt.AuthClaims, error) {
	return jwt.ParseToken(token, s.opts)
}

// ExtractUserId 只解码不校验签名，不能用于鉴权
func (s *CredentialService) ExtractUserId(token string) (uint64, bool) {
	claims, err := jwt.ParseUnverified(token)
	if err != nil {
		return 0, false
	}
	return claims.UserId()
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
