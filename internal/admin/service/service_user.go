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
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/consts"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/go-arcade/arcade-admin/pkg/metrics"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type UserService struct {
	repos    *repo.Repositories
	cred     *CredentialService
	audit    *AuditService
	metrics  *metrics.AdminMetrics
	profiles *cache.CachedQuery[model.UserProfile]
	now      func() time.Time
}

func NewUserService(
	repos *repo.Repositories,
	cred *CredentialService,
	audit *AuditService,
	adminMetrics *metrics.AdminMetrics,
	c cache.ICache,
	ttl time.Duration,
) *UserService {
	s := &UserService{
		repos:   repos,
		cred:    cred,
		audit:   audit,
		metrics: adminMetrics,
		now:     time.Now,
	}
	s.profiles = cache.NewCachedQuery(c,
		func(params ...any) string {
			return fmt.Sprintf("%s%v", consts.UserInfoCacheKey, params[0])
		},
		func(ctx context.Context, params ...any) (model.UserProfile, error) {
			p, err := s.GetById(ctx, params[0].(uint64))
			if err != nil {
				return model.UserProfile{}, err
			}
			if p == nil {
				return model.UserProfile{}, errors.WithStack(ErrUserNotFound)
			}
			return *p, nil
		},
		cache.WithTTL[model.UserProfile](ttl),
		cache.WithLogPrefix[model.UserProfile]("[UserInfo]"),
	)
	return s
}

// Login 用户不存在、密码错误、账号停用返回同一个错误，具体原因只写入登录日志
func (s *UserService) Login(ctx context.Context, req *model.LoginReq) (*model.LoginResp, error) {
	if strings.TrimSpace(req.UserName) == "" || req.Password == "" {
		return nil, errs.Validation("用户名和密码不能为空")
	}

	entry := &model.LoginLog{
		UserName:  req.UserName,
		IpAddress: req.Ip,
		Browser:   truncate(req.UserAgent, 100),
		LoginTime: s.now(),
		LoginType: consts.LoginTypePassword,
	}

	user, err := s.repos.User.GetByUserName(ctx, req.UserName)
	if err != nil {
		return nil, err
	}
	if user == nil {
		s.cred.VerifyAbsent(req.Password)
		return nil, s.loginFailed(ctx, entry, metrics.LoginFailure, "user not found")
	}
	entry.UserId = &user.Id
	if !s.cred.VerifyPassword(req.Password, user.Password) {
		return nil, s.loginFailed(ctx, entry, metrics.LoginFailure, "wrong password")
	}
	if user.Status != model.UserStatusNormal {
		return nil, s.loginFailed(ctx, entry, metrics.LoginDisabled, "account disabled")
	}

	roles := user.EnabledRoleCodes()
	token, err := s.cred.IssueToken(user.Id, user.UserName, roles)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}

	now := s.now()
	user.LastLoginTime = &now
	if req.Ip != "" {
		user.LastLoginIp = req.Ip
	}
	if s.cred.NeedsRehash(user.Password) {
		if digest, err := s.cred.HashPassword(req.Password); err != nil {
			log.Warnw("failed to rehash password", "userId", user.Id, "error", err)
		} else {
			user.Password = digest
		}
	}
	if err := s.repos.User.Update(database.WithOperator(ctx, user.Id), user); err != nil {
		return nil, err
	}
	_ = s.profiles.Invalidate(ctx, user.Id)

	entry.IsSuccess = true
	s.audit.RecordLogin(ctx, entry)
	s.metrics.RecordLogin(metrics.LoginSuccess)
	log.Infow("user logged in", "userId", user.Id, "userName", user.UserName)

	return &model.LoginResp{Token: token, User: user.Profile()}, nil
}

func (s *UserService) loginFailed(ctx context.Context, entry *model.LoginLog, result, reason string) error {
	entry.IsSuccess = false
	entry.FailureReason = reason
	s.audit.RecordLogin(ctx, entry)
	s.metrics.RecordLogin(result)
	log.Infow("login failed", "userName", entry.UserName, "reason", reason)
	return errors.WithStack(ErrInvalidCredentials)
}

// Logout 令牌无状态，客户端丢弃即可
func (s *UserService) Logout(ctx context.Context, userId uint64) {
	log.Infow("user logged out", "userId", userId)
}

func (s *UserService) CreateUser(ctx context.Context, req *model.CreateUserReq) (*model.UserProfile, error) {
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		return nil, errs.Validation("用户名不能为空")
	}
	if req.Password == "" {
		return nil, errs.Validation("密码不能为空")
	}
	if !req.Status.Valid() {
		return nil, errs.Validation("用户状态不正确")
	}

	digest, err := s.cred.HashPassword(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &model.User{
		UserName:     userName,
		Password:     digest,
		RealName:     req.RealName,
		Phone:        req.Phone,
		Email:        req.Email,
		Status:       req.Status,
		DepartmentId: req.DepartmentId,
	}
	err = database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		txRepos := s.repos.WithTx(tx)
		taken, err := txRepos.User.ExistsUserName(ctx, userName, nil)
		if err != nil {
			return err
		}
		if taken {
			return errors.WithStack(ErrUsernameTaken)
		}
		if _, err := txRepos.User.Add(ctx, user); err != nil {
			return err
		}
		return txRepos.UserRole.ReplaceForUser(ctx, user.Id, req.RoleIds)
	})
	if err != nil {
		return nil, err
	}

	log.Infow("user created", "userId", user.Id, "userName", user.UserName)
	return s.GetById(ctx, user.Id)
}

// UpdateUser 用户不存在时返回 false，角色集合整体替换
func (s *UserService) UpdateUser(ctx context.Context, req *model.UpdateUserReq) (bool, error) {
	if !req.Status.Valid() {
		return false, errs.Validation("用户状态不正确")
	}

	found := false
	err := database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		txRepos := s.repos.WithTx(tx)
		user, err := txRepos.User.GetById(ctx, req.Id)
		if err != nil || user == nil {
			return err
		}
		found = true

		user.RealName = req.RealName
		user.Phone = req.Phone
		user.Email = req.Email
		user.Status = req.Status
		user.DepartmentId = req.DepartmentId
		if err := txRepos.User.Update(ctx, user); err != nil {
			return err
		}
		return txRepos.UserRole.ReplaceForUser(ctx, user.Id, req.RoleIds)
	})
	if err != nil || !found {
		return false, err
	}

	_ = s.profiles.Invalidate(ctx, req.Id)
	log.Infow("user updated", "userId", req.Id)
	return true, nil
}

// DeleteUser 软删除用户并解除角色关联，admin 账号受保护
func (s *UserService) DeleteUser(ctx context.Context, id uint64) (bool, error) {
	user, err := s.repos.User.GetById(ctx, id)
	if err != nil || user == nil {
		return false, err
	}
	if user.UserName == consts.ProtectedUserName {
		return false, errors.WithStack(ErrProtectedAccount)
	}

	err = database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		txRepos := s.repos.WithTx(tx)
		if err := txRepos.User.DeleteById(ctx, id); err != nil {
			return err
		}
		return txRepos.UserRole.DeleteByUser(ctx, id)
	})
	if err != nil {
		return false, err
	}

	_ = s.profiles.Invalidate(ctx, id)
	log.Infow("user deleted", "userId", id)
	return true, nil
}

func (s *UserService) ResetPassword(ctx context.Context, id uint64) (bool, error) {
	user, err := s.repos.User.GetById(ctx, id)
	if err != nil || user == nil {
		return false, err
	}
	digest, err := s.cred.DefaultDigest()
	if err != nil {
		return false, errors.Wrap(err, "hash default password")
	}
	user.Password = digest
	if err := s.repos.User.Update(ctx, user); err != nil {
		return false, err
	}
	log.Infow("user password reset", "userId", id)
	return true, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id uint64, req *model.ChangePasswordReq) error {
	user, err := s.repos.User.GetById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.WithStack(ErrUserNotFound)
	}
	if !s.cred.VerifyPassword(req.OldPassword, user.Password) {
		return errors.WithStack(ErrOldPasswordMismatch)
	}
	if req.NewPassword != req.ConfirmPassword {
		return errors.WithStack(ErrPasswordConfirmMismatch)
	}
	if req.NewPassword == "" {
		return errs.Validation("新密码不能为空")
	}

	digest, err := s.cred.HashPassword(req.NewPassword)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	user.Password = digest
	if err := s.repos.User.Update(ctx, user); err != nil {
		return err
	}
	log.Infow("user password changed", "userId", id)
	return nil
}

func (s *UserService) IsUsernameTaken(ctx context.Context, userName string, excludingId *uint64) (bool, error) {
	return s.repos.User.ExistsUserName(ctx, userName, excludingId)
}

// GetById 用户不存在或已删除时返回 nil
func (s *UserService) GetById(ctx context.Context, id uint64) (*model.UserProfile, error) {
	user, err := s.repos.User.GetDetail(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	p := user.Profile()
	return &p, nil
}

func (s *UserService) GetPagedUsers(ctx context.Context, pageIndex, pageSize int, keyword string) (*database.PagedResult[model.UserProfile], error) {
	page, err := s.repos.User.Page(ctx, pageIndex, pageSize, strings.TrimSpace(keyword))
	if err != nil {
		return nil, err
	}
	return database.MapPage(page, func(u model.User) model.UserProfile {
		return u.Profile()
	}), nil
}

// GetCurrentUser 走缓存，写操作后失效
func (s *UserService) GetCurrentUser(ctx context.Context, userId uint64) (*model.UserProfile, error) {
	p, err := s.profiles.Get(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// InvalidateProfiles 角色变更后清理受影响用户的资料缓存
func (s *UserService) InvalidateProfiles(ctx context.Context, userIds ...uint64) {
	for _, id := range userIds {
		_ = s.profiles.Invalidate(ctx, id)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
