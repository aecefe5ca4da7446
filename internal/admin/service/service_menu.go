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
	"sort"
	"strings"
	"time"

	"github.com/go-arcade/arcade-admin/internal/admin/consts"
	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/cache"
	"github.com/go-arcade/arcade-admin/pkg/database"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type MenuService struct {
	repos *repo.Repositories
	tree  *cache.CachedQuery[[]*model.MenuNode]
}

func NewMenuService(repos *repo.Repositories, c cache.ICache, ttl time.Duration) *MenuService {
	s := &MenuService{repos: repos}
	s.tree = cache.NewCachedQuery(c,
		func(...any) string { return consts.MenuTreeCacheKey },
		func(ctx context.Context, _ ...any) ([]*model.MenuNode, error) {
			menus, err := s.repos.Menu.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			return menuForest(menus, true), nil
		},
		cache.WithTTL[[]*model.MenuNode](ttl),
		cache.WithLogPrefix[[]*model.MenuNode]("[MenuTree]"),
	)
	return s
}

func menuForest(menus []model.Menu, warnOrphans bool) []*model.MenuNode {
	roots, orphans := buildMenuForest(menus)
	if warnOrphans && len(orphans) > 0 {
		log.Warnw("menus with missing parent promoted to root", "ids", orphans)
	}
	return roots
}

// navForest 上级不可见的菜单连同其子树一起丢弃，不提升为根节点
func navForest(menus []model.Menu) []*model.MenuNode {
	roots, orphans := buildMenuForest(menus)
	if len(orphans) == 0 {
		return roots
	}
	dropped := make(map[uint64]struct{}, len(orphans))
	for _, id := range orphans {
		dropped[id] = struct{}{}
	}
	out := make([]*model.MenuNode, 0, len(roots))
	for _, n := range roots {
		if _, ok := dropped[n.Id]; !ok {
			out = append(out, n)
		}
	}
	return out
}

func buildMenuForest(menus []model.Menu) ([]*model.MenuNode, []uint64) {
	return buildForest(menus,
		func(m model.Menu) uint64 { return m.Id },
		model.Menu.GetParentId,
		func(m model.Menu) *model.MenuNode { return &model.MenuNode{Menu: m, Children: []*model.MenuNode{}} },
		func(p, c *model.MenuNode) { p.Children = append(p.Children, c) },
	)
}

func (s *MenuService) GetMenu(ctx context.Context, id uint64) (*model.Menu, error) {
	return s.repos.Menu.GetById(ctx, id)
}

// GetMenuTree 全量菜单树，菜单写操作后失效
func (s *MenuService) GetMenuTree(ctx context.Context) ([]*model.MenuNode, error) {
	return s.tree.Get(ctx)
}

func (s *MenuService) invalidate(ctx context.Context) {
	_ = s.tree.Invalidate(ctx)
}

func validateMenu(req *model.MenuReq) error {
	if strings.TrimSpace(req.MenuName) == "" {
		return errs.Validation("菜单名称不能为空")
	}
	if strings.TrimSpace(req.MenuCode) == "" {
		return errs.Validation("菜单编码不能为空")
	}
	if !req.MenuType.Valid() {
		return errs.Validation("菜单类型不正确")
	}
	return nil
}

// checkParent 上级必须存在，且不能是自身或自身的下级；id 为 0 表示新建
func (s *MenuService) checkParent(ctx context.Context, id uint64, parentId *uint64) error {
	if parentId == nil || *parentId == 0 {
		return nil
	}
	if id != 0 && *parentId == id {
		return errors.WithStack(ErrParentCycle)
	}
	menus, err := s.repos.Menu.ListAll(ctx)
	if err != nil {
		return err
	}
	parents := make(map[uint64]*uint64, len(menus))
	for _, m := range menus {
		parents[m.Id] = m.ParentId
	}
	if _, ok := parents[*parentId]; !ok {
		return errors.WithStack(ErrParentNotFound)
	}
	if id != 0 && createsCycle(id, *parentId, parents) {
		return errors.WithStack(ErrParentCycle)
	}
	return nil
}

func normalizeParent(parentId *uint64) *uint64 {
	if parentId == nil || *parentId == 0 {
		return nil
	}
	return parentId
}

func (s *MenuService) CreateMenu(ctx context.Context, req *model.MenuReq) (*model.Menu, error) {
	if err := validateMenu(req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.MenuCode)
	taken, err := s.repos.Menu.ExistsCode(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.WithStack(ErrCodeTaken)
	}
	if err := s.checkParent(ctx, 0, req.ParentId); err != nil {
		return nil, err
	}

	menu := &model.Menu{
		MenuName:  strings.TrimSpace(req.MenuName),
		MenuCode:  code,
		MenuType:  req.MenuType,
		ParentId:  normalizeParent(req.ParentId),
		Path:      req.Path,
		Component: req.Component,
		Icon:      req.Icon,
		Sort:      req.Sort,
		IsVisible: req.IsVisible == nil || *req.IsVisible,
		IsEnabled: req.IsEnabled == nil || *req.IsEnabled,
		Remark:    req.Remark,
	}
	if _, err := s.repos.Menu.Add(ctx, menu); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Infow("menu created", "menuId", menu.Id, "menuCode", menu.MenuCode)
	return menu, nil
}

func (s *MenuService) UpdateMenu(ctx context.Context, req *model.MenuReq) (bool, error) {
	if err := validateMenu(req); err != nil {
		return false, err
	}
	menu, err := s.repos.Menu.GetById(ctx, req.Id)
	if err != nil || menu == nil {
		return false, err
	}
	code := strings.TrimSpace(req.MenuCode)
	if code != menu.MenuCode {
		taken, err := s.repos.Menu.ExistsCode(ctx, code, &menu.Id)
		if err != nil {
			return false, err
		}
		if taken {
			return false, errors.WithStack(ErrCodeTaken)
		}
	}
	if err := s.checkParent(ctx, menu.Id, req.ParentId); err != nil {
		return false, err
	}

	menu.MenuName = strings.TrimSpace(req.MenuName)
	menu.MenuCode = code
	menu.MenuType = req.MenuType
	menu.ParentId = normalizeParent(req.ParentId)
	menu.Path = req.Path
	menu.Component = req.Component
	menu.Icon = req.Icon
	menu.Sort = req.Sort
	menu.Remark = req.Remark
	if req.IsVisible != nil {
		menu.IsVisible = *req.IsVisible
	}
	if req.IsEnabled != nil {
		menu.IsEnabled = *req.IsEnabled
	}
	if err := s.repos.Menu.Update(ctx, menu); err != nil {
		return false, err
	}
	s.invalidate(ctx)
	log.Infow("menu updated", "menuId", menu.Id)
	return true, nil
}

// DeleteMenu 存在下级时拒绝删除，同时解除角色关联
func (s *MenuService) DeleteMenu(ctx context.Context, id uint64) (bool, error) {
	menu, err := s.repos.Menu.GetById(ctx, id)
	if err != nil || menu == nil {
		return false, err
	}
	n, err := s.repos.Menu.CountChildren(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, errors.WithStack(ErrHasChildren)
	}

	err = database.Transaction(ctx, s.repos.DB(), func(tx *gorm.DB) error {
		txRepos := s.repos.WithTx(tx)
		if err := txRepos.Menu.DeleteById(ctx, id); err != nil {
			return err
		}
		return txRepos.RoleMenu.DeleteByMenu(ctx, id)
	})
	if err != nil {
		return false, err
	}
	s.invalidate(ctx)
	log.Infow("menu deleted", "menuId", id)
	return true, nil
}

// userMenus 用户通过已启用角色可访问的已启用菜单
func (s *MenuService) userMenus(ctx context.Context, userId uint64) ([]model.Menu, error) {
	var (
		user    *model.User
		roleIds []uint64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.repos.User.GetById(gctx, userId)
		return err
	})
	g.Go(func() error {
		var err error
		roleIds, err = s.repos.UserRole.RoleIdsOfUser(gctx, userId)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.WithStack(ErrUserNotFound)
	}

	roles, err := s.repos.Role.GetByIds(ctx, roleIds)
	if err != nil {
		return nil, err
	}
	enabled := make([]uint64, 0, len(roles))
	for _, r := range roles {
		if r.IsEnabled {
			enabled = append(enabled, r.Id)
		}
	}
	menuIds, err := s.repos.RoleMenu.MenuIdsOfRoles(ctx, enabled)
	if err != nil {
		return nil, err
	}
	menus, err := s.repos.Menu.ListByIds(ctx, menuIds)
	if err != nil {
		return nil, err
	}
	out := menus[:0]
	for _, m := range menus {
		if m.IsEnabled {
			out = append(out, m)
		}
	}
	return out, nil
}

// GetUserMenuTree 导航菜单树，不含按钮与隐藏菜单；上级菜单未授权、停用或隐藏时下级也不出现
func (s *MenuService) GetUserMenuTree(ctx context.Context, userId uint64) ([]*model.MenuNode, error) {
	menus, err := s.userMenus(ctx, userId)
	if err != nil {
		return nil, err
	}
	nav := make([]model.Menu, 0, len(menus))
	for _, m := range menus {
		if m.IsVisible && m.MenuType != model.MenuTypeButton {
			nav = append(nav, m)
		}
	}
	return navForest(nav), nil
}

// GetUserPermissions 用户可访问菜单的编码，包含按钮
func (s *MenuService) GetUserPermissions(ctx context.Context, userId uint64) ([]string, error) {
	menus, err := s.userMenus(ctx, userId)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(menus))
	for _, m := range menus {
		codes = append(codes, m.MenuCode)
	}
	sort.Strings(codes)
	return codes, nil
}
