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
	"strings"

	"github.com/go-arcade/arcade-admin/internal/admin/model"
	"github.com/go-arcade/arcade-admin/internal/admin/repo"
	"github.com/go-arcade/arcade-admin/pkg/errs"
	"github.com/go-arcade/arcade-admin/pkg/log"
	"github.com/pkg/errors"
)

type DepartmentService struct {
	repos *repo.Repositories
}

func NewDepartmentService(repos *repo.Repositories) *DepartmentService {
	return &DepartmentService{repos: repos}
}

func (s *DepartmentService) GetDepartment(ctx context.Context, id uint64) (*model.Department, error) {
	return s.repos.Department.GetById(ctx, id)
}

func (s *DepartmentService) GetDepartmentTree(ctx context.Context) ([]*model.DepartmentNode, error) {
	depts, err := s.repos.Department.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	roots, orphans := buildForest(depts,
		func(d model.Department) uint64 { return d.Id },
		model.Department.GetParentId,
		func(d model.Department) *model.DepartmentNode {
			return &model.DepartmentNode{Department: d, Children: []*model.DepartmentNode{}}
		},
		func(p, c *model.DepartmentNode) { p.Children = append(p.Children, c) },
	)
	if len(orphans) > 0 {
		log.Warnw("departments with missing parent promoted to root", "ids", orphans)
	}
	return roots, nil
}

func validateDepartment(req *model.DepartmentReq) error {
	if strings.TrimSpace(req.DepartmentName) == "" {
		return errs.Validation("部门名称不能为空")
	}
	if strings.TrimSpace(req.DepartmentCode) == "" {
		return errs.Validation("部门编码不能为空")
	}
	return nil
}

func (s *DepartmentService) checkParent(ctx context.Context, id uint64, parentId *uint64) error {
	if parentId == nil || *parentId == 0 {
		return nil
	}
	if id != 0 && *parentId == id {
		return errors.WithStack(ErrParentCycle)
	}
	depts, err := s.repos.Department.ListAll(ctx)
	if err != nil {
		return err
	}
	parents := make(map[uint64]*uint64, len(depts))
	for _, d := range depts {
		parents[d.Id] = d.ParentId
	}
	if _, ok := parents[*parentId]; !ok {
		return errors.WithStack(ErrParentNotFound)
	}
	if id != 0 && createsCycle(id, *parentId, parents) {
		return errors.WithStack(ErrParentCycle)
	}
	return nil
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, req *model.DepartmentReq) (*model.Department, error) {
	if err := validateDepartment(req); err != nil {
		return nil, err
	}
	code := strings.TrimSpace(req.DepartmentCode)
	taken, err := s.repos.Department.ExistsCode(ctx, code, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.WithStack(ErrCodeTaken)
	}
	if err := s.checkParent(ctx, 0, req.ParentId); err != nil {
		return nil, err
	}

	dept := &model.Department{
		DepartmentName: strings.TrimSpace(req.DepartmentName),
		DepartmentCode: code,
		ParentId:       normalizeParent(req.ParentId),
		ManagerId:      req.ManagerId,
		Phone:          req.Phone,
		Email:          req.Email,
		Sort:           req.Sort,
		IsEnabled:      req.IsEnabled == nil || *req.IsEnabled,
		Description:    req.Description,
	}
	if _, err := s.repos.Department.Add(ctx, dept); err != nil {
		return nil, err
	}
	log.Infow("department created", "departmentId", dept.Id, "departmentCode", dept.DepartmentCode)
	return dept, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, req *model.DepartmentReq) (bool, error) {
	if err := validateDepartment(req); err != nil {
		return false, err
	}
	dept, err := s.repos.Department.GetById(ctx, req.Id)
	if err != nil || dept == nil {
		return false, err
	}
	code := strings.TrimSpace(req.DepartmentCode)
	if code != dept.DepartmentCode {
		taken, err := s.repos.Department.ExistsCode(ctx, code, &dept.Id)
		if err != nil {
			return false, err
		}
		if taken {
			return false, errors.WithStack(ErrCodeTaken)
		}
	}
	if err := s.checkParent(ctx, dept.Id, req.ParentId); err != nil {
		return false, err
	}

	dept.DepartmentName = strings.TrimSpace(req.DepartmentName)
	dept.DepartmentCode = code
	dept.ParentId = normalizeParent(req.ParentId)
	dept.ManagerId = req.ManagerId
	dept.Phone = req.Phone
	dept.Email = req.Email
	dept.Sort = req.Sort
	dept.Description = req.Description
	if req.IsEnabled != nil {
		dept.IsEnabled = *req.IsEnabled
	}
	if err := s.repos.Department.Update(ctx, dept); err != nil {
		return false, err
	}
	log.Infow("department updated", "departmentId", dept.Id)
	return true, nil
}

// DeleteDepartment 存在下级部门或仍有用户时拒绝删除
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint64) (bool, error) {
	dept, err := s.repos.Department.GetById(ctx, id)
	if err != nil || dept == nil {
		return false, err
	}
	n, err := s.repos.Department.CountChildren(ctx, id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, errors.WithStack(ErrHasChildren)
	}
	users, err := s.repos.User.CountByDepartment(ctx, id)
	if err != nil {
		return false, err
	}
	if users > 0 {
		return false, errors.WithStack(ErrDepartmentInUse)
	}

	if err := s.repos.Department.DeleteById(ctx, id); err != nil {
		return false, err
	}
	log.Infow("department deleted", "departmentId", id)
	return true, nil
}
