// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/toeirei/assetkeeper/internal/model"
)

// Employees returns all employees ordered by code.
func (s *Session) Employees(ctx context.Context) ([]model.Employee, error) {
	var ems []EmployeeModel
	if err := s.tx.NewSelect().Model(&ems).OrderExpr("code ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]model.Employee, 0, len(ems))
	for _, em := range ems {
		out = append(out, employeeModelToModel(em))
	}
	return out, nil
}

// EmployeeByCode returns the employee with the given code or ErrNotFound.
func (s *Session) EmployeeByCode(ctx context.Context, code string) (*model.Employee, error) {
	return s.employeeWhere(ctx, "code = ?", code)
}

// EmployeeByEmail returns the employee with the given email or ErrNotFound.
func (s *Session) EmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	return s.employeeWhere(ctx, "email = ?", email)
}

// EmployeeByID returns the employee with the given id or ErrNotFound.
func (s *Session) EmployeeByID(ctx context.Context, id string) (*model.Employee, error) {
	return s.employeeWhere(ctx, "id = ?", id)
}

func (s *Session) employeeWhere(ctx context.Context, where string, arg any) (*model.Employee, error) {
	var em EmployeeModel
	if err := s.tx.NewSelect().Model(&em).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	e := employeeModelToModel(em)
	return &e, nil
}

// InsertEmployee stores e, assigning a fresh id when e.ID is empty.
func (s *Session) InsertEmployee(ctx context.Context, e *model.Employee) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if _, err := s.tx.NewInsert().Model(employeeToModel(*e)).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	dbLogf("db: inserted employee %s (%s)", e.Code, e.ID)
	return nil
}

// UpdateEmployee overwrites every column of the employee identified by e.ID.
func (s *Session) UpdateEmployee(ctx context.Context, e *model.Employee) error {
	if _, err := s.tx.NewUpdate().Model(employeeToModel(*e)).WherePK().Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return nil
}

// DeleteEmployee removes the employee row. Usages that reference it are kept.
func (s *Session) DeleteEmployee(ctx context.Context, id string) error {
	res, err := s.tx.NewDelete().Model((*EmployeeModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if rowsAffected(res) == 0 {
		return ErrNotFound
	}
	return nil
}
