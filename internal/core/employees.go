// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/logging"
	"github.com/toeirei/assetkeeper/internal/model"
	"github.com/toeirei/assetkeeper/internal/validation"
)

// EmployeeChanges carries the answers of an update. A blank field keeps the
// current value.
type EmployeeChanges struct {
	FirstName string
	LastName  string
	Email     string
	Code      string
}

func employeeCodeOwner(rec Records) validation.Owner {
	return func(ctx context.Context, code string) (string, bool, error) {
		return ownerOf(rec.EmployeeByCode(ctx, code))
	}
}

func employeeEmailOwner(rec Records) validation.Owner {
	return func(ctx context.Context, email string) (string, bool, error) {
		return ownerOf(rec.EmployeeByEmail(ctx, email))
	}
}

func ownerOf(e *model.Employee, err error) (string, bool, error) {
	if errors.Is(err, db.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.ID, true, nil
}

// CheckEmployeeField validates one employee answer. Email and code are also
// checked for uniqueness; self, when set, may keep its own values.
func CheckEmployeeField(ctx context.Context, rec Records, field validation.Field, value string, self *model.Employee) error {
	if err := validation.Value(field, value, false); err != nil {
		return err
	}
	selfID := ""
	if self != nil {
		selfID = self.ID
	}
	switch field {
	case validation.FieldEmail:
		return validation.Unique(ctx, field, value, selfID, employeeEmailOwner(rec))
	case validation.FieldCode:
		return validation.Unique(ctx, field, value, selfID, employeeCodeOwner(rec))
	}
	return nil
}

// ListEmployees returns every employee ordered by code.
func ListEmployees(ctx context.Context, rec Records) ([]model.Employee, error) {
	return rec.Employees(ctx)
}

// AddEmployee validates and stores a new employee.
func AddEmployee(ctx context.Context, rec Records, e model.Employee) (*model.Employee, error) {
	e.FirstName = strings.TrimSpace(e.FirstName)
	e.LastName = strings.TrimSpace(e.LastName)
	e.Email = strings.TrimSpace(e.Email)
	e.Code = strings.TrimSpace(e.Code)

	in := validation.EmployeeInput{FirstName: e.FirstName, LastName: e.LastName, Email: e.Email, Code: e.Code}
	if err := validation.Employee(in); err != nil {
		return nil, err
	}
	if err := validation.Unique(ctx, validation.FieldEmail, e.Email, "", employeeEmailOwner(rec)); err != nil {
		return nil, err
	}
	if err := validation.Unique(ctx, validation.FieldCode, e.Code, "", employeeCodeOwner(rec)); err != nil {
		return nil, err
	}

	e.ID = ""
	if err := rec.InsertEmployee(ctx, &e); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &validation.Error{Field: validation.FieldCode, Reason: validation.ReasonDuplicate, Value: e.Code}
		}
		return nil, fmt.Errorf("failed to add employee: %w", err)
	}
	logging.Infof("employee %s added", e.Code)
	return &e, nil
}

// UpdateEmployee applies the non-blank changes to the employee with code.
func UpdateEmployee(ctx context.Context, rec Records, code string, ch EmployeeChanges) (*model.Employee, error) {
	e, err := FindEmployee(ctx, rec, code)
	if err != nil {
		return nil, err
	}

	apply := []struct {
		field  validation.Field
		answer string
		target *string
	}{
		{validation.FieldFirstName, ch.FirstName, &e.FirstName},
		{validation.FieldLastName, ch.LastName, &e.LastName},
		{validation.FieldEmail, ch.Email, &e.Email},
		{validation.FieldCode, ch.Code, &e.Code},
	}
	for _, a := range apply {
		answer := strings.TrimSpace(a.answer)
		if answer == "" {
			continue
		}
		if err := CheckEmployeeField(ctx, rec, a.field, answer, e); err != nil {
			return nil, err
		}
		*a.target = answer
	}

	if err := rec.UpdateEmployee(ctx, e); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &validation.Error{Field: validation.FieldCode, Reason: validation.ReasonDuplicate, Value: e.Code}
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return e, nil
}

// DeleteEmployee force-checks-out every open usage of the employee and then
// removes the employee. The usages themselves are kept. It returns how many
// usages were closed.
func DeleteEmployee(ctx context.Context, rec Records, code string) (int64, error) {
	e, err := FindEmployee(ctx, rec, code)
	if err != nil {
		return 0, err
	}
	closed, err := CloseOpenUsages(ctx, rec, e.ID)
	if err != nil {
		return 0, err
	}
	if err := rec.DeleteEmployee(ctx, e.ID); err != nil {
		return 0, fmt.Errorf("failed to delete employee: %w", err)
	}
	logging.Infof("employee %s deleted, %d open usages closed", e.Code, closed)
	return closed, nil
}
