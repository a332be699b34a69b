// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core holds the business rules of Assetkeeper: the check-in and
// check-out protocol for devices, employee and device maintenance with their
// validation, and usage reports. Every operation works against a Records
// value, which in production is one transactional *db.Session per command.
package core

import (
	"context"
	"iter"

	"github.com/toeirei/assetkeeper/internal/model"
)

// Records is the slice of the record store that core operations use.
// Lookups return db.ErrNotFound when nothing matches.
type Records interface {
	Employees(ctx context.Context) ([]model.Employee, error)
	EmployeeByCode(ctx context.Context, code string) (*model.Employee, error)
	EmployeeByEmail(ctx context.Context, email string) (*model.Employee, error)
	EmployeeByID(ctx context.Context, id string) (*model.Employee, error)
	InsertEmployee(ctx context.Context, e *model.Employee) error
	UpdateEmployee(ctx context.Context, e *model.Employee) error
	DeleteEmployee(ctx context.Context, id string) error

	Devices(ctx context.Context) ([]model.Device, error)
	DeviceByCode(ctx context.Context, code string) (*model.Device, error)
	InsertDevice(ctx context.Context, d *model.Device) error
	UpdateDevice(ctx context.Context, d *model.Device) error
	DeleteDevice(ctx context.Context, id string) (int64, error)

	OpenUsageForDevice(ctx context.Context, deviceID string) (*model.Usage, error)
	InsertUsage(ctx context.Context, u *model.Usage) error
	UsagesForDevice(ctx context.Context, deviceID string) ([]model.Usage, error)
	SetUsageStatus(ctx context.Context, id string, status model.UsageStatus) error
	CloseOpenUsages(ctx context.Context, employeeID string) (int64, error)
	UsageRows(ctx context.Context, employeeID string, status model.UsageStatus) iter.Seq2[model.UsageRow, error]
}
