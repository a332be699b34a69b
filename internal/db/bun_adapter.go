// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"time"

	"github.com/toeirei/assetkeeper/internal/model"
	"github.com/uptrace/bun"
)

// EmployeeModel maps the `employees` table for Bun queries.
type EmployeeModel struct {
	bun.BaseModel `bun:"table:employees"`
	ID            string `bun:"id,pk"`
	FirstName     string `bun:"first_name"`
	LastName      string `bun:"last_name"`
	Email         string `bun:"email"`
	Code          string `bun:"code"`
}

// DeviceModel maps the `devices` table.
type DeviceModel struct {
	bun.BaseModel `bun:"table:devices"`
	ID            string `bun:"id,pk"`
	Description   string `bun:"description"`
	Brand         string `bun:"brand"`
	Type          string `bun:"type"`
	Code          string `bun:"code"`
}

// UsageModel maps the `usages` table.
type UsageModel struct {
	bun.BaseModel `bun:"table:usages"`
	ID            string    `bun:"id,pk"`
	UsedAt        time.Time `bun:"used_at"`
	EmployeeID    string    `bun:"employee_id"`
	DeviceID      string    `bun:"device_id"`
	Status        string    `bun:"status"`
}

// usageRowModel receives the usages/devices join used by reports.
type usageRowModel struct {
	UsedAt      time.Time `bun:"used_at"`
	Status      string    `bun:"status"`
	Description string    `bun:"description"`
	Brand       string    `bun:"brand"`
	Type        string    `bun:"type"`
	Code        string    `bun:"code"`
}

func employeeModelToModel(m EmployeeModel) model.Employee {
	return model.Employee{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Email:     m.Email,
		Code:      m.Code,
	}
}

func employeeToModel(e model.Employee) *EmployeeModel {
	return &EmployeeModel{
		ID:        e.ID,
		FirstName: e.FirstName,
		LastName:  e.LastName,
		Email:     e.Email,
		Code:      e.Code,
	}
}

func deviceModelToModel(m DeviceModel) model.Device {
	return model.Device{
		ID:          m.ID,
		Description: m.Description,
		Brand:       model.Brand(m.Brand),
		Type:        model.DeviceType(m.Type),
		Code:        m.Code,
	}
}

func deviceToModel(d model.Device) *DeviceModel {
	return &DeviceModel{
		ID:          d.ID,
		Description: d.Description,
		Brand:       string(d.Brand),
		Type:        string(d.Type),
		Code:        d.Code,
	}
}

func usageModelToModel(m UsageModel) model.Usage {
	return model.Usage{
		ID:         m.ID,
		Date:       m.UsedAt.UTC(),
		EmployeeID: m.EmployeeID,
		DeviceID:   m.DeviceID,
		Status:     model.UsageStatus(m.Status),
	}
}

func usageToModel(u model.Usage) *UsageModel {
	return &UsageModel{
		ID:         u.ID,
		UsedAt:     u.Date.UTC(),
		EmployeeID: u.EmployeeID,
		DeviceID:   u.DeviceID,
		Status:     string(u.Status),
	}
}

func usageRowModelToModel(m usageRowModel) model.UsageRow {
	return model.UsageRow{
		Date:        m.UsedAt.UTC(),
		Status:      model.UsageStatus(m.Status),
		Description: m.Description,
		Brand:       model.Brand(m.Brand),
		Type:        model.DeviceType(m.Type),
		Code:        m.Code,
	}
}
