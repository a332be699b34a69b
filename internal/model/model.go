// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core data structures used throughout Assetkeeper.
// These structs represent the main entities in the database, such as
// employees, devices and the usage records that bind one to the other.
package model // import "github.com/toeirei/assetkeeper/internal/model"

import (
	"fmt"
	"time"
)

// Employee is a person who can check devices in and out.
// Email and Code are unique across all employees.
type Employee struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Code      string `json:"code"`
}

// String returns the display form used in prompts and log lines.
func (e Employee) String() string {
	return fmt.Sprintf("%s %s <%s>", e.FirstName, e.LastName, e.Code)
}

// Device is a tracked piece of hardware. Code is unique across all devices.
type Device struct {
	ID          string     `json:"id"`
	Description string     `json:"description"`
	Brand       Brand      `json:"brand"`
	Type        DeviceType `json:"type"`
	Code        string     `json:"code"`
}

func (d Device) String() string {
	return fmt.Sprintf("%s (%s %s) <%s>", d.Description, d.Brand, d.Type, d.Code)
}

// Usage binds one employee to one device. A usage is opened by a check-in
// with status CheckedIn and closed by flipping the status to CheckedOut.
type Usage struct {
	ID         string      `json:"id"`
	Date       time.Time   `json:"date"`
	EmployeeID string      `json:"employee_id"`
	DeviceID   string      `json:"device_id"`
	Status     UsageStatus `json:"status"`
}

// IsOpen reports whether the usage still holds its device.
func (u Usage) IsOpen() bool {
	return u.Status == CheckedIn
}

// UsageRow is a usage joined with the attributes of its device, as shown
// in employee reports.
type UsageRow struct {
	Date        time.Time
	Status      UsageStatus
	Description string
	Brand       Brand
	Type        DeviceType
	Code        string
}

// DeviceState is the derived availability of a device.
type DeviceState string

const (
	// DeviceAvailable means no usage for the device is open.
	DeviceAvailable DeviceState = "AVAILABLE"
	// DeviceInUse means exactly one usage for the device is open.
	DeviceInUse DeviceState = "IN_USE"
)

// Snapshot holds the full contents of the database for backup and restore.
type Snapshot struct {
	SchemaVersion int        `json:"schema_version"`
	CreatedAt     time.Time  `json:"created_at"`
	Employees     []Employee `json:"employees"`
	Devices       []Device   `json:"devices"`
	Usages        []Usage    `json:"usages"`
}
