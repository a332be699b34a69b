// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/logging"
	"github.com/toeirei/assetkeeper/internal/model"
)

// now is overridable in tests.
var now = func() time.Time { return time.Now().UTC() }

// DeviceStatus describes a device together with its derived state.
type DeviceStatus struct {
	Device model.Device
	State  model.DeviceState
	// Holder is the employee of the open usage; nil when AVAILABLE or when
	// the holder record no longer exists.
	Holder *model.Employee
	Open   *model.Usage
}

// FindEmployee resolves an employee code, mapping a miss to ErrEmployeeNotFound.
func FindEmployee(ctx context.Context, rec Records, code string) (*model.Employee, error) {
	e, err := rec.EmployeeByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, db.ErrNotFound) {
		return nil, codeError(ErrEmployeeNotFound, strings.TrimSpace(code))
	}
	return e, err
}

// FindDevice resolves a device code, mapping a miss to ErrDeviceNotFound.
func FindDevice(ctx context.Context, rec Records, code string) (*model.Device, error) {
	d, err := rec.DeviceByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, db.ErrNotFound) {
		return nil, codeError(ErrDeviceNotFound, strings.TrimSpace(code))
	}
	return d, err
}

// openUsage returns the open usage of the device, or nil when AVAILABLE.
func openUsage(ctx context.Context, rec Records, deviceID string) (*model.Usage, error) {
	u, err := rec.OpenUsageForDevice(ctx, deviceID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func machineFor(open *model.Usage, actorID string) (*deviceMachine, error) {
	if open == nil {
		return newDeviceMachine(model.DeviceAvailable, "", actorID)
	}
	return newDeviceMachine(model.DeviceInUse, open.EmployeeID, actorID)
}

// CheckIn opens a usage binding the employee to the device. The device must
// be AVAILABLE; otherwise ErrAlreadyCheckedIn is returned and nothing is
// written.
func CheckIn(ctx context.Context, rec Records, employeeCode, deviceCode string) (*model.Usage, error) {
	e, err := FindEmployee(ctx, rec, employeeCode)
	if err != nil {
		return nil, err
	}
	d, err := FindDevice(ctx, rec, deviceCode)
	if err != nil {
		return nil, err
	}
	open, err := openUsage(ctx, rec, d.ID)
	if err != nil {
		return nil, err
	}

	m, err := machineFor(open, e.ID)
	if err != nil {
		return nil, err
	}
	if err := m.fire(eventCheckIn); err != nil {
		return nil, codeError(err, d.Code)
	}

	u := &model.Usage{EmployeeID: e.ID, DeviceID: d.ID, Status: model.CheckedIn, Date: now()}
	if err := rec.InsertUsage(ctx, u); err != nil {
		// The partial unique index catches a concurrent check-in.
		if errors.Is(err, db.ErrDuplicate) {
			return nil, codeError(ErrAlreadyCheckedIn, d.Code)
		}
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	logging.Infof("device %s checked in by %s, now %s", d.Code, e.Code, m.State())
	return u, nil
}

// CheckOut closes the open usage of the device. The usage must exist
// (ErrNotCheckedIn) and belong to the same employee (ErrHeldByAnother).
// The usage row is flipped to CHECKED_OUT; no row is created.
func CheckOut(ctx context.Context, rec Records, employeeCode, deviceCode string) (*model.Usage, error) {
	e, err := FindEmployee(ctx, rec, employeeCode)
	if err != nil {
		return nil, err
	}
	d, err := FindDevice(ctx, rec, deviceCode)
	if err != nil {
		return nil, err
	}
	open, err := openUsage(ctx, rec, d.ID)
	if err != nil {
		return nil, err
	}

	m, err := machineFor(open, e.ID)
	if err != nil {
		return nil, err
	}
	if err := m.fire(eventCheckOut); err != nil {
		return nil, codeError(err, d.Code)
	}

	if err := rec.SetUsageStatus(ctx, open.ID, model.CheckedOut); err != nil {
		return nil, fmt.Errorf("failed to record check-out: %w", err)
	}
	open.Status = model.CheckedOut
	logging.Infof("device %s checked out by %s, now %s", d.Code, e.Code, m.State())
	return open, nil
}

// CloseOpenUsages force-checks-out every open usage of the employee and
// returns how many were closed.
func CloseOpenUsages(ctx context.Context, rec Records, employeeID string) (int64, error) {
	n, err := rec.CloseOpenUsages(ctx, employeeID)
	if err != nil {
		return 0, fmt.Errorf("failed to close open usages: %w", err)
	}
	return n, nil
}

// StatusOf derives the state of one device.
func StatusOf(ctx context.Context, rec Records, d model.Device) (DeviceStatus, error) {
	st := DeviceStatus{Device: d, State: model.DeviceAvailable}
	open, err := openUsage(ctx, rec, d.ID)
	if err != nil {
		return st, err
	}
	if open == nil {
		return st, nil
	}
	st.State = model.DeviceInUse
	st.Open = open
	holder, err := rec.EmployeeByID(ctx, open.EmployeeID)
	switch {
	case err == nil:
		st.Holder = holder
	case errors.Is(err, db.ErrNotFound):
		logging.Warnf("device %s is held by unknown employee %s", d.Code, open.EmployeeID)
	default:
		return st, err
	}
	return st, nil
}

// DeviceState derives the state of the device with the given code.
func DeviceState(ctx context.Context, rec Records, deviceCode string) (DeviceStatus, error) {
	d, err := FindDevice(ctx, rec, deviceCode)
	if err != nil {
		return DeviceStatus{}, err
	}
	return StatusOf(ctx, rec, *d)
}
