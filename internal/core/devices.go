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

// DeviceChanges carries the answers of a device update. Blank keeps the
// current value.
type DeviceChanges struct {
	Description string
	Brand       string
	Type        string
	Code        string
}

func deviceCodeOwner(rec Records) validation.Owner {
	return func(ctx context.Context, code string) (string, bool, error) {
		d, err := rec.DeviceByCode(ctx, code)
		if errors.Is(err, db.ErrNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return d.ID, true, nil
	}
}

// CheckDeviceField validates one device answer. The code is also checked
// for uniqueness; self, when set, may keep its own code.
func CheckDeviceField(ctx context.Context, rec Records, field validation.Field, value string, self *model.Device) error {
	if err := validation.Value(field, value, true); err != nil {
		return err
	}
	if field != validation.FieldCode {
		return nil
	}
	selfID := ""
	if self != nil {
		selfID = self.ID
	}
	return validation.Unique(ctx, field, value, selfID, deviceCodeOwner(rec))
}

// ListDevices returns every device with its derived state, ordered by code.
func ListDevices(ctx context.Context, rec Records) ([]DeviceStatus, error) {
	devices, err := rec.Devices(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DeviceStatus, 0, len(devices))
	for _, d := range devices {
		st, err := StatusOf(ctx, rec, d)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// AddDevice validates and stores a new device. Brand and type accept either
// the token or the display form.
func AddDevice(ctx context.Context, rec Records, description, brand, deviceType, code string) (*model.Device, error) {
	in := validation.DeviceInput{Description: description, Brand: brand, Type: deviceType, Code: code}
	if err := validation.Device(in); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if err := validation.Unique(ctx, validation.FieldCode, code, "", deviceCodeOwner(rec)); err != nil {
		return nil, err
	}
	b, _ := model.ParseBrand(brand)
	t, _ := model.ParseDeviceType(deviceType)

	d := &model.Device{Description: strings.TrimSpace(description), Brand: b, Type: t, Code: code}
	if err := rec.InsertDevice(ctx, d); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &validation.Error{Field: validation.FieldCode, Reason: validation.ReasonDuplicate, Value: code}
		}
		return nil, fmt.Errorf("failed to add device: %w", err)
	}
	logging.Infof("device %s added", d.Code)
	return d, nil
}

// UpdateDevice applies the non-blank changes to the device with code.
func UpdateDevice(ctx context.Context, rec Records, code string, ch DeviceChanges) (*model.Device, error) {
	d, err := FindDevice(ctx, rec, code)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(ch.Description); v != "" {
		if err := CheckDeviceField(ctx, rec, validation.FieldDescription, v, d); err != nil {
			return nil, err
		}
		d.Description = v
	}
	if v := strings.TrimSpace(ch.Brand); v != "" {
		if err := CheckDeviceField(ctx, rec, validation.FieldBrand, v, d); err != nil {
			return nil, err
		}
		d.Brand, _ = model.ParseBrand(v)
	}
	if v := strings.TrimSpace(ch.Type); v != "" {
		if err := CheckDeviceField(ctx, rec, validation.FieldType, v, d); err != nil {
			return nil, err
		}
		d.Type, _ = model.ParseDeviceType(v)
	}
	if v := strings.TrimSpace(ch.Code); v != "" {
		if err := CheckDeviceField(ctx, rec, validation.FieldCode, v, d); err != nil {
			return nil, err
		}
		d.Code = v
	}

	if err := rec.UpdateDevice(ctx, d); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, &validation.Error{Field: validation.FieldCode, Reason: validation.ReasonDuplicate, Value: d.Code}
		}
		return nil, fmt.Errorf("failed to update device: %w", err)
	}
	return d, nil
}

// DeleteDevice removes the device and cascades its usage history, including
// an open usage. It returns the number of usages removed.
func DeleteDevice(ctx context.Context, rec Records, code string) (int64, error) {
	d, err := FindDevice(ctx, rec, code)
	if err != nil {
		return 0, err
	}
	removed, err := rec.DeleteDevice(ctx, d.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete device: %w", err)
	}
	logging.Infof("device %s deleted with %d usages", d.Code, removed)
	return removed, nil
}

// HistoryEntry is one usage of a device with the code of its employee.
// EmployeeCode is empty when the employee no longer exists.
type HistoryEntry struct {
	Usage        model.Usage
	EmployeeCode string
}

// DeviceHistory returns the device with code and its usages, oldest first.
func DeviceHistory(ctx context.Context, rec Records, code string) (*model.Device, []HistoryEntry, error) {
	d, err := FindDevice(ctx, rec, code)
	if err != nil {
		return nil, nil, err
	}
	usages, err := rec.UsagesForDevice(ctx, d.ID)
	if err != nil {
		return nil, nil, err
	}
	codes := make(map[string]string)
	out := make([]HistoryEntry, 0, len(usages))
	for _, u := range usages {
		ec, seen := codes[u.EmployeeID]
		if !seen {
			e, err := rec.EmployeeByID(ctx, u.EmployeeID)
			switch {
			case err == nil:
				ec = e.Code
			case !errors.Is(err, db.ErrNotFound):
				return nil, nil, err
			}
			codes[u.EmployeeID] = ec
		}
		out = append(out, HistoryEntry{Usage: u, EmployeeCode: ec})
	}
	return d, out, nil
}
