// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/toeirei/assetkeeper/internal/model"
)

// SnapshotSchemaVersion is written into every exported snapshot.
const SnapshotSchemaVersion = 1

// ImportStats reports what a restore inserted and skipped.
type ImportStats struct {
	Inserted int
	Skipped  int
}

// ExportSnapshot reads every table into a Snapshot.
func (s *Session) ExportSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{SchemaVersion: SnapshotSchemaVersion, CreatedAt: time.Now().UTC()}

	var err error
	if snap.Employees, err = s.Employees(ctx); err != nil {
		return nil, err
	}
	if snap.Devices, err = s.Devices(ctx); err != nil {
		return nil, err
	}
	var ums []UsageModel
	if err := s.tx.NewSelect().Model(&ums).OrderExpr("used_at ASC, id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to export usages: %w", err)
	}
	for _, um := range ums {
		snap.Usages = append(snap.Usages, usageModelToModel(um))
	}
	return snap, nil
}

// ImportSnapshot writes snap into the database. With full set, every table
// is wiped first. Otherwise employees matching a stored id, code or email
// and devices matching a stored id or code are skipped, and their usages
// are attached to the stored rows. Usages of devices that exist nowhere are
// skipped. An open usage for a device that is already held is restored as
// CHECKED_OUT.
func (s *Session) ImportSnapshot(ctx context.Context, snap *model.Snapshot, full bool) (ImportStats, error) {
	var st ImportStats
	if snap == nil {
		return st, fmt.Errorf("empty snapshot")
	}
	if snap.SchemaVersion > SnapshotSchemaVersion {
		return st, fmt.Errorf("snapshot schema version %d is newer than supported version %d", snap.SchemaVersion, SnapshotSchemaVersion)
	}

	if err := normalizeTags(snap); err != nil {
		return st, err
	}

	if full {
		// Bun refuses DELETE without WHERE, so wipe with raw statements.
		for _, table := range []string{"usages", "devices", "employees"} {
			if _, err := ExecRaw(ctx, s.tx, "DELETE FROM "+table); err != nil {
				return st, fmt.Errorf("failed to wipe %s: %w", table, err)
			}
		}
	}

	// Rows already present are skipped. The id maps send usages of a
	// skipped row to the stored row it clashed with.
	employeeIDs := make(map[string]string, len(snap.Employees))
	for i := range snap.Employees {
		e := snap.Employees[i]
		stored, err := s.employeeClash(ctx, e)
		if err != nil {
			return st, err
		}
		if stored != "" {
			employeeIDs[e.ID] = stored
			st.Skipped++
			continue
		}
		if err := s.InsertEmployee(ctx, &e); err != nil {
			return st, fmt.Errorf("failed to restore employee %s: %w", e.Code, err)
		}
		employeeIDs[snap.Employees[i].ID] = e.ID
		st.Inserted++
	}

	deviceIDs := make(map[string]string, len(snap.Devices))
	for i := range snap.Devices {
		d := snap.Devices[i]
		stored, err := s.deviceClash(ctx, d)
		if err != nil {
			return st, err
		}
		if stored != "" {
			deviceIDs[d.ID] = stored
			st.Skipped++
			continue
		}
		if err := s.InsertDevice(ctx, &d); err != nil {
			return st, fmt.Errorf("failed to restore device %s: %w", d.Code, err)
		}
		deviceIDs[snap.Devices[i].ID] = d.ID
		st.Inserted++
	}

	for i := range snap.Usages {
		u := snap.Usages[i]
		ok, err := s.exists(ctx, "usages", u.ID)
		if err != nil {
			return st, err
		}
		if ok {
			st.Skipped++
			continue
		}
		if id, found := employeeIDs[u.EmployeeID]; found {
			u.EmployeeID = id
		}
		if id, found := deviceIDs[u.DeviceID]; found {
			u.DeviceID = id
		} else if ok, err := s.exists(ctx, "devices", u.DeviceID); err != nil {
			return st, err
		} else if !ok {
			dbLogf("db: restore skipped usage %s of unknown device %s", u.ID, u.DeviceID)
			st.Skipped++
			continue
		}
		if u.IsOpen() {
			// A device has at most one open usage; a second one is restored closed.
			open, err := s.OpenUsageForDevice(ctx, u.DeviceID)
			switch {
			case err == nil:
				dbLogf("db: restore closed usage %s, device %s is held by usage %s", u.ID, u.DeviceID, open.ID)
				u.Status = model.CheckedOut
			case !errors.Is(err, ErrNotFound):
				return st, err
			}
		}
		if err := s.InsertUsage(ctx, &u); err != nil {
			return st, fmt.Errorf("failed to restore usage %s: %w", u.ID, err)
		}
		st.Inserted++
	}
	dbLogf("db: restore inserted=%d skipped=%d full=%t", st.Inserted, st.Skipped, full)
	return st, nil
}

// Count returns the number of rows in one of the application tables.
func (s *Session) Count(ctx context.Context, table string) (int, error) {
	switch table {
	case "employees", "devices", "usages":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	var n int
	if err := QueryRawInto(ctx, s.tx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, err
	}
	return n, nil
}

// normalizeTags rewrites the brand, type and status values of snap to their
// stored tokens, so hand-edited backups may use the display form.
func normalizeTags(snap *model.Snapshot) error {
	for i := range snap.Devices {
		d := &snap.Devices[i]
		b, err := model.ParseBrand(string(d.Brand))
		if err != nil {
			return fmt.Errorf("%w: device %s: %v", ErrInvalidValue, d.Code, err)
		}
		t, err := model.ParseDeviceType(string(d.Type))
		if err != nil {
			return fmt.Errorf("%w: device %s: %v", ErrInvalidValue, d.Code, err)
		}
		d.Brand, d.Type = b, t
	}
	for i := range snap.Usages {
		u := &snap.Usages[i]
		if u.Status == "" {
			continue
		}
		st, err := model.ParseUsageStatus(string(u.Status))
		if err != nil {
			return fmt.Errorf("%w: usage %s: %v", ErrInvalidValue, u.ID, err)
		}
		u.Status = st
	}
	return nil
}

// employeeClash returns the id of a stored employee that shares e's id,
// code or email, or "" when e can be inserted.
func (s *Session) employeeClash(ctx context.Context, e model.Employee) (string, error) {
	lookups := []func() (*model.Employee, error){
		func() (*model.Employee, error) { return s.EmployeeByID(ctx, e.ID) },
		func() (*model.Employee, error) { return s.EmployeeByCode(ctx, e.Code) },
		func() (*model.Employee, error) { return s.EmployeeByEmail(ctx, e.Email) },
	}
	for _, lookup := range lookups {
		found, err := lookup()
		if err == nil {
			return found.ID, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("failed to check employee %s: %w", e.Code, err)
		}
	}
	return "", nil
}

// deviceClash returns the id of a stored device that shares d's id or code.
func (s *Session) deviceClash(ctx context.Context, d model.Device) (string, error) {
	ok, err := s.exists(ctx, "devices", d.ID)
	if err != nil {
		return "", err
	}
	if ok {
		return d.ID, nil
	}
	found, err := s.DeviceByCode(ctx, d.Code)
	switch {
	case err == nil:
		return found.ID, nil
	case errors.Is(err, ErrNotFound):
		return "", nil
	}
	return "", fmt.Errorf("failed to check device %s: %w", d.Code, err)
}

func (s *Session) exists(ctx context.Context, table, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	var n int
	if err := QueryRawInto(ctx, s.tx, &n, "SELECT COUNT(*) FROM "+table+" WHERE id = ?", id); err != nil {
		return false, fmt.Errorf("failed to check %s %s: %w", table, id, err)
	}
	return n > 0, nil
}
