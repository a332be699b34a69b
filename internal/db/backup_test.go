// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/assetkeeper/internal/model"
)

func TestExportImportSnapshot(t *testing.T) {
	src := newTestStore(t)
	e, d := seedPair(t, src)
	inSession(t, src, func(ctx context.Context, sess *Session) error {
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID})
	})

	var snap *model.Snapshot
	inSession(t, src, func(ctx context.Context, sess *Session) error {
		var err error
		snap, err = sess.ExportSnapshot(ctx)
		return err
	})
	if len(snap.Employees) != 1 || len(snap.Devices) != 1 || len(snap.Usages) != 1 {
		t.Fatalf("unexpected snapshot sizes: %d/%d/%d", len(snap.Employees), len(snap.Devices), len(snap.Usages))
	}

	dst := newTestStore(t)
	inSession(t, dst, func(ctx context.Context, sess *Session) error {
		st, err := sess.ImportSnapshot(ctx, snap, false)
		if err != nil {
			return err
		}
		if st.Inserted != 3 || st.Skipped != 0 {
			t.Fatalf("unexpected import stats: %+v", st)
		}
		return nil
	})

	// Integrating the same snapshot again skips everything.
	inSession(t, dst, func(ctx context.Context, sess *Session) error {
		st, err := sess.ImportSnapshot(ctx, snap, false)
		if err != nil {
			return err
		}
		if st.Inserted != 0 || st.Skipped != 3 {
			t.Fatalf("unexpected import stats on re-import: %+v", st)
		}
		open, err := sess.OpenUsageForDevice(ctx, d.ID)
		if err != nil {
			return err
		}
		if open.EmployeeID != e.ID {
			t.Fatalf("restored usage lost its employee: %+v", open)
		}
		return nil
	})
}

func TestImportSnapshot_FullWipesFirst(t *testing.T) {
	s := newTestStore(t)
	seedPair(t, s)
	snap := &model.Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Devices:       []model.Device{{ID: "dev-1", Description: "QA phone 2", Brand: model.BrandSamsung, Type: model.TypePhone, Code: "005"}},
	}
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if _, err := sess.ImportSnapshot(ctx, snap, true); err != nil {
			return err
		}
		devices, err := sess.Devices(ctx)
		if err != nil {
			return err
		}
		if len(devices) != 1 || devices[0].Code != "005" {
			t.Fatalf("expected only restored device, got %+v", devices)
		}
		n, err := sess.Count(ctx, "employees")
		if err != nil {
			return err
		}
		if n != 0 {
			t.Fatalf("expected employees to be wiped, got %d", n)
		}
		return nil
	})
}

func TestImportSnapshot_RejectsNewerSchema(t *testing.T) {
	s := newTestStore(t)
	err := s.Session(context.Background(), func(ctx context.Context, sess *Session) error {
		_, err := sess.ImportSnapshot(ctx, &model.Snapshot{SchemaVersion: SnapshotSchemaVersion + 1}, false)
		return err
	})
	if err == nil {
		t.Fatalf("expected error for newer snapshot schema")
	}
}

// A snapshot from another install carries the same codes under other ids.
func TestImportSnapshot_MatchesByCodeAndRemapsUsages(t *testing.T) {
	src := newTestStore(t)
	srcEmp, srcDev := seedPair(t, src)
	inSession(t, src, func(ctx context.Context, sess *Session) error {
		if err := sess.InsertUsage(ctx, &model.Usage{EmployeeID: srcEmp.ID, DeviceID: srcDev.ID}); err != nil {
			return err
		}
		return sess.InsertDevice(ctx, &model.Device{Description: "Spare phone", Brand: model.BrandSamsung, Type: model.TypePhone, Code: "099"})
	})
	var snap *model.Snapshot
	inSession(t, src, func(ctx context.Context, sess *Session) error {
		var err error
		snap, err = sess.ExportSnapshot(ctx)
		return err
	})

	dst := newTestStore(t)
	dstEmp, dstDev := seedPair(t, dst)
	if dstEmp.ID == srcEmp.ID || dstDev.ID == srcDev.ID {
		t.Fatalf("expected fresh ids in the second store")
	}
	inSession(t, dst, func(ctx context.Context, sess *Session) error {
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: dstEmp.ID, DeviceID: dstDev.ID})
	})

	inSession(t, dst, func(ctx context.Context, sess *Session) error {
		st, err := sess.ImportSnapshot(ctx, snap, false)
		if err != nil {
			return err
		}
		// Employee 010 and device 001 skipped; device 099 and the usage inserted.
		if st.Inserted != 2 || st.Skipped != 2 {
			t.Fatalf("unexpected import stats: %+v", st)
		}
		if _, err := sess.DeviceByCode(ctx, "099"); err != nil {
			t.Fatalf("device 099 was not restored: %v", err)
		}
		us, err := sess.UsagesForDevice(ctx, dstDev.ID)
		if err != nil {
			return err
		}
		if len(us) != 2 {
			t.Fatalf("expected the restored usage on the stored device, got %+v", us)
		}
		open := 0
		for _, u := range us {
			if u.EmployeeID != dstEmp.ID {
				t.Fatalf("usage not remapped to the stored employee: %+v", u)
			}
			if u.IsOpen() {
				open++
			}
		}
		if open != 1 {
			t.Fatalf("expected exactly one open usage, got %d", open)
		}
		return nil
	})
}

func TestImportSnapshot_SkipsEmailClashAndOrphanUsages(t *testing.T) {
	s := newTestStore(t)
	stored, _ := seedPair(t, s)
	snap := &model.Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Employees:     []model.Employee{{ID: "emp-x", FirstName: "Ada", LastName: "King", Email: "ada@example.com", Code: "077"}},
		Usages: []model.Usage{
			{ID: "use-1", EmployeeID: "emp-x", DeviceID: "no-such-device", Status: model.CheckedOut},
		},
	}
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		st, err := sess.ImportSnapshot(ctx, snap, false)
		if err != nil {
			return err
		}
		if st.Inserted != 0 || st.Skipped != 2 {
			t.Fatalf("unexpected import stats: %+v", st)
		}
		if _, err := sess.EmployeeByCode(ctx, "077"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("employee with a clashing email must be skipped, got %v", err)
		}
		if e, err := sess.EmployeeByEmail(ctx, "ada@example.com"); err != nil || e.ID != stored.ID {
			t.Fatalf("stored employee changed: %+v, %v", e, err)
		}
		n, err := sess.Count(ctx, "usages")
		if err != nil {
			return err
		}
		if n != 0 {
			t.Fatalf("orphan usage must be skipped, got %d usages", n)
		}
		return nil
	})
}

func TestImportSnapshot_NormalizesDisplayForms(t *testing.T) {
	s := newTestStore(t)
	snap := &model.Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Employees:     []model.Employee{{ID: "emp-1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Code: "010"}},
		Devices:       []model.Device{{ID: "dev-1", Description: "XP13 laptop", Brand: "DELL", Type: "Computer", Code: "001"}},
		Usages:        []model.Usage{{ID: "use-1", EmployeeID: "emp-1", DeviceID: "dev-1", Status: "CHECKED OUT"}},
	}
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if _, err := sess.ImportSnapshot(ctx, snap, false); err != nil {
			return err
		}
		d, err := sess.DeviceByCode(ctx, "001")
		if err != nil {
			return err
		}
		if d.Brand != model.BrandDell || d.Type != model.TypeComputer {
			t.Fatalf("expected stored tokens, got %+v", d)
		}
		us, err := sess.UsagesForDevice(ctx, d.ID)
		if err != nil {
			return err
		}
		if len(us) != 1 || us[0].Status != model.CheckedOut {
			t.Fatalf("expected a checked out usage, got %+v", us)
		}
		return nil
	})

	bad := &model.Snapshot{
		SchemaVersion: SnapshotSchemaVersion,
		Devices:       []model.Device{{ID: "dev-2", Description: "Tablet", Brand: "apple", Type: model.TypePhone, Code: "002"}},
	}
	err := s.Session(context.Background(), func(ctx context.Context, sess *Session) error {
		_, err := sess.ImportSnapshot(ctx, bad, false)
		return err
	})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue for an unknown brand, got %v", err)
	}
}
