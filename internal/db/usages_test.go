// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/toeirei/assetkeeper/internal/model"
)

func TestOpenUsageForDevice_AndStatusFlip(t *testing.T) {
	s := newTestStore(t)
	e, d := seedPair(t, s)

	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if _, err := sess.OpenUsageForDevice(ctx, d.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected no open usage yet, got %v", err)
		}
		u := &model.Usage{EmployeeID: e.ID, DeviceID: d.ID}
		if err := sess.InsertUsage(ctx, u); err != nil {
			return err
		}
		if u.Status != model.CheckedIn || u.Date.IsZero() {
			t.Fatalf("expected defaults to be applied, got %+v", u)
		}
		open, err := sess.OpenUsageForDevice(ctx, d.ID)
		if err != nil {
			return err
		}
		if open.ID != u.ID || open.EmployeeID != e.ID {
			t.Fatalf("unexpected open usage: %+v", open)
		}
		if err := sess.SetUsageStatus(ctx, u.ID, model.CheckedOut); err != nil {
			return err
		}
		if _, err := sess.OpenUsageForDevice(ctx, d.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected usage to be closed, got %v", err)
		}
		return nil
	})
}

func TestOpenUsageUniqueIndex_RejectsSecondOpenUsage(t *testing.T) {
	s := newTestStore(t)
	e, d := seedPair(t, s)
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID})
	})
	err := s.Session(context.Background(), func(ctx context.Context, sess *Session) error {
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID})
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate from partial unique index, got %v", err)
	}
}

func TestCloseOpenUsages_OnlyTouchesOpenRowsOfEmployee(t *testing.T) {
	s := newTestStore(t)
	e, d := seedPair(t, s)
	other := model.Employee{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Code: "011"}
	printer := model.Device{Description: "Meeting room printer", Brand: model.BrandHP, Type: model.TypePrinter, Code: "002"}

	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if err := sess.InsertEmployee(ctx, &other); err != nil {
			return err
		}
		if err := sess.InsertDevice(ctx, &printer); err != nil {
			return err
		}
		if err := sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID}); err != nil {
			return err
		}
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: other.ID, DeviceID: printer.ID})
	})

	inSession(t, s, func(ctx context.Context, sess *Session) error {
		n, err := sess.CloseOpenUsages(ctx, e.ID)
		if err != nil {
			return err
		}
		if n != 1 {
			t.Fatalf("expected 1 closed usage, got %d", n)
		}
		if _, err := sess.OpenUsageForDevice(ctx, printer.ID); err != nil {
			t.Fatalf("expected other employee's usage to stay open, got %v", err)
		}
		return nil
	})
}

func TestDeleteDevice_CascadesUsages(t *testing.T) {
	s := newTestStore(t)
	e, d := seedPair(t, s)
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID})
	})
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		removed, err := sess.DeleteDevice(ctx, d.ID)
		if err != nil {
			return err
		}
		if removed != 1 {
			t.Fatalf("expected 1 cascaded usage, got %d", removed)
		}
		n, err := sess.Count(ctx, "usages")
		if err != nil {
			return err
		}
		if n != 0 {
			t.Fatalf("expected no usages left, got %d", n)
		}
		return nil
	})
}

func TestUsageRows_FilterAndOrder(t *testing.T) {
	s := newTestStore(t)
	e, laptop := seedPair(t, s)
	phone := model.Device{Description: "QA phone 1", Brand: model.BrandSamsung, Type: model.TypePhone, Code: "004"}
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if err := sess.InsertDevice(ctx, &phone); err != nil {
			return err
		}
		// Inserted newest first so ordering cannot come from insertion order.
		if err := sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: phone.ID, Date: base.Add(time.Hour)}); err != nil {
			return err
		}
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: laptop.ID, Date: base, Status: model.CheckedOut})
	})

	inSession(t, s, func(ctx context.Context, sess *Session) error {
		var codes []string
		for row, err := range sess.UsageRows(ctx, e.ID, "") {
			if err != nil {
				return err
			}
			codes = append(codes, row.Code)
		}
		if len(codes) != 2 || codes[0] != "001" || codes[1] != "004" {
			t.Fatalf("expected rows ordered by date ascending, got %v", codes)
		}

		var in []model.UsageRow
		for row, err := range sess.UsageRows(ctx, e.ID, model.CheckedIn) {
			if err != nil {
				return err
			}
			in = append(in, row)
		}
		if len(in) != 1 || in[0].Code != "004" || in[0].Brand != model.BrandSamsung || in[0].Status != model.CheckedIn {
			t.Fatalf("unexpected checked-in rows: %+v", in)
		}
		if !in[0].Date.Equal(base.Add(time.Hour)) {
			t.Fatalf("expected date to round-trip, got %s", in[0].Date)
		}

		var out []model.UsageRow
		for row, err := range sess.UsageRows(ctx, e.ID, model.CheckedOut) {
			if err != nil {
				return err
			}
			out = append(out, row)
		}
		if len(out) != 1 || out[0].Code != "001" || out[0].Description != "XP13 laptop" {
			t.Fatalf("unexpected checked-out rows: %+v", out)
		}
		return nil
	})
}

func TestUsageRows_StopEarly(t *testing.T) {
	s := newTestStore(t)
	e, d := seedPair(t, s)
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if err := sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID, Status: model.CheckedOut}); err != nil {
			return err
		}
		return sess.InsertUsage(ctx, &model.Usage{EmployeeID: e.ID, DeviceID: d.ID, Status: model.CheckedOut})
	})
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		seen := 0
		for _, err := range sess.UsageRows(ctx, e.ID, "") {
			if err != nil {
				return err
			}
			seen++
			break
		}
		if seen != 1 {
			t.Fatalf("expected to stop after first row, saw %d", seen)
		}
		// The cursor must be released so the session can keep working.
		_, err := sess.Count(ctx, "usages")
		return err
	})
}
