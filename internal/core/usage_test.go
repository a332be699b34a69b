// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"
	"testing"

	"github.com/toeirei/assetkeeper/internal/model"
)

func TestCheckIn_Twice_IsRejected(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)

	mustRun(t, s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "010", "001")
		return err
	})
	err := run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "010", "001")
		return err
	})
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	us := usagesOf(t, s, "001")
	if len(us) != 1 || openCount(us) != 1 {
		t.Fatalf("expected exactly one open usage, got %+v", us)
	}
}

func TestCheckIn_ByOtherEmployeeWhileInUse_IsRejected(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)
	mustRun(t, s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "010", "002")
		return err
	})
	err := run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "011", "002")
		return err
	})
	if !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if n := openCount(usagesOf(t, s, "002")); n != 1 {
		t.Fatalf("expected one open usage, got %d", n)
	}
}

func TestCheckInThenCheckOut_FlipsSameRow(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)

	var in, out *model.Usage
	mustRun(t, s, func(ctx context.Context, rec Records) (err error) {
		in, err = CheckIn(ctx, rec, "010", "001")
		return err
	})
	mustRun(t, s, func(ctx context.Context, rec Records) (err error) {
		out, err = CheckOut(ctx, rec, "010", "001")
		return err
	})
	if in.ID != out.ID {
		t.Fatalf("check-out touched another row: in=%s out=%s", in.ID, out.ID)
	}
	us := usagesOf(t, s, "001")
	if len(us) != 1 {
		t.Fatalf("expected one usage row, got %d", len(us))
	}
	if us[0].Status != model.CheckedOut {
		t.Fatalf("expected CHECKED_OUT, got %s", us[0].Status)
	}

	mustRun(t, s, func(ctx context.Context, rec Records) error {
		st, err := DeviceState(ctx, rec, "001")
		if err != nil {
			return err
		}
		if st.State != model.DeviceAvailable || st.Holder != nil {
			t.Fatalf("expected AVAILABLE without holder, got %+v", st)
		}
		return nil
	})
}

func TestCheckOut_WithoutCheckIn_IsRejected(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)
	err := run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckOut(ctx, rec, "010", "003")
		return err
	})
	if !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}
	if us := usagesOf(t, s, "003"); len(us) != 0 {
		t.Fatalf("expected no usage rows, got %+v", us)
	}
}

func TestCheckOut_ByOtherEmployee_IsRejected(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)
	mustRun(t, s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "010", "004")
		return err
	})
	err := run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckOut(ctx, rec, "011", "004")
		return err
	})
	if !errors.Is(err, ErrHeldByAnother) {
		t.Fatalf("expected ErrHeldByAnother, got %v", err)
	}
	mustRun(t, s, func(ctx context.Context, rec Records) error {
		st, err := DeviceState(ctx, rec, "004")
		if err != nil {
			return err
		}
		if st.State != model.DeviceInUse || st.Holder == nil || st.Holder.Code != "010" {
			t.Fatalf("expected device held by 010, got %+v", st)
		}
		return nil
	})
}

func TestCheckIn_UnknownCodes(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)
	err := run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "999", "001")
		return err
	})
	if !errors.Is(err, ErrEmployeeNotFound) || !IsUserError(err) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
	err = run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "010", "999")
		return err
	})
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Fatalf("expected ErrDeviceNotFound, got %v", err)
	}
}

func TestAtMostOneOpenUsagePerDevice(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)

	steps := []struct {
		employee, device string
		checkIn          bool
	}{
		{"010", "001", true},
		{"011", "001", true},
		{"011", "001", false},
		{"010", "001", false},
		{"011", "001", true},
		{"010", "001", true},
		{"011", "001", false},
		{"010", "001", true},
	}
	for i, st := range steps {
		_ = run(s, func(ctx context.Context, rec Records) error {
			var err error
			if st.checkIn {
				_, err = CheckIn(ctx, rec, st.employee, st.device)
			} else {
				_, err = CheckOut(ctx, rec, st.employee, st.device)
			}
			return err
		})
		if n := openCount(usagesOf(t, s, "001")); n > 1 {
			t.Fatalf("step %d: %d open usages for one device", i, n)
		}
	}
	if us := usagesOf(t, s, "001"); len(us) != 3 {
		t.Fatalf("expected 3 usages after the sequence, got %d", len(us))
	}
}

func TestCheckIn_ErrorCarriesDeviceCode(t *testing.T) {
	s := newTestStore(t)
	seedBasics(t, s)
	mustRun(t, s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "010", "001")
		return err
	})
	err := run(s, func(ctx context.Context, rec Records) error {
		_, err := CheckIn(ctx, rec, "011", "001")
		return err
	})
	var ce *CodeError
	if !errors.As(err, &ce) || ce.Code != "001" || !errors.Is(ce, ErrAlreadyCheckedIn) {
		t.Fatalf("expected CodeError for device 001, got %v", err)
	}
}
