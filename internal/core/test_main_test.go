// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/model"
)

// newTestStore opens a fresh in-memory sqlite store for one test.
func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:core_%d?mode=memory&cache=shared", time.Now().UnixNano())
	s, err := db.NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// run executes fn in its own session and returns its error, mirroring one
// command invocation.
func run(s *db.Store, fn func(ctx context.Context, rec Records) error) error {
	return s.Session(context.Background(), func(ctx context.Context, sess *db.Session) error {
		return fn(ctx, sess)
	})
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, s *db.Store, fn func(ctx context.Context, rec Records) error) {
	t.Helper()
	if err := run(s, fn); err != nil {
		t.Fatalf("session failed: %v", err)
	}
}

var (
	ada   = model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Code: "010"}
	grace = model.Employee{FirstName: "Grace", LastName: "Hopper", Email: "grace@example.com", Code: "011"}
)

// seedBasics adds two employees and the default devices.
func seedBasics(t *testing.T, s *db.Store) {
	t.Helper()
	mustRun(t, s, func(ctx context.Context, rec Records) error {
		for _, e := range []model.Employee{ada, grace} {
			if _, err := AddEmployee(ctx, rec, e); err != nil {
				return err
			}
		}
		_, err := SeedDefaultDevices(ctx, rec)
		return err
	})
}

// usagesOf returns the usage history of the device with code.
func usagesOf(t *testing.T, s *db.Store, code string) []model.Usage {
	t.Helper()
	var out []model.Usage
	if err := s.Session(context.Background(), func(ctx context.Context, sess *db.Session) error {
		d, err := sess.DeviceByCode(ctx, code)
		if err != nil {
			return err
		}
		out, err = sess.UsagesForDevice(ctx, d.ID)
		return err
	}); err != nil {
		t.Fatalf("failed to read usages of %s: %v", code, err)
	}
	return out
}

func openCount(us []model.Usage) int {
	n := 0
	for _, u := range us {
		if u.IsOpen() {
			n++
		}
	}
	return n
}
