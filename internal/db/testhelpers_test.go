// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/toeirei/assetkeeper/internal/model"
)

// newTestStore opens a fresh in-memory sqlite Store that is closed when the
// test finishes.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	s, err := NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// inSession runs fn in a committed session and fails the test on error.
func inSession(t *testing.T, s *Store, fn func(ctx context.Context, sess *Session) error) {
	t.Helper()
	if err := s.Session(context.Background(), fn); err != nil {
		t.Fatalf("session failed: %v", err)
	}
}

func seedPair(t *testing.T, s *Store) (model.Employee, model.Device) {
	t.Helper()
	e := model.Employee{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Code: "010"}
	d := model.Device{Description: "XP13 laptop", Brand: model.BrandDell, Type: model.TypeComputer, Code: "001"}
	inSession(t, s, func(ctx context.Context, sess *Session) error {
		if err := sess.InsertEmployee(ctx, &e); err != nil {
			return err
		}
		return sess.InsertDevice(ctx, &d)
	})
	return e, d
}
