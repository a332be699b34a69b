// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/toeirei/assetkeeper/internal/model"
)

// OpenUsageForDevice returns the CHECKED_IN usage of the device or ErrNotFound.
func (s *Session) OpenUsageForDevice(ctx context.Context, deviceID string) (*model.Usage, error) {
	var um UsageModel
	err := s.tx.NewSelect().Model(&um).
		Where("device_id = ?", deviceID).
		Where("status = ?", string(model.CheckedIn)).
		OrderExpr("used_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, MapDBError(err)
	}
	u := usageModelToModel(um)
	return &u, nil
}

// InsertUsage stores u. An empty id is generated, a zero date becomes now and
// an empty status becomes CHECKED_IN.
func (s *Session) InsertUsage(ctx context.Context, u *model.Usage) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Date.IsZero() {
		u.Date = time.Now().UTC()
	}
	if u.Status == "" {
		u.Status = model.CheckedIn
	}
	if !u.Status.Valid() {
		return fmt.Errorf("%w: usage status %q", ErrInvalidValue, u.Status)
	}
	if _, err := s.tx.NewInsert().Model(usageToModel(*u)).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return nil
}

// SetUsageStatus flips the status of a single usage.
func (s *Session) SetUsageStatus(ctx context.Context, id string, status model.UsageStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: usage status %q", ErrInvalidValue, status)
	}
	res, err := s.tx.NewUpdate().Model((*UsageModel)(nil)).
		Set("status = ?", string(status)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if rowsAffected(res) == 0 {
		return ErrNotFound
	}
	return nil
}

// CloseOpenUsages sets every CHECKED_IN usage of the employee to CHECKED_OUT
// and returns how many were closed.
func (s *Session) CloseOpenUsages(ctx context.Context, employeeID string) (int64, error) {
	res, err := s.tx.NewUpdate().Model((*UsageModel)(nil)).
		Set("status = ?", string(model.CheckedOut)).
		Where("employee_id = ?", employeeID).
		Where("status = ?", string(model.CheckedIn)).
		Exec(ctx)
	if err != nil {
		return 0, MapDBError(err)
	}
	return rowsAffected(res), nil
}

// UsagesForDevice returns the usage history of a device, oldest first.
func (s *Session) UsagesForDevice(ctx context.Context, deviceID string) ([]model.Usage, error) {
	var ums []UsageModel
	if err := s.tx.NewSelect().Model(&ums).Where("device_id = ?", deviceID).OrderExpr("used_at ASC, id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list usages: %w", err)
	}
	out := make([]model.Usage, 0, len(ums))
	for _, um := range ums {
		out = append(out, usageModelToModel(um))
	}
	return out, nil
}

// UsageRows streams the usages of an employee joined with their device,
// ordered by date ascending and then id. An empty status selects every
// usage. Rows are read from a live cursor while the caller ranges, so the
// sequence must be consumed before the Session ends. Each range runs the
// query afresh.
func (s *Session) UsageRows(ctx context.Context, employeeID string, status model.UsageStatus) iter.Seq2[model.UsageRow, error] {
	return func(yield func(model.UsageRow, error) bool) {
		q := s.tx.NewSelect().
			TableExpr("usages AS u").
			Join("JOIN devices AS d ON d.id = u.device_id").
			ColumnExpr("u.used_at, u.status, d.description, d.brand, d.type, d.code").
			Where("u.employee_id = ?", employeeID).
			OrderExpr("u.used_at ASC, u.id ASC")
		if status != "" {
			q = q.Where("u.status = ?", string(status))
		}

		rows, err := q.Rows(ctx)
		if err != nil {
			yield(model.UsageRow{}, fmt.Errorf("failed to query usages: %w", err))
			return
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var m usageRowModel
			if err := s.db.ScanRow(ctx, rows, &m); err != nil {
				yield(model.UsageRow{}, fmt.Errorf("failed to read usage row: %w", err))
				return
			}
			if !yield(usageRowModelToModel(m), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(model.UsageRow{}, err)
		}
	}
}
