// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/toeirei/assetkeeper/internal/model"
)

// Devices returns all devices ordered by code.
func (s *Session) Devices(ctx context.Context) ([]model.Device, error) {
	var dms []DeviceModel
	if err := s.tx.NewSelect().Model(&dms).OrderExpr("code ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	out := make([]model.Device, 0, len(dms))
	for _, dm := range dms {
		out = append(out, deviceModelToModel(dm))
	}
	return out, nil
}

// DeviceByCode returns the device with the given code or ErrNotFound.
func (s *Session) DeviceByCode(ctx context.Context, code string) (*model.Device, error) {
	var dm DeviceModel
	if err := s.tx.NewSelect().Model(&dm).Where("code = ?", code).Limit(1).Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	d := deviceModelToModel(dm)
	return &d, nil
}

// InsertDevice stores d, assigning a fresh id when d.ID is empty.
func (s *Session) InsertDevice(ctx context.Context, d *model.Device) error {
	if err := checkDeviceTags(*d); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if _, err := s.tx.NewInsert().Model(deviceToModel(*d)).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	dbLogf("db: inserted device %s (%s)", d.Code, d.ID)
	return nil
}

// UpdateDevice overwrites every column of the device identified by d.ID.
func (s *Session) UpdateDevice(ctx context.Context, d *model.Device) error {
	if err := checkDeviceTags(*d); err != nil {
		return err
	}
	if _, err := s.tx.NewUpdate().Model(deviceToModel(*d)).WherePK().Exec(ctx); err != nil {
		return MapDBError(err)
	}
	return nil
}

func checkDeviceTags(d model.Device) error {
	if !d.Brand.Valid() {
		return fmt.Errorf("%w: brand %q of device %s", ErrInvalidValue, d.Brand, d.Code)
	}
	if !d.Type.Valid() {
		return fmt.Errorf("%w: type %q of device %s", ErrInvalidValue, d.Type, d.Code)
	}
	return nil
}

// DeleteDevice removes the device together with its whole usage history.
// The usages are deleted explicitly so the cascade holds even where the
// engine does not enforce foreign keys (SQLite without PRAGMA foreign_keys).
func (s *Session) DeleteDevice(ctx context.Context, id string) (int64, error) {
	res, err := s.tx.NewDelete().Model((*UsageModel)(nil)).Where("device_id = ?", id).Exec(ctx)
	if err != nil {
		return 0, MapDBError(err)
	}
	removed := rowsAffected(res)

	res, err = s.tx.NewDelete().Model((*DeviceModel)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return 0, MapDBError(err)
	}
	if rowsAffected(res) == 0 {
		return 0, ErrNotFound
	}
	dbLogf("db: deleted device %s and %d usages", id, removed)
	return removed, nil
}
