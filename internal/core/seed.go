// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"errors"

	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/logging"
	"github.com/toeirei/assetkeeper/internal/model"
)

// DefaultDevices is the starter inventory written by `db seed`.
func DefaultDevices() []model.Device {
	return []model.Device{
		{Code: "001", Description: "XP13 laptop", Brand: model.BrandDell, Type: model.TypeComputer},
		{Code: "002", Description: "Meeting room printer", Brand: model.BrandHP, Type: model.TypePrinter},
		{Code: "003", Description: "Reception printer", Brand: model.BrandHP, Type: model.TypePrinter},
		{Code: "004", Description: "QA phone 1", Brand: model.BrandSamsung, Type: model.TypePhone},
		{Code: "005", Description: "QA phone 2", Brand: model.BrandSamsung, Type: model.TypePhone},
	}
}

// SeedDefaultDevices inserts the default devices whose code is not yet taken
// and returns how many were added.
func SeedDefaultDevices(ctx context.Context, rec Records) (int, error) {
	added := 0
	for _, d := range DefaultDevices() {
		_, err := rec.DeviceByCode(ctx, d.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, db.ErrNotFound) {
			return added, err
		}
		if err := rec.InsertDevice(ctx, &d); err != nil {
			return added, err
		}
		added++
	}
	logging.Infof("seeded %d default devices", added)
	return added, nil
}
