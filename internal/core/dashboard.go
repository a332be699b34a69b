// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"sort"

	"github.com/toeirei/assetkeeper/internal/model"
)

// Inventory holds aggregated values for the inventory overview.
type Inventory struct {
	EmployeeCount  int
	DeviceCount    int
	AvailableCount int
	InUseCount     int
	ByBrand        map[model.Brand]int
	ByType         map[model.DeviceType]int
	// Holders maps an employee code to the codes of the devices it holds.
	Holders map[string][]string
}

// BuildInventory counts employees and devices and derives how many devices
// are in use and by whom.
func BuildInventory(ctx context.Context, rec Records) (Inventory, error) {
	out := Inventory{
		ByBrand: make(map[model.Brand]int),
		ByType:  make(map[model.DeviceType]int),
		Holders: make(map[string][]string),
	}

	employees, err := rec.Employees(ctx)
	if err != nil {
		return out, err
	}
	out.EmployeeCount = len(employees)

	devices, err := ListDevices(ctx, rec)
	if err != nil {
		return out, err
	}
	out.DeviceCount = len(devices)
	for _, st := range devices {
		out.ByBrand[st.Device.Brand]++
		out.ByType[st.Device.Type]++
		if st.State != model.DeviceInUse {
			out.AvailableCount++
			continue
		}
		out.InUseCount++
		if st.Holder != nil {
			out.Holders[st.Holder.Code] = append(out.Holders[st.Holder.Code], st.Device.Code)
		}
	}
	for code := range out.Holders {
		sort.Strings(out.Holders[code])
	}
	return out, nil
}

// HolderCodes returns the employee codes of Holders in sorted order.
func (inv Inventory) HolderCodes() []string {
	codes := make([]string, 0, len(inv.Holders))
	for c := range inv.Holders {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
