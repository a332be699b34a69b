// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/toeirei/assetkeeper/internal/core"
	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/i18n"
	"github.com/toeirei/assetkeeper/internal/model"
)

func newInventoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "Summarize employees, devices and who holds what",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				inv, err := core.BuildInventory(ctx, rec)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintln(out, i18n.T("inventory.employees", inv.EmployeeCount))
				_, _ = fmt.Fprintln(out, i18n.T("inventory.devices", inv.DeviceCount, inv.AvailableCount, inv.InUseCount))

				var rows [][]string
				for _, b := range model.Brands() {
					if n := inv.ByBrand[b]; n > 0 {
						rows = append(rows, []string{b.String(), strconv.Itoa(n)})
					}
				}
				for _, t := range model.DeviceTypes() {
					if n := inv.ByType[t]; n > 0 {
						rows = append(rows, []string{t.String(), strconv.Itoa(n)})
					}
				}
				if len(rows) > 0 {
					printTable(out, []string{"header.category", "header.count"}, rows)
				}
				for _, code := range inv.HolderCodes() {
					_, _ = fmt.Fprintln(out, i18n.T("inventory.holder", code, strings.Join(inv.Holders[code], ", ")))
				}
				return nil
			})
		},
	}
}
