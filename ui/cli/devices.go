// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/assetkeeper/internal/core"
	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/i18n"
	"github.com/toeirei/assetkeeper/internal/model"
	"github.com/toeirei/assetkeeper/internal/validation"
)

type deviceFlags struct {
	description string
	brand       string
	deviceType  string
	code        string
}

func (f *deviceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "description", "", "Free-text description")
	cmd.Flags().StringVar(&f.brand, "brand", "", "Brand ("+model.JoinTags(model.Brands())+")")
	cmd.Flags().StringVar(&f.deviceType, "type", "", "Device type ("+model.JoinTags(model.DeviceTypes())+")")
	cmd.Flags().StringVar(&f.code, "code", "", "Device code")
}

func newDevicesCmd() *cobra.Command {
	cmd := groupCmd("devices", "Manage devices (list, history, add, update, delete)")
	brands := model.JoinTags(model.Brands())
	types := model.JoinTags(model.DeviceTypes())

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all devices with their state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				devices, err := core.ListDevices(ctx, rec)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(devices) == 0 {
					_, _ = fmt.Fprintln(out, i18n.T("device.none"))
					return nil
				}
				rows := make([][]string, 0, len(devices))
				for _, st := range devices {
					holder := ""
					if st.Holder != nil {
						holder = st.Holder.Code
					}
					d := st.Device
					rows = append(rows, []string{d.Description, d.Brand.String(), d.Type.String(), d.Code, string(st.State), holder})
				}
				printTable(out, []string{"header.description", "header.brand", "header.type", "header.code", "header.state", "header.holder"}, rows)
				return nil
			})
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history [device_code]",
		Short: "Show the usage history of a device",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				code, err := argOrAsk(p, args, i18n.T("prompt.device_code_history"))
				if err != nil {
					return err
				}
				d, entries, err := core.DeviceHistory(ctx, rec, code)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					_, _ = fmt.Fprintln(out, i18n.T("device.no_history", d.Code))
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, h := range entries {
					rows = append(rows, []string{h.Usage.Date.Local().Format(reportDateFormat), h.Usage.Status.String(), h.EmployeeCode})
				}
				printTable(out, []string{"header.date", "header.status", "header.employee_code"}, rows)
				return nil
			})
		},
	}

	var addFlags deviceFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				check := func(field validation.Field) func(string) error {
					return func(v string) error { return core.CheckDeviceField(ctx, rec, field, v, nil) }
				}
				description, err := p.askValid(i18n.T("prompt.description"), addFlags.description, check(validation.FieldDescription))
				if err != nil {
					return err
				}
				brand, err := p.askValid(i18n.T("prompt.brand", brands), addFlags.brand, check(validation.FieldBrand))
				if err != nil {
					return err
				}
				deviceType, err := p.askValid(i18n.T("prompt.type", types), addFlags.deviceType, check(validation.FieldType))
				if err != nil {
					return err
				}
				code, err := p.askValid(i18n.T("prompt.code"), addFlags.code, check(validation.FieldCode))
				if err != nil {
					return err
				}
				d, err := core.AddDevice(ctx, rec, description, brand, deviceType, code)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("device.added", d.Code))
				return nil
			})
		},
	}
	addFlags.register(addCmd)

	var updateFlags deviceFlags
	updateCmd := &cobra.Command{
		Use:   "update [device_code]",
		Short: "Update a device",
		Long:  `Asks for the device code, then for each field. A blank answer keeps the current value.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				code, err := argOrAsk(p, args, i18n.T("prompt.device_code_update"))
				if err != nil {
					return err
				}
				current, err := core.FindDevice(ctx, rec, code)
				if err != nil {
					return err
				}
				optional := func(field validation.Field) func(string) error {
					return func(v string) error {
						if v == "" {
							return nil
						}
						return core.CheckDeviceField(ctx, rec, field, v, current)
					}
				}

				var ch core.DeviceChanges
				if ch.Description, err = p.askValid(i18n.T("prompt.update_description"), updateFlags.description, optional(validation.FieldDescription)); err != nil {
					return err
				}
				if ch.Brand, err = p.askValid(i18n.T("prompt.update_brand", brands), updateFlags.brand, optional(validation.FieldBrand)); err != nil {
					return err
				}
				if ch.Type, err = p.askValid(i18n.T("prompt.update_type", types), updateFlags.deviceType, optional(validation.FieldType)); err != nil {
					return err
				}
				if ch.Code, err = p.askValid(i18n.T("prompt.update_code"), updateFlags.code, optional(validation.FieldCode)); err != nil {
					return err
				}
				d, err := core.UpdateDevice(ctx, rec, current.Code, ch)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("device.updated", d.Code))
				return nil
			})
		},
	}
	updateFlags.register(updateCmd)

	var assumeYes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [device_code]",
		Short: "Delete a device and its usage history",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			out := cmd.OutOrStdout()
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				code, err := argOrAsk(p, args, i18n.T("prompt.device_code_delete"))
				if err != nil {
					return err
				}
				d, err := core.FindDevice(ctx, rec, code)
				if err != nil {
					return err
				}
				if !assumeYes {
					ok, err := p.confirm(i18n.T("prompt.confirm_delete_device"))
					if err != nil {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(out, i18n.T("delete.cancelled"))
						return nil
					}
				}
				removed, err := core.DeleteDevice(ctx, rec, d.Code)
				if err != nil {
					return err
				}
				if removed > 0 {
					_, _ = fmt.Fprintln(out, i18n.T("device.removed_usages", removed))
				}
				_, _ = fmt.Fprintln(out, i18n.T("device.deleted", d.Code))
				return nil
			})
		},
	}
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")

	cmd.AddCommand(listCmd, historyCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}
