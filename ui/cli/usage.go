// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/toeirei/assetkeeper/internal/core"
	"github.com/toeirei/assetkeeper/internal/db"
	"github.com/toeirei/assetkeeper/internal/i18n"
	"github.com/toeirei/assetkeeper/internal/model"
)

func newUsageCmd() *cobra.Command {
	cmd := groupCmd("usage", "Check devices in and out and report usages")

	for _, filter := range []core.ReportFilter{core.ReportAll, core.ReportIn, core.ReportOut} {
		cmd.AddCommand(newReportCmd(filter))
	}

	var checkInDevice, checkOutDevice string
	checkInCmd := &cobra.Command{
		Use:   "check_in [employee_code]",
		Short: "Check a device in for an employee",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, args, checkInDevice, true)
		},
	}
	checkInCmd.Flags().StringVar(&checkInDevice, "device", "", "Device code")

	checkOutCmd := &cobra.Command{
		Use:   "check_out [employee_code]",
		Short: "Check a device out for the employee holding it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransition(cmd, args, checkOutDevice, false)
		},
	}
	checkOutCmd.Flags().StringVar(&checkOutDevice, "device", "", "Device code")

	cmd.AddCommand(checkInCmd, checkOutCmd)
	return cmd
}

// runTransition resolves the employee and device, asking again for codes
// that do not exist unless they came from the command line, and then checks
// the device in or out.
func runTransition(cmd *cobra.Command, args []string, deviceCode string, checkIn bool) error {
	p := newPrompter(cmd)
	out := cmd.OutOrStdout()
	return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
		var e *model.Employee
		var err error
		if len(args) > 0 {
			if e, err = core.FindEmployee(ctx, rec, args[0]); err != nil {
				return err
			}
		} else {
			for e == nil {
				code, err := argOrAsk(p, nil, i18n.T("prompt.employee_code"))
				if err != nil {
					return err
				}
				if e, err = core.FindEmployee(ctx, rec, code); err != nil {
					if !errors.Is(err, core.ErrEmployeeNotFound) {
						return err
					}
					_, _ = fmt.Fprintln(out, explain(err))
				}
			}
		}

		var d *model.Device
		if deviceCode != "" {
			if d, err = core.FindDevice(ctx, rec, deviceCode); err != nil {
				return err
			}
		} else {
			for d == nil {
				code, err := argOrAsk(p, nil, i18n.T("prompt.device_code"))
				if err != nil {
					return err
				}
				if d, err = core.FindDevice(ctx, rec, code); err != nil {
					if !errors.Is(err, core.ErrDeviceNotFound) {
						return err
					}
					_, _ = fmt.Fprintln(out, explain(err))
				}
			}
		}

		if checkIn {
			if _, err := core.CheckIn(ctx, rec, e.Code, d.Code); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(out, i18n.T("usage.checked_in", d.Code, e.Code))
			return nil
		}
		if _, err := core.CheckOut(ctx, rec, e.Code, d.Code); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, i18n.T("usage.checked_out", d.Code, e.Code))
		return nil
	})
}

func newReportCmd(filter core.ReportFilter) *cobra.Command {
	short := map[core.ReportFilter]string{
		core.ReportAll: "Show every usage of an employee",
		core.ReportIn:  "Show the check-ins of an employee that are still open",
		core.ReportOut: "Show the check-outs of an employee",
	}[filter]

	var xlsxPath string
	cmd := &cobra.Command{
		Use:   string(filter) + " [employee_code]",
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			out := cmd.OutOrStdout()
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				code, err := argOrAsk(p, args, i18n.T("prompt.employee_code"))
				if err != nil {
					return err
				}
				e, seq, err := core.Report(ctx, rec, code, filter)
				if err != nil {
					return err
				}

				usages, err := core.CollectReport(seq)
				if err != nil {
					return err
				}
				if len(usages) == 0 {
					_, _ = fmt.Fprintln(out, i18n.T("report.none_"+string(filter), e.Code))
					return nil
				}
				headers := reportHeaders(filter)
				rows := make([][]string, 0, len(usages))
				for _, u := range usages {
					rows = append(rows, reportRow(u, filter))
				}
				printTable(out, headers, rows)

				if xlsxPath != "" {
					if err := writeXLSX(xlsxPath, headers, rows); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(out, i18n.T("report.exported", xlsxPath))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the report to this .xlsx file")
	return cmd
}

const reportDateFormat = "2006-01-02 15:04:05"

func reportHeaders(filter core.ReportFilter) []string {
	headers := []string{"header.date"}
	if filter.ShowsStatus() {
		headers = append(headers, "header.status")
	}
	return append(headers, "header.device_description", "header.device_brand", "header.device_type", "header.device_code")
}

func reportRow(r model.UsageRow, filter core.ReportFilter) []string {
	row := []string{r.Date.Local().Format(reportDateFormat)}
	if filter.ShowsStatus() {
		row = append(row, r.Status.String())
	}
	return append(row, r.Description, r.Brand.String(), r.Type.String(), r.Code)
}
