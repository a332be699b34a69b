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

// employeeFlags pre-fill the answers of add and update.
type employeeFlags struct {
	firstName string
	lastName  string
	email     string
	code      string
}

func (f *employeeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&f.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&f.email, "email", "", "Email address")
	cmd.Flags().StringVar(&f.code, "code", "", "Employee code")
}

func newEmployeesCmd() *cobra.Command {
	cmd := groupCmd("employees", "Manage employees (list, add, update, delete)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all employees",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				employees, err := core.ListEmployees(ctx, rec)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(employees) == 0 {
					_, _ = fmt.Fprintln(out, i18n.T("employee.none"))
					return nil
				}
				rows := make([][]string, 0, len(employees))
				for _, e := range employees {
					rows = append(rows, []string{e.FirstName, e.LastName, e.Email, e.Code})
				}
				printTable(out, []string{"header.first_name", "header.last_name", "header.email", "header.code"}, rows)
				return nil
			})
		},
	}

	var addFlags employeeFlags
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add an employee",
		Long: `Prompts for first name, last name, email and code and asks again until
each answer is valid. Flags pre-fill answers; an invalid flag value fails
the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				check := func(field validation.Field) func(string) error {
					return func(v string) error { return core.CheckEmployeeField(ctx, rec, field, v, nil) }
				}
				var e model.Employee
				var err error
				if e.FirstName, err = p.askValid(i18n.T("prompt.first_name"), addFlags.firstName, check(validation.FieldFirstName)); err != nil {
					return err
				}
				if e.LastName, err = p.askValid(i18n.T("prompt.last_name"), addFlags.lastName, check(validation.FieldLastName)); err != nil {
					return err
				}
				if e.Email, err = p.askValid(i18n.T("prompt.email"), addFlags.email, check(validation.FieldEmail)); err != nil {
					return err
				}
				if e.Code, err = p.askValid(i18n.T("prompt.code"), addFlags.code, check(validation.FieldCode)); err != nil {
					return err
				}
				added, err := core.AddEmployee(ctx, rec, e)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("employee.added", added.Code))
				return nil
			})
		},
	}
	addFlags.register(addCmd)

	var updateFlags employeeFlags
	updateCmd := &cobra.Command{
		Use:   "update [employee_code]",
		Short: "Update an employee",
		Long: `Asks for the employee code, then for each field. A blank answer keeps
the current value.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				code, err := argOrAsk(p, args, i18n.T("prompt.employee_code_update"))
				if err != nil {
					return err
				}
				current, err := core.FindEmployee(ctx, rec, code)
				if err != nil {
					return err
				}
				optional := func(field validation.Field) func(string) error {
					return func(v string) error {
						if v == "" {
							return nil
						}
						return core.CheckEmployeeField(ctx, rec, field, v, current)
					}
				}

				var ch core.EmployeeChanges
				if ch.FirstName, err = p.askValid(i18n.T("prompt.update_first_name"), updateFlags.firstName, optional(validation.FieldFirstName)); err != nil {
					return err
				}
				if ch.LastName, err = p.askValid(i18n.T("prompt.update_last_name"), updateFlags.lastName, optional(validation.FieldLastName)); err != nil {
					return err
				}
				if ch.Email, err = p.askValid(i18n.T("prompt.update_email"), updateFlags.email, optional(validation.FieldEmail)); err != nil {
					return err
				}
				if ch.Code, err = p.askValid(i18n.T("prompt.update_code"), updateFlags.code, optional(validation.FieldCode)); err != nil {
					return err
				}
				updated, err := core.UpdateEmployee(ctx, rec, current.Code, ch)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), i18n.T("employee.updated", updated.Code))
				return nil
			})
		},
	}
	updateFlags.register(updateCmd)

	var assumeYes bool
	deleteCmd := &cobra.Command{
		Use:   "delete [employee_code]",
		Short: "Delete an employee",
		Long: `Deletes an employee after confirmation. Devices the employee still holds
are checked out first; their usage history is kept.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter(cmd)
			out := cmd.OutOrStdout()
			return withSession(cmd, func(ctx context.Context, rec core.Records, _ *db.Session) error {
				code, err := argOrAsk(p, args, i18n.T("prompt.employee_code_delete"))
				if err != nil {
					return err
				}
				e, err := core.FindEmployee(ctx, rec, code)
				if err != nil {
					return err
				}
				if !assumeYes {
					ok, err := p.confirm(i18n.T("prompt.confirm_delete_employee"))
					if err != nil {
						return err
					}
					if !ok {
						_, _ = fmt.Fprintln(out, i18n.T("delete.cancelled"))
						return nil
					}
				}
				closed, err := core.DeleteEmployee(ctx, rec, e.Code)
				if err != nil {
					return err
				}
				if closed > 0 {
					_, _ = fmt.Fprintln(out, i18n.T("employee.closed_usages", closed))
				}
				_, _ = fmt.Fprintln(out, i18n.T("employee.deleted", e.Code))
				return nil
			})
		},
	}
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Delete without asking for confirmation")

	cmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}

// argOrAsk returns the first positional argument or, without one, asks for
// it until a non-blank answer is given.
func argOrAsk(p *prompter, args []string, label string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	for {
		answer, err := p.ask(label)
		if err != nil || answer != "" {
			return answer, err
		}
	}
}
