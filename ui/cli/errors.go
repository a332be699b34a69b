// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"

	"github.com/toeirei/assetkeeper/internal/core"
	"github.com/toeirei/assetkeeper/internal/i18n"
	"github.com/toeirei/assetkeeper/internal/model"
	"github.com/toeirei/assetkeeper/internal/validation"
)

// Process exit codes.
const (
	ExitOK    = 0
	ExitUser  = 1
	ExitStore = 2
)

// errAborted is returned when stdin ends while a prompt waits for input.
var errAborted = errors.New("input aborted")

// storeError marks a failure of the database or the file system. Everything
// else that reaches the command boundary is an operator error.
type storeError struct{ err error }

func (e *storeError) Error() string { return e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

// classify wraps err as a storeError unless it is an expected outcome of
// operator input.
func classify(err error) error {
	if err == nil || isUserError(err) {
		return err
	}
	var se *storeError
	if errors.As(err, &se) {
		return err
	}
	return &storeError{err: err}
}

func isUserError(err error) bool {
	if core.IsUserError(err) || errors.Is(err, errAborted) {
		return true
	}
	_, ok := validation.AsError(err)
	return ok
}

// ExitCode maps an error returned by Execute to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var se *storeError
	if errors.As(err, &se) {
		return ExitStore
	}
	return ExitUser
}

// explain renders err as an operator-facing message.
func explain(err error) string {
	var ce *core.CodeError
	if errors.As(err, &ce) {
		switch {
		case errors.Is(err, core.ErrEmployeeNotFound):
			return i18n.T("employee.code_not_found", ce.Code)
		case errors.Is(err, core.ErrDeviceNotFound):
			return i18n.T("device.code_not_found", ce.Code)
		case errors.Is(err, core.ErrAlreadyCheckedIn):
			return i18n.T("usage.already_checked_in", ce.Code)
		case errors.Is(err, core.ErrNotCheckedIn):
			return i18n.T("usage.not_checked_in", ce.Code)
		case errors.Is(err, core.ErrHeldByAnother):
			return i18n.T("usage.held_by_another", ce.Code)
		}
	}
	if ve, ok := validation.AsError(err); ok {
		return validationMessage(ve)
	}
	if errors.Is(err, errAborted) {
		return i18n.T("prompt.aborted")
	}
	return err.Error()
}

// validationMessage translates ve. Brand and type messages list the allowed
// values.
func validationMessage(ve *validation.Error) string {
	switch ve.Field {
	case validation.FieldBrand:
		return i18n.T(ve.MessageID(), model.JoinTags(model.Brands()))
	case validation.FieldType:
		return i18n.T(ve.MessageID(), model.JoinTags(model.DeviceTypes()))
	}
	return i18n.T(ve.MessageID())
}
