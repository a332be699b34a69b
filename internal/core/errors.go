// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import "errors"

// Not-found errors abort the operation without touching stored state.
var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrDeviceNotFound   = errors.New("device not found")
)

// Illegal-transition errors are returned when the device state machine
// rejects a check-in or check-out.
var (
	ErrAlreadyCheckedIn = errors.New("device already checked in")
	ErrNotCheckedIn     = errors.New("device not checked in")
	ErrHeldByAnother    = errors.New("device checked in by another employee")
)

// CodeError ties one of the errors above to the employee or device code it
// concerns. It unwraps to the sentinel.
type CodeError struct {
	Err  error
	Code string
}

func (e *CodeError) Error() string { return e.Err.Error() + ": " + e.Code }

func (e *CodeError) Unwrap() error { return e.Err }

func codeError(err error, code string) error {
	return &CodeError{Err: err, Code: code}
}

// IsUserError reports whether err is an expected outcome of operator input
// (not found or rejected transition) as opposed to a store failure.
func IsUserError(err error) bool {
	for _, target := range []error{ErrEmployeeNotFound, ErrDeviceNotFound, ErrAlreadyCheckedIn, ErrNotCheckedIn, ErrHeldByAnother} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
