// Copyright (c) 2026 Assetkeeper Team
// Assetkeeper - device check-in/check-out tracking
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
	"github.com/toeirei/assetkeeper/internal/model"
)

const (
	stateAvailable = "available"
	stateInUse     = "in_use"

	eventCheckIn  = "check_in"
	eventCheckOut = "check_out"

	guardHolderIsActor = "holderIsActor"
)

// deviceContext carries who holds the device and who is acting on it.
type deviceContext struct {
	Holder string
	Actor  string
}

// deviceMachine is the usage protocol of one device, started from the
// device's stored state. It lives for a single operation.
type deviceMachine struct {
	interpreter *statekit.Interpreter[deviceContext]
}

func newDeviceMachine(state model.DeviceState, holderID, actorID string) (*deviceMachine, error) {
	initial := stateAvailable
	if state == model.DeviceInUse {
		initial = stateInUse
	}

	builder := statekit.NewMachine[deviceContext]("device-usage").
		WithInitial(statekit.StateID(initial)).
		WithContext(deviceContext{Holder: holderID, Actor: actorID}).
		WithGuard(guardHolderIsActor, func(ctx deviceContext, e statekit.Event) bool {
			return ctx.Holder != "" && ctx.Holder == ctx.Actor
		})

	builder.State(stateAvailable).
		On(eventCheckIn).Target(stateInUse).
		Done()

	builder.State(stateInUse).
		On(eventCheckOut).Target(stateAvailable).Guard(guardHolderIsActor).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build device state machine: %w", err)
	}
	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &deviceMachine{interpreter: interpreter}, nil
}

func (m *deviceMachine) current() string {
	return string(m.interpreter.State().Value)
}

// fire sends event and maps a rejected transition to its error. A send that
// leaves the state unchanged was either undefined for the state or blocked
// by a guard.
func (m *deviceMachine) fire(event string) error {
	before := m.current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.current() != before {
		return nil
	}
	switch {
	case event == eventCheckIn:
		return ErrAlreadyCheckedIn
	case before == stateAvailable:
		return ErrNotCheckedIn
	default:
		return ErrHeldByAnother
	}
}

// State returns the device state the machine is in.
func (m *deviceMachine) State() model.DeviceState {
	if m.current() == stateInUse {
		return model.DeviceInUse
	}
	return model.DeviceAvailable
}
