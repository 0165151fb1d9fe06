package workflow

import "context"

// StateMachine tracks the current state of one run and validates transitions
type StateMachine interface {
	State() State

	// CanFire returns true if the trigger is configured for the current state
	CanFire(trigger Trigger) bool

	// Fire moves to the next state or returns ErrInvalidTransition / ErrGuardFailed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers lists the triggers configured for the current state, sorted
	PermittedTriggers() []Trigger
}
