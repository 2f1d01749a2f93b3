package workflow

import "errors"

var (
	// ErrInvalidTransition is returned when an action is not permitted from the current state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrInvalidState is returned when a state is not valid
	ErrInvalidState = errors.New("invalid state")

	// ErrGuardFailed is returned when a transition's precondition evaluates to false
	ErrGuardFailed = errors.New("guard condition failed")
)
