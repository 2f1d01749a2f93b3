package workflow

import (
	"context"
	"fmt"
)

// GuardFunc evaluates whether a transition should be allowed. A false result
// with a nil error means the precondition was not met; a non-nil error means
// the check itself failed and must surface to the caller.
type GuardFunc func(ctx context.Context) (bool, error)

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates a new state machine instance with the given initial state
	Build(initialState State) StateMachine
}

// StateConfiguration configures transitions for a specific state
type StateConfiguration interface {
	// Permit allows an action to transition to the target state
	Permit(action Action, toState State) StateConfiguration

	// PermitIf allows an action to transition to the target state if the guard passes
	PermitIf(action Action, toState State, guard GuardFunc) StateConfiguration
}

// transition represents a state transition with optional guard
type transition struct {
	toState State
	guard   GuardFunc
}

// stateConfig implements StateConfiguration
type stateConfig struct {
	builder     *stateMachineBuilder
	fromState   State
	transitions map[Action][]transition
}

// stateMachineBuilder implements StateMachineBuilder
type stateMachineBuilder struct {
	configurations map[State]*stateConfig
}

// stateMachine implements StateMachine
type stateMachine struct {
	currentState   State
	configurations map[State]*stateConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns a state configuration for the given state
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig{
			builder:     b,
			fromState:   state,
			transitions: make(map[Action][]transition),
		}
		b.configurations[state] = config
	}

	return config
}

// Build creates a new state machine instance with the given initial state
func (b *stateMachineBuilder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	// Deep copy configurations to ensure immutability
	configsCopy := make(map[State]*stateConfig)
	for state, config := range b.configurations {
		transitionsCopy := make(map[Action][]transition)
		for action, transitions := range config.transitions {
			transitionsCopy[action] = append([]transition{}, transitions...)
		}
		configsCopy[state] = &stateConfig{
			fromState:   state,
			transitions: transitionsCopy,
		}
	}

	return &stateMachine{
		currentState:   initialState,
		configurations: configsCopy,
	}
}

// Permit allows an action to transition to the target state
func (c *stateConfig) Permit(action Action, toState State) StateConfiguration {
	return c.PermitIf(action, toState, nil)
}

// PermitIf allows an action to transition to the target state if the guard passes
func (c *stateConfig) PermitIf(action Action, toState State, guard GuardFunc) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}

	c.transitions[action] = append(c.transitions[action], transition{
		toState: toState,
		guard:   guard,
	})

	return c
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the action is permitted in the current state.
// Guards are not evaluated here; a guarded transition counts as fireable.
func (m *stateMachine) CanFire(action Action) bool {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return false
	}

	transitions, exists := config.transitions[action]
	return exists && len(transitions) > 0
}

// Fire attempts to execute the action, transitioning to the new state if allowed
func (m *stateMachine) Fire(ctx context.Context, action Action) error {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return fmt.Errorf("%w: cannot perform action %s from state %s (no configuration)", ErrInvalidTransition, action, m.currentState)
	}

	transitions, exists := config.transitions[action]
	if !exists || len(transitions) == 0 {
		return fmt.Errorf("%w: cannot perform action %s from state %s", ErrInvalidTransition, action, m.currentState)
	}

	// Try each transition in order until one passes its guard
	for _, t := range transitions {
		if t.guard == nil {
			m.currentState = t.toState
			return nil
		}

		ok, err := t.guard(ctx)
		if err != nil {
			return fmt.Errorf("guard check for action %s failed: %w", action, err)
		}
		if ok {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: action %s from state %s", ErrGuardFailed, action, m.currentState)
}

// PermittedActions returns all actions that can be fired in the current state
func (m *stateMachine) PermittedActions() []Action {
	config, exists := m.configurations[m.currentState]
	if !exists {
		return []Action{}
	}

	actions := make([]Action, 0, len(config.transitions))
	for action := range config.transitions {
		actions = append(actions, action)
	}

	return actions
}
