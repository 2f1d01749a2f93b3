package workflow

// State represents a claim's position in the processing lifecycle
type State string

const (
	StateDraft            State = "DRAFT"
	StateSubmitted        State = "SUBMITTED"
	StateUnderReview      State = "UNDER_REVIEW"
	StatePendingDocuments State = "PENDING_DOCUMENTS"
	StateValidating       State = "VALIDATING"
	StateApproved         State = "APPROVED"
	StateRejected         State = "REJECTED"
	StateCancelled        State = "CANCELLED"
)

var validStates = map[State]bool{
	StateDraft:            true,
	StateSubmitted:        true,
	StateUnderReview:      true,
	StatePendingDocuments: true,
	StateValidating:       true,
	StateApproved:         true,
	StateRejected:         true,
	StateCancelled:        true,
}

var terminalStates = map[State]bool{
	StateApproved:  true,
	StateRejected:  true,
	StateCancelled: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// ParseState normalizes a persisted status value into a workflow state.
// Rows written before the status column adopted the full state vocabulary
// carry lowercase pending/approved/rejected values.
func ParseState(status string) (State, bool) {
	switch status {
	case "pending":
		return StateSubmitted, true
	case "approved":
		return StateApproved, true
	case "rejected":
		return StateRejected, true
	}
	s := State(status)
	return s, s.IsValid()
}
