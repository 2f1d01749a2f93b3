package workflow

// Action represents a command that can cause a state transition
type Action string

const (
	ActionSubmit           Action = "SUBMIT"
	ActionStartReview      Action = "START_REVIEW"
	ActionRequestDocuments Action = "REQUEST_DOCUMENTS"
	ActionProvideDocuments Action = "PROVIDE_DOCUMENTS"
	ActionValidate         Action = "VALIDATE"
	ActionApprove          Action = "APPROVE"
	ActionReject           Action = "REJECT"
	ActionCancel           Action = "CANCEL"
)

var validActions = map[Action]bool{
	ActionSubmit:           true,
	ActionStartReview:      true,
	ActionRequestDocuments: true,
	ActionProvideDocuments: true,
	ActionValidate:         true,
	ActionApprove:          true,
	ActionReject:           true,
	ActionCancel:           true,
}

// IsValid returns true if the action is a recognized workflow action
func (a Action) IsValid() bool {
	return validActions[a]
}

// String returns the string representation of the action
func (a Action) String() string {
	return string(a)
}
