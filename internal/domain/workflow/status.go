package workflow

// Status is the shared approval-workflow state machine for leave and
// overtime requests.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusSupervisorApproved Status = "SUPERVISOR_APPROVED"
	StatusApproved           Status = "APPROVED"
	StatusRejected           Status = "REJECTED"
	StatusCancelled          Status = "CANCELLED"
)

// CanTransition encodes the request state machine. Supervisor approval
// is a necessary gate but never sufficient; only HR/finance approval
// performs the final balance mutation. Cancellation is
// employee-initiated and only allowed while the request is still
// pending.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusSupervisorApproved || to == StatusRejected || to == StatusCancelled
	case StatusSupervisorApproved:
		return to == StatusApproved || to == StatusRejected
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}
