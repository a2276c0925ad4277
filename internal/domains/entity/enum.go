package entity

type ApplicationStatus int16

const (
	ApplicationStatusUnknown  ApplicationStatus = 0
	ApplicationStatusPending  ApplicationStatus = 1
	ApplicationStatusApproved ApplicationStatus = 2
	ApplicationStatusRejected ApplicationStatus = 3
)

func (s ApplicationStatus) String() string {
	switch s {
	case ApplicationStatusPending:
		return "pending"
	case ApplicationStatusApproved:
		return "approved"
	case ApplicationStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// ApplicationDecisionFromString maps a review verdict to its status. Only
// approve and reject are valid decisions.
func ApplicationDecisionFromString(str string) ApplicationStatus {
	switch str {
	case "approve":
		return ApplicationStatusApproved
	case "reject":
		return ApplicationStatusRejected
	default:
		return ApplicationStatusUnknown
	}
}
