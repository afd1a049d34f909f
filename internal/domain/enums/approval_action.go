package enums

type ApprovalActionType string

const (
	ApprovalActionApproved    ApprovalActionType = "APPROVED"
	ApprovalActionRejected    ApprovalActionType = "REJECTED"
	ApprovalActionSuspended   ApprovalActionType = "SUSPENDED"
	ApprovalActionUnsuspended ApprovalActionType = "UNSUSPENDED"
)
