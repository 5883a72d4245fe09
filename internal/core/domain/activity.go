package domain

import "time"

// ActivityType classifies domain events in the activity log.
type ActivityType string

const (
	ActivityApprovalRequested   ActivityType = "APPROVAL_REQUESTED"
	ActivityApprovalGranted     ActivityType = "APPROVAL_GRANTED"
	ActivityApprovalCompleted   ActivityType = "APPROVAL_COMPLETED"
	ActivityApprovalRejected    ActivityType = "APPROVAL_REJECTED"
	ActivityStatusChanged       ActivityType = "STATUS_CHANGED"
	ActivityCaseCreated         ActivityType = "CASE_CREATED"
	ActivityPaymentVerified     ActivityType = "PAYMENT_VERIFIED"
	ActivityCaseConverted       ActivityType = "CASE_CONVERTED"
	ActivityTaskCreated         ActivityType = "TASK_CREATED"
	ActivityBudgetSet           ActivityType = "BUDGET_SET"
	ActivityCostCenterAdded     ActivityType = "COST_CENTER_ADDED"
	ActivityCostCenterRemoved   ActivityType = "COST_CENTER_REMOVED"
	ActivityTransactionRecorded ActivityType = "TRANSACTION_RECORDED"
	ActivityTransactionApproved ActivityType = "TRANSACTION_APPROVED"
	ActivityTransactionRejected ActivityType = "TRANSACTION_REJECTED"
)

// ActivityEvent is one append-only record in the activity log. The log is a
// pure sink: events are fire-and-forget and delivery failure never fails the
// originating operation. Notification fan-out consumes this stream downstream.
type ActivityEvent struct {
	EventID     string            `json:"eventID"` // Primary Key (UUID)
	Type        ActivityType      `json:"type"`
	CaseID      string            `json:"caseID"` // Case or project identifier
	Description string            `json:"description"`
	ActorID     string            `json:"actorID"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}
