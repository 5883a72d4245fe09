package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CaseStatus is the lifecycle status of a case (a sales lead on its way to
// becoming a billable project).
type CaseStatus string

const (
	StatusNewLead           CaseStatus = "NEW_LEAD"
	StatusSurveyScheduled   CaseStatus = "SURVEY_SCHEDULED"
	StatusDesignReview      CaseStatus = "DESIGN_REVIEW"
	StatusContractReview    CaseStatus = "CONTRACT_REVIEW"
	StatusWaitingForPayment CaseStatus = "WAITING_FOR_PAYMENT"
	// StatusWaitingForPlanning is the only status from which a case may be
	// converted into a project.
	StatusWaitingForPlanning CaseStatus = "WAITING_FOR_PLANNING"
	StatusPlanning           CaseStatus = "PLANNING"
	StatusInProgress         CaseStatus = "IN_PROGRESS"
	StatusCompleted          CaseStatus = "COMPLETED"
)

var knownCaseStatuses = map[CaseStatus]struct{}{
	StatusNewLead:            {},
	StatusSurveyScheduled:    {},
	StatusDesignReview:       {},
	StatusContractReview:     {},
	StatusWaitingForPayment:  {},
	StatusWaitingForPlanning: {},
	StatusPlanning:           {},
	StatusInProgress:         {},
	StatusCompleted:          {},
}

// IsValid reports whether the status is a member of the closed enumeration.
func (s CaseStatus) IsValid() bool {
	_, ok := knownCaseStatuses[s]
	return ok
}

// CaseFinancial holds the financial gate fields on a case. PaymentVerified is
// flipped by an accounts or finance reviewer; conversion reads it, never
// writes it.
type CaseFinancial struct {
	PaymentVerified   bool       `json:"paymentVerified"`
	PaymentVerifiedBy string     `json:"paymentVerifiedBy,omitempty"`
	PaymentVerifiedAt *time.Time `json:"paymentVerifiedAt,omitempty"`
}

// ApprovalSummary is the denormalized mirror of an ApprovalRequest embedded in
// the parent case for display. It is a best-effort read cache: never consult
// it for authorization or gating decisions.
type ApprovalSummary struct {
	ApprovalID string         `json:"approvalID"`
	StageID    string         `json:"stageID"`
	StageName  string         `json:"stageName"`
	Status     ApprovalStatus `json:"status"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Case represents a sales lead / customer case. Once converted it is referred
// to as a project; the same identifier is used for its budget.
type Case struct {
	CaseID           string          `json:"caseID"` // Primary Key (UUID)
	Title            string          `json:"title"`
	CustomerName     string          `json:"customerName"`
	Status           CaseStatus      `json:"status"`
	Financial        CaseFinancial   `json:"financial"`
	IsProject        bool            `json:"isProject"`
	ProjectStartedAt *time.Time      `json:"projectStartedAt,omitempty"`
	BudgetTotal      decimal.Decimal `json:"budgetTotal"` // Mirror of ProjectBudget.TotalBudget (display only)
	AuditFields
	// Approvals is the mirrored approval list (display only, eventually consistent).
	Approvals []ApprovalSummary `json:"approvals,omitempty"`
}

// TaskStatus is the lifecycle status of a follow-on task.
type TaskStatus string

const (
	TaskOpen TaskStatus = "OPEN"
	TaskDone TaskStatus = "DONE"
)

// Task is a follow-on work item created by an approval auto-action.
type Task struct {
	TaskID       string     `json:"taskID"` // Primary Key (UUID)
	CaseID       string     `json:"caseID"`
	Title        string     `json:"title"`
	AssignedRole Role       `json:"assignedRole"`
	Status       TaskStatus `json:"status"`
	AuditFields
}
