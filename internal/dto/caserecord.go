package dto

import (
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCaseRequest defines the payload for registering a new sales lead.
type CreateCaseRequest struct {
	Title        string `json:"title" binding:"required"`
	CustomerName string `json:"customerName" binding:"required"`
}

// SetCaseStatusRequest defines the payload for moving a case to a new status.
type SetCaseStatusRequest struct {
	Status string `json:"status" binding:"required,casestatus"`
}

// CaseResponse defines the data returned for a case, including its
// display-only approval mirror and budget summary.
type CaseResponse struct {
	CaseID           string            `json:"caseID"`
	Title            string            `json:"title"`
	CustomerName     string            `json:"customerName"`
	Status           string            `json:"status"`
	PaymentVerified  bool              `json:"paymentVerified"`
	IsProject        bool              `json:"isProject"`
	ProjectStartedAt *time.Time        `json:"projectStartedAt,omitempty"`
	BudgetTotal      decimal.Decimal   `json:"budgetTotal"`
	Approvals        []ApprovalSummary `json:"approvals"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// ApprovalSummary is the mirrored approval entry shown on a case.
type ApprovalSummary struct {
	ApprovalID string    `json:"approvalID"`
	StageID    string    `json:"stageID"`
	StageName  string    `json:"stageName"`
	Status     string    `json:"status"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// TaskResponse defines the data returned for a follow-on task.
type TaskResponse struct {
	TaskID       string    `json:"taskID"`
	CaseID       string    `json:"caseID"`
	Title        string    `json:"title"`
	AssignedRole string    `json:"assignedRole"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ActivityEventResponse defines the data returned for one activity log entry.
type ActivityEventResponse struct {
	EventID     string            `json:"eventID"`
	Type        string            `json:"type"`
	CaseID      string            `json:"caseID"`
	Description string            `json:"description"`
	ActorID     string            `json:"actorID"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// ToCaseResponse converts a domain.Case to its DTO.
func ToCaseResponse(c *domain.Case) CaseResponse {
	approvals := make([]ApprovalSummary, len(c.Approvals))
	for i, a := range c.Approvals {
		approvals[i] = ApprovalSummary{
			ApprovalID: a.ApprovalID,
			StageID:    a.StageID,
			StageName:  a.StageName,
			Status:     string(a.Status),
			UpdatedAt:  a.UpdatedAt,
		}
	}
	return CaseResponse{
		CaseID:           c.CaseID,
		Title:            c.Title,
		CustomerName:     c.CustomerName,
		Status:           string(c.Status),
		PaymentVerified:  c.Financial.PaymentVerified,
		IsProject:        c.IsProject,
		ProjectStartedAt: c.ProjectStartedAt,
		BudgetTotal:      c.BudgetTotal,
		Approvals:        approvals,
		CreatedAt:        c.CreatedAt,
	}
}

// ToTaskResponses converts follow-on tasks to DTOs.
func ToTaskResponses(tasks []domain.Task) []TaskResponse {
	responses := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		responses[i] = TaskResponse{
			TaskID:       t.TaskID,
			CaseID:       t.CaseID,
			Title:        t.Title,
			AssignedRole: string(t.AssignedRole),
			Status:       string(t.Status),
			CreatedAt:    t.CreatedAt,
		}
	}
	return responses
}

// ToActivityEventResponses converts activity log entries to DTOs.
func ToActivityEventResponses(events []domain.ActivityEvent) []ActivityEventResponse {
	responses := make([]ActivityEventResponse, len(events))
	for i, e := range events {
		responses[i] = ActivityEventResponse{
			EventID:     e.EventID,
			Type:        string(e.Type),
			CaseID:      e.CaseID,
			Description: e.Description,
			ActorID:     e.ActorID,
			Metadata:    e.Metadata,
			CreatedAt:   e.CreatedAt,
		}
	}
	return responses
}
