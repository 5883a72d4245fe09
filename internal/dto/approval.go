package dto

import (
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
)

// InitiateApprovalRequest defines the payload for starting a stage approval.
type InitiateApprovalRequest struct {
	StageID string `json:"stageID" binding:"required"`
}

// ApproveApprovalRequest defines the payload for one role's approval vote.
type ApproveApprovalRequest struct {
	Comment string `json:"comment"`
}

// RejectApprovalRequest defines the payload for a terminal rejection.
// The reason is mandatory.
type RejectApprovalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ApprovalActionResponse is one recorded approval vote.
type ApprovalActionResponse struct {
	Role      string    `json:"role"`
	ActorID   string    `json:"actorID"`
	ActorName string    `json:"actorName"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment,omitempty"`
}

// RejectionActionResponse is one recorded rejection.
type RejectionActionResponse struct {
	Role      string    `json:"role"`
	ActorID   string    `json:"actorID"`
	ActorName string    `json:"actorName"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// ApprovalResponse defines the data returned for an approval request.
type ApprovalResponse struct {
	ApprovalID    string                    `json:"approvalID"`
	CaseID        string                    `json:"caseID"`
	StageID       string                    `json:"stageID"`
	StageName     string                    `json:"stageName"`
	Status        string                    `json:"status"`
	RequesterID   string                    `json:"requesterID"`
	RequesterName string                    `json:"requesterName"`
	RequiredRoles []string                  `json:"requiredRoles"`
	Approvals     []ApprovalActionResponse  `json:"approvals"`
	Rejections    []RejectionActionResponse `json:"rejections"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

// ToApprovalResponse converts a domain.ApprovalRequest to its DTO.
func ToApprovalResponse(a *domain.ApprovalRequest) ApprovalResponse {
	roles := make([]string, len(a.RequiredRoles))
	for i, r := range a.RequiredRoles {
		roles[i] = string(r)
	}
	approvals := make([]ApprovalActionResponse, len(a.Approvals))
	for i, act := range a.Approvals {
		approvals[i] = ApprovalActionResponse{
			Role:      string(act.Role),
			ActorID:   act.ActorID,
			ActorName: act.ActorName,
			Timestamp: act.Timestamp,
			Comment:   act.Comment,
		}
	}
	rejections := make([]RejectionActionResponse, len(a.Rejections))
	for i, act := range a.Rejections {
		rejections[i] = RejectionActionResponse{
			Role:      string(act.Role),
			ActorID:   act.ActorID,
			ActorName: act.ActorName,
			Timestamp: act.Timestamp,
			Reason:    act.Reason,
		}
	}
	return ApprovalResponse{
		ApprovalID:    a.ApprovalID,
		CaseID:        a.CaseID,
		StageID:       a.StageID,
		StageName:     a.StageName,
		Status:        string(a.Status),
		RequesterID:   a.RequesterID,
		RequesterName: a.RequesterName,
		RequiredRoles: roles,
		Approvals:     approvals,
		Rejections:    rejections,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.LastUpdatedAt,
	}
}

// ToApprovalResponses converts a slice of domain.ApprovalRequest.
func ToApprovalResponses(approvals []domain.ApprovalRequest) []ApprovalResponse {
	responses := make([]ApprovalResponse, len(approvals))
	for i := range approvals {
		responses[i] = ToApprovalResponse(&approvals[i])
	}
	return responses
}
