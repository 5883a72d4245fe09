package domain

import "time"

// ApprovalStatus is the state of an approval request.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "PENDING"
	ApprovalApproved ApprovalStatus = "APPROVED"
	ApprovalRejected ApprovalStatus = "REJECTED"
)

// ApprovalAction records a single role's approval vote.
type ApprovalAction struct {
	Role      Role      `json:"role"`
	ActorID   string    `json:"actorID"`
	ActorName string    `json:"actorName"`
	Timestamp time.Time `json:"timestamp"`
	Comment   string    `json:"comment,omitempty"`
}

// RejectionAction records a rejection. A single rejection is terminal, so a
// request normally carries at most one, but the slice keeps the audit trail
// shape uniform with approvals.
type RejectionAction struct {
	Role      Role      `json:"role"`
	ActorID   string    `json:"actorID"`
	ActorName string    `json:"actorName"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason"`
}

// ApprovalRequest represents one gated stage for one case. It is the
// authoritative record; the case holds a display-only mirror. Requests are
// never deleted: they are the audit trail.
type ApprovalRequest struct {
	ApprovalID    string            `json:"approvalID"` // Primary Key (UUID)
	CaseID        string            `json:"caseID"`
	StageID       string            `json:"stageID"`
	StageName     string            `json:"stageName"`
	Status        ApprovalStatus    `json:"status"`
	RequesterID   string            `json:"requesterID"`
	RequesterName string            `json:"requesterName"`
	RequiredRoles []Role            `json:"requiredRoles"`
	Approvals     []ApprovalAction  `json:"approvals"`
	Rejections    []RejectionAction `json:"rejections"`
	AuditFields
}

// ApprovedRoles returns the set of distinct roles that have approved.
// Duplicate actions by the same role (which the engine rejects anyway) would
// still count once.
func (a *ApprovalRequest) ApprovedRoles() map[Role]struct{} {
	roles := make(map[Role]struct{}, len(a.Approvals))
	for _, act := range a.Approvals {
		roles[act.Role] = struct{}{}
	}
	return roles
}

// HasRoleApproved reports whether the given role already holds its quorum slot.
func (a *ApprovalRequest) HasRoleApproved(role Role) bool {
	_, ok := a.ApprovedRoles()[role]
	return ok
}

// RoleIsRequired reports whether the role participates in this stage's quorum.
func (a *ApprovalRequest) RoleIsRequired(role Role) bool {
	for _, r := range a.RequiredRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsFullyApproved reports whether every required role has cast an approval.
// The quorum is a coverage condition, not a majority vote.
func (a *ApprovalRequest) IsFullyApproved() bool {
	approved := a.ApprovedRoles()
	for _, r := range a.RequiredRoles {
		if _, ok := approved[r]; !ok {
			return false
		}
	}
	return true
}

// IsTerminal reports whether the request can accept further actions.
func (a *ApprovalRequest) IsTerminal() bool {
	return a.Status == ApprovalRejected || a.Status == ApprovalApproved
}
