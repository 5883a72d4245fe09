package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func approvalBy(role domain.Role, actorID string) domain.ApprovalAction {
	return domain.ApprovalAction{
		Role:      role,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	}
}

func TestApprovalRequest_IsFullyApproved(t *testing.T) {
	tests := []struct {
		name    string
		request domain.ApprovalRequest
		want    bool
	}{
		{
			name: "no votes yet",
			request: domain.ApprovalRequest{
				RequiredRoles: []domain.Role{domain.RoleEngineering, domain.RoleProjectManager},
			},
			want: false,
		},
		{
			name: "one of two roles covered",
			request: domain.ApprovalRequest{
				RequiredRoles: []domain.Role{domain.RoleEngineering, domain.RoleProjectManager},
				Approvals:     []domain.ApprovalAction{approvalBy(domain.RoleEngineering, "eng-1")},
			},
			want: false,
		},
		{
			name: "all roles covered",
			request: domain.ApprovalRequest{
				RequiredRoles: []domain.Role{domain.RoleEngineering, domain.RoleProjectManager},
				Approvals: []domain.ApprovalAction{
					approvalBy(domain.RoleEngineering, "eng-1"),
					approvalBy(domain.RoleProjectManager, "pm-1"),
				},
			},
			want: true,
		},
		{
			name: "same person covering two roles counts per role",
			request: domain.ApprovalRequest{
				RequiredRoles: []domain.Role{domain.RoleSales, domain.RoleFinance},
				Approvals: []domain.ApprovalAction{
					approvalBy(domain.RoleSales, "dual-1"),
					approvalBy(domain.RoleFinance, "dual-1"),
				},
			},
			want: true,
		},
		{
			name: "duplicate role does not cover a missing one",
			request: domain.ApprovalRequest{
				RequiredRoles: []domain.Role{domain.RoleFinance, domain.RoleAccounts, domain.RoleProjectManager},
				Approvals: []domain.ApprovalAction{
					approvalBy(domain.RoleFinance, "fin-1"),
					approvalBy(domain.RoleFinance, "fin-2"),
					approvalBy(domain.RoleAccounts, "acct-1"),
				},
			},
			want: false,
		},
		{
			name: "no required roles is trivially covered",
			request: domain.ApprovalRequest{
				RequiredRoles: []domain.Role{},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.request.IsFullyApproved())
		})
	}
}

func TestApprovalRequest_RoleIsRequired(t *testing.T) {
	request := domain.ApprovalRequest{
		RequiredRoles: []domain.Role{domain.RoleEngineering, domain.RoleProjectManager},
	}

	assert.True(t, request.RoleIsRequired(domain.RoleEngineering))
	assert.True(t, request.RoleIsRequired(domain.RoleProjectManager))
	assert.False(t, request.RoleIsRequired(domain.RoleSales))
}

func TestApprovalRequest_HasRoleApproved(t *testing.T) {
	request := domain.ApprovalRequest{
		RequiredRoles: []domain.Role{domain.RoleEngineering, domain.RoleProjectManager},
		Approvals:     []domain.ApprovalAction{approvalBy(domain.RoleEngineering, "eng-1")},
	}

	assert.True(t, request.HasRoleApproved(domain.RoleEngineering))
	assert.False(t, request.HasRoleApproved(domain.RoleProjectManager))
}

func TestApprovalRequest_IsTerminal(t *testing.T) {
	tests := []struct {
		status domain.ApprovalStatus
		want   bool
	}{
		{domain.ApprovalPending, false},
		{domain.ApprovalApproved, true},
		{domain.ApprovalRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			request := domain.ApprovalRequest{Status: tt.status}
			assert.Equal(t, tt.want, request.IsTerminal())
		})
	}
}
