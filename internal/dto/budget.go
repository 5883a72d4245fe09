package dto

import (
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetBudgetRequest defines the payload for setting a project's total budget.
type SetBudgetRequest struct {
	TotalBudget decimal.Decimal `json:"totalBudget" binding:"required"`
}

// AllocateCostCenterRequest defines the payload for adding a cost center.
type AllocateCostCenterRequest struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// CostCenterResponse defines the data returned for a cost center.
type CostCenterResponse struct {
	CostCenterID    string          `json:"costCenterID"`
	Name            string          `json:"name"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
}

// BudgetResponse defines the budget document returned to callers.
type BudgetResponse struct {
	ProjectID      string               `json:"projectID"`
	TotalBudget    decimal.Decimal      `json:"totalBudget"`
	AllocatedTotal decimal.Decimal      `json:"allocatedTotal"`
	ReceivedAmount decimal.Decimal      `json:"receivedAmount"`
	SpentAmount    decimal.Decimal      `json:"spentAmount"`
	PendingAmount  decimal.Decimal      `json:"pendingAmount"`
	CostCenters    []CostCenterResponse `json:"costCenters"`
	// OverAllocated flags allocations exceeding the total budget. A soft
	// constraint surfaced for UI warnings only.
	OverAllocated bool      `json:"overAllocated"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ToCostCenterResponse converts a domain.CostCenterItem to its DTO.
func ToCostCenterResponse(cc *domain.CostCenterItem) CostCenterResponse {
	return CostCenterResponse{
		CostCenterID:    cc.CostCenterID,
		Name:            cc.Name,
		AllocatedAmount: cc.AllocatedAmount,
		SpentAmount:     cc.SpentAmount,
	}
}

// ToBudgetResponse converts a domain.ProjectBudget to its DTO.
func ToBudgetResponse(b *domain.ProjectBudget) BudgetResponse {
	centers := make([]CostCenterResponse, len(b.CostCenters))
	for i, cc := range b.CostCenters {
		centers[i] = ToCostCenterResponse(&cc)
	}
	allocated := b.AllocatedTotal()
	return BudgetResponse{
		ProjectID:      b.ProjectID,
		TotalBudget:    b.TotalBudget,
		AllocatedTotal: allocated,
		ReceivedAmount: b.ReceivedAmount,
		SpentAmount:    b.SpentAmount,
		PendingAmount:  b.PendingAmount,
		CostCenters:    centers,
		OverAllocated:  allocated.GreaterThan(b.TotalBudget),
		LastUpdatedAt:  b.LastUpdatedAt,
	}
}
