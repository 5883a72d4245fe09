package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GeneralCategory is the sentinel category for spend that is not attributed to
// any named cost center.
const GeneralCategory = "General"

// CostCenterItem is a named budget bucket within a project. Name is the join
// key for transaction categorization: a plain string match, not a foreign key.
// SpentAmount is a cache derived from approved debit transactions.
type CostCenterItem struct {
	CostCenterID    string          `json:"costCenterID"` // Primary Key (UUID)
	ProjectID       string          `json:"projectID"`
	Name            string          `json:"name"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	AuditFields
}

// ProjectBudget is the budget document for one project. The three scalar
// aggregates are caches over the transaction log:
//
//	SpentAmount    = sum of approved debit amounts
//	ReceivedAmount = sum of approved credit amounts
//	PendingAmount  = sum of pending amounts, credit and debit alike — the
//	                 single pending bucket deliberately conflates money
//	                 expected in with money expected out (observed behavior,
//	                 preserved as-is).
type ProjectBudget struct {
	ProjectID      string           `json:"projectID"`
	TotalBudget    decimal.Decimal  `json:"totalBudget"`
	ReceivedAmount decimal.Decimal  `json:"receivedAmount"`
	SpentAmount    decimal.Decimal  `json:"spentAmount"`
	PendingAmount  decimal.Decimal  `json:"pendingAmount"`
	CostCenters    []CostCenterItem `json:"costCenters"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
}

// AllocatedTotal sums the cost-center allocations. Over-allocation against
// TotalBudget is permitted; surfacing it is a UI concern.
func (b *ProjectBudget) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, cc := range b.CostCenters {
		total = total.Add(cc.AllocatedAmount)
	}
	return total
}

// BudgetDelta is the set of aggregate increments a single transaction
// lifecycle event applies to a budget document. The ledger engine computes
// deltas; the repository applies them atomically alongside the transaction
// write. Zero fields are no-ops.
type BudgetDelta struct {
	Received decimal.Decimal
	Spent    decimal.Decimal
	Pending  decimal.Decimal
	// CostCenterName, when non-empty, receives CostCenterSpent on its matching
	// cost center row. A name that matches no row falls through silently: the
	// spend stays counted at project level only.
	CostCenterName  string
	CostCenterSpent decimal.Decimal
}
