package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is money in or money out.
type TransactionType string

const (
	Credit TransactionType = "CREDIT"
	Debit  TransactionType = "DEBIT"
)

// IsValid reports whether the type is a member of the closed enumeration.
func (t TransactionType) IsValid() bool {
	return t == Credit || t == Debit
}

// TransactionStatus is the review state of a ledger transaction.
// Transitions are PENDING -> APPROVED or PENDING -> REJECTED, both terminal.
type TransactionStatus string

const (
	TxnPending  TransactionStatus = "PENDING"
	TxnApproved TransactionStatus = "APPROVED"
	TxnRejected TransactionStatus = "REJECTED"
)

// Transaction is one ledger entry for a project. Amount is immutable once
// created; after a terminal transition only the approver metadata is written.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	ProjectID     string            `json:"projectID"`
	Type          TransactionType   `json:"type"`
	Category      string            `json:"category"` // Matched against cost-center names, or GeneralCategory
	Amount        decimal.Decimal   `json:"amount"`   // Positive
	Description   string            `json:"description"`
	Date          time.Time         `json:"date"`
	Status        TransactionStatus `json:"status"`
	CreatedByRole Role              `json:"createdByRole"`
	ApprovedBy    *string           `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time        `json:"approvedAt,omitempty"`
	AuditFields
}

// Validate checks the fields that must hold for any new transaction.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return errors.New("transaction type must be CREDIT or DEBIT")
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return errors.New("transaction amount must be positive")
	}
	return nil
}
