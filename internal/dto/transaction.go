package dto

import (
	"time"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to post a ledger transaction.
type CreateTransactionRequest struct {
	Type        domain.TransactionType `json:"type" binding:"required,transactiontype"`
	Category    string                 `json:"category"` // Defaults to "General" when empty
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Description string                 `json:"description" binding:"required"`
	Date        time.Time              `json:"date" binding:"required"`
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	ProjectID     string          `json:"projectID"`
	Type          string          `json:"type"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Status        string          `json:"status"`
	CreatedBy     string          `json:"createdBy"`
	CreatedByRole string          `json:"createdByRole"`
	ApprovedBy    *string         `json:"approvedBy,omitempty"`
	ApprovedAt    *time.Time      `json:"approvedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListTransactionsParams defines pagination parameters for transaction history.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of transaction history, newest first.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		ProjectID:     txn.ProjectID,
		Type:          string(txn.Type),
		Category:      txn.Category,
		Amount:        txn.Amount,
		Description:   txn.Description,
		Date:          txn.Date,
		Status:        string(txn.Status),
		CreatedBy:     txn.CreatedBy,
		CreatedByRole: string(txn.CreatedByRole),
		ApprovedBy:    txn.ApprovedBy,
		ApprovedAt:    txn.ApprovedAt,
		CreatedAt:     txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}
