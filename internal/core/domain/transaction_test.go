package domain_test

import (
	"testing"

	"github.com/SscSPs/case_management_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      domain.Transaction
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid debit",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				ProjectID:     "proj_123",
				Type:          domain.Debit,
				Category:      "Civil",
				Amount:        decimal.NewFromFloat(100.00),
			},
			wantErr: false,
		},
		{
			name: "valid credit without category",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				ProjectID:     "proj_123",
				Type:          domain.Credit,
				Amount:        decimal.NewFromFloat(2500.50),
			},
			wantErr: false,
		},
		{
			name: "unknown type",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				Type:          domain.TransactionType("TRANSFER"),
				Amount:        decimal.NewFromFloat(100.00),
			},
			wantErr: true,
			errMsg:  "transaction type must be CREDIT or DEBIT",
		},
		{
			name: "zero amount",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				Type:          domain.Debit,
				Amount:        decimal.Zero,
			},
			wantErr: true,
			errMsg:  "transaction amount must be positive",
		},
		{
			name: "negative amount",
			tx: domain.Transaction{
				TransactionID: "txn_123",
				Type:          domain.Credit,
				Amount:        decimal.NewFromInt(-50),
			},
			wantErr: true,
			errMsg:  "transaction amount must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTransactionType_IsValid(t *testing.T) {
	assert.True(t, domain.Credit.IsValid())
	assert.True(t, domain.Debit.IsValid())
	assert.False(t, domain.TransactionType("").IsValid())
	assert.False(t, domain.TransactionType("credit").IsValid())
}
