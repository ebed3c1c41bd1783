package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// CreateDepositRequest is the payload for posting a single deposit.
type CreateDepositRequest struct {
	AccountID string          `json:"accountId" binding:"required"`
	UserID    string          `json:"userId" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
	Date      *time.Time      `json:"date,omitempty"`
}

// UpdateDepositRequest edits an existing deposit (Admin only).
type UpdateDepositRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty" binding:"omitempty,decimalgt0"`
	Date   *time.Time       `json:"date,omitempty"`
}

// BulkDepositItem is one entry of a bulk collection submission.
type BulkDepositItem struct {
	AccountID   string          `json:"accountId" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,decimalgt0"`
	CollectedBy string          `json:"collectedBy" binding:"required"`
}

// BulkCreateDepositsRequest is the payload for bulk collection.
type BulkCreateDepositsRequest struct {
	Deposits []BulkDepositItem `json:"deposits" binding:"required,min=1,dive"`
}

// FailedBulkAccount describes one rejected bulk item.
type FailedBulkAccount struct {
	AccountID string `json:"accountId"`
	Reason    string `json:"reason"`
}

// BulkCreateDepositsResponse is the partial-failure envelope of a bulk run.
// A batch with zero accepted items is still a successful response; callers
// must inspect the failure summary.
type BulkCreateDepositsResponse struct {
	Total           int                 `json:"total"`
	SuccessCount    int                 `json:"successCount"`
	FailedCount     int                 `json:"failedCount"`
	SuccessAccounts []string            `json:"successAccounts"`
	FailedAccounts  []FailedBulkAccount `json:"failedAccounts"`
	FailureSummary  map[string]int      `json:"failureSummary"`
}

// DepositResponse is the wire shape of a deposit.
type DepositResponse struct {
	DepositID   string          `json:"_id"`
	AccountID   string          `json:"accountId"`
	UserID      string          `json:"userId"`
	CollectedBy string          `json:"collectedBy"`
	SchemeType  string          `json:"schemeType"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
}

// ListDepositsParams controls deposit listing pagination.
type ListDepositsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListDepositsResponse is a page of deposits.
type ListDepositsResponse struct {
	Deposits  []DepositResponse `json:"deposits"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToDepositResponse converts a domain deposit to its wire shape.
func ToDepositResponse(d *domain.Deposit) DepositResponse {
	return DepositResponse{
		DepositID:   d.DepositID,
		AccountID:   d.AccountID,
		UserID:      d.UserID,
		CollectedBy: d.CollectedBy,
		SchemeType:  string(d.SchemeType),
		Amount:      d.Amount,
		Date:        d.Date,
	}
}

// ToDepositResponses converts a slice of domain deposits.
func ToDepositResponses(deposits []domain.Deposit) []DepositResponse {
	out := make([]DepositResponse, len(deposits))
	for i := range deposits {
		out[i] = ToDepositResponse(&deposits[i])
	}
	return out
}
