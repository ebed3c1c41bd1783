package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gullak-app/gullak_backend/internal/core/domain"
)

// CreateAccountRequest opens a savings account for a client.
// Mode-specific fields: InstallmentAmount (Monthly), DailyDepositAmount or
// MonthlyTarget (Daily), YearlyAmount (Yearly). When MonthlyTarget is absent
// for Daily accounts it is derived as DailyDepositAmount x 30.
type CreateAccountRequest struct {
	UserID             string          `json:"userId" binding:"required"`
	AgentID            string          `json:"agentId,omitempty"`
	SchemeType         string          `json:"schemeType" binding:"required,oneof=RD NSC KVP PPF"`
	PaymentMode        string          `json:"paymentMode" binding:"required,oneof=DAILY MONTHLY YEARLY"`
	DurationMonths     int             `json:"durationMonths" binding:"required,gt=0"`
	StartDate          *time.Time      `json:"startDate,omitempty"`
	TotalPayableAmount decimal.Decimal `json:"totalPayableAmount,omitempty"`
	InstallmentAmount  decimal.Decimal `json:"installmentAmount,omitempty"`
	DailyDepositAmount decimal.Decimal `json:"dailyDepositAmount,omitempty"`
	MonthlyTarget      decimal.Decimal `json:"monthlyTarget,omitempty"`
	YearlyAmount       decimal.Decimal `json:"yearlyAmount,omitempty"`
}

// UpdateAccountRequest mutates account targets (Admin only). TotalPayableAmount
// changes are validated against the payment mode before persisting.
type UpdateAccountRequest struct {
	TotalPayableAmount *decimal.Decimal `json:"totalPayableAmount,omitempty"`
	InstallmentAmount  *decimal.Decimal `json:"installmentAmount,omitempty"`
	MonthlyTarget      *decimal.Decimal `json:"monthlyTarget,omitempty"`
	YearlyAmount       *decimal.Decimal `json:"yearlyAmount,omitempty"`
	AgentID            *string          `json:"agentId,omitempty"`
}

// AccountResponse is the wire shape of an account.
type AccountResponse struct {
	AccountID          string          `json:"accountID"`
	AccountNumber      string          `json:"accountNumber"`
	UserID             string          `json:"userId"`
	AgentID            string          `json:"agentId"`
	SchemeType         string          `json:"schemeType"`
	PaymentMode        string          `json:"paymentMode"`
	DurationMonths     int             `json:"durationMonths"`
	StartDate          time.Time       `json:"startDate"`
	MaturityDate       time.Time       `json:"maturityDate"`
	TotalPayableAmount decimal.Decimal `json:"totalPayableAmount"`
	InstallmentAmount  decimal.Decimal `json:"installmentAmount,omitempty"`
	MonthlyTarget      decimal.Decimal `json:"monthlyTarget,omitempty"`
	YearlyAmount       decimal.Decimal `json:"yearlyAmount,omitempty"`
	Balance            decimal.Decimal `json:"balance"`
	IsFullyPaid        bool            `json:"isFullyPaid"`
	Status             string          `json:"status"`
}

// ListAccountsParams controls account listing.
type ListAccountsParams struct {
	Status    string  `form:"status"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListAccountsResponse is a page of accounts.
type ListAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToAccountResponse converts a domain account to its wire shape.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          a.AccountID,
		AccountNumber:      a.AccountNumber,
		UserID:             a.UserID,
		AgentID:            a.AgentID,
		SchemeType:         string(a.SchemeType),
		PaymentMode:        string(a.PaymentMode),
		DurationMonths:     a.DurationMonths,
		StartDate:          a.StartDate,
		MaturityDate:       a.MaturityDate,
		TotalPayableAmount: a.TotalPayableAmount,
		InstallmentAmount:  a.InstallmentAmount,
		MonthlyTarget:      a.MonthlyTarget,
		YearlyAmount:       a.YearlyAmount,
		Balance:            a.Balance,
		IsFullyPaid:        a.IsFullyPaid,
		Status:             string(a.Status),
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
