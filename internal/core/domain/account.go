package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus is the lifecycle state of a savings account.
// Inactive -> Active -> {Pending, OnTrack} -> Matured. Closed is terminal and
// only reachable through explicit admin action, never through the deposit flow.
type AccountStatus string

const (
	StatusInactive AccountStatus = "INACTIVE"
	StatusActive   AccountStatus = "ACTIVE"
	StatusPending  AccountStatus = "PENDING"
	StatusOnTrack  AccountStatus = "ONTRACK"
	StatusMatured  AccountStatus = "MATURED"
	StatusClosed   AccountStatus = "CLOSED"
)

// Account is a savings contract between one client and the company, serviced
// by one assigned agent. Balance is a cached aggregate: it always equals the
// sum of non-deleted deposits after every successful mutation.
type Account struct {
	AccountID     string      `json:"accountID"`
	CompanyID     string      `json:"companyID"`
	AccountNumber string      `json:"accountNumber"` // scheme-prefixed, sequential per payment mode
	SchemeType    SchemeType  `json:"schemeType"`
	PaymentMode   PaymentMode `json:"paymentMode"`
	UserID        string      `json:"userID"`  // owning client
	AgentID       string      `json:"agentID"` // servicing agent

	DurationMonths int       `json:"durationMonths"`
	StartDate      time.Time `json:"startDate"`
	MaturityDate   time.Time `json:"maturityDate"`

	TotalPayableAmount decimal.Decimal `json:"totalPayableAmount"`
	InstallmentAmount  decimal.Decimal `json:"installmentAmount"` // Monthly mode
	MonthlyTarget      decimal.Decimal `json:"monthlyTarget"`     // Daily mode
	YearlyAmount       decimal.Decimal `json:"yearlyAmount"`      // Yearly mode

	Balance     decimal.Decimal `json:"balance"`
	IsFullyPaid bool            `json:"isFullyPaid"`
	Status      AccountStatus   `json:"status"`
	AuditFields
}

// RequiredYearlyAmount is the single payment a Yearly account must receive:
// YearlyAmount when set, otherwise the full TotalPayableAmount.
func (a Account) RequiredYearlyAmount() decimal.Decimal {
	if a.YearlyAmount.IsPositive() {
		return a.YearlyAmount
	}
	return a.TotalPayableAmount
}

// IsMatured reports whether the account has passed its maturity date.
func (a Account) IsMatured(now time.Time) bool {
	return !a.MaturityDate.IsZero() && !now.Before(a.MaturityDate)
}
