package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is a single money-in event against an account. SchemeType is
// denormalized from the account for reporting queries.
type Deposit struct {
	DepositID   string          `json:"depositID"`
	CompanyID   string          `json:"companyID"`
	AccountID   string          `json:"accountID"`
	UserID      string          `json:"userID"`      // owning client
	CollectedBy string          `json:"collectedBy"` // collecting staff member
	SchemeType  SchemeType      `json:"schemeType"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	AuditFields
}
