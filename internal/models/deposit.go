package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is the DB shape of a money-in event.
type Deposit struct {
	DepositID   string          `db:"deposit_id"`
	CompanyID   string          `db:"company_id"`
	AccountID   string          `db:"account_id"`
	UserID      string          `db:"user_id"`
	CollectedBy string          `db:"collected_by"`
	SchemeType  string          `db:"scheme_type"`
	Amount      decimal.Decimal `db:"amount"`
	Date        time.Time       `db:"deposit_date"`
	AuditFields
}
