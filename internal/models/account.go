package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the DB shape of a savings account.
type Account struct {
	AccountID          string          `db:"account_id"`
	CompanyID          string          `db:"company_id"`
	AccountNumber      string          `db:"account_number"`
	SchemeType         string          `db:"scheme_type"`
	PaymentMode        string          `db:"payment_mode"`
	UserID             string          `db:"user_id"`
	AgentID            string          `db:"agent_id"`
	DurationMonths     int             `db:"duration_months"`
	StartDate          time.Time       `db:"start_date"`
	MaturityDate       time.Time       `db:"maturity_date"`
	TotalPayableAmount decimal.Decimal `db:"total_payable_amount"`
	InstallmentAmount  decimal.Decimal `db:"installment_amount"`
	MonthlyTarget      decimal.Decimal `db:"monthly_target"`
	YearlyAmount       decimal.Decimal `db:"yearly_amount"`
	Balance            decimal.Decimal `db:"balance"`
	IsFullyPaid        bool            `db:"is_fully_paid"`
	Status             string          `db:"status"`
	AuditFields
}
