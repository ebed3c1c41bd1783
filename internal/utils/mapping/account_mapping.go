package mapping

import (
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/models"
)

// ToModelAccount converts a domain account to its DB shape.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		CompanyID:          d.CompanyID,
		AccountNumber:      d.AccountNumber,
		SchemeType:         string(d.SchemeType),
		PaymentMode:        string(d.PaymentMode),
		UserID:             d.UserID,
		AgentID:            d.AgentID,
		DurationMonths:     d.DurationMonths,
		StartDate:          d.StartDate,
		MaturityDate:       d.MaturityDate,
		TotalPayableAmount: d.TotalPayableAmount,
		InstallmentAmount:  d.InstallmentAmount,
		MonthlyTarget:      d.MonthlyTarget,
		YearlyAmount:       d.YearlyAmount,
		Balance:            d.Balance,
		IsFullyPaid:        d.IsFullyPaid,
		Status:             string(d.Status),
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB account row to the domain shape.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		CompanyID:          m.CompanyID,
		AccountNumber:      m.AccountNumber,
		SchemeType:         domain.SchemeType(m.SchemeType),
		PaymentMode:        domain.PaymentMode(m.PaymentMode),
		UserID:             m.UserID,
		AgentID:            m.AgentID,
		DurationMonths:     m.DurationMonths,
		StartDate:          m.StartDate,
		MaturityDate:       m.MaturityDate,
		TotalPayableAmount: m.TotalPayableAmount,
		InstallmentAmount:  m.InstallmentAmount,
		MonthlyTarget:      m.MonthlyTarget,
		YearlyAmount:       m.YearlyAmount,
		Balance:            m.Balance,
		IsFullyPaid:        m.IsFullyPaid,
		Status:             domain.AccountStatus(m.Status),
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
