package mapping

import (
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/models"
)

// ToModelDeposit converts a domain deposit to its DB shape.
func ToModelDeposit(d domain.Deposit) models.Deposit {
	return models.Deposit{
		DepositID:   d.DepositID,
		CompanyID:   d.CompanyID,
		AccountID:   d.AccountID,
		UserID:      d.UserID,
		CollectedBy: d.CollectedBy,
		SchemeType:  string(d.SchemeType),
		Amount:      d.Amount,
		Date:        d.Date,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDeposit converts a DB deposit row to the domain shape.
func ToDomainDeposit(m models.Deposit) domain.Deposit {
	return domain.Deposit{
		DepositID:   m.DepositID,
		CompanyID:   m.CompanyID,
		AccountID:   m.AccountID,
		UserID:      m.UserID,
		CollectedBy: m.CollectedBy,
		SchemeType:  domain.SchemeType(m.SchemeType),
		Amount:      m.Amount,
		Date:        m.Date,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainDepositSlice converts DB deposit rows to domain shapes.
func ToDomainDepositSlice(ms []models.Deposit) []domain.Deposit {
	out := make([]domain.Deposit, len(ms))
	for i, m := range ms {
		out[i] = ToDomainDeposit(m)
	}
	return out
}
