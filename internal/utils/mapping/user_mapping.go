package mapping

import (
	"github.com/gullak-app/gullak_backend/internal/core/domain"
	"github.com/gullak-app/gullak_backend/internal/models"
)

// ToModelUser converts a domain user to its DB shape.
func ToModelUser(d domain.User) models.User {
	return models.User{
		UserID:       d.UserID,
		CompanyID:    d.CompanyID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Role:         string(d.Role),
		ManagerID:    d.ManagerID,
		AgentID:      d.AgentID,
		PasswordHash: d.PasswordHash,
		DeviceTokens: d.DeviceTokens,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a DB user row to the domain shape.
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		UserID:       m.UserID,
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Role:         domain.Role(m.Role),
		ManagerID:    m.ManagerID,
		AgentID:      m.AgentID,
		PasswordHash: m.PasswordHash,
		DeviceTokens: m.DeviceTokens,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUserSlice converts DB user rows to domain shapes.
func ToDomainUserSlice(ms []models.User) []domain.User {
	out := make([]domain.User, len(ms))
	for i, m := range ms {
		out[i] = ToDomainUser(m)
	}
	return out
}

// ToModelCompany converts a domain company to its DB shape.
func ToModelCompany(d domain.Company) models.Company {
	return models.Company{
		CompanyID:   d.CompanyID,
		Name:        d.Name,
		Email:       d.Email,
		Phone:       d.Phone,
		Address:     d.Address,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCompany converts a DB company row to the domain shape.
func ToDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Email:       m.Email,
		Phone:       m.Phone,
		Address:     m.Address,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
