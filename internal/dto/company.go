package dto

import "github.com/gullak-app/gullak_backend/internal/core/domain"

// CreateCompanyRequest onboards a new tenant with its first Admin.
type CreateCompanyRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	AdminName     string `json:"adminName" binding:"required"`
	AdminEmail    string `json:"adminEmail" binding:"required,email"`
	AdminPassword string `json:"adminPassword" binding:"required,min=8"`
}

// UpdateCompanyRequest edits tenant attributes.
type UpdateCompanyRequest struct {
	Name    *string `json:"name,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CompanyResponse is the wire shape of a tenant.
type CompanyResponse struct {
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	IsActive  bool   `json:"isActive"`
}

// ToCompanyResponse converts a domain company to its wire shape.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		IsActive:  c.IsActive,
	}
}
