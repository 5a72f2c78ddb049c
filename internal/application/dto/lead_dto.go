package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLeadRequest body para POST /api/leads.
type CreateLeadRequest struct {
	CompanyName    string          `json:"company_name"`
	TaxID          string          `json:"tax_id,omitempty"`
	Sector         string          `json:"sector,omitempty"`
	Website        string          `json:"website,omitempty"`
	EmployeeCount  *int            `json:"employee_count,omitempty"`
	Source         string          `json:"source"`
	Priority       string          `json:"priority"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	AssignedToID   *string         `json:"assigned_to_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// UpdateLeadRequest body para PATCH /api/leads/:id. Solo se aplican los campos presentes.
type UpdateLeadRequest struct {
	CompanyName    *string          `json:"company_name"`
	TaxID          *string          `json:"tax_id"`
	Sector         *string          `json:"sector"`
	Website        *string          `json:"website"`
	EmployeeCount  *int             `json:"employee_count"`
	Source         *string          `json:"source"`
	Priority       *string          `json:"priority"`
	Status         *string          `json:"status"`
	EstimatedValue *decimal.Decimal `json:"estimated_value"`
	AssignedToID   *string          `json:"assigned_to_id"`
	Notes          *string          `json:"notes"`
}

// LeadListQuery filtros de GET /api/leads.
type LeadListQuery struct {
	Status     string `query:"status"`
	Priority   string `query:"priority"`
	AssignedTo string `query:"assigned_to"`
	Source     string `query:"source"`
	Search     string `query:"search"`
	PageRequest
}

// LeadResponse lead en respuestas. RecentInteractions se llena en create; Contacts e
// Interactions en el detalle.
type LeadResponse struct {
	ID                   string                `json:"id"`
	CompanyName          string                `json:"company_name"`
	TaxID                string                `json:"tax_id,omitempty"`
	Sector               string                `json:"sector,omitempty"`
	Website              string                `json:"website,omitempty"`
	EmployeeCount        *int                  `json:"employee_count,omitempty"`
	Source               string                `json:"source"`
	Priority             string                `json:"priority"`
	Status               string                `json:"status"`
	EstimatedValue       decimal.Decimal       `json:"estimated_value"`
	AssignedToID         *string               `json:"assigned_to_id,omitempty"`
	AssignedTo           *UserSummaryResponse  `json:"assigned_to,omitempty"`
	Notes                string                `json:"notes,omitempty"`
	ConvertedToCompanyID *string               `json:"converted_to_company_id,omitempty"`
	ConvertedAt          *time.Time            `json:"converted_at,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
	RecentInteractions   []InteractionResponse `json:"recent_interactions,omitempty"`
	Contacts             []ContactResponse     `json:"contacts,omitempty"`
	Interactions         []InteractionResponse `json:"interactions,omitempty"`
}

// LeadListResponse lista paginada de leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ConvertLeadRequest credenciales del dueño de la nueva cuenta.
// Password se hashea con bcrypt; PasswordHash permite enviar un hash ya calculado.
type ConvertLeadRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"password_hash,omitempty"`
	OwnerName    string `json:"owner_name,omitempty"`
}

// CompanyResponse empresa creada en la conversión.
type CompanyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	TaxID            string    `json:"tax_id,omitempty"`
	Sector           string    `json:"sector"`
	Website          string    `json:"website,omitempty"`
	Size             string    `json:"size"`
	AccountManagerID *string   `json:"account_manager_id,omitempty"`
	OwnerUserID      string    `json:"owner_user_id"`
	IsVerified       bool      `json:"is_verified"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
}

// ConvertLeadResponse resultado de POST /api/leads/:id/convert.
type ConvertLeadResponse struct {
	Lead    LeadResponse    `json:"lead"`
	Company CompanyResponse `json:"company"`
}
