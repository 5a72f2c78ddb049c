package dto

import "time"

// CreateContactRequest body para POST /api/contacts. Exactamente uno de LeadID/CompanyID.
type CreateContactRequest struct {
	LeadID    *string `json:"lead_id,omitempty"`
	CompanyID *string `json:"company_id,omitempty"`
	Name      string  `json:"name"`
	Position  string  `json:"position,omitempty"`
	Phone     string  `json:"phone,omitempty"`
	Email     string  `json:"email,omitempty"`
	IsPrimary bool    `json:"is_primary"`
	Notes     string  `json:"notes,omitempty"`
}

// ContactListQuery filtros de GET /api/contacts.
type ContactListQuery struct {
	LeadID    string `query:"lead_id"`
	CompanyID string `query:"company_id"`
	PageRequest
}

// ContactResponse contacto en respuestas.
type ContactResponse struct {
	ID        string    `json:"id"`
	LeadID    *string   `json:"lead_id,omitempty"`
	CompanyID *string   `json:"company_id,omitempty"`
	Name      string    `json:"name"`
	Position  string    `json:"position,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	IsPrimary bool      `json:"is_primary"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactListResponse lista paginada.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
