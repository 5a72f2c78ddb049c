package dto

import "time"

// CreateInteractionRequest body para POST /api/interactions. Exactamente uno de LeadID/CompanyID.
type CreateInteractionRequest struct {
	Type           string     `json:"type"`
	LeadID         *string    `json:"lead_id,omitempty"`
	CompanyID      *string    `json:"company_id,omitempty"`
	ContactID      *string    `json:"contact_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Outcome        string     `json:"outcome,omitempty"`
	NextAction     string     `json:"next_action,omitempty"`
	NextActionDate *time.Time `json:"next_action_date,omitempty"`
}

// UpdateInteractionRequest campos mutables de una interacción.
type UpdateInteractionRequest struct {
	Outcome             *string    `json:"outcome"`
	NextAction          *string    `json:"next_action"`
	NextActionDate      *time.Time `json:"next_action_date"`
	NextActionCompleted *bool      `json:"next_action_completed"`
}

// InteractionListQuery filtros de GET /api/interactions.
type InteractionListQuery struct {
	LeadID    string `query:"lead_id"`
	CompanyID string `query:"company_id"`
	ContactID string `query:"contact_id"`
	Type      string `query:"type"`
	PageRequest
}

// InteractionResponse interacción con contacto y autor.
type InteractionResponse struct {
	ID                  string               `json:"id"`
	LeadID              *string              `json:"lead_id,omitempty"`
	CompanyID           *string              `json:"company_id,omitempty"`
	ContactID           *string              `json:"contact_id,omitempty"`
	Type                string               `json:"type"`
	Title               string               `json:"title"`
	Description         string               `json:"description,omitempty"`
	Outcome             string               `json:"outcome,omitempty"`
	NextAction          string               `json:"next_action,omitempty"`
	NextActionDate      *time.Time           `json:"next_action_date,omitempty"`
	NextActionCompleted bool                 `json:"next_action_completed"`
	CreatedByID         string               `json:"created_by_id"`
	CreatedAt           time.Time            `json:"created_at"`
	Contact             *ContactResponse     `json:"contact,omitempty"`
	Author              *UserSummaryResponse `json:"author,omitempty"`
}

// InteractionListResponse lista paginada.
type InteractionListResponse struct {
	Items []InteractionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
