package entity

import (
	"strings"
	"time"
)

// InteractionType tipo de evento de contacto.
type InteractionType string

const (
	InteractionCall    InteractionType = "call"
	InteractionEmail   InteractionType = "email"
	InteractionMeeting InteractionType = "meeting"
	InteractionChat    InteractionType = "chat"
	InteractionNote    InteractionType = "note"
)

// ParseInteractionType normaliza a minúsculas y valida.
func ParseInteractionType(s string) (InteractionType, bool) {
	t := InteractionType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case InteractionCall, InteractionEmail, InteractionMeeting, InteractionChat, InteractionNote:
		return t, true
	}
	return "", false
}

// Interaction evento de contacto registrado contra un Lead o (tras la conversión) una Company.
// Los campos base son inmutables; solo Outcome, NextAction* y NextActionCompleted cambian.
type Interaction struct {
	ID                  string
	LeadID              *string
	CompanyID           *string
	ContactID           *string
	Type                InteractionType
	Title               string
	Description         string
	Outcome             string
	NextAction          string
	NextActionDate      *time.Time
	NextActionCompleted bool
	CreatedByID         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsOverdue informa si la próxima acción está pendiente y su fecha ya pasó.
func (i *Interaction) IsOverdue(now time.Time) bool {
	return i.NextAction != "" && !i.NextActionCompleted &&
		i.NextActionDate != nil && i.NextActionDate.Before(now)
}

// UserSummary datos mínimos del autor o gestor para respuestas.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

// InteractionDetail interacción con su contacto y autor resueltos.
type InteractionDetail struct {
	Interaction
	Contact *Contact
	Author  *UserSummary
}
