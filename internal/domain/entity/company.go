package entity

import "time"

// Valores por defecto al crear una empresa desde un lead.
const (
	DefaultCompanySector = "other"
	DefaultCompanySize   = "small"
)

// Company cuenta de cliente. Este núcleo solo la crea a partir de un lead convertido.
// Nace inactiva y sin verificar; la activación es un paso aparte.
type Company struct {
	ID               string
	Name             string
	TaxID            string
	Sector           string
	Website          string
	Size             string
	AccountManagerID *string // heredado del gestor asignado al lead
	OwnerUserID      string
	SourceLeadID     *string
	IsVerified       bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
