package entity

import "time"

// Contact persona de contacto. Pertenece a un Lead o a una Company, nunca a ambos.
type Contact struct {
	ID        string
	LeadID    *string
	CompanyID *string
	Name      string
	Position  string
	Phone     string
	Email     string
	IsPrimary bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
