package repository

import (
	"context"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// ContactFilter filtros del listado de contactos.
type ContactFilter struct {
	LeadID    string
	CompanyID string
	// VisibleTo restringe a leads asignados o empresas gestionadas por ese usuario.
	VisibleTo string
}

// ContactRepository define el puerto de persistencia para Contact.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	// List ordena primero el contacto principal y luego por nombre.
	List(ctx context.Context, f ContactFilter, limit, offset int) ([]*entity.Contact, error)
	// ReparentToCompany mueve los contactos del lead a la empresa y limpia lead_id.
	ReparentToCompany(ctx context.Context, leadID, companyID string) (int64, error)
}
