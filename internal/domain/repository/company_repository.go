package repository

import (
	"context"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	ListByAccountManager(ctx context.Context, managerID string) ([]*entity.Company, error)
}
