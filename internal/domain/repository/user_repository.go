package repository

import (
	"context"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// UserRepository puerto de lectura de usuarios más la creación del dueño en la conversión.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	SetCompany(ctx context.Context, userID, companyID string) error
	// ListAll usuarios activos ordenados por rol y email.
	ListAll(ctx context.Context) ([]*entity.User, error)
}
