package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// ContactUseCase casos de uso para contactos de leads y empresas.
type ContactUseCase struct {
	repo        repository.ContactRepository
	leadRepo    repository.LeadRepository
	companyRepo repository.CompanyRepository
	now         func() time.Time
}

// NewContactUseCase construye el caso de uso.
func NewContactUseCase(repo repository.ContactRepository, leadRepo repository.LeadRepository, companyRepo repository.CompanyRepository) *ContactUseCase {
	return &ContactUseCase{repo: repo, leadRepo: leadRepo, companyRepo: companyRepo, now: time.Now}
}

// Create crea un contacto bajo un lead o una empresa (exactamente uno).
func (uc *ContactUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateContactRequest) (*dto.ContactResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es obligatorio", domain.ErrInvalidInput)
	}
	leadID, companyID := blankToNil(in.LeadID), blankToNil(in.CompanyID)
	if (leadID == nil) == (companyID == nil) {
		return nil, fmt.Errorf("%w: indicar exactamente uno de lead_id o company_id", domain.ErrInvalidInput)
	}
	if leadID != nil {
		if err := openLead(ctx, uc.leadRepo, actor, *leadID); err != nil {
			return nil, err
		}
	} else if err := ensureCompanyVisible(ctx, uc.companyRepo, actor, *companyID); err != nil {
		return nil, err
	}

	now := uc.now()
	c := &entity.Contact{
		ID:        uuid.New().String(),
		LeadID:    leadID,
		CompanyID: companyID,
		Name:      name,
		Position:  strings.TrimSpace(in.Position),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		IsPrimary: in.IsPrimary,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	out := dto.ContactToResponse(c)
	return &out, nil
}

// List lista contactos, principal primero y luego por nombre.
func (uc *ContactUseCase) List(ctx context.Context, actor entity.Actor, q dto.ContactListQuery) (*dto.ContactListResponse, error) {
	q.DefaultPage(dto.DefaultPageLimit)
	f := repository.ContactFilter{LeadID: strings.TrimSpace(q.LeadID), CompanyID: strings.TrimSpace(q.CompanyID)}
	if f.LeadID != "" {
		if err := ensureLeadVisible(ctx, uc.leadRepo, actor, f.LeadID); err != nil {
			return nil, err
		}
	}
	if f.CompanyID != "" {
		if err := ensureCompanyVisible(ctx, uc.companyRepo, actor, f.CompanyID); err != nil {
			return nil, err
		}
	}
	f.VisibleTo = actor.ScopeUserID()
	list, err := uc.repo.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ContactResponse, 0, len(list))
	for _, c := range list {
		items = append(items, dto.ContactToResponse(c))
	}
	return &dto.ContactListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}
