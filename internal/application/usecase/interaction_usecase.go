package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// InteractionUseCase casos de uso del registro de interacciones.
type InteractionUseCase struct {
	repo        repository.InteractionRepository
	leadRepo    repository.LeadRepository
	companyRepo repository.CompanyRepository
	contactRepo repository.ContactRepository
	log         zerolog.Logger
	now         func() time.Time
}

// NewInteractionUseCase construye el caso de uso.
func NewInteractionUseCase(
	repo repository.InteractionRepository,
	leadRepo repository.LeadRepository,
	companyRepo repository.CompanyRepository,
	contactRepo repository.ContactRepository,
	log zerolog.Logger,
) *InteractionUseCase {
	return &InteractionUseCase{
		repo:        repo,
		leadRepo:    leadRepo,
		companyRepo: companyRepo,
		contactRepo: contactRepo,
		log:         log.With().Str("component", "interactions").Logger(),
		now:         time.Now,
	}
}

// Create registra una interacción contra un lead o una empresa (exactamente uno).
func (uc *InteractionUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateInteractionRequest) (*dto.InteractionResponse, error) {
	typ, ok := entity.ParseInteractionType(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type inválido %q", domain.ErrInvalidInput, in.Type)
	}
	if actor.UserID == "" {
		return nil, fmt.Errorf("%w: autor requerido", domain.ErrInvalidInput)
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
	contactID := blankToNil(in.ContactID)
	if contactID != nil {
		c, err := uc.contactRepo.GetByID(ctx, *contactID)
		if err != nil {
			return nil, err
		}
		// el contacto debe colgar del mismo lead o empresa que la interacción
		if c == nil || !sameRef(c.LeadID, leadID) || !sameRef(c.CompanyID, companyID) {
			return nil, fmt.Errorf("%w: contact_id no pertenece al lead o empresa", domain.ErrInvalidInput)
		}
	}

	now := uc.now()
	it := &entity.Interaction{
		ID:             uuid.New().String(),
		LeadID:         leadID,
		CompanyID:      companyID,
		ContactID:      contactID,
		Type:           typ,
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Outcome:        in.Outcome,
		NextAction:     strings.TrimSpace(in.NextAction),
		NextActionDate: in.NextActionDate,
		CreatedByID:    actor.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return uc.detail(ctx, it.ID)
}

// List lista interacciones, más nueva primero. Página por defecto 50.
func (uc *InteractionUseCase) List(ctx context.Context, actor entity.Actor, q dto.InteractionListQuery) (*dto.InteractionListResponse, error) {
	q.DefaultPage(dto.DefaultInteractionLimit)
	f := repository.InteractionFilter{
		LeadID:    strings.TrimSpace(q.LeadID),
		CompanyID: strings.TrimSpace(q.CompanyID),
		ContactID: strings.TrimSpace(q.ContactID),
	}
	if q.Type != "" {
		typ, ok := entity.ParseInteractionType(q.Type)
		if !ok {
			return nil, fmt.Errorf("%w: type inválido %q", domain.ErrInvalidInput, q.Type)
		}
		f.Type = typ
	}
	if f.LeadID != "" {
		if err := uc.ensureLeadVisible(ctx, actor, f.LeadID); err != nil {
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
	items := make([]dto.InteractionResponse, 0, len(list))
	for _, d := range list {
		items = append(items, dto.InteractionDetailToResponse(d))
	}
	return &dto.InteractionListResponse{Items: items, Page: dto.PageResponse{Limit: q.Limit, Offset: q.Offset}}, nil
}

// Update modifica solo outcome y los campos de próxima acción.
func (uc *InteractionUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateInteractionRequest) (*dto.InteractionResponse, error) {
	it, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if in.Outcome != nil {
		it.Outcome = *in.Outcome
	}
	if in.NextAction != nil {
		it.NextAction = strings.TrimSpace(*in.NextAction)
	}
	if in.NextActionDate != nil {
		d := *in.NextActionDate
		it.NextActionDate = &d
	}
	if in.NextActionCompleted != nil {
		it.NextActionCompleted = *in.NextActionCompleted
	}
	it.UpdatedAt = uc.now()
	if err := uc.repo.UpdateFollowUp(ctx, it); err != nil {
		return nil, err
	}
	return uc.detail(ctx, it.ID)
}

// MarkActionCompleted marca la próxima acción como hecha. Repetirlo no cambia nada.
func (uc *InteractionUseCase) MarkActionCompleted(ctx context.Context, actor entity.Actor, id string) (*dto.InteractionResponse, error) {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := uc.repo.MarkActionCompleted(ctx, id, uc.now()); err != nil {
		return nil, err
	}
	return uc.detail(ctx, id)
}

func (uc *InteractionUseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.Interaction, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.ErrNotFound
	}
	if it.LeadID != nil {
		if err := uc.ensureLeadVisible(ctx, actor, *it.LeadID); err != nil {
			return nil, err
		}
	}
	if it.CompanyID != nil {
		if err := ensureCompanyVisible(ctx, uc.companyRepo, actor, *it.CompanyID); err != nil {
			return nil, err
		}
	}
	return it, nil
}

func (uc *InteractionUseCase) detail(ctx context.Context, id string) (*dto.InteractionResponse, error) {
	d, err := uc.repo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	out := dto.InteractionDetailToResponse(d)
	return &out, nil
}

func (uc *InteractionUseCase) ensureLeadVisible(ctx context.Context, actor entity.Actor, leadID string) error {
	return ensureLeadVisible(ctx, uc.leadRepo, actor, leadID)
}

// ensureLeadVisible ErrNotFound si el lead no existe o el actor no puede verlo.
func ensureLeadVisible(ctx context.Context, repo repository.LeadRepository, actor entity.Actor, leadID string) error {
	_, err := visibleLead(ctx, repo, actor, leadID)
	return err
}

func visibleLead(ctx context.Context, repo repository.LeadRepository, actor entity.Actor, leadID string) (*entity.Lead, error) {
	lead, err := repo.GetByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead == nil || !actor.CanSee(lead) {
		return nil, domain.ErrNotFound
	}
	return lead, nil
}

// openLead como visibleLead pero rechaza leads ya convertidos: sus registros viven en la empresa.
func openLead(ctx context.Context, repo repository.LeadRepository, actor entity.Actor, leadID string) error {
	lead, err := visibleLead(ctx, repo, actor, leadID)
	if err != nil {
		return err
	}
	if lead.IsConverted() {
		return fmt.Errorf("%w: el lead ya fue convertido; usar company_id", domain.ErrConflict)
	}
	return nil
}

// ensureCompanyVisible ErrNotFound si la empresa no existe o el gestor no la gestiona.
func ensureCompanyVisible(ctx context.Context, repo repository.CompanyRepository, actor entity.Actor, companyID string) error {
	company, err := repo.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil || !actor.CanSeeCompany(company) {
		return domain.ErrNotFound
	}
	return nil
}

func sameRef(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
