package leads

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
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/metrics"
)

const (
	recentInteractionsPreview = 5
	detailMaxRows             = 500
)

// UseCase casos de uso del Lead Store y de la conversión.
type UseCase struct {
	leadRepo        repository.LeadRepository
	contactRepo     repository.ContactRepository
	interactionRepo repository.InteractionRepository
	userRepo        repository.UserRepository
	txRunner        ConversionTxRunner
	notifier        ConversionNotifier
	pdf             LeadPDFGenerator
	log             zerolog.Logger
	now             func() time.Time
	bcryptCost      int
}

// NewUseCase construye el caso de uso. notifier y pdf pueden ser nil.
func NewUseCase(
	leadRepo repository.LeadRepository,
	contactRepo repository.ContactRepository,
	interactionRepo repository.InteractionRepository,
	userRepo repository.UserRepository,
	txRunner ConversionTxRunner,
	notifier ConversionNotifier,
	pdf LeadPDFGenerator,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		leadRepo:        leadRepo,
		contactRepo:     contactRepo,
		interactionRepo: interactionRepo,
		userRepo:        userRepo,
		txRunner:        txRunner,
		notifier:        notifier,
		pdf:             pdf,
		log:             log.With().Str("component", "leads").Logger(),
		now:             time.Now,
		bcryptCost:      defaultBcryptCost,
	}
}

// Create valida y persiste un lead nuevo en estado NEW.
// Un gestor de cuenta solo puede crear leads asignados a sí mismo.
func (uc *UseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	name := strings.TrimSpace(in.CompanyName)
	if name == "" {
		return nil, fmt.Errorf("%w: company_name es obligatorio", domain.ErrInvalidInput)
	}
	source, ok := entity.ParseLeadSource(in.Source)
	if !ok {
		return nil, fmt.Errorf("%w: source inválido %q", domain.ErrInvalidInput, in.Source)
	}
	priority, ok := entity.ParseLeadPriority(in.Priority)
	if !ok {
		return nil, fmt.Errorf("%w: priority inválida %q", domain.ErrInvalidInput, in.Priority)
	}
	if in.EstimatedValue.IsNegative() {
		return nil, fmt.Errorf("%w: estimated_value no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.EmployeeCount != nil && *in.EmployeeCount < 0 {
		return nil, fmt.Errorf("%w: employee_count no puede ser negativo", domain.ErrInvalidInput)
	}

	assignee := in.AssignedToID
	if assignee != nil && *assignee == "" {
		assignee = nil
	}
	if !actor.SeesAllLeads() {
		if assignee == nil {
			assignee = &actor.UserID
		} else if *assignee != actor.UserID {
			return nil, fmt.Errorf("%w: un gestor solo puede asignarse leads a sí mismo", domain.ErrForbidden)
		}
	}
	manager, err := uc.resolveAssignee(ctx, assignee)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	lead := &entity.Lead{
		ID:             uuid.New().String(),
		CompanyName:    name,
		TaxID:          strings.TrimSpace(in.TaxID),
		Sector:         strings.TrimSpace(in.Sector),
		Website:        strings.TrimSpace(in.Website),
		EmployeeCount:  in.EmployeeCount,
		Source:         source,
		Priority:       priority,
		Status:         entity.LeadStatusNew,
		EstimatedValue: in.EstimatedValue.Round(2),
		AssignedToID:   assignee,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.leadRepo.Create(ctx, lead); err != nil {
		return nil, err
	}
	metrics.RecordLeadCreated(string(source))

	out := dto.LeadToResponse(lead)
	out.AssignedTo = dto.UserSummaryToResponse(manager.Summary())
	recent, err := uc.interactionRepo.List(ctx, repository.InteractionFilter{LeadID: lead.ID}, recentInteractionsPreview, 0)
	if err != nil {
		return nil, err
	}
	out.RecentInteractions = interactionsToResponse(recent)
	return &out, nil
}

// List lista leads con filtros; los gestores solo ven lo asignado.
func (uc *UseCase) List(ctx context.Context, actor entity.Actor, q dto.LeadListQuery) (*dto.LeadListResponse, error) {
	q.DefaultPage(dto.DefaultPageLimit)
	var f repository.LeadFilter
	if q.Status != "" {
		st, ok := entity.ParseLeadStatus(q.Status)
		if !ok {
			return nil, fmt.Errorf("%w: status inválido %q", domain.ErrInvalidInput, q.Status)
		}
		f.Status = st
	}
	if q.Priority != "" {
		p, ok := entity.ParseLeadPriority(q.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: priority inválida %q", domain.ErrInvalidInput, q.Priority)
		}
		f.Priority = p
	}
	if q.Source != "" {
		s, ok := entity.ParseLeadSource(q.Source)
		if !ok {
			return nil, fmt.Errorf("%w: source inválido %q", domain.ErrInvalidInput, q.Source)
		}
		f.Source = s
	}
	f.AssignedTo = strings.TrimSpace(q.AssignedTo)
	f.Search = strings.TrimSpace(q.Search)
	if !actor.SeesAllLeads() {
		f.AssignedTo = actor.UserID
	}

	list, err := uc.leadRepo.List(ctx, f, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		items = append(items, dto.LeadToResponse(l))
	}
	return &dto.LeadListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// GetByID devuelve el detalle con contactos (principal primero) e historial completo.
// Un lead invisible para el actor se reporta como inexistente.
func (uc *UseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.LeadResponse, error) {
	lead, err := uc.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	out := dto.LeadToResponse(lead)
	manager, err := uc.resolveAssignee(ctx, lead.AssignedToID)
	if err != nil {
		return nil, err
	}
	out.AssignedTo = dto.UserSummaryToResponse(manager.Summary())

	contacts, err := uc.contactRepo.List(ctx, repository.ContactFilter{LeadID: lead.ID}, detailMaxRows, 0)
	if err != nil {
		return nil, err
	}
	out.Contacts = make([]dto.ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out.Contacts = append(out.Contacts, dto.ContactToResponse(c))
	}
	history, err := uc.interactionRepo.List(ctx, repository.InteractionFilter{LeadID: lead.ID}, detailMaxRows, 0)
	if err != nil {
		return nil, err
	}
	out.Interactions = interactionsToResponse(history)
	if out.Interactions == nil {
		out.Interactions = []dto.InteractionResponse{}
	}
	return &out, nil
}

// Update aplica un parche parcial. WON solo se alcanza vía Convert.
func (uc *UseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	lead, err := uc.loadVisible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if lead.IsConverted() {
		return nil, fmt.Errorf("%w: el lead ya fue convertido", domain.ErrConflict)
	}

	if in.CompanyName != nil {
		name := strings.TrimSpace(*in.CompanyName)
		if name == "" {
			return nil, fmt.Errorf("%w: company_name no puede quedar vacío", domain.ErrInvalidInput)
		}
		lead.CompanyName = name
	}
	if in.TaxID != nil {
		lead.TaxID = strings.TrimSpace(*in.TaxID)
	}
	if in.Sector != nil {
		lead.Sector = strings.TrimSpace(*in.Sector)
	}
	if in.Website != nil {
		lead.Website = strings.TrimSpace(*in.Website)
	}
	if in.EmployeeCount != nil {
		if *in.EmployeeCount < 0 {
			return nil, fmt.Errorf("%w: employee_count no puede ser negativo", domain.ErrInvalidInput)
		}
		lead.EmployeeCount = in.EmployeeCount
	}
	if in.Source != nil {
		s, ok := entity.ParseLeadSource(*in.Source)
		if !ok {
			return nil, fmt.Errorf("%w: source inválido %q", domain.ErrInvalidInput, *in.Source)
		}
		lead.Source = s
	}
	if in.Priority != nil {
		p, ok := entity.ParseLeadPriority(*in.Priority)
		if !ok {
			return nil, fmt.Errorf("%w: priority inválida %q", domain.ErrInvalidInput, *in.Priority)
		}
		lead.Priority = p
	}
	if in.Status != nil {
		st, ok := entity.ParseLeadStatus(*in.Status)
		if !ok {
			return nil, fmt.Errorf("%w: status inválido %q", domain.ErrInvalidInput, *in.Status)
		}
		if st == entity.LeadStatusWon {
			return nil, fmt.Errorf("%w: WON solo se asigna al convertir el lead", domain.ErrInvalidInput)
		}
		lead.Status = st
	}
	if in.EstimatedValue != nil {
		if in.EstimatedValue.IsNegative() {
			return nil, fmt.Errorf("%w: estimated_value no puede ser negativo", domain.ErrInvalidInput)
		}
		lead.EstimatedValue = in.EstimatedValue.Round(2)
	}
	if in.Notes != nil {
		lead.Notes = *in.Notes
	}

	var manager *entity.User
	if in.AssignedToID != nil {
		var assignee *string
		if *in.AssignedToID != "" {
			v := *in.AssignedToID
			assignee = &v
		}
		if !actor.SeesAllLeads() && (assignee == nil || *assignee != actor.UserID) {
			return nil, fmt.Errorf("%w: solo un administrador puede reasignar leads", domain.ErrForbidden)
		}
		if manager, err = uc.resolveAssignee(ctx, assignee); err != nil {
			return nil, err
		}
		lead.AssignedToID = assignee
	} else if manager, err = uc.resolveAssignee(ctx, lead.AssignedToID); err != nil {
		return nil, err
	}

	lead.UpdatedAt = uc.now()
	if err := uc.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	out := dto.LeadToResponse(lead)
	out.AssignedTo = dto.UserSummaryToResponse(manager.Summary())
	return &out, nil
}

// loadVisible obtiene el lead o ErrNotFound si no existe o el actor no lo ve.
func (uc *UseCase) loadVisible(ctx context.Context, actor entity.Actor, id string) (*entity.Lead, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrNotFound
	}
	lead, err := uc.leadRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil || !actor.CanSee(lead) {
		return nil, domain.ErrNotFound
	}
	return lead, nil
}

// resolveAssignee valida que el gestor exista. nil = sin asignar.
func (uc *UseCase) resolveAssignee(ctx context.Context, id *string) (*entity.User, error) {
	if id == nil {
		return nil, nil
	}
	u, err := uc.userRepo.GetByID(ctx, *id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: assigned_to_id no corresponde a un usuario", domain.ErrInvalidInput)
	}
	return u, nil
}

func interactionsToResponse(list []*entity.InteractionDetail) []dto.InteractionResponse {
	if len(list) == 0 {
		return nil
	}
	out := make([]dto.InteractionResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.InteractionDetailToResponse(d))
	}
	return out
}
