package leads

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
	"github.com/jhoicas/Prospectos-api/internal/infrastructure/metrics"
)

const defaultBcryptCost = bcrypt.DefaultCost

// Convert promueve el lead a empresa cliente en una sola transacción:
// crea el usuario dueño, la empresa, marca el lead WON y re-asigna contactos e interacciones.
// Cualquier fallo deja el lead sin cambios.
func (uc *UseCase) Convert(ctx context.Context, actor entity.Actor, leadID string, in dto.ConvertLeadRequest) (*dto.ConvertLeadResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, fmt.Errorf("%w: email del dueño inválido", domain.ErrInvalidInput)
	}
	if in.Password == "" && in.PasswordHash == "" {
		return nil, fmt.Errorf("%w: password o password_hash es obligatorio", domain.ErrInvalidInput)
	}
	// Visibilidad antes de abrir la tx; el estado se relee con bloqueo dentro.
	if _, err := uc.loadVisible(ctx, actor, leadID); err != nil {
		return nil, err
	}

	hash := in.PasswordHash
	if hash == "" {
		b, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		hash = string(b)
	}

	var lead *entity.Lead
	var company *entity.Company
	err := uc.txRunner.RunConversion(ctx, func(
		leadRepo repository.LeadRepository,
		userRepo repository.UserRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
		interactionRepo repository.InteractionRepository,
	) error {
		var err error
		lead, err = leadRepo.GetForUpdate(ctx, leadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return domain.ErrNotFound
		}
		if lead.IsConverted() {
			return fmt.Errorf("%w: el lead ya fue convertido", domain.ErrConflict)
		}

		existing, err := userRepo.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}

		now := uc.now()
		ownerName := strings.TrimSpace(in.OwnerName)
		if ownerName == "" {
			ownerName = lead.CompanyName
		}
		owner := &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: hash,
			Name:         ownerName,
			Role:         entity.RoleCompany,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, owner); err != nil {
			return err
		}

		sector := lead.Sector
		if sector == "" {
			sector = entity.DefaultCompanySector
		}
		sourceLead := lead.ID
		company = &entity.Company{
			ID:               uuid.New().String(),
			Name:             lead.CompanyName,
			TaxID:            lead.TaxID,
			Sector:           sector,
			Website:          lead.Website,
			Size:             entity.DefaultCompanySize,
			AccountManagerID: lead.AssignedToID,
			OwnerUserID:      owner.ID,
			SourceLeadID:     &sourceLead,
			IsVerified:       false,
			IsActive:         false,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := companyRepo.Create(ctx, company); err != nil {
			return err
		}
		if err := userRepo.SetCompany(ctx, owner.ID, company.ID); err != nil {
			return err
		}
		if err := leadRepo.MarkConverted(ctx, lead.ID, company.ID, now); err != nil {
			return err
		}
		if _, err := contactRepo.ReparentToCompany(ctx, lead.ID, company.ID); err != nil {
			return err
		}
		if _, err := interactionRepo.ReparentToCompany(ctx, lead.ID, company.ID); err != nil {
			return err
		}

		lead.Status = entity.LeadStatusWon
		lead.ConvertedToCompanyID = &company.ID
		lead.ConvertedAt = &now
		lead.UpdatedAt = now
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.RecordConversion("conflict")
		} else {
			metrics.RecordConversion("error")
		}
		return nil, err
	}
	metrics.RecordConversion("ok")
	uc.log.Info().Str("lead_id", lead.ID).Str("company_id", company.ID).Msg("lead convertido")

	if uc.notifier != nil {
		if nerr := uc.notifier.NotifyConversion(ctx, lead, company); nerr != nil {
			uc.log.Warn().Err(nerr).Str("lead_id", lead.ID).Msg("no se pudo notificar la conversión")
		}
	}

	return &dto.ConvertLeadResponse{
		Lead:    dto.LeadToResponse(lead),
		Company: dto.CompanyToResponse(company),
	}, nil
}
