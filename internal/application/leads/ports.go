package leads

import (
	"context"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
	"github.com/jhoicas/Prospectos-api/internal/domain/repository"
)

// ConversionTxRunner ejecuta fn dentro de una transacción con todos los repos que toca la conversión.
// Si fn retorna error se hace rollback completo.
type ConversionTxRunner interface {
	RunConversion(ctx context.Context, fn func(
		leadRepo repository.LeadRepository,
		userRepo repository.UserRepository,
		companyRepo repository.CompanyRepository,
		contactRepo repository.ContactRepository,
		interactionRepo repository.InteractionRepository,
	) error) error
}

// ConversionNotifier avisa al gestor que su lead se convirtió. Se llama después del commit.
type ConversionNotifier interface {
	NotifyConversion(ctx context.Context, lead *entity.Lead, company *entity.Company) error
}

// LeadPDFGenerator genera el reporte PDF de un lead con su detalle completo.
type LeadPDFGenerator interface {
	GenerateLeadReport(ctx context.Context, lead *dto.LeadResponse) ([]byte, error)
}
