package leads

import (
	"context"
	"fmt"

	"github.com/jhoicas/Prospectos-api/internal/domain/entity"
)

// DownloadReport genera el PDF del lead con contactos e historial.
// Retorna los bytes y el nombre sugerido del archivo.
func (uc *UseCase) DownloadReport(ctx context.Context, actor entity.Actor, id string) ([]byte, string, error) {
	if uc.pdf == nil {
		return nil, "", fmt.Errorf("leads: generador PDF no configurado")
	}
	detail, err := uc.GetByID(ctx, actor, id)
	if err != nil {
		return nil, "", err
	}
	b, err := uc.pdf.GenerateLeadReport(ctx, detail)
	if err != nil {
		return nil, "", fmt.Errorf("leads: generar reporte: %w", err)
	}
	return b, fmt.Sprintf("lead-%s.pdf", detail.ID), nil
}
