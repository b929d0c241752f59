package report

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/application/dto"
)

// ConsumptionPDFGenerator puerto para renderizar el informe de consumo en PDF (Maroto).
type ConsumptionPDFGenerator interface {
	GenerateConsumptionPDF(ctx context.Context, report *dto.ConsumptionReportResponse) ([]byte, error)
}
