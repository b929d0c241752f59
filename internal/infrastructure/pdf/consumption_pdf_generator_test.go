package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":         "0,00",
		"999":       "999,00",
		"1000":      "1.000,00",
		"1234567.5": "1.234.567,50",
		"-2500.125": "-2.500,13",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestGenerateConsumptionPDF(t *testing.T) {
	g := NewConsumptionPDFGenerator("Clínica Odontológica")
	g.now = func() time.Time { return time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC) }

	report := &dto.ConsumptionReportResponse{
		From: "2026-05-01",
		To:   "2026-05-31",
		Lines: []dto.ConsumptionLineDTO{{
			MovementID:      "m-1",
			Date:            time.Date(2026, 5, 10, 14, 0, 0, 0, time.UTC),
			ItemName:        "Luva nitrílica",
			LotNumber:       "L-01",
			Quantity:        20,
			UnitCost:        decimal.RequireFromString("5.33"),
			Subtotal:        decimal.RequireFromString("106.60"),
			StaffMemberName: "Ana",
		}},
		Total: decimal.RequireFromString("106.60"),
	}

	b, err := g.GenerateConsumptionPDF(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")), "debe ser un documento PDF")
}

func TestGenerateConsumptionPDF_SinLineas(t *testing.T) {
	g := NewConsumptionPDFGenerator("")
	b, err := g.GenerateConsumptionPDF(context.Background(), &dto.ConsumptionReportResponse{From: "2026-05-01", To: "2026-05-31"})
	require.NoError(t, err)
	assert.NotEmpty(t, b)

	_, err = g.GenerateConsumptionPDF(context.Background(), nil)
	assert.Error(t, err)
}
