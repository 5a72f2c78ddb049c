package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25", formatMoney("25"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.500", formatMoney("-1500"))
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"abc", "def", "g"}, splitEvery("abcdefg", 3))
	assert.Nil(t, splitEvery("", 3))
	assert.Equal(t, []string{"ñañ", "a"}, splitEvery("ñaña", 3))
}

func TestGenerateLeadReport(t *testing.T) {
	g := NewMarotoPDFGenerator("https://crm.example.com/")
	g.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	past := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	employees := 40
	lead := &dto.LeadResponse{
		ID:             "lead-1",
		CompanyName:    "Acme SAS",
		TaxID:          "900123456",
		Sector:         "retail",
		EmployeeCount:  &employees,
		Source:         "REFERRAL",
		Priority:       "HIGH",
		Status:         "NEGOTIATION",
		EstimatedValue: decimal.NewFromInt(12500000),
		AssignedTo:     &dto.UserSummaryResponse{ID: "u1", Name: "Ana", Email: "ana@example.com"},
		Notes:          "Cliente interesado en el plan anual.",
		CreatedAt:      past,
		Contacts: []dto.ContactResponse{
			{ID: "c1", Name: "Luis", Position: "Gerente", IsPrimary: true},
		},
		Interactions: []dto.InteractionResponse{
			{ID: "i1", Type: "call", Title: "Llamada inicial", NextAction: "Enviar propuesta", NextActionDate: &past, CreatedAt: past},
		},
	}

	b, err := g.GenerateLeadReport(context.Background(), lead)
	require.NoError(t, err)
	require.NotEmpty(t, b)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestGenerateLeadReport_EmptySections(t *testing.T) {
	g := NewMarotoPDFGenerator("")
	b, err := g.GenerateLeadReport(context.Background(), &dto.LeadResponse{
		ID: "lead-2", CompanyName: "Sin Datos", Status: "NEW", Priority: "LOW", Source: "OTHER",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}
