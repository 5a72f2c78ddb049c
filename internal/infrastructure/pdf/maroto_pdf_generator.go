// Package pdf implementa el reporte PDF de un lead (ficha comercial).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa prospecto + NIT │  Estado + Prioridad       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Sector / Web / Empleados / Origen / Valor / Gestor   │
//	│  NOTAS                                                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONTACTOS: Nombre | Cargo | Teléfono | Email                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTORIAL: Fecha | Tipo | Título | Próxima acción           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR al lead + fecha de generación                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Prospectos-api/internal/application/dto"
	"github.com/jhoicas/Prospectos-api/internal/application/leads"
)

var _ leads.LeadPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa leads.LeadPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	baseURL string // URL pública de la app para el QR; vacío = sin QR
	now     func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(baseURL string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// GenerateLeadReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateLeadReport(_ context.Context, lead *dto.LeadResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Ficha de lead: "+lead.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(lead))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(dataRow(lead))
	if lead.Notes != "" {
		m.AddRows(notesRows(lead.Notes)...)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle(fmt.Sprintf("CONTACTOS (%d)", len(lead.Contacts))))
	m.AddRows(tableHeaderRow([]string{"Nombre", "Cargo", "Teléfono", "Email"}, []int{3, 3, 2, 4}))
	m.AddRows(contactRows(lead.Contacts)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle(fmt.Sprintf("HISTORIAL DE INTERACCIONES (%d)", len(lead.Interactions))))
	m.AddRows(tableHeaderRow([]string{"Fecha", "Tipo", "Título", "Próxima acción"}, []int{2, 1, 5, 4}))
	m.AddRows(interactionRows(lead.Interactions, g.now())...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(lead))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + NIT (izq) y estado + prioridad (der).
func headerRow(lead *dto.LeadResponse) core.Row {
	return row.New(18).Add(
		col.New(8).Add(
			text.New(lead.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(lead.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("ESTADO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(lead.Status, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Prioridad: "+lead.Priority, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: priorityColor(lead.Priority),
			}),
		),
	)
}

// dataRow: datos generales del prospecto.
func dataRow(lead *dto.LeadResponse) core.Row {
	employees := "—"
	if lead.EmployeeCount != nil {
		employees = strconv.Itoa(*lead.EmployeeCount)
	}
	manager := "Sin asignar"
	if lead.AssignedTo != nil {
		manager = lead.AssignedTo.Name + " <" + lead.AssignedTo.Email + ">"
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("DATOS DEL PROSPECTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Sector: %s   |   Web: %s   |   Empleados: %s   |   Origen: %s",
				nonEmpty(lead.Sector, "—"), nonEmpty(lead.Website, "—"), employees, lead.Source,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
			text.New(fmt.Sprintf("Valor estimado: $%s   |   Gestor: %s   |   Creado: %s",
				formatMoney(lead.EstimatedValue.StringFixed(0)), manager, lead.CreatedAt.Format("02/01/2006"),
			), props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
	)
}

func notesRows(notes string) []core.Row {
	rows := []core.Row{sectionTitle("NOTAS")}
	for _, chunk := range splitEvery(strings.ReplaceAll(notes, "\n", " "), 110) {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(chunk, props.Text{Size: 8, Color: colorGray, Left: 2}),
		)))
	}
	return rows
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// tableHeaderRow: cabecera de tabla con texto blanco sobre fondo primario.
func tableHeaderRow(labels []string, sizes []int) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func contactRows(contacts []dto.ContactResponse) []core.Row {
	if len(contacts) == 0 {
		return []core.Row{emptyRow("Sin contactos registrados")}
	}
	result := make([]core.Row, 0, len(contacts))
	for _, c := range contacts {
		name := c.Name
		if c.IsPrimary {
			name += " (principal)"
		}
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(nonEmpty(c.Position, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(nonEmpty(c.Phone, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(nonEmpty(c.Email, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

// interactionRows: una fila por interacción; las acciones vencidas se resaltan.
func interactionRows(items []dto.InteractionResponse, now time.Time) []core.Row {
	if len(items) == 0 {
		return []core.Row{emptyRow("Sin interacciones registradas")}
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		next := "—"
		nextProps := props.Text{Size: 8, Top: 1, Left: 1}
		if it.NextAction != "" {
			next = it.NextAction
			if it.NextActionDate != nil {
				next += " · " + it.NextActionDate.Format("02/01/2006")
			}
			switch {
			case it.NextActionCompleted:
				next += " (hecha)"
			case it.NextActionDate != nil && it.NextActionDate.Before(now):
				nextProps.Color = colorAlert
				nextProps.Style = fontstyle.Bold
			}
		}
		title := nonEmpty(it.Title, "—")
		if it.Author != nil {
			title += " (" + it.Author.Name + ")"
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.CreatedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Type, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(5).Add(text.New(title, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(next, nextProps)),
		))
	}
	return result
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 8, Color: colorGray, Align: align.Center, Top: 1}),
	))
}

// footerRow: QR al lead (si hay baseURL) y fecha de generación.
func (g *MarotoPDFGenerator) footerRow(lead *dto.LeadResponse) core.Row {
	generated := text.New("Generado el "+g.now().Format("02/01/2006 15:04"), props.Text{
		Size: 7, Color: colorGray, Top: 2, Align: align.Right,
	})
	if g.baseURL == "" {
		return row.New(8).Add(col.New(12).Add(generated))
	}
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(g.baseURL+"/leads/"+lead.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Escanea el código para abrir el lead en la plataforma.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			generated,
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func priorityColor(p string) *props.Color {
	if p == "HIGH" {
		return colorAlert
	}
	return colorGray
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	buf := make([]byte, 0, n+n/3+1)
	if neg {
		buf = append(buf, '-')
	}
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// splitEvery divide s en trozos de max n runas.
func splitEvery(s string, n int) []string {
	var parts []string
	r := []rune(s)
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
