// Package pdf implementa la representación gráfica de facturas y
// cotizaciones con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título (Factura/Cotización) │ Número + Fechas      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + Email + Tel + NIT                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Importe               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuesto / TOTAL                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS (si existen)                                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	appbilling "github.com/tu-usuario/facturacion-api/internal/application/billing"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ appbilling.DocumentPDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateDocumentPDF genera el PDF y devuelve sus bytes. El documento debe
// venir con Customer e Items cargados.
func (g *MarotoPDFGenerator) GenerateDocumentPDF(_ context.Context, doc *entity.Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(doc.Kind)+" "+doc.Number, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if doc.Customer != nil {
		m.AddRows(customerRow(doc.Customer))
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(doc.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(doc)...)

	if doc.Notes != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(notesRow(doc.Notes))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func docTitle(kind entity.DocumentKind) string {
	if kind == entity.KindQuotation {
		return "COTIZACIÓN"
	}
	return "FACTURA"
}

func endDateLabel(kind entity.DocumentKind) string {
	if kind == entity.KindQuotation {
		return "Válida hasta"
	}
	return "Vence"
}

// headerRow: título (izq) y número + fechas (der).
func headerRow(doc *entity.Document) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(docTitle(doc.Kind), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+doc.Status, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(doc.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Emisión: "+doc.IssueDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New(endDateLabel(doc.Kind)+": "+doc.EndDate.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// customerRow: datos del cliente.
func customerRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Tel: %s   |   NIT: %s",
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
				nonEmpty(customer.TaxNumber, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Importe", 3, align.Right),
	)
}

// tableItemRows: una fila por línea del documento.
func tableItemRows(items []*entity.LineItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, item := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", item.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				item.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				"$"+item.UnitPrice.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				"$"+item.Amount().StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha.
func totalsRows(doc *entity.Document) []core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return []core.Row{
		row.New(6).Add(col.New(9).Add(label("Subtotal:")), col.New(3).Add(value("$"+doc.Subtotal.StringFixed(2)))),
		row.New(6).Add(col.New(9).Add(label("Impuesto:")), col.New(3).Add(value("$"+doc.Tax.StringFixed(2)))),
		row.New(8).Add(
			col.New(9).Add(text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2,
			})),
			col.New(3).Add(text.New("$"+doc.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			})),
		),
	}
}

// notesRow: notas libres del documento.
func notesRow(notes string) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("NOTAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
