package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distingue facturas de cotizaciones. Ambas comparten la misma
// estructura: un documento con líneas cuyo subtotal/total se deriva siempre
// de las líneas vigentes.
type DocumentKind string

const (
	KindInvoice   DocumentKind = "invoice"
	KindQuotation DocumentKind = "quotation"
)

// Estados de factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Estados de cotización.
const (
	QuotationStatusDraft    = "draft"
	QuotationStatusSent     = "sent"
	QuotationStatusAccepted = "accepted"
	QuotationStatusRejected = "rejected"
	QuotationStatusExpired  = "expired"
)

// StatusDefault estado inicial de todo documento.
const StatusDefault = "draft"

var invoiceStatuses = map[string]bool{
	InvoiceStatusDraft:     true,
	InvoiceStatusSent:      true,
	InvoiceStatusPaid:      true,
	InvoiceStatusOverdue:   true,
	InvoiceStatusCancelled: true,
}

var quotationStatuses = map[string]bool{
	QuotationStatusDraft:    true,
	QuotationStatusSent:     true,
	QuotationStatusAccepted: true,
	QuotationStatusRejected: true,
	QuotationStatusExpired:  true,
}

// Prefix devuelve el prefijo del número de documento (INV/QUO).
func (k DocumentKind) Prefix() string {
	if k == KindQuotation {
		return "QUO"
	}
	return "INV"
}

// ValidStatus indica si el estado pertenece al conjunto del tipo de documento.
// Es un conjunto plano: no hay grafo de transiciones.
func (k DocumentKind) ValidStatus(status string) bool {
	if k == KindQuotation {
		return quotationStatuses[status]
	}
	return invoiceStatuses[status]
}

// FormatNumber produce el número legible PREFIX-AAAA-00001.
func (k DocumentKind) FormatNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", k.Prefix(), year, seq)
}

// Document es la cabecera de una factura o cotización. EndDate es due_date
// para facturas y valid_until para cotizaciones; siempre EndDate >= IssueDate.
type Document struct {
	ID         string
	Kind       DocumentKind
	Number     string
	CustomerID string
	IssueDate  time.Time
	EndDate    time.Time
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Total      decimal.Decimal
	Status     string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relaciones cargadas por el caso de uso (no por el repositorio de cabeceras).
	Customer *Customer
	Items    []*LineItem
}

// LineItem es una línea de un documento. Nunca se actualiza en sitio:
// reemplazar líneas significa borrar todas e insertar el conjunto nuevo.
type LineItem struct {
	ID          string
	DocumentID  string
	Description string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// Amount devuelve cantidad × precio unitario de la línea.
func (li *LineItem) Amount() decimal.Decimal {
	return decimal.NewFromInt(li.Quantity).Mul(li.UnitPrice)
}
