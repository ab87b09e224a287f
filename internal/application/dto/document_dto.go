package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de documento en requests. El precio acepta número o
// string JSON (decimal.Decimal deserializa ambos).
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateDocumentRequest body para POST /api/invoices y /api/quotations.
// Las facturas usan due_date y las cotizaciones valid_until; el caso de uso
// toma el campo que corresponde al tipo.
type CreateDocumentRequest struct {
	CustomerID string            `json:"customer_id"`
	IssueDate  string            `json:"issue_date"`
	DueDate    string            `json:"due_date,omitempty"`
	ValidUntil string            `json:"valid_until,omitempty"`
	Tax        *decimal.Decimal  `json:"tax,omitempty"`
	Notes      string            `json:"notes,omitempty"`
	Status     string            `json:"status,omitempty"`
	Items      []LineItemRequest `json:"items"`
}

// UpdateDocumentRequest body para PUT /api/invoices/:id y /api/quotations/:id.
// Campos nil no se tocan. Si Items viene presente se reemplazan TODAS las
// líneas y se recalculan los totales; si Tax viene nil en ese caso, se reusa
// el impuesto almacenado del documento (no cero).
type UpdateDocumentRequest struct {
	CustomerID *string           `json:"customer_id"`
	IssueDate  *string           `json:"issue_date"`
	DueDate    *string           `json:"due_date"`
	ValidUntil *string           `json:"valid_until"`
	Tax        *decimal.Decimal  `json:"tax"`
	Notes      *string           `json:"notes"`
	Status     *string           `json:"status"`
	Items      []LineItemRequest `json:"items"`
	// ItemsSet distingue "items": [] (inválido) de items ausente. Se llena
	// en el handler inspeccionando el JSON crudo.
	ItemsSet bool `json:"-"`
}

// LineItemResponse línea en respuestas; montos con 2 decimales fijos.
type LineItemResponse struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	Amount      string `json:"amount"`
}

// DocumentResponse factura o cotización con cliente y líneas.
// due_date solo aparece en facturas y valid_until solo en cotizaciones.
type DocumentResponse struct {
	ID         string              `json:"id"`
	Number     string              `json:"number"`
	CustomerID string              `json:"customer_id"`
	IssueDate  string              `json:"issue_date"`
	DueDate    string              `json:"due_date,omitempty"`
	ValidUntil string              `json:"valid_until,omitempty"`
	Subtotal   string              `json:"subtotal"`
	Tax        string              `json:"tax"`
	Total      string              `json:"total"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Customer   *CustomerResponse   `json:"customer,omitempty"`
	Items      []*LineItemResponse `json:"items"`
}
