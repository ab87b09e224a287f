package dto

import "time"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Company   string `json:"company,omitempty"`
	TaxNumber string `json:"tax_number,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id. Solo se aplican
// los campos presentes (punteros nil = no tocar).
type UpdateCustomerRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
	Company   *string `json:"company"`
	TaxNumber *string `json:"tax_number"`
}

// CustomerResponse cliente en respuestas, con sus documentos cargados.
type CustomerResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Email      string              `json:"email"`
	Phone      string              `json:"phone,omitempty"`
	Address    string              `json:"address,omitempty"`
	Company    string              `json:"company,omitempty"`
	TaxNumber  string              `json:"tax_number,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	Invoices   []*DocumentResponse `json:"invoices,omitempty"`
	Quotations []*DocumentResponse `json:"quotations,omitempty"`
}
