// Package totals implementa el motor de totales de documentos: un cálculo
// puro sobre las líneas y el impuesto, sin efectos de persistencia.
//
// Invariante que el sistema mantiene en todo documento almacenado:
//
//	subtotal == Σ(cantidad_i × precio_unitario_i)
//	total    == subtotal + impuesto
//
// Toda la aritmética es decimal (shopspring/decimal); nunca float64, para
// que valores como 19.99 × 3 no arrastren error binario.
package totals

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
)

// Totals resultado del cálculo, redondeado a 2 decimales.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Compute calcula subtotal y total a partir de las líneas y el impuesto.
// Falla con domain.ErrInvalidInput si la lista está vacía, alguna línea tiene
// cantidad < 1, precio unitario < 0 o descripción vacía, o el impuesto es negativo.
func Compute(items []*entity.LineItem, tax decimal.Decimal) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, fmt.Errorf("%w: el documento requiere al menos una línea", domain.ErrInvalidInput)
	}
	if tax.IsNegative() {
		return Totals{}, fmt.Errorf("%w: el impuesto no puede ser negativo", domain.ErrInvalidInput)
	}
	subtotal := decimal.Zero
	for i, item := range items {
		if item.Description == "" {
			return Totals{}, fmt.Errorf("%w: la línea %d no tiene descripción", domain.ErrInvalidInput, i+1)
		}
		if item.Quantity < 1 {
			return Totals{}, fmt.Errorf("%w: la línea %d tiene cantidad menor a 1", domain.ErrInvalidInput, i+1)
		}
		if item.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: la línea %d tiene precio unitario negativo", domain.ErrInvalidInput, i+1)
		}
		subtotal = subtotal.Add(item.Amount())
	}
	subtotal = subtotal.Round(2)
	tax = tax.Round(2)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}, nil
}
