package totals_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/totals"
)

// ──────────────────────────────────────────────────────────────────────────────
// TestCompute_VectorExacto valida el cálculo con montos que en float64
// arrastrarían error binario: 19.99 × 3 debe dar exactamente 59.97, jamás
// 59.970000000000006.
// ──────────────────────────────────────────────────────────────────────────────

func TestCompute_VectorExacto(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Licencia anual", Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
	}

	tot, err := totals.Compute(items, decimal.RequireFromString("0.03"))
	require.NoError(t, err, "Compute no debe fallar con líneas válidas")

	assert.Equal(t, "59.97", tot.Subtotal.StringFixed(2), "el subtotal debe ser decimal exacto")
	assert.Equal(t, "0.03", tot.Tax.StringFixed(2))
	assert.Equal(t, "60.00", tot.Total.StringFixed(2), "total = subtotal + impuesto")
}

func TestCompute_VariasLineas(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Consultoría", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00")},
		{Description: "Soporte", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00")},
	}

	tot, err := totals.Compute(items, decimal.RequireFromString("5.00"))
	require.NoError(t, err)

	assert.Equal(t, "125.00", tot.Subtotal.StringFixed(2))
	assert.Equal(t, "130.00", tot.Total.StringFixed(2))
}

// TestCompute_ImpuestoCero verifica que el documento sin impuesto cierra con
// total igual al subtotal.
func TestCompute_ImpuestoCero(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Servicio", Quantity: 4, UnitPrice: decimal.RequireFromString("12.50")},
	}

	tot, err := totals.Compute(items, decimal.Zero)
	require.NoError(t, err)

	assert.True(t, tot.Subtotal.Equal(tot.Total), "sin impuesto, total == subtotal")
	assert.Equal(t, "50.00", tot.Total.StringFixed(2))
}

// ── Errores de validación ─────────────────────────────────────────────────────

func TestCompute_ErrorSiListaVacia(t *testing.T) {
	_, err := totals.Compute(nil, decimal.Zero)
	require.Error(t, err, "un documento sin líneas no es calculable")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = totals.Compute([]*entity.LineItem{}, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "lista vacía explícita también falla")
}

func TestCompute_ErrorSiCantidadMenorAUno(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Servicio", Quantity: 0, UnitPrice: decimal.RequireFromString("10.00")},
	}
	_, err := totals.Compute(items, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad 0 debe rechazarse")

	items[0].Quantity = -3
	_, err = totals.Compute(items, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "cantidad negativa debe rechazarse")
}

func TestCompute_ErrorSiPrecioNegativo(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Servicio", Quantity: 1, UnitPrice: decimal.RequireFromString("-0.01")},
	}
	_, err := totals.Compute(items, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCompute_ErrorSiDescripcionVacia(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
	}
	_, err := totals.Compute(items, decimal.Zero)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCompute_ErrorSiImpuestoNegativo(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Servicio", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
	}
	_, err := totals.Compute(items, decimal.RequireFromString("-1.00"))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// TestCompute_PrecioCeroEsValido valida el borde: precio 0 es legal (línea de
// cortesía), solo el negativo se rechaza.
func TestCompute_PrecioCeroEsValido(t *testing.T) {
	items := []*entity.LineItem{
		{Description: "Cortesía", Quantity: 1, UnitPrice: decimal.Zero},
	}
	tot, err := totals.Compute(items, decimal.Zero)
	require.NoError(t, err)
	assert.Equal(t, "0.00", tot.Total.StringFixed(2))
}

// TestLineItem_Amount valida que el monto de línea es cantidad × precio en
// aritmética decimal.
func TestLineItem_Amount(t *testing.T) {
	item := &entity.LineItem{Quantity: 7, UnitPrice: decimal.RequireFromString("3.33")}
	assert.Equal(t, "23.31", item.Amount().StringFixed(2))
}
