package billing_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/facturacion-api/internal/application/billing"
	"github.com/tu-usuario/facturacion-api/internal/application/dto"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildFixture arma un Store en memoria con un cliente sembrado y el caso de
// uso del tipo indicado.
func buildFixture(t *testing.T, kind entity.DocumentKind) (*testutil.Store, *billing.DocumentUseCase, string) {
	t.Helper()
	store := testutil.NewStore()
	customerID := uuid.New().String()
	require.NoError(t, store.CustomerRepo().Create(&entity.Customer{
		ID:    customerID,
		Name:  "Acme S.A.S.",
		Email: "facturacion@acme.co",
	}))
	uc := billing.NewDocumentUseCase(kind, store.TxRunner(), store.DocumentRepo(kind), store.CustomerRepo())
	return store, uc, customerID
}

// createRequest body de creación válido: 2×50.00 + 1×25.00, impuesto 5.00.
func createRequest(customerID string) dto.CreateDocumentRequest {
	tax := decimal.RequireFromString("5.00")
	return dto.CreateDocumentRequest{
		CustomerID: customerID,
		IssueDate:  "2026-03-01",
		DueDate:    "2026-03-31",
		ValidUntil: "2026-03-31",
		Tax:        &tax,
		Items: []dto.LineItemRequest{
			{Description: "Consultoría", Quantity: 2, UnitPrice: decimal.RequireFromString("50.00")},
			{Description: "Soporte", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00")},
		},
	}
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_TotalesYNumeracion(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)

	resp, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	assert.Equal(t, "125.00", resp.Subtotal, "subtotal = Σ(cantidad × precio)")
	assert.Equal(t, "5.00", resp.Tax)
	assert.Equal(t, "130.00", resp.Total, "total = subtotal + impuesto")
	assert.Equal(t, "draft", resp.Status, "el estado inicial siempre es draft")
	assert.Len(t, resp.Items, 2)
	assert.Equal(t, "100.00", resp.Items[0].Amount)
	assert.Equal(t, "2026-03-31", resp.DueDate)
	assert.Empty(t, resp.ValidUntil, "una factura no expone valid_until")
	require.NotNil(t, resp.Customer)
	assert.Equal(t, "Acme S.A.S.", resp.Customer.Name)

	// Numeración: INV-<año>-00001 para el primer documento.
	expected := fmt.Sprintf("INV-%d-00001", time.Now().Year())
	assert.Equal(t, expected, resp.Number)
}

func TestCreate_NumerosConsecutivosPorTipo(t *testing.T) {
	store, uc, customerID := buildFixture(t, entity.KindInvoice)

	first, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	year := time.Now().Year()
	assert.Equal(t, fmt.Sprintf("INV-%d-00001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("INV-%d-00002", year), second.Number)

	// La secuencia de cotizaciones es independiente: arranca en 00001.
	quoUC := billing.NewDocumentUseCase(entity.KindQuotation, store.TxRunner(),
		store.DocumentRepo(entity.KindQuotation), store.CustomerRepo())
	quo, err := quoUC.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("QUO-%d-00001", year), quo.Number)
	assert.Equal(t, "2026-03-31", quo.ValidUntil)
	assert.Empty(t, quo.DueDate, "una cotización no expone due_date")
}

func TestCreate_ImpuestoPorDefectoCero(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)

	in := createRequest(customerID)
	in.Tax = nil
	resp, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "0.00", resp.Tax, "sin impuesto en el body se asume 0")
	assert.Equal(t, "125.00", resp.Total)
}

func TestCreate_SinLineas_NadaPersiste(t *testing.T) {
	store, uc, customerID := buildFixture(t, entity.KindInvoice)

	in := createRequest(customerID)
	in.Items = nil
	_, err := uc.Create(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// El rechazo es atómico: ni cabecera ni consecutivo consumido.
	assert.Equal(t, 0, store.CountDocs(entity.KindInvoice))
	assert.Equal(t, 0, store.CountItems(entity.KindInvoice))
}

func TestCreate_LineaInvalida_NadaPersiste(t *testing.T) {
	store, uc, customerID := buildFixture(t, entity.KindInvoice)

	in := createRequest(customerID)
	in.Items[1].Quantity = 0
	_, err := uc.Create(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 0, store.CountDocs(entity.KindInvoice))
}

func TestCreate_ClienteInexistente(t *testing.T) {
	_, uc, _ := buildFixture(t, entity.KindInvoice)

	in := createRequest(uuid.New().String())
	_, err := uc.Create(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "customer_id inexistente es entrada inválida")
}

func TestCreate_FechaFinalAnteriorALaEmision(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)

	in := createRequest(customerID)
	in.DueDate = "2026-02-28" // antes de issue_date
	_, err := uc.Create(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCreate_EstadoInvalido(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)

	in := createRequest(customerID)
	in.Status = "accepted" // estado de cotización, no de factura
	_, err := uc.Create(context.Background(), in)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Update — reemplazo de líneas y carry-forward del impuesto
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdate_ReemplazaTodasLasLineasYRecalcula(t *testing.T) {
	store, uc, customerID := buildFixture(t, entity.KindInvoice)
	created, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	tax := decimal.RequireFromString("2.00")
	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateDocumentRequest{
		Tax: &tax,
		Items: []dto.LineItemRequest{
			{Description: "Licencia", Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
		},
		ItemsSet: true,
	})
	require.NoError(t, err)

	// Las 2 líneas viejas desaparecen; queda solo el set nuevo.
	assert.Len(t, resp.Items, 1)
	assert.Equal(t, "Licencia", resp.Items[0].Description)
	assert.Equal(t, "59.97", resp.Subtotal)
	assert.Equal(t, "2.00", resp.Tax)
	assert.Equal(t, "61.97", resp.Total)
	assert.Equal(t, 1, store.CountItems(entity.KindInvoice), "sin líneas huérfanas tras el reemplazo")
}

func TestUpdate_ImpuestoCarryForward(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)

	in := createRequest(customerID)
	tax := decimal.RequireFromString("10.00")
	in.Tax = &tax
	created, err := uc.Create(context.Background(), in)
	require.NoError(t, err)

	// Patch con líneas pero SIN impuesto: se reusa el almacenado (10.00),
	// nunca se pisa con cero.
	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateDocumentRequest{
		Items: []dto.LineItemRequest{
			{Description: "Servicio", Quantity: 1, UnitPrice: decimal.RequireFromString("100.00")},
		},
		ItemsSet: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "100.00", resp.Subtotal)
	assert.Equal(t, "10.00", resp.Tax, "el impuesto almacenado se arrastra al recálculo")
	assert.Equal(t, "110.00", resp.Total)
}

func TestUpdate_SoloEscalares_LineasYTotalesIntactos(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)
	created, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	resp, err := uc.Update(context.Background(), created.ID, dto.UpdateDocumentRequest{
		Status: strPtr("sent"),
		Notes:  strPtr("enviada al cliente"),
	})
	require.NoError(t, err)

	assert.Equal(t, "sent", resp.Status)
	assert.Equal(t, "enviada al cliente", resp.Notes)
	assert.Len(t, resp.Items, 2, "sin items en el patch las líneas no se tocan")
	assert.Equal(t, "125.00", resp.Subtotal)
	assert.Equal(t, "130.00", resp.Total)
	assert.Equal(t, created.Number, resp.Number, "el número nunca cambia en update")
}

func TestUpdate_ListaVaciaExplicita_Rechazada(t *testing.T) {
	store, uc, customerID := buildFixture(t, entity.KindInvoice)
	created, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	// "items": [] presente en el body: es un reemplazo por lista vacía, y un
	// documento sin líneas no es válido.
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateDocumentRequest{
		Items:    []dto.LineItemRequest{},
		ItemsSet: true,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// Las líneas originales siguen ahí.
	assert.Equal(t, 2, store.CountItems(entity.KindInvoice))
}

func TestUpdate_LineaInvalida_EstadoPrevioIntacto(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)
	created, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateDocumentRequest{
		Items: []dto.LineItemRequest{
			{Description: "", Quantity: 1, UnitPrice: decimal.RequireFromString("10.00")},
		},
		ItemsSet: true,
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	// El documento conserva líneas y totales previos.
	current, err := uc.Get(created.ID)
	require.NoError(t, err)
	assert.Len(t, current.Items, 2)
	assert.Equal(t, "125.00", current.Subtotal)
	assert.Equal(t, "130.00", current.Total)
}

func TestUpdate_NoExiste(t *testing.T) {
	_, uc, _ := buildFixture(t, entity.KindInvoice)
	_, err := uc.Update(context.Background(), uuid.New().String(), dto.UpdateDocumentRequest{
		Status: strPtr("sent"),
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdate_FechaFinalAnterior_Rechazada(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)
	created, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	_, err = uc.Update(context.Background(), created.ID, dto.UpdateDocumentRequest{
		DueDate: strPtr("2026-01-01"),
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput),
		"la regla fecha_final >= issue_date también aplica en update")
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / List / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_NoExiste(t *testing.T) {
	_, uc, _ := buildFixture(t, entity.KindInvoice)
	_, err := uc.Get(uuid.New().String())
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestList_MasRecientesPrimero(t *testing.T) {
	_, uc, customerID := buildFixture(t, entity.KindInvoice)

	first, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)
	second, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)

	list, err := uc.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "el documento más reciente va primero")
	assert.Equal(t, first.ID, list[1].ID)
	require.NotNil(t, list[0].Customer, "cada documento listado carga su cliente")
	assert.Len(t, list[0].Items, 2, "cada documento listado carga sus líneas")
}

func TestDelete_CascadaDeLineas(t *testing.T) {
	store, uc, customerID := buildFixture(t, entity.KindInvoice)
	created, err := uc.Create(context.Background(), createRequest(customerID))
	require.NoError(t, err)
	require.Equal(t, 2, store.CountItems(entity.KindInvoice))

	require.NoError(t, uc.Delete(created.ID))

	assert.Equal(t, 0, store.CountDocs(entity.KindInvoice))
	assert.Equal(t, 0, store.CountItems(entity.KindInvoice), "borrar el documento arrastra sus líneas")

	_, err = uc.Get(created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDelete_NoExiste(t *testing.T) {
	_, uc, _ := buildFixture(t, entity.KindInvoice)
	err := uc.Delete(uuid.New().String())
	assert.True(t, errors.Is(err, domain.ErrNotFound), "borrar un ID inexistente no es un no-op silencioso")
}
