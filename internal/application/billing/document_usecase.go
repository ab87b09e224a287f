package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/facturacion-api/internal/application/dto"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
	"github.com/tu-usuario/facturacion-api/internal/domain/totals"
)

// DocumentUseCase casos de uso de facturas o cotizaciones según el kind con
// el que se construye. Create y el reemplazo de líneas en Update corren dentro
// de una sola transacción (TxRunner); el resto son operaciones de una sentencia.
type DocumentUseCase struct {
	kind      entity.DocumentKind
	txRunner  TxRunner
	docs      repository.DocumentRepository
	customers repository.CustomerRepository
}

// NewDocumentUseCase construye el caso de uso atado a un tipo de documento.
// docs y customers deben estar atados al pool (lecturas fuera de transacción).
func NewDocumentUseCase(
	kind entity.DocumentKind,
	txRunner TxRunner,
	docs repository.DocumentRepository,
	customers repository.CustomerRepository,
) *DocumentUseCase {
	return &DocumentUseCase{kind: kind, txRunner: txRunner, docs: docs, customers: customers}
}

// Kind devuelve el tipo de documento del caso de uso.
func (uc *DocumentUseCase) Kind() entity.DocumentKind { return uc.kind }

// Create crea el documento con sus líneas y totales en una sola transacción:
// consecutivo, cabecera y líneas, o nada. Devuelve el documento con cliente
// y líneas cargados.
func (uc *DocumentUseCase) Create(ctx context.Context, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	if in.CustomerID == "" {
		return nil, fmt.Errorf("%w: customer_id es requerido", domain.ErrInvalidInput)
	}
	issueDate, err := parseDate(in.IssueDate, "issue_date")
	if err != nil {
		return nil, err
	}
	endField, endValue := uc.endDateField(in.DueDate, in.ValidUntil)
	endDate, err := parseDate(endValue, endField)
	if err != nil {
		return nil, err
	}
	if endDate.Before(issueDate) {
		return nil, fmt.Errorf("%w: %s debe ser igual o posterior a issue_date", domain.ErrInvalidInput, endField)
	}
	status := in.Status
	if status == "" {
		status = entity.StatusDefault
	}
	if !uc.kind.ValidStatus(status) {
		return nil, fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, status)
	}

	// Impuesto por defecto 0 en creación.
	tax := decimal.Zero
	if in.Tax != nil {
		tax = *in.Tax
	}
	items := toLineItems(in.Items)
	tot, err := totals.Compute(items, tax)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customers.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("%w: el cliente referenciado no existe", domain.ErrInvalidInput)
	}

	now := time.Now()
	doc := &entity.Document{
		ID:         uuid.New().String(),
		Kind:       uc.kind,
		CustomerID: in.CustomerID,
		IssueDate:  issueDate,
		EndDate:    endDate,
		Subtotal:   tot.Subtotal,
		Tax:        tot.Tax,
		Total:      tot.Total,
		Status:     status,
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = uc.txRunner.Run(ctx, func(
		invoices repository.DocumentRepository,
		quotations repository.DocumentRepository,
		_ repository.CustomerRepository,
		sequences repository.SequenceRepository,
	) error {
		repo := uc.pick(invoices, quotations)
		seq, err := sequences.Next(uc.kind)
		if err != nil {
			return err
		}
		doc.Number = uc.kind.FormatNumber(now.Year(), seq)
		if err := repo.Create(doc); err != nil {
			return err
		}
		for _, item := range items {
			item.ID = uuid.New().String()
			item.DocumentID = doc.ID
			if err := repo.CreateItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	doc.Customer = customer
	doc.Items = items
	return toDocumentResponse(doc), nil
}

// Update aplica los campos escalares presentes y, si vienen líneas, reemplaza
// TODAS las líneas y recalcula los totales usando el impuesto del patch o, en
// su ausencia, el impuesto almacenado del documento (nunca cero). El borrado
// de líneas viejas, la inserción de las nuevas y la escritura de totales
// ocurren en una sola transacción junto con los escalares.
func (uc *DocumentUseCase) Update(ctx context.Context, id string, in dto.UpdateDocumentRequest) (*dto.DocumentResponse, error) {
	doc, err := uc.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}

	if in.CustomerID != nil {
		customer, err := uc.customers.GetByID(*in.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, fmt.Errorf("%w: el cliente referenciado no existe", domain.ErrInvalidInput)
		}
		doc.CustomerID = *in.CustomerID
	}
	if in.IssueDate != nil {
		issueDate, err := parseDate(*in.IssueDate, "issue_date")
		if err != nil {
			return nil, err
		}
		doc.IssueDate = issueDate
	}
	endField, endValue := uc.endDatePatch(in.DueDate, in.ValidUntil)
	if endValue != nil {
		endDate, err := parseDate(*endValue, endField)
		if err != nil {
			return nil, err
		}
		doc.EndDate = endDate
	}
	if doc.EndDate.Before(doc.IssueDate) {
		return nil, fmt.Errorf("%w: %s debe ser igual o posterior a issue_date", domain.ErrInvalidInput, endField)
	}
	if in.Status != nil {
		if !uc.kind.ValidStatus(*in.Status) {
			return nil, fmt.Errorf("%w: estado %q no válido", domain.ErrInvalidInput, *in.Status)
		}
		doc.Status = *in.Status
	}
	if in.Notes != nil {
		doc.Notes = *in.Notes
	}
	doc.UpdatedAt = time.Now()

	itemsSupplied := in.ItemsSet || in.Items != nil
	var items []*entity.LineItem

	if itemsSupplied {
		// Impuesto del patch o, si no viene, el almacenado (carry-forward).
		tax := doc.Tax
		if in.Tax != nil {
			tax = *in.Tax
		}
		items = toLineItems(in.Items)
		tot, err := totals.Compute(items, tax)
		if err != nil {
			return nil, err
		}
		doc.Subtotal, doc.Tax, doc.Total = tot.Subtotal, tot.Tax, tot.Total

		err = uc.txRunner.Run(ctx, func(
			invoices repository.DocumentRepository,
			quotations repository.DocumentRepository,
			_ repository.CustomerRepository,
			_ repository.SequenceRepository,
		) error {
			repo := uc.pick(invoices, quotations)
			if err := repo.DeleteItems(doc.ID); err != nil {
				return err
			}
			for _, item := range items {
				item.ID = uuid.New().String()
				item.DocumentID = doc.ID
				if err := repo.CreateItem(item); err != nil {
					return err
				}
			}
			return repo.Update(doc)
		})
		if err != nil {
			return nil, err
		}
	} else {
		// Sin líneas en el patch: líneas y totales quedan intactos.
		if err := uc.docs.Update(doc); err != nil {
			return nil, err
		}
		items, err = uc.docs.GetItems(doc.ID)
		if err != nil {
			return nil, err
		}
	}

	customer, err := uc.customers.GetByID(doc.CustomerID)
	if err != nil {
		return nil, err
	}
	doc.Customer = customer
	doc.Items = items
	return toDocumentResponse(doc), nil
}

// Get devuelve el documento con cliente y líneas.
func (uc *DocumentUseCase) Get(id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.attach(doc); err != nil {
		return nil, err
	}
	return toDocumentResponse(doc), nil
}

// List devuelve todos los documentos del tipo, más recientes primero,
// con cliente y líneas cargados.
func (uc *DocumentUseCase) List() ([]*dto.DocumentResponse, error) {
	docs, err := uc.docs.List()
	if err != nil {
		return nil, err
	}
	customersByID := make(map[string]*entity.Customer)
	out := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		customer, ok := customersByID[doc.CustomerID]
		if !ok {
			customer, err = uc.customers.GetByID(doc.CustomerID)
			if err != nil {
				return nil, err
			}
			customersByID[doc.CustomerID] = customer
		}
		doc.Customer = customer
		doc.Items, err = uc.docs.GetItems(doc.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toDocumentResponse(doc))
	}
	return out, nil
}

// Delete elimina el documento; las líneas caen en cascada.
// Borrar un ID inexistente es domain.ErrNotFound, no un no-op silencioso.
func (uc *DocumentUseCase) Delete(id string) error {
	return uc.docs.Delete(id)
}

// attach carga cliente y líneas de un documento ya leído.
func (uc *DocumentUseCase) attach(doc *entity.Document) error {
	customer, err := uc.customers.GetByID(doc.CustomerID)
	if err != nil {
		return err
	}
	doc.Customer = customer
	doc.Items, err = uc.docs.GetItems(doc.ID)
	return err
}

// pick elige el repositorio transaccional del kind del caso de uso.
func (uc *DocumentUseCase) pick(invoices, quotations repository.DocumentRepository) repository.DocumentRepository {
	if uc.kind == entity.KindQuotation {
		return quotations
	}
	return invoices
}

// endDateField devuelve nombre y valor del campo de fecha final según el tipo.
func (uc *DocumentUseCase) endDateField(dueDate, validUntil string) (string, string) {
	if uc.kind == entity.KindQuotation {
		return "valid_until", validUntil
	}
	return "due_date", dueDate
}

func (uc *DocumentUseCase) endDatePatch(dueDate, validUntil *string) (string, *string) {
	if uc.kind == entity.KindQuotation {
		return "valid_until", validUntil
	}
	return "due_date", dueDate
}

func parseDate(value, field string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s es requerido", domain.ErrInvalidInput, field)
	}
	t, err := time.Parse(dto.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s debe tener formato %s", domain.ErrInvalidInput, field, dto.DateLayout)
	}
	return t, nil
}

func toLineItems(in []dto.LineItemRequest) []*entity.LineItem {
	items := make([]*entity.LineItem, 0, len(in))
	for _, it := range in {
		items = append(items, &entity.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	return items
}

// ── Mapeo a DTOs ──────────────────────────────────────────────────────────────

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	out := &dto.DocumentResponse{
		ID:         doc.ID,
		Number:     doc.Number,
		CustomerID: doc.CustomerID,
		IssueDate:  doc.IssueDate.Format(dto.DateLayout),
		Subtotal:   doc.Subtotal.StringFixed(2),
		Tax:        doc.Tax.StringFixed(2),
		Total:      doc.Total.StringFixed(2),
		Status:     doc.Status,
		Notes:      doc.Notes,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		Items:      make([]*dto.LineItemResponse, 0, len(doc.Items)),
	}
	if doc.Kind == entity.KindQuotation {
		out.ValidUntil = doc.EndDate.Format(dto.DateLayout)
	} else {
		out.DueDate = doc.EndDate.Format(dto.DateLayout)
	}
	if doc.Customer != nil {
		out.Customer = toCustomerResponse(doc.Customer)
	}
	for _, item := range doc.Items {
		out.Items = append(out.Items, &dto.LineItemResponse{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Amount:      item.Amount().StringFixed(2),
		})
	}
	return out
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Company:   c.Company,
		TaxNumber: c.TaxNumber,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
