package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository (usable con pool o tx).
// Un mismo adaptador sirve facturas y cotizaciones: el kind fija las tablas
// y la columna de fecha final (due_date / valid_until).
type DocumentRepo struct {
	q          Querier
	kind       entity.DocumentKind
	table      string
	itemsTable string
	refColumn  string
	endColumn  string
}

// NewInvoiceRepository construye el adaptador de facturas. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{
		q:          q,
		kind:       entity.KindInvoice,
		table:      "invoices",
		itemsTable: "invoice_items",
		refColumn:  "invoice_id",
		endColumn:  "due_date",
	}
}

// NewQuotationRepository construye el adaptador de cotizaciones. Pasar pool o tx (Querier).
func NewQuotationRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{
		q:          q,
		kind:       entity.KindQuotation,
		table:      "quotations",
		itemsTable: "quotation_items",
		refColumn:  "quotation_id",
		endColumn:  "valid_until",
	}
}

// Create persiste la cabecera del documento.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, number, customer_id, issue_date, %s, subtotal, tax, total, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`, r.table, r.endColumn)
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.Number, doc.CustomerID, doc.IssueDate, doc.EndDate,
		doc.Subtotal, doc.Tax, doc.Total, doc.Status, nullIfEmpty(doc.Notes),
		doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: número de documento ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert %s: %w", r.table, err)
	}
	return nil
}

// CreateItem persiste una línea del documento.
func (r *DocumentRepo) CreateItem(item *entity.LineItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, %s, description, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`, r.itemsTable, r.refColumn)
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.DocumentID, item.Description, item.Quantity, item.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", r.itemsTable, err)
	}
	return nil
}

// GetByID obtiene la cabecera del documento.
func (r *DocumentRepo) GetByID(id string) (*entity.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, number, customer_id, issue_date, %s, subtotal, tax, total, status, COALESCE(notes, ''), created_at, updated_at
		FROM %s WHERE id = $1`, r.endColumn, r.table)
	doc, err := r.scanOne(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", r.table, err)
	}
	return doc, nil
}

// List devuelve todas las cabeceras, más recientes primero (orden explícito).
func (r *DocumentRepo) List() ([]*entity.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, number, customer_id, issue_date, %s, subtotal, tax, total, status, COALESCE(notes, ''), created_at, updated_at
		FROM %s ORDER BY created_at DESC`, r.endColumn, r.table)
	return r.list(query)
}

// ListByCustomer devuelve las cabeceras de un cliente, más recientes primero.
func (r *DocumentRepo) ListByCustomer(customerID string) ([]*entity.Document, error) {
	query := fmt.Sprintf(`
		SELECT id, number, customer_id, issue_date, %s, subtotal, tax, total, status, COALESCE(notes, ''), created_at, updated_at
		FROM %s WHERE customer_id = $1 ORDER BY created_at DESC`, r.endColumn, r.table)
	return r.list(query, customerID)
}

// Update escribe todas las columnas mutables de la cabecera.
func (r *DocumentRepo) Update(doc *entity.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET customer_id = $2, issue_date = $3, %s = $4,
		    subtotal = $5, tax = $6, total = $7,
		    status = $8, notes = $9, updated_at = $10
		WHERE id = $1`, r.table, r.endColumn)
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CustomerID, doc.IssueDate, doc.EndDate,
		doc.Subtotal, doc.Tax, doc.Total,
		doc.Status, nullIfEmpty(doc.Notes), doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.table, err)
	}
	return nil
}

// GetItems obtiene todas las líneas del documento.
func (r *DocumentRepo) GetItems(documentID string) ([]*entity.LineItem, error) {
	query := fmt.Sprintf(`
		SELECT id, %s, description, quantity, unit_price
		FROM %s WHERE %s = $1 ORDER BY id`, r.refColumn, r.itemsTable, r.refColumn)
	rows, err := r.q.Query(context.Background(), query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.itemsTable, err)
	}
	defer rows.Close()
	var list []*entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(&item.ID, &item.DocumentID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}

// DeleteItems borra todas las líneas del documento (paso previo al reemplazo).
func (r *DocumentRepo) DeleteItems(documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, r.itemsTable, r.refColumn)
	if _, err := r.q.Exec(context.Background(), query, documentID); err != nil {
		return fmt.Errorf("delete %s: %w", r.itemsTable, err)
	}
	return nil
}

// Delete elimina el documento; las líneas caen por la FK en cascada.
func (r *DocumentRepo) Delete(id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	tag, err := r.q.Exec(context.Background(), query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.table, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DocumentRepo) list(query string, args ...any) ([]*entity.Document, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.table, err)
	}
	defer rows.Close()
	var list []*entity.Document
	for rows.Next() {
		doc, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		list = append(list, doc)
	}
	return list, rows.Err()
}

func (r *DocumentRepo) scanOne(row pgx.Row) (*entity.Document, error) {
	var doc entity.Document
	err := row.Scan(
		&doc.ID, &doc.Number, &doc.CustomerID, &doc.IssueDate, &doc.EndDate,
		&doc.Subtotal, &doc.Tax, &doc.Total, &doc.Status, &doc.Notes,
		&doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Kind = r.kind
	return &doc, nil
}
