package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/facturacion-api/internal/application/billing"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

// Ensure TxRunner implements billing.TxRunner.
var _ billing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. La
// secuencia consecutivo / cabecera / líneas de un documento, o el reemplazo
// borrar-líneas / insertar-líneas / escribir-totales, corre completa dentro
// de una llamada a Run: commit o rollback, nunca estados intermedios visibles.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	invoices repository.DocumentRepository,
	quotations repository.DocumentRepository,
	customers repository.CustomerRepository,
	sequences repository.SequenceRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	invoices := NewInvoiceRepository(tx)
	quotations := NewQuotationRepository(tx)
	customers := NewCustomerRepository(tx)
	sequences := NewSequenceRepository(tx)

	if err := fn(invoices, quotations, customers, sequences); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
