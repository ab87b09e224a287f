package billing

import (
	"context"

	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// La secuencia borrar-líneas / insertar-líneas / escribir-totales del core debe
// ocurrir completa dentro de una llamada a Run: ningún lector concurrente puede
// ver un documento con líneas nuevas y totales viejos, o sin líneas y totales
// rancios.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoices repository.DocumentRepository,
		quotations repository.DocumentRepository,
		customers repository.CustomerRepository,
		sequences repository.SequenceRepository,
	) error) error
}

// DocumentPDFGenerator genera la representación PDF de un documento con su
// cliente y líneas ya cargados.
type DocumentPDFGenerator interface {
	GenerateDocumentPDF(ctx context.Context, doc *entity.Document) ([]byte, error)
}
