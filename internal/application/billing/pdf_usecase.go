package billing

import (
	"context"
	"fmt"

	"github.com/tu-usuario/facturacion-api/internal/domain"
	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura o cotización.
type PDFUseCase struct {
	kind      entity.DocumentKind
	docs      repository.DocumentRepository
	customers repository.CustomerRepository
	generator DocumentPDFGenerator
}

// NewPDFUseCase construye el caso de uso atado a un tipo de documento.
func NewPDFUseCase(
	kind entity.DocumentKind,
	docs repository.DocumentRepository,
	customers repository.CustomerRepository,
	generator DocumentPDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{kind: kind, docs: docs, customers: customers, generator: generator}
}

// DownloadPDF carga el documento completo y genera el PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si el documento no existe.
func (uc *PDFUseCase) DownloadPDF(ctx context.Context, id string) (pdfBytes []byte, filename string, err error) {
	doc, err := uc.docs.GetByID(id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener documento: %w", err)
	}
	if doc == nil {
		return nil, "", domain.ErrNotFound
	}

	customer, err := uc.customers.GetByID(doc.CustomerID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	doc.Customer = customer

	doc.Items, err = uc.docs.GetItems(doc.ID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err = uc.generator.GenerateDocumentPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	prefix := "factura"
	if uc.kind == entity.KindQuotation {
		prefix = "cotizacion"
	}
	filename = fmt.Sprintf("%s_%s.pdf", prefix, doc.Number)
	return pdfBytes, filename, nil
}
