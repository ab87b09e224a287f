package repository

import "github.com/tu-usuario/facturacion-api/internal/domain/entity"

// DocumentRepository define el puerto de persistencia para facturas y
// cotizaciones. Un adaptador se construye atado a un DocumentKind y opera
// solo sobre las tablas de ese tipo.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	CreateItem(item *entity.LineItem) error
	GetByID(id string) (*entity.Document, error)
	GetItems(documentID string) ([]*entity.LineItem, error)
	// List devuelve cabeceras ordenadas por created_at descendente (explícito).
	List() ([]*entity.Document, error)
	ListByCustomer(customerID string) ([]*entity.Document, error)
	// Update escribe todas las columnas mutables de la cabecera:
	// customer_id, fechas, subtotal, tax, total, status, notes, updated_at.
	Update(doc *entity.Document) error
	// DeleteItems borra todas las líneas del documento (paso previo al reemplazo).
	DeleteItems(documentID string) error
	// Delete elimina el documento y, en cascada, sus líneas.
	// Retorna domain.ErrNotFound si no existe.
	Delete(id string) error
}

// SequenceRepository asigna consecutivos de numeración de documentos.
// Next debe ejecutarse dentro de la transacción de escritura: es un
// UPSERT atómico sobre la tabla de secuencias, nunca un count()+1, para
// que creaciones concurrentes no puedan producir números duplicados.
type SequenceRepository interface {
	Next(kind entity.DocumentKind) (int64, error)
}
