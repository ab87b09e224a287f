package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/facturacion-api/internal/domain/entity"
	"github.com/tu-usuario/facturacion-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo asigna consecutivos de numeración con un UPSERT atómico sobre
// document_sequences. Nunca count()+1: dos creaciones concurrentes obtienen
// consecutivos distintos porque el incremento lo serializa la base de datos.
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar la tx de escritura.
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next devuelve el siguiente consecutivo del tipo de documento.
func (r *SequenceRepo) Next(kind entity.DocumentKind) (int64, error) {
	const query = `
		INSERT INTO document_sequences (kind, counter)
		VALUES ($1, 1)
		ON CONFLICT (kind) DO UPDATE SET counter = document_sequences.counter + 1
		RETURNING counter`
	var counter int64
	if err := r.q.QueryRow(context.Background(), query, string(kind)).Scan(&counter); err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", kind, err)
	}
	return counter, nil
}
