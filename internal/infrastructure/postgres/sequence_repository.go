package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo implementación de los contadores consecutivos sobre
// PostgreSQL (usable con pool o tx).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// NextValue incrementa y lee el contador en un único statement atómico.
// El upsert con RETURNING serializa emisores concurrentes del mismo scope a
// nivel de fila: dos peticiones simultáneas nunca reciben el mismo valor.
func (r *SequenceRepo) NextValue(ctx context.Context, branchID, kind string, year int) (int64, error) {
	const query = `
		INSERT INTO document_sequences (branch_id, kind, year, last_number)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (branch_id, kind, year)
		DO UPDATE SET last_number = document_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, branchID, kind, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence value: %w", err)
	}
	return n, nil
}

// Get devuelve el estado del contador; nil si el scope aún no emitió.
func (r *SequenceRepo) Get(ctx context.Context, branchID, kind string, year int) (*entity.DocumentSequence, error) {
	const query = `
		SELECT branch_id, kind, year, last_number
		FROM document_sequences
		WHERE branch_id = $1 AND kind = $2 AND year = $3`
	var s entity.DocumentSequence
	err := r.q.QueryRow(ctx, query, branchID, kind, year).Scan(
		&s.BranchID, &s.Kind, &s.Year, &s.LastNumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sequence: %w", err)
	}
	return &s, nil
}
