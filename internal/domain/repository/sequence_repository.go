package repository

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// SequenceRepository define el puerto de los contadores consecutivos.
type SequenceRepository interface {
	// NextValue incrementa y devuelve el contador del scope en un único paso
	// atómico. Nunca "contar documentos existentes + 1": ese patrón duplica
	// números bajo concurrencia.
	NextValue(ctx context.Context, branchID, kind string, year int) (int64, error)

	// Get devuelve el estado del contador; nil si el scope aún no emite.
	Get(ctx context.Context, branchID, kind string, year int) (*entity.DocumentSequence, error)
}
