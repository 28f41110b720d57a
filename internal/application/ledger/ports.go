package ledger

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que cantidad y asiento del log se
// persisten como unidad: ambos quedan o ninguno queda.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
	) error) error
}
