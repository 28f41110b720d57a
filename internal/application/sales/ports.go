package sales

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// TxRunner ejecuta fn con los cuatro repositorios del núcleo atados a una
// misma transacción. Es la primitiva de frontera de operación que permite
// agrupar numerador, movimientos por línea y registro de saldo en una sola
// unidad atómica.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.MovementLogRepository,
		stockRepo repository.StockRepository,
		seqRepo repository.SequenceRepository,
		partyRepo repository.PartyAccountRepository,
	) error) error
}
