package repository

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// PartyAccountRepository define el puerto de las cuentas corrientes de
// contrapartes. Balance se muta solo vía el Party Balance Ledger.
type PartyAccountRepository interface {
	// Get devuelve la cuenta; nil, nil si la contraparte no tiene cuenta.
	Get(ctx context.Context, partyID string) (*entity.PartyAccount, error)

	// GetForUpdate obtiene la cuenta bloqueando la fila (SELECT FOR UPDATE).
	// Retorna nil, nil si no existe.
	GetForUpdate(ctx context.Context, partyID string) (*entity.PartyAccount, error)

	// Create abre la cuenta con su saldo inicial.
	Create(ctx context.Context, account *entity.PartyAccount) error

	Upsert(ctx context.Context, account *entity.PartyAccount) error
}
