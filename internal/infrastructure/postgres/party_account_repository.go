package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

var _ repository.PartyAccountRepository = (*PartyAccountRepo)(nil)

// PartyAccountRepo implementación de las cuentas de contrapartes sobre
// PostgreSQL (usable con pool o tx).
type PartyAccountRepo struct {
	q Querier
}

// NewPartyAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPartyAccountRepository(q Querier) *PartyAccountRepo {
	return &PartyAccountRepo{q: q}
}

// Get devuelve la cuenta; nil, nil si no existe.
func (r *PartyAccountRepo) Get(ctx context.Context, partyID string) (*entity.PartyAccount, error) {
	const query = `
		SELECT party_id, opening_balance, balance, updated_at
		FROM party_accounts WHERE party_id = $1`
	return r.scanOne(r.q.QueryRow(ctx, query, partyID))
}

// GetForUpdate obtiene la cuenta bloqueando la fila (SELECT FOR UPDATE).
func (r *PartyAccountRepo) GetForUpdate(ctx context.Context, partyID string) (*entity.PartyAccount, error) {
	const query = `
		SELECT party_id, opening_balance, balance, updated_at
		FROM party_accounts WHERE party_id = $1
		FOR UPDATE`
	return r.scanOne(r.q.QueryRow(ctx, query, partyID))
}

// Create abre la cuenta con su saldo inicial.
func (r *PartyAccountRepo) Create(ctx context.Context, account *entity.PartyAccount) error {
	const query = `
		INSERT INTO party_accounts (party_id, opening_balance, balance, updated_at)
		VALUES ($1, $2, $3, now())`
	_, err := r.q.Exec(ctx, query, account.PartyID, account.OpeningBalance, account.Balance)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("create party account: %w", err)
	}
	return nil
}

// Upsert actualiza el saldo (opening_balance es inmutable tras crear).
func (r *PartyAccountRepo) Upsert(ctx context.Context, account *entity.PartyAccount) error {
	const query = `
		INSERT INTO party_accounts (party_id, opening_balance, balance, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (party_id)
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = now()`
	_, err := r.q.Exec(ctx, query, account.PartyID, account.OpeningBalance, account.Balance)
	if err != nil {
		return fmt.Errorf("upsert party account: %w", err)
	}
	return nil
}

func (r *PartyAccountRepo) scanOne(row pgx.Row) (*entity.PartyAccount, error) {
	var a entity.PartyAccount
	err := row.Scan(&a.PartyID, &a.OpeningBalance, &a.Balance, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan party account: %w", err)
	}
	return &a, nil
}
