package dto

import "github.com/shopspring/decimal"

// OpenAccountRequest cuerpo para abrir la cuenta de una contraparte.
type OpenAccountRequest struct {
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// PostTransactionRequest cuerpo para registrar un monto firmado.
// Positivo = aumenta lo que la contraparte debe al negocio.
type PostTransactionRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	RefType string          `json:"ref_type"`
	RefID   string          `json:"ref_id"`
	Reverse bool            `json:"reverse"` // true = anula un registro previo
}

// BalanceResponse saldo actual de una contraparte.
type BalanceResponse struct {
	PartyID string          `json:"party_id"`
	Balance decimal.Decimal `json:"balance"`
}
