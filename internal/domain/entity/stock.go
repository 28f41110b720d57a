package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa la cantidad actual de un ítem en una ubicación.
// Solo el Stock Ledger la muta; los callers nunca escriben cantidades directo.
// Invariante verificable: Quantity == OpeningQuantity + Σ deltas del log.
type Stock struct {
	ItemID          string
	LocationID      string
	Quantity        decimal.Decimal
	OpeningQuantity decimal.Decimal // cantidad inicial al crear la fila
	UpdatedAt       time.Time
}
