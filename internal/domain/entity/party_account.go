package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyAccount mantiene el saldo corriente de una contraparte (cliente o
// proveedor). Convención de signo: positivo = la contraparte le debe al
// negocio. Solo el Party Balance Ledger muta Balance, siempre como efecto de
// una transacción registrada; el detalle del documento (pago, factura) lo
// persiste el caller en la misma unidad de trabajo.
// Invariante: Balance == OpeningBalance + Σ montos registrados.
type PartyAccount struct {
	PartyID        string
	OpeningBalance decimal.Decimal
	Balance        decimal.Decimal
	UpdatedAt      time.Time
}
