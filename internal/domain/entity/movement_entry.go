package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clases de movimiento de inventario.
const (
	MovementKindSale            = "SALE"             // venta (salida)
	MovementKindSaleReturn      = "SALE_RETURN"      // devolución de venta (entrada)
	MovementKindPurchase        = "PURCHASE"         // compra (entrada)
	MovementKindPurchaseReturn  = "PURCHASE_RETURN"  // devolución de compra (salida)
	MovementKindAuditCorrection = "AUDIT_CORRECTION" // corrección manual auditada
)

// ValidMovementKind indica si kind es una clase de movimiento conocida.
func ValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindSale, MovementKindSaleReturn, MovementKindPurchase,
		MovementKindPurchaseReturn, MovementKindAuditCorrection:
		return true
	}
	return false
}

// DocumentRef referencia al documento que originó un movimiento o asiento
// (factura, devolución, pago, nota de ajuste).
type DocumentRef struct {
	Type string // "invoice", "sale_return", "purchase", "payment", "adjustment_note"
	ID   string
}

// MovementEntry es un hecho inmutable del log de movimientos: se crea una vez
// y nunca se actualiza ni se borra. Las correcciones son asientos nuevos con
// Kind = AUDIT_CORRECTION, jamás ediciones de la historia.
// QuantityAfter == QuantityBefore + Delta siempre; el Stock Ledger llena
// ambos snapshots en la misma transacción que muta la cantidad.
type MovementEntry struct {
	ID             string
	ItemID         string
	LocationID     string
	Delta          decimal.Decimal // positivo = entrada, negativo = salida
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	Kind           string
	RefType        string
	RefID          string
	Remark         string // obligatorio en correcciones (procedencia del ajuste)
	CreatedAt      time.Time
	CreatedBy      string // UserID
}
