package dto

import "github.com/shopspring/decimal"

// SaleLineRequest una línea de venta o devolución.
type SaleLineRequest struct {
	ItemID    string          `json:"item_id"`
	Quantity  decimal.Decimal `json:"quantity"` // siempre positiva
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PostSaleRequest cuerpo para registrar una venta o devolución de venta.
type PostSaleRequest struct {
	LocationID string            `json:"location_id"`
	PartyID    string            `json:"party_id"`
	Lines      []SaleLineRequest `json:"lines"`
}

// SaleResponse resultado del registro.
type SaleResponse struct {
	Number     string             `json:"number"`
	Total      decimal.Decimal    `json:"total"`
	NewBalance decimal.Decimal    `json:"new_balance"`
	Movements  []MovementEntryDTO `json:"movements"`
}
