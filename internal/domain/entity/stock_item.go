package entity

import "time"

// StockItem identifica un producto controlado por inventario.
// Las cantidades por ubicación viven en la tabla stock (una fila por bodega).
type StockItem struct {
	ID        string
	Code      string // código único de ítem (SKU)
	Name      string
	CreatedAt time.Time
}
