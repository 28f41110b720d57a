package dto

import "time"

// CreateStockItemRequest cuerpo para dar de alta un ítem del catálogo.
type CreateStockItemRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StockItemResponse ítem del catálogo en respuestas.
type StockItemResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLocationRequest cuerpo para dar de alta una ubicación.
type CreateLocationRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LocationResponse ubicación en respuestas.
type LocationResponse struct {
	ID        string    `json:"id"`
	BranchID  string    `json:"branch_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NextNumberRequest cuerpo para emitir un número de documento.
type NextNumberRequest struct {
	Kind string `json:"kind"`
	Year int    `json:"year"` // 0 = año actual
}

// NumberResponse número emitido.
type NumberResponse struct {
	Number string `json:"number"`
}
