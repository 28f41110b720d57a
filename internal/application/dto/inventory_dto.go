package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// ApplyMovementRequest cuerpo para aplicar un movimiento de stock.
type ApplyMovementRequest struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Delta      decimal.Decimal `json:"delta"` // positivo entrada, negativo salida
	Kind       string          `json:"kind"`
	RefType    string          `json:"ref_type"`
	RefID      string          `json:"ref_id"`
	Remark     string          `json:"remark"`
}

// CorrectQuantityRequest cuerpo para una corrección de auditoría.
// Remark es obligatorio: debe explicar la procedencia del ajuste.
type CorrectQuantityRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Remark      string          `json:"remark"`
}

// MovementEntryDTO asiento del log en respuestas.
type MovementEntryDTO struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	LocationID     string          `json:"location_id"`
	Delta          decimal.Decimal `json:"delta"`
	QuantityBefore decimal.Decimal `json:"quantity_before"`
	QuantityAfter  decimal.Decimal `json:"quantity_after"`
	Kind           string          `json:"kind"`
	RefType        string          `json:"ref_type,omitempty"`
	RefID          string          `json:"ref_id,omitempty"`
	Remark         string          `json:"remark,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	CreatedBy      string          `json:"created_by,omitempty"`
}

// NewMovementEntryDTO mapea la entidad al DTO.
func NewMovementEntryDTO(e *entity.MovementEntry) MovementEntryDTO {
	return MovementEntryDTO{
		ID:             e.ID,
		ItemID:         e.ItemID,
		LocationID:     e.LocationID,
		Delta:          e.Delta,
		QuantityBefore: e.QuantityBefore,
		QuantityAfter:  e.QuantityAfter,
		Kind:           e.Kind,
		RefType:        e.RefType,
		RefID:          e.RefID,
		Remark:         e.Remark,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
	}
}

// MovementResponse respuesta al aplicar un movimiento.
type MovementResponse struct {
	Quantity decimal.Decimal  `json:"quantity"`
	Entry    MovementEntryDTO `json:"entry"`
}

// QuantityResponse cantidad actual de un (ítem, ubicación).
type QuantityResponse struct {
	ItemID     string          `json:"item_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// ReconcileResponse resultado del chequeo de integridad.
type ReconcileResponse struct {
	ItemID           string          `json:"item_id"`
	LocationID       string          `json:"location_id"`
	StoredQuantity   decimal.Decimal `json:"stored_quantity"`
	ComputedQuantity decimal.Decimal `json:"computed_quantity"`
	Matches          bool            `json:"matches"`
}
