package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/application/ledger"
	"github.com/tu-usuario/almacen-core/internal/domain"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del Stock Ledger (protegido).
type InventoryHandler struct {
	ledger *ledger.StockLedger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(l *ledger.StockLedger) *InventoryHandler {
	return &InventoryHandler{ledger: l}
}

// ApplyMovement godoc
// @Summary      Aplicar un movimiento de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "item_id, location_id, delta firmado, kind, referencia"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	qty, entry, err := h.ledger.ApplyMovement(c.Context(), ledger.MovementInput{
		ItemID:     in.ItemID,
		LocationID: in.LocationID,
		Delta:      in.Delta,
		Kind:       in.Kind,
		Ref:        entity.DocumentRef{Type: in.RefType, ID: in.RefID},
		Remark:     in.Remark,
		UserID:     GetUserID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		Quantity: qty,
		Entry:    dto.NewMovementEntryDTO(entry),
	})
}

// CorrectQuantity godoc
// @Summary      Corrección de auditoría: fijar la cantidad de un ítem
// @Description  Vía de escape para recuperación de incidentes. Exige remark
//               con la procedencia; siempre deja un asiento AUDIT_CORRECTION.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        item_id      path  string  true  "ítem"
// @Param        location_id  path  string  true  "ubicación"
// @Param        body  body  dto.CorrectQuantityRequest  true  "new_quantity, remark"
// @Success      201   {object}  dto.MovementEntryDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{item_id}/locations/{location_id}/corrections [post]
func (h *InventoryHandler) CorrectQuantity(c *fiber.Ctx) error {
	var in dto.CorrectQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	entry, err := h.ledger.CorrectQuantity(c.Context(),
		c.Params("item_id"), c.Params("location_id"),
		in.NewQuantity, in.Remark, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewMovementEntryDTO(entry))
}

// GetQuantity godoc
// @Summary      Cantidad actual de un ítem en una ubicación
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.QuantityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{item_id}/locations/{location_id}/quantity [get]
func (h *InventoryHandler) GetQuantity(c *fiber.Ctx) error {
	itemID, locationID := c.Params("item_id"), c.Params("location_id")
	qty, err := h.ledger.GetCurrentQuantity(c.Context(), itemID, locationID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.QuantityResponse{ItemID: itemID, LocationID: locationID, Quantity: qty})
}

// ListMovements godoc
// @Summary      Últimos movimientos de un ítem (auditoría)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "máximo de asientos (default 20, tope 100)"
// @Success      200  {array}  dto.MovementEntryDTO
// @Router       /api/inventory/items/{item_id}/locations/{location_id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	entries, err := h.ledger.RecentMovements(c.Context(), c.Params("item_id"), c.Params("location_id"), limit)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.NewMovementEntryDTO(e))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Chequeo de integridad stock vs. log de movimientos
// @Description  Recalcula apertura + Σ deltas y lo compara con la cantidad
//               almacenada. Herramienta operativa; reemplaza los scripts de
//               reparación manual.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/inventory/items/{item_id}/locations/{location_id}/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.ledger.Reconcile(c.Context(), c.Params("item_id"), c.Params("location_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		ItemID:           report.ItemID,
		LocationID:       report.LocationID,
		StoredQuantity:   report.StoredQuantity,
		ComputedQuantity: report.ComputedQuantity,
		Matches:          report.Matches,
	})
}

// respondError mapea errores de dominio a códigos HTTP.
// InsufficientStock es una operación rechazada (409), no un fallo del servidor.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "conflicto de concurrencia, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
