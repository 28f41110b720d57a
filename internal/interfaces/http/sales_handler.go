package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/application/sales"
)

// SalesHandler maneja el registro de ventas y devoluciones (protegido).
type SalesHandler struct {
	uc *sales.PostSaleUseCase
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.PostSaleUseCase) *SalesHandler {
	return &SalesHandler{uc: uc}
}

// PostSale godoc
// @Summary      Registrar una venta
// @Description  Una transacción: número de factura, un movimiento SALE por
//               línea y cargo del total al saldo del cliente. Cualquier línea
//               sin stock revierte la venta completa.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostSaleRequest  true  "location_id, party_id, lines"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SalesHandler) PostSale(c *fiber.Ctx) error {
	return h.post(c, false)
}

// PostSaleReturn godoc
// @Summary      Registrar una devolución de venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostSaleRequest  true  "location_id, party_id, lines"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sales/returns [post]
func (h *SalesHandler) PostSaleReturn(c *fiber.Ctx) error {
	return h.post(c, true)
}

func (h *SalesHandler) post(c *fiber.Ctx, isReturn bool) error {
	var in dto.PostSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.SaleInput{
		BranchID:   GetBranchID(c),
		LocationID: in.LocationID,
		PartyID:    in.PartyID,
		UserID:     GetUserID(c),
	}
	for _, line := range in.Lines {
		input.Lines = append(input.Lines, sales.SaleLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	var (
		result *sales.SaleResult
		err    error
	)
	if isReturn {
		result, err = h.uc.PostSaleReturn(c.Context(), input)
	} else {
		result, err = h.uc.PostSale(c.Context(), input)
	}
	if err != nil {
		return respondError(c, err)
	}

	out := dto.SaleResponse{
		Number:     result.Number,
		Total:      result.Total,
		NewBalance: result.NewBalance,
	}
	for _, e := range result.Movements {
		out.Movements = append(out.Movements, dto.NewMovementEntryDTO(e))
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
