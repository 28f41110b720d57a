package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/application/partyledger"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// PartyHandler maneja las cuentas corrientes de contrapartes (protegido).
type PartyHandler struct {
	uc *partyledger.PartyLedger
}

// NewPartyHandler construye el handler.
func NewPartyHandler(uc *partyledger.PartyLedger) *PartyHandler {
	return &PartyHandler{uc: uc}
}

// OpenAccount godoc
// @Summary      Abrir la cuenta de una contraparte
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenAccountRequest  true  "opening_balance"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/parties/{party_id}/account [post]
func (h *PartyHandler) OpenAccount(c *fiber.Ctx) error {
	var in dto.OpenAccountRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.OpenAccount(c.Context(), c.Params("party_id"), in.OpeningBalance); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "cuenta abierta"})
}

// PostTransaction godoc
// @Summary      Registrar un monto firmado contra la contraparte
// @Description  El detalle del documento origen (pago, nota) lo persiste el
//               colaborador que llama, en la misma unidad de trabajo.
//               reverse=true anula un registro previo con el monto inverso.
// @Tags         parties
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostTransactionRequest  true  "amount, ref_type, ref_id"
// @Success      201   {object}  dto.BalanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/parties/{party_id}/transactions [post]
func (h *PartyHandler) PostTransaction(c *fiber.Ctx) error {
	var in dto.PostTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	partyID := c.Params("party_id")
	ref := entity.DocumentRef{Type: in.RefType, ID: in.RefID}

	var (
		balance decimal.Decimal
		err     error
	)
	if in.Reverse {
		balance, err = h.uc.ReverseTransaction(c.Context(), partyID, in.Amount, ref)
	} else {
		balance, err = h.uc.PostTransaction(c.Context(), partyID, in.Amount, ref)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BalanceResponse{PartyID: partyID, Balance: balance})
}

// GetBalance godoc
// @Summary      Saldo actual de una contraparte
// @Tags         parties
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/parties/{party_id}/balance [get]
func (h *PartyHandler) GetBalance(c *fiber.Ctx) error {
	partyID := c.Params("party_id")
	balance, err := h.uc.GetBalance(c.Context(), partyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.BalanceResponse{PartyID: partyID, Balance: balance})
}
