package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/application/sequencer"
)

// SequenceHandler emisión directa de números de documento. Las operaciones de
// negocio (ventas) numeran dentro de su propia transacción; esta ruta sirve a
// documentos cuyo flujo vive fuera del núcleo (ej: compras manuales).
type SequenceHandler struct {
	seq *sequencer.DocumentSequencer
}

// NewSequenceHandler construye el handler.
func NewSequenceHandler(seq *sequencer.DocumentSequencer) *SequenceHandler {
	return &SequenceHandler{seq: seq}
}

// NextNumber godoc
// @Summary      Emitir el siguiente número de una serie
// @Description  El número emitido se considera consumido: si el documento del
//               caller aborta después de esta llamada, queda un hueco. Las
//               operaciones del núcleo evitan eso numerando en su propia
//               transacción.
// @Tags         sequences
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NextNumberRequest  true  "kind, year opcional"
// @Success      201   {object}  dto.NumberResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/sequences/next [post]
func (h *SequenceHandler) NextNumber(c *fiber.Ctx) error {
	var in dto.NextNumberRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	year := in.Year
	if year == 0 {
		year = time.Now().Year()
	}
	number, err := h.seq.NextNumber(c.Context(), GetBranchID(c), in.Kind, year)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NumberResponse{Number: number})
}
