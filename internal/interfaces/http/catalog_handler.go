package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tu-usuario/almacen-core/internal/application/dto"
	"github.com/tu-usuario/almacen-core/internal/domain/entity"
	"github.com/tu-usuario/almacen-core/internal/domain/repository"
)

// CatalogHandler alta y consulta mínima del catálogo (ítems y ubicaciones).
// El CRUD completo vive en colaboradores externos; esto cubre el sembrado.
type CatalogHandler struct {
	itemRepo     repository.StockItemRepository
	locationRepo repository.LocationRepository
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(itemRepo repository.StockItemRepository, locationRepo repository.LocationRepository) *CatalogHandler {
	return &CatalogHandler{itemRepo: itemRepo, locationRepo: locationRepo}
}

// CreateItem godoc
// @Summary      Dar de alta un ítem del catálogo
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockItemRequest  true  "code, name"
// @Success      201   {object}  dto.StockItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateStockItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Code == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code y name son requeridos"})
	}
	item := &entity.StockItem{
		ID:        uuid.NewString(),
		Code:      in.Code,
		Name:      in.Name,
		CreatedAt: time.Now(),
	}
	if err := h.itemRepo.Create(c.Context(), item); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockItemResponse{
		ID: item.ID, Code: item.Code, Name: item.Name, CreatedAt: item.CreatedAt,
	})
}

// GetItem godoc
// @Summary      Consultar un ítem por ID
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.itemRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "ítem no encontrado"})
	}
	return c.JSON(dto.StockItemResponse{
		ID: item.ID, Code: item.Code, Name: item.Name, CreatedAt: item.CreatedAt,
	})
}

// CreateLocation godoc
// @Summary      Dar de alta una ubicación en la sucursal del token
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLocationRequest  true  "code, name"
// @Success      201   {object}  dto.LocationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var in dto.CreateLocationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "code es requerido"})
	}
	location := &entity.Location{
		ID:        uuid.NewString(),
		BranchID:  GetBranchID(c),
		Code:      in.Code,
		Name:      in.Name,
		CreatedAt: time.Now(),
	}
	if err := h.locationRepo.Create(c.Context(), location); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.LocationResponse{
		ID: location.ID, BranchID: location.BranchID, Code: location.Code,
		Name: location.Name, CreatedAt: location.CreatedAt,
	})
}
