package repository

import (
	"context"

	"github.com/tu-usuario/almacen-core/internal/domain/entity"
)

// StockItemRepository define el puerto del catálogo de ítems.
// El CRUD completo vive en colaboradores externos; el núcleo solo necesita
// validar existencia y dar de alta para sembrado.
type StockItemRepository interface {
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	GetByCode(ctx context.Context, code string) (*entity.StockItem, error)
	Create(ctx context.Context, item *entity.StockItem) error
}

// LocationRepository define el puerto del catálogo de ubicaciones.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	Create(ctx context.Context, location *entity.Location) error
}
