package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// ItemFilter criterios de listado de insumos.
type ItemFilter struct {
	Search     string // coincide con nombre o categoría (sin distinguir mayúsculas)
	ActiveOnly bool
	InStock    bool // solo insumos con saldo > 0
}

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las implementaciones devuelven (nil, nil) cuando el registro no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del insumo hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	// GetByName busca por nombre normalizado (entity.NameKey).
	GetByName(ctx context.Context, name string) (*entity.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	// Update persiste solo los campos descriptivos; nunca Balance ni AverageCost.
	Update(ctx context.Context, item *entity.Item) error
	// UpdateStock es exclusiva del motor de movimientos.
	UpdateStock(ctx context.Context, id string, balance int64, averageCost decimal.Decimal) error
	// Delete devuelve domain.ErrReferenced si existen lotes o movimientos del insumo.
	Delete(ctx context.Context, id string) error
}
