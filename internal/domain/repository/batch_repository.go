package repository

import (
	"context"
	"time"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes.
type BatchRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	// GetForUpdate bloquea la fila del lote (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Batch, error)
	// FindOrCreate devuelve el lote (itemID, lotNumber) bloqueado; si no existe lo crea con
	// expiryDate y cantidad 0. En un acierto expiryDate se ignora. created indica si se insertó.
	FindOrCreate(ctx context.Context, itemID, lotNumber string, expiryDate time.Time) (batch *entity.Batch, created bool, err error)
	// AdjustQuantity suma delta a la cantidad restante. Si el resultado fuera negativo
	// devuelve *domain.InsufficientStockError y no modifica nada.
	AdjustQuantity(ctx context.Context, id string, delta int64) (*entity.Batch, error)
	// ListAvailable lotes con cantidad > 0 del insumo, por fecha de vencimiento ascendente.
	ListAvailable(ctx context.Context, itemID string) ([]*entity.Batch, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.Batch, error)
}
