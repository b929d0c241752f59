package repository

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos (solo inserción).
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	ListByBatch(ctx context.Context, batchID string) ([]*entity.Movement, error)
}
