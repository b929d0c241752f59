package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Items     repository.ItemRepository
	Batches   repository.BatchRepository
	Movements repository.MovementRepository
	Suppliers repository.SupplierRepository
	Staff     repository.StaffRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback y ningún cambio queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}

// MovementEvent se publica después de confirmar una entrada o salida.
type MovementEvent struct {
	MovementID    string           `json:"movement_id"`
	Kind          string           `json:"kind"`
	ItemID        string           `json:"item_id"`
	BatchID       string           `json:"batch_id"`
	LotNumber     string           `json:"lot_number"`
	Quantity      int64            `json:"quantity"`
	UnitCost      *decimal.Decimal `json:"unit_cost,omitempty"`
	Balance       int64            `json:"balance"`
	AverageCost   decimal.Decimal  `json:"average_cost"`
	StaffMemberID string           `json:"staff_member_id"`
	SupplierID    string           `json:"supplier_id,omitempty"`
	Reason        string           `json:"reason,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

// MovementPublisher publica eventos de movimiento (por ejemplo en Kafka).
type MovementPublisher interface {
	PublishMovement(ctx context.Context, event MovementEvent) error
}
