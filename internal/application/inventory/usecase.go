package inventory

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/inventory"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
	"github.com/jhoicas/insumos-api/pkg/logger"
)

// StockMovementUseCase registra entradas y salidas de insumos de forma transaccional.
// Bloquea primero la fila del insumo y después la del lote (SELECT FOR UPDATE), siempre en ese
// orden, de modo que movimientos concurrentes sobre el mismo insumo se serializan.
type StockMovementUseCase struct {
	txRunner  TxRunner
	itemRepo  repository.ItemRepository
	batchRepo repository.BatchRepository
	publisher MovementPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewStockMovementUseCase construye el caso de uso. publisher puede ser nil (sin eventos).
func NewStockMovementUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	batchRepo repository.BatchRepository,
	publisher MovementPublisher,
	log *logger.Logger,
) *StockMovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &StockMovementUseCase{
		txRunner:  txRunner,
		itemRepo:  itemRepo,
		batchRepo: batchRepo,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// MaxMovementQuantity tope de unidades de un solo movimiento.
const MaxMovementQuantity int64 = 1_000_000_000

// EntryInput datos de una entrada (compra). TotalCost es el valor total de la nota.
type EntryInput struct {
	ItemID        string
	SupplierID    string
	StaffMemberID string
	Quantity      int64
	TotalCost     decimal.Decimal
	LotNumber     string
	ExpiryDate    time.Time
}

func (in *EntryInput) validate() error {
	if in.ItemID == "" {
		return domain.NewValidationError("item_id", "es requerido")
	}
	if in.SupplierID == "" {
		return domain.NewValidationError("supplier_id", "es requerido")
	}
	if in.StaffMemberID == "" {
		return domain.NewValidationError("staff_member_id", "es requerido")
	}
	if in.Quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.Quantity > MaxMovementQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("no puede superar %d", MaxMovementQuantity))
	}
	if in.TotalCost.IsNegative() {
		return domain.NewValidationError("total_cost", "no puede ser negativo")
	}
	in.LotNumber = strings.TrimSpace(in.LotNumber)
	if in.LotNumber == "" {
		return domain.NewValidationError("lot_number", "es requerido")
	}
	if in.ExpiryDate.IsZero() {
		return domain.NewValidationError("expiry_date", "es requerida")
	}
	in.ExpiryDate = truncateDate(in.ExpiryDate)
	return nil
}

// ExitInput datos de una salida (uso, pérdida, vencimiento...).
type ExitInput struct {
	BatchID       string
	StaffMemberID string
	Quantity      int64
	Reason        string
}

func (in *ExitInput) validate() error {
	if in.BatchID == "" {
		return domain.NewValidationError("batch_id", "es requerido")
	}
	if in.StaffMemberID == "" {
		return domain.NewValidationError("staff_member_id", "es requerido")
	}
	if in.Quantity <= 0 {
		return domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.Quantity > MaxMovementQuantity {
		return domain.NewValidationError("quantity", fmt.Sprintf("no puede superar %d", MaxMovementQuantity))
	}
	in.Reason = strings.TrimSpace(in.Reason)
	return nil
}

// MovementResult estado confirmado tras un movimiento.
type MovementResult struct {
	Movement entity.Movement
	Item     entity.Item
	Batch    entity.Batch
}

// RecordEntry registra una compra: recalcula el costo promedio ponderado, suma la cantidad al
// lote (creándolo si es la primera entrada del número de lote) y al saldo del insumo, y guarda
// el movimiento. Todo o nada.
func (uc *StockMovementUseCase) RecordEntry(ctx context.Context, in EntryInput) (*MovementResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	unitCost := inventory.UnitCost(in.TotalCost, in.Quantity)
	now := uc.now()

	var res MovementResult
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		item, err := repos.Items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("insumo", in.ItemID)
		}
		if err := requireSupplier(ctx, repos.Suppliers, in.SupplierID); err != nil {
			return err
		}
		if err := requireStaff(ctx, repos.Staff, in.StaffMemberID); err != nil {
			return err
		}

		if item.Balance > math.MaxInt64-in.Quantity {
			return domain.NewValidationError("quantity", "el saldo resultante excede el máximo representable")
		}
		newBalance := item.Balance + in.Quantity
		newCost := inventory.CostCalculator(
			decimal.NewFromInt(item.Balance), item.AverageCost,
			decimal.NewFromInt(in.Quantity), unitCost,
		)

		batch, _, err := repos.Batches.FindOrCreate(ctx, item.ID, in.LotNumber, in.ExpiryDate)
		if err != nil {
			return err
		}
		batch, err = repos.Batches.AdjustQuantity(ctx, batch.ID, in.Quantity)
		if err != nil {
			return err
		}

		mov := &entity.Movement{
			ID:            uuid.New().String(),
			Kind:          entity.MovementKindEntry,
			BatchID:       batch.ID,
			ItemID:        item.ID,
			Quantity:      in.Quantity,
			UnitCost:      &unitCost,
			SupplierID:    in.SupplierID,
			StaffMemberID: in.StaffMemberID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if err := repos.Items.UpdateStock(ctx, item.ID, newBalance, newCost); err != nil {
			return err
		}

		item.Balance = newBalance
		item.AverageCost = newCost
		item.UpdatedAt = now
		res = MovementResult{Movement: *mov, Item: *item, Batch: *batch}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, &res)
	return &res, nil
}

// RecordExit registra una salida del lote indicado. Falla con *domain.InsufficientStockError si la
// cantidad supera lo disponible en el lote (sin atención parcial). El movimiento guarda como costo
// unitario el costo promedio del insumo en este instante; el promedio no se recalcula.
func (uc *StockMovementUseCase) RecordExit(ctx context.Context, in ExitInput) (*MovementResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	now := uc.now()

	var res MovementResult
	err := uc.txRunner.Run(ctx, func(repos TxRepositories) error {
		// Lectura sin bloqueo solo para conocer el insumo dueño del lote.
		batch, err := repos.Batches.GetByID(ctx, in.BatchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.NotFound("lote", in.BatchID)
		}
		item, err := repos.Items.GetForUpdate(ctx, batch.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("insumo", batch.ItemID)
		}
		if err := requireStaff(ctx, repos.Staff, in.StaffMemberID); err != nil {
			return err
		}

		batch, err = repos.Batches.AdjustQuantity(ctx, batch.ID, -in.Quantity)
		if err != nil {
			return err
		}
		newBalance := item.Balance - in.Quantity
		if newBalance < 0 {
			return fmt.Errorf("saldo del insumo %s inconsistente con sus lotes", item.ID)
		}

		unitCost := item.AverageCost
		mov := &entity.Movement{
			ID:            uuid.New().String(),
			Kind:          entity.MovementKindExit,
			BatchID:       batch.ID,
			ItemID:        item.ID,
			Quantity:      in.Quantity,
			UnitCost:      &unitCost,
			Reason:        in.Reason,
			StaffMemberID: in.StaffMemberID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return err
		}
		if err := repos.Items.UpdateStock(ctx, item.ID, newBalance, item.AverageCost); err != nil {
			return err
		}

		item.Balance = newBalance
		item.UpdatedAt = now
		res = MovementResult{Movement: *mov, Item: *item, Batch: *batch}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.afterCommit(ctx, &res)
	return &res, nil
}

// GetItem devuelve el insumo o domain.ErrNotFound.
func (uc *StockMovementUseCase) GetItem(ctx context.Context, id string) (*entity.Item, error) {
	item, err := uc.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("insumo", id)
	}
	return item, nil
}

// GetBatch devuelve el lote o domain.ErrNotFound.
func (uc *StockMovementUseCase) GetBatch(ctx context.Context, id string) (*entity.Batch, error) {
	batch, err := uc.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.NotFound("lote", id)
	}
	return batch, nil
}

// ListAvailableBatches lotes con saldo del insumo, el que vence primero al inicio.
func (uc *StockMovementUseCase) ListAvailableBatches(ctx context.Context, itemID string) ([]*entity.Batch, error) {
	if _, err := uc.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return uc.batchRepo.ListAvailable(ctx, itemID)
}

func (uc *StockMovementUseCase) afterCommit(ctx context.Context, res *MovementResult) {
	uc.log.Info().
		Str("movement_id", res.Movement.ID).
		Str("kind", res.Movement.Kind).
		Str("item_id", res.Item.ID).
		Str("batch_id", res.Batch.ID).
		Int64("quantity", res.Movement.Quantity).
		Int64("balance", res.Item.Balance).
		Str("average_cost", res.Item.AverageCost.String()).
		Msg("movimiento registrado")

	if uc.publisher == nil {
		return
	}
	event := MovementEvent{
		MovementID:    res.Movement.ID,
		Kind:          res.Movement.Kind,
		ItemID:        res.Item.ID,
		BatchID:       res.Batch.ID,
		LotNumber:     res.Batch.LotNumber,
		Quantity:      res.Movement.Quantity,
		UnitCost:      res.Movement.UnitCost,
		Balance:       res.Item.Balance,
		AverageCost:   res.Item.AverageCost,
		StaffMemberID: res.Movement.StaffMemberID,
		SupplierID:    res.Movement.SupplierID,
		Reason:        res.Movement.Reason,
		OccurredAt:    res.Movement.CreatedAt,
	}
	// El movimiento ya está confirmado: un fallo al publicar solo se registra.
	if err := uc.publisher.PublishMovement(ctx, event); err != nil {
		uc.log.Warn().Err(err).Str("movement_id", event.MovementID).Msg("publicar evento de movimiento")
	}
}

func requireSupplier(ctx context.Context, repo repository.SupplierRepository, id string) error {
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NotFound("proveedor", id)
	}
	return nil
}

func requireStaff(ctx context.Context, repo repository.StaffRepository, id string) error {
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NotFound("funcionario", id)
	}
	if !s.Active {
		return fmt.Errorf("funcionario %s inactivo: %w", id, domain.ErrForbidden)
	}
	return nil
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
