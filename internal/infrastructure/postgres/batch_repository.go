package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, item_id, lot_number, expiry_date, remaining_quantity, created_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	if err := row.Scan(&b.ID, &b.ItemID, &b.LotNumber, &b.ExpiryDate, &b.RemainingQuantity, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BatchRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch", `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
}

// GetForUpdate obtiene el lote y bloquea la fila para update (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.getOne(ctx, "get batch for update", `SELECT `+batchColumns+` FROM batches WHERE id = $1 FOR UPDATE`, id)
}

// FindOrCreate inserta el lote (cantidad 0) o, si ya existe el par (item_id, lot_number),
// lo devuelve bloqueado sin tocar su vencimiento.
func (r *BatchRepo) FindOrCreate(ctx context.Context, itemID, lotNumber string, expiryDate time.Time) (*entity.Batch, bool, error) {
	query := `
		INSERT INTO batches (id, item_id, lot_number, expiry_date, remaining_quantity, created_at)
		VALUES ($1, $2, $3, $4, 0, now())
		ON CONFLICT (item_id, lot_number) DO NOTHING
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(ctx, query, uuid.New().String(), itemID, lotNumber, expiryDate))
	switch {
	case err == nil:
		return b, true, nil
	case isFKViolation(err):
		return nil, false, domain.NotFound("insumo", itemID)
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, false, fmt.Errorf("insert batch: %w", err)
	}

	b, err = r.getOne(ctx, "get batch by lot",
		`SELECT `+batchColumns+` FROM batches WHERE item_id = $1 AND lot_number = $2 FOR UPDATE`, itemID, lotNumber)
	if err != nil {
		return nil, false, err
	}
	if b == nil {
		return nil, false, fmt.Errorf("lote %s/%s desapareció durante la transacción", itemID, lotNumber)
	}
	return b, false, nil
}

// AdjustQuantity suma delta a remaining_quantity sin dejarla negativa. La condición del UPDATE
// hace que dos salidas concurrentes no puedan sobregirar el lote.
func (r *BatchRepo) AdjustQuantity(ctx context.Context, id string, delta int64) (*entity.Batch, error) {
	query := `
		UPDATE batches SET remaining_quantity = remaining_quantity + $2
		WHERE id = $1 AND remaining_quantity + $2 >= 0
		RETURNING ` + batchColumns
	b, err := scanBatch(r.q.QueryRow(ctx, query, id, delta))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("adjust batch quantity: %w", err)
	}
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, domain.NotFound("lote", id)
	}
	return nil, &domain.InsufficientStockError{Requested: -delta, Available: cur.RemainingQuantity}
}

// ListAvailable lotes con saldo, el que vence primero al inicio.
func (r *BatchRepo) ListAvailable(ctx context.Context, itemID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE item_id = $1 AND remaining_quantity > 0 ORDER BY expiry_date, lot_number`, itemID)
}

func (r *BatchRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE item_id = $1 ORDER BY expiry_date, lot_number`, itemID)
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}
