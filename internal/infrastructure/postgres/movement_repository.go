package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, kind, batch_id, item_id, quantity, unit_cost, reason, supplier_id, staff_member_id, created_at`

// MovementRepo implementación de MovementRepository sobre PostgreSQL. Solo inserción y lectura.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// scanMovement lee las columnas de movementColumns; rest recibe columnas adicionales del SELECT.
func scanMovement(row pgx.Row, rest ...any) (*entity.Movement, error) {
	var (
		m        entity.Movement
		supplier *string
	)
	dest := append([]any{&m.ID, &m.Kind, &m.BatchID, &m.ItemID, &m.Quantity, &m.UnitCost,
		&m.Reason, &supplier, &m.StaffMemberID, &m.CreatedAt}, rest...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	m.SupplierID = derefString(supplier)
	return &m, nil
}

func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.MissingCost() {
		return domain.NewValidationError("unit_cost", "es requerido en entradas")
	}
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Kind, m.BatchID, m.ItemID, m.Quantity, m.UnitCost,
		m.Reason, nullIfEmpty(m.SupplierID), m.StaffMemberID, m.CreatedAt,
	)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrReferenced
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func (r *MovementRepo) ListByBatch(ctx context.Context, batchID string) ([]*entity.Movement, error) {
	rows, err := r.q.Query(ctx, `SELECT `+movementColumns+` FROM movements WHERE batch_id = $1 ORDER BY created_at`, batchID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
