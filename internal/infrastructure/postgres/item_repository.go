package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

const itemColumns = `id, name, category, unit_measure, reorder_threshold, balance, average_cost, active, created_at, updated_at`

// ItemRepo implementación del puerto ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(&it.ID, &it.Name, &it.Category, &it.UnitMeasure, &it.ReorderThreshold,
		&it.Balance, &it.AverageCost, &it.Active, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// Create persiste un nuevo insumo. name_key garantiza la unicidad sin distinguir mayúsculas.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (id, name, name_key, category, unit_measure, reorder_threshold, balance, average_cost, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, entity.NameKey(item.Name), item.Category, item.UnitMeasure,
		item.ReorderThreshold, item.Balance, item.AverageCost, item.Active, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Item, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM items WHERE id = $1`, id)
}

// GetForUpdate obtiene el insumo y bloquea la fila (SELECT FOR UPDATE). Solo dentro de una tx.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, "get item for update", `SELECT `+itemColumns+` FROM items WHERE id = $1 FOR UPDATE`, id)
}

func (r *ItemRepo) GetByName(ctx context.Context, name string) (*entity.Item, error) {
	return r.getOne(ctx, "get item by name", `SELECT `+itemColumns+` FROM items WHERE name_key = $1`, entity.NameKey(name))
}

// List lista insumos ordenados por nombre.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		where []string
		args  []any
	)
	if term := entity.NameKey(filter.Search); term != "" {
		args = append(args, likePattern(term))
		where = append(where, fmt.Sprintf("(name_key LIKE $%d OR lower(category) LIKE $%d)", len(args), len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "active")
	}
	if filter.InStock {
		where = append(where, "balance > 0")
	}
	query := `SELECT ` + itemColumns + ` FROM items`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY name_key`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	var list []*entity.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Update actualiza los campos descriptivos. Balance y AverageCost no se tocan.
func (r *ItemRepo) Update(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, name_key = $3, category = $4, unit_measure = $5, reorder_threshold = $6, active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, entity.NameKey(item.Name), item.Category, item.UnitMeasure,
		item.ReorderThreshold, item.Active, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("insumo", item.ID)
	}
	return nil
}

// UpdateStock actualiza saldo y costo promedio (usado por el motor de inventario).
func (r *ItemRepo) UpdateStock(ctx context.Context, id string, balance int64, averageCost decimal.Decimal) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE items SET balance = $2, average_cost = $3, updated_at = now() WHERE id = $1`,
		id, balance, averageCost,
	)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update item stock: saldo negativo: %w", err)
		}
		return fmt.Errorf("update item stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("insumo", id)
	}
	return nil
}

// Delete elimina el insumo si no tiene lotes registrados.
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	var hasBatches bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM batches WHERE item_id = $1)`, id).Scan(&hasBatches); err != nil {
		return fmt.Errorf("check item batches: %w", err)
	}
	if hasBatches {
		return domain.ErrReferenced
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		if isFKViolation(err) {
			return domain.ErrReferenced
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NotFound("insumo", id)
	}
	return nil
}
