package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas agregadas de solo lectura para los informes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el repositorio de informes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

func (r *ReportRepo) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(balance * average_cost), 0) FROM items WHERE active`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("inventory value: %w", err)
	}
	return total, nil
}

// LowStockItems usa LIMIT NULLIF($1, 0): limit 0 equivale a sin límite.
func (r *ReportRepo) LowStockItems(ctx context.Context, limit int) ([]*entity.Item, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE active AND balance <= reorder_threshold
		ORDER BY balance, name_key
		LIMIT NULLIF($1, 0)`, limit)
	if err != nil {
		return nil, fmt.Errorf("low stock items: %w", err)
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

func (r *ReportRepo) ExpiringBatches(ctx context.Context, from, to time.Time, limit int) ([]repository.ExpiringBatchResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT b.id, b.item_id, b.lot_number, b.expiry_date, b.remaining_quantity, b.created_at, i.name
		FROM batches b JOIN items i ON i.id = b.item_id
		WHERE b.remaining_quantity > 0 AND b.expiry_date BETWEEN $1 AND $2
		ORDER BY b.expiry_date, b.lot_number
		LIMIT NULLIF($3, 0)`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("expiring batches: %w", err)
	}
	defer rows.Close()
	var list []repository.ExpiringBatchResult
	for rows.Next() {
		var e repository.ExpiringBatchResult
		b := &e.Batch
		if err := rows.Scan(&b.ID, &b.ItemID, &b.LotNumber, &b.ExpiryDate, &b.RemainingQuantity, &b.CreatedAt, &e.ItemName); err != nil {
			return nil, fmt.Errorf("scan expiring batch: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *ReportRepo) ConsumptionLines(ctx context.Context, from, to time.Time) ([]repository.ConsumptionLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.kind, m.batch_id, m.item_id, m.quantity, m.unit_cost, m.reason, m.supplier_id, m.staff_member_id, m.created_at,
		       i.name, b.lot_number, s.name
		FROM movements m
		JOIN batches b ON b.id = m.batch_id
		JOIN items i ON i.id = m.item_id
		JOIN staff_members s ON s.id = m.staff_member_id
		WHERE m.kind = 'exit' AND m.created_at >= $1 AND m.created_at < $2
		ORDER BY m.created_at DESC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("consumption lines: %w", err)
	}
	defer rows.Close()
	var list []repository.ConsumptionLine
	for rows.Next() {
		var l repository.ConsumptionLine
		m, err := scanMovement(rows, &l.ItemName, &l.LotNumber, &l.StaffMemberName)
		if err != nil {
			return nil, fmt.Errorf("scan consumption line: %w", err)
		}
		l.Movement = *m
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *ReportRepo) PurchaseHistory(ctx context.Context, itemID string) ([]repository.PurchaseLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.kind, m.batch_id, m.item_id, m.quantity, m.unit_cost, m.reason, m.supplier_id, m.staff_member_id, m.created_at,
		       b.lot_number, b.expiry_date, COALESCE(s.name, '')
		FROM movements m
		JOIN batches b ON b.id = m.batch_id
		LEFT JOIN suppliers s ON s.id = m.supplier_id
		WHERE m.kind = 'entry' AND m.item_id = $1
		ORDER BY m.created_at DESC`, itemID)
	if err != nil {
		return nil, fmt.Errorf("purchase history: %w", err)
	}
	defer rows.Close()
	var list []repository.PurchaseLine
	for rows.Next() {
		var l repository.PurchaseLine
		m, err := scanMovement(rows, &l.LotNumber, &l.ExpiryDate, &l.SupplierName)
		if err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		l.Movement = *m
		list = append(list, l)
	}
	return list, rows.Err()
}
