package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de informes sobre el estado en memoria.
type ReportRepo struct {
	scope scope
}

func (r *ReportRepo) InventoryValue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	err := r.scope.view(func(st *state) error {
		for _, it := range st.items {
			if it.Active {
				total = total.Add(it.StockValue())
			}
		}
		return nil
	})
	return total, err
}

func (r *ReportRepo) LowStockItems(_ context.Context, limit int) ([]*entity.Item, error) {
	var list []*entity.Item
	err := r.scope.view(func(st *state) error {
		for _, it := range st.items {
			if it.Active && it.IsLowStock() {
				list = append(list, &it)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		if list[i].Balance != list[j].Balance {
			return list[i].Balance < list[j].Balance
		}
		return list[i].Name < list[j].Name
	})
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, err
}

func (r *ReportRepo) ExpiringBatches(_ context.Context, from, to time.Time, limit int) ([]repository.ExpiringBatchResult, error) {
	var list []repository.ExpiringBatchResult
	err := r.scope.view(func(st *state) error {
		for _, b := range st.batches {
			if b.RemainingQuantity > 0 && b.ExpiresWithin(from, to) {
				list = append(list, repository.ExpiringBatchResult{Batch: b, ItemName: st.items[b.ItemID].Name})
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return list[i].Batch.ExpiryDate.Before(list[j].Batch.ExpiryDate) })
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list, err
}

func (r *ReportRepo) ConsumptionLines(_ context.Context, from, to time.Time) ([]repository.ConsumptionLine, error) {
	var list []repository.ConsumptionLine
	err := r.scope.view(func(st *state) error {
		for _, m := range st.movements {
			if m.Kind != entity.MovementKindExit || m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
				continue
			}
			b := st.batches[m.BatchID]
			list = append(list, repository.ConsumptionLine{
				Movement:        m,
				ItemName:        st.items[b.ItemID].Name,
				LotNumber:       b.LotNumber,
				StaffMemberName: st.staff[m.StaffMemberID].Name,
			})
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Movement.CreatedAt.After(list[j].Movement.CreatedAt) })
	return list, err
}

func (r *ReportRepo) PurchaseHistory(_ context.Context, itemID string) ([]repository.PurchaseLine, error) {
	var list []repository.PurchaseLine
	err := r.scope.view(func(st *state) error {
		for _, m := range st.movements {
			if m.Kind != entity.MovementKindEntry || m.ItemID != itemID {
				continue
			}
			b := st.batches[m.BatchID]
			list = append(list, repository.PurchaseLine{
				Movement:     m,
				LotNumber:    b.LotNumber,
				ExpiryDate:   b.ExpiryDate,
				SupplierName: st.suppliers[m.SupplierID].Name,
			})
		}
		return nil
	})
	sort.SliceStable(list, func(i, j int) bool { return list[i].Movement.CreatedAt.After(list[j].Movement.CreatedAt) })
	return list, err
}
