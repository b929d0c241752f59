package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación en memoria de BatchRepository.
type BatchRepo struct {
	scope scope
}

func (r *BatchRepo) GetByID(_ context.Context, id string) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.scope.view(func(st *state) error {
		if b, ok := st.batches[id]; ok {
			out = &b
		}
		return nil
	})
	return out, err
}

func (r *BatchRepo) GetForUpdate(ctx context.Context, id string) (*entity.Batch, error) {
	return r.GetByID(ctx, id)
}

func (r *BatchRepo) FindOrCreate(_ context.Context, itemID, lotNumber string, expiryDate time.Time) (*entity.Batch, bool, error) {
	var out *entity.Batch
	created := false
	err := r.scope.view(func(st *state) error {
		if _, ok := st.items[itemID]; !ok {
			return domain.NotFound("insumo", itemID)
		}
		for _, b := range st.batches {
			if b.ItemID == itemID && b.LotNumber == lotNumber {
				out = &b
				return nil
			}
		}
		b := entity.Batch{
			ID:         uuid.New().String(),
			ItemID:     itemID,
			LotNumber:  lotNumber,
			ExpiryDate: expiryDate,
			CreatedAt:  time.Now(),
		}
		st.batches[b.ID] = b
		out = &b
		created = true
		return nil
	})
	return out, created, err
}

func (r *BatchRepo) AdjustQuantity(_ context.Context, id string, delta int64) (*entity.Batch, error) {
	var out *entity.Batch
	err := r.scope.view(func(st *state) error {
		b, ok := st.batches[id]
		if !ok {
			return domain.NotFound("lote", id)
		}
		if b.RemainingQuantity+delta < 0 {
			return &domain.InsufficientStockError{Requested: -delta, Available: b.RemainingQuantity}
		}
		b.RemainingQuantity += delta
		st.batches[id] = b
		out = &b
		return nil
	})
	return out, err
}

func (r *BatchRepo) ListAvailable(ctx context.Context, itemID string) ([]*entity.Batch, error) {
	all, err := r.ListByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Batch, 0, len(all))
	for _, b := range all {
		if b.RemainingQuantity > 0 {
			list = append(list, b)
		}
	}
	return list, nil
}

func (r *BatchRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Batch, error) {
	var list []*entity.Batch
	err := r.scope.view(func(st *state) error {
		for _, b := range st.batches {
			if b.ItemID == itemID {
				list = append(list, &b)
			}
		}
		return nil
	})
	sortByExpiry(list)
	return list, err
}

func sortByExpiry(list []*entity.Batch) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].ExpiryDate.Equal(list[j].ExpiryDate) {
			return list[i].ExpiryDate.Before(list[j].ExpiryDate)
		}
		return list[i].LotNumber < list[j].LotNumber
	})
}
