package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación en memoria de ItemRepository.
type ItemRepo struct {
	scope scope
}

func (r *ItemRepo) Create(_ context.Context, item *entity.Item) error {
	return r.scope.view(func(st *state) error {
		if _, ok := st.items[item.ID]; ok {
			return domain.ErrDuplicate
		}
		key := entity.NameKey(item.Name)
		for _, it := range st.items {
			if entity.NameKey(it.Name) == key {
				return domain.ErrDuplicate
			}
		}
		st.items[item.ID] = *item
		return nil
	})
}

func (r *ItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	var out *entity.Item
	err := r.scope.view(func(st *state) error {
		if it, ok := st.items[id]; ok {
			out = &it
		}
		return nil
	})
	return out, err
}

// GetForUpdate en memoria equivale a GetByID: Run ya serializa las transacciones.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *ItemRepo) GetByName(_ context.Context, name string) (*entity.Item, error) {
	key := entity.NameKey(name)
	var out *entity.Item
	err := r.scope.view(func(st *state) error {
		for _, it := range st.items {
			if entity.NameKey(it.Name) == key {
				out = &it
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	term := entity.NameKey(filter.Search)
	var list []*entity.Item
	err := r.scope.view(func(st *state) error {
		for _, it := range st.items {
			if filter.ActiveOnly && !it.Active {
				continue
			}
			if filter.InStock && it.Balance <= 0 {
				continue
			}
			if term != "" &&
				!strings.Contains(entity.NameKey(it.Name), term) &&
				!strings.Contains(entity.NameKey(it.Category), term) {
				continue
			}
			list = append(list, &it)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return entity.NameKey(list[i].Name) < entity.NameKey(list[j].Name) })
	return list, err
}

func (r *ItemRepo) Update(_ context.Context, item *entity.Item) error {
	return r.scope.view(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return domain.NotFound("insumo", item.ID)
		}
		key := entity.NameKey(item.Name)
		for id, it := range st.items {
			if id != item.ID && entity.NameKey(it.Name) == key {
				return domain.ErrDuplicate
			}
		}
		cur.Name = item.Name
		cur.Category = item.Category
		cur.UnitMeasure = item.UnitMeasure
		cur.ReorderThreshold = item.ReorderThreshold
		cur.Active = item.Active
		cur.UpdatedAt = item.UpdatedAt
		st.items[item.ID] = cur
		return nil
	})
}

func (r *ItemRepo) UpdateStock(_ context.Context, id string, balance int64, averageCost decimal.Decimal) error {
	return r.scope.view(func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.NotFound("insumo", id)
		}
		cur.Balance = balance
		cur.AverageCost = averageCost
		st.items[id] = cur
		return nil
	})
}

func (r *ItemRepo) Delete(_ context.Context, id string) error {
	return r.scope.view(func(st *state) error {
		if _, ok := st.items[id]; !ok {
			return domain.NotFound("insumo", id)
		}
		for _, b := range st.batches {
			if b.ItemID == id {
				return domain.ErrReferenced
			}
		}
		delete(st.items, id)
		return nil
	})
}
