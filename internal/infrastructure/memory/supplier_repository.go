package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación en memoria de SupplierRepository.
type SupplierRepo struct {
	scope scope
}

func taxIDTaken(st *state, taxID, exceptID string) bool {
	if taxID == "" {
		return false
	}
	for id, s := range st.suppliers {
		if id != exceptID && s.TaxID == taxID {
			return true
		}
	}
	return false
}

func (r *SupplierRepo) Create(_ context.Context, supplier *entity.Supplier) error {
	return r.scope.view(func(st *state) error {
		if _, ok := st.suppliers[supplier.ID]; ok || taxIDTaken(st, supplier.TaxID, "") {
			return domain.ErrDuplicate
		}
		st.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *SupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.scope.view(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) find(match func(s entity.Supplier) bool) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.scope.view(func(st *state) error {
		for _, s := range st.suppliers {
			if match(s) {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Supplier, error) {
	return r.find(func(s entity.Supplier) bool { return s.TaxID != "" && s.TaxID == taxID })
}

func (r *SupplierRepo) GetByEmail(_ context.Context, email string) (*entity.Supplier, error) {
	return r.find(func(s entity.Supplier) bool { return s.Email != "" && strings.EqualFold(s.Email, email) })
}

func (r *SupplierRepo) List(_ context.Context, filter repository.SupplierFilter) ([]*entity.Supplier, error) {
	term := strings.ToLower(strings.TrimSpace(filter.Search))
	var list []*entity.Supplier
	err := r.scope.view(func(st *state) error {
		for _, s := range st.suppliers {
			if filter.ActiveOnly && !s.Active {
				continue
			}
			if term != "" &&
				!strings.Contains(strings.ToLower(s.Name), term) &&
				!strings.Contains(strings.ToLower(s.TaxID), term) &&
				!strings.Contains(strings.ToLower(s.Email), term) {
				continue
			}
			list = append(list, &s)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool { return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name) })
	return list, err
}

func (r *SupplierRepo) Update(_ context.Context, supplier *entity.Supplier) error {
	return r.scope.view(func(st *state) error {
		cur, ok := st.suppliers[supplier.ID]
		if !ok {
			return domain.NotFound("proveedor", supplier.ID)
		}
		if taxIDTaken(st, supplier.TaxID, supplier.ID) {
			return domain.ErrDuplicate
		}
		supplier.CreatedAt = cur.CreatedAt
		st.suppliers[supplier.ID] = *supplier
		return nil
	})
}

func (r *SupplierRepo) Delete(_ context.Context, id string) error {
	return r.scope.view(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.NotFound("proveedor", id)
		}
		// ON DELETE SET NULL
		for i := range st.movements {
			if st.movements[i].SupplierID == id {
				st.movements[i].SupplierID = ""
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}
