package memory

import (
	"context"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria (solo inserción).
type MovementRepo struct {
	scope scope
}

func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if movement.MissingCost() {
		return domain.NewValidationError("unit_cost", "es requerido en entradas")
	}
	return r.scope.view(func(st *state) error {
		b, ok := st.batches[movement.BatchID]
		if !ok {
			return domain.ErrReferenced
		}
		if _, ok := st.staff[movement.StaffMemberID]; !ok {
			return domain.ErrReferenced
		}
		m := *movement
		m.ItemID = b.ItemID
		st.movements = append(st.movements, m)
		return nil
	})
}

func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	err := r.scope.view(func(st *state) error {
		for _, m := range st.movements {
			if m.ID == id {
				out = &m
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MovementRepo) ListByBatch(_ context.Context, batchID string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	err := r.scope.view(func(st *state) error {
		for _, m := range st.movements {
			if m.BatchID == batchID {
				list = append(list, &m)
			}
		}
		return nil
	})
	return list, err
}
