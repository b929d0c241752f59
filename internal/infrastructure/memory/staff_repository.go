package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/domain/repository"
)

var _ repository.StaffRepository = (*StaffRepo)(nil)

// StaffRepo implementación en memoria de StaffRepository.
type StaffRepo struct {
	scope scope
}

func staffConflict(st *state, m *entity.StaffMember) bool {
	for id, s := range st.staff {
		if id == m.ID {
			continue
		}
		if strings.EqualFold(s.Email, m.Email) || (m.CPF != "" && s.CPF == m.CPF) {
			return true
		}
	}
	return false
}

func (r *StaffRepo) Create(_ context.Context, member *entity.StaffMember) error {
	return r.scope.view(func(st *state) error {
		if _, ok := st.staff[member.ID]; ok || staffConflict(st, member) {
			return domain.ErrDuplicate
		}
		st.staff[member.ID] = *member
		return nil
	})
}

func (r *StaffRepo) GetByID(_ context.Context, id string) (*entity.StaffMember, error) {
	var out *entity.StaffMember
	err := r.scope.view(func(st *state) error {
		if s, ok := st.staff[id]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StaffRepo) find(match func(s entity.StaffMember) bool) (*entity.StaffMember, error) {
	var out *entity.StaffMember
	err := r.scope.view(func(st *state) error {
		for _, s := range st.staff {
			if match(s) {
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *StaffRepo) GetByEmail(_ context.Context, email string) (*entity.StaffMember, error) {
	return r.find(func(s entity.StaffMember) bool { return strings.EqualFold(s.Email, email) })
}

func (r *StaffRepo) GetByCPF(_ context.Context, cpf string) (*entity.StaffMember, error) {
	return r.find(func(s entity.StaffMember) bool { return s.CPF == cpf })
}

func (r *StaffRepo) List(_ context.Context, search string) ([]*entity.StaffMember, error) {
	term := strings.ToLower(strings.TrimSpace(search))
	var list []*entity.StaffMember
	err := r.scope.view(func(st *state) error {
		for _, s := range st.staff {
			if term != "" &&
				!strings.Contains(strings.ToLower(s.Name), term) &&
				!strings.Contains(s.CPF, term) &&
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

func (r *StaffRepo) Update(_ context.Context, member *entity.StaffMember) error {
	return r.scope.view(func(st *state) error {
		cur, ok := st.staff[member.ID]
		if !ok {
			return domain.NotFound("funcionario", member.ID)
		}
		if staffConflict(st, member) {
			return domain.ErrDuplicate
		}
		member.CreatedAt = cur.CreatedAt
		st.staff[member.ID] = *member
		return nil
	})
}

func (r *StaffRepo) SetActive(_ context.Context, id string, active bool) error {
	return r.scope.view(func(st *state) error {
		cur, ok := st.staff[id]
		if !ok {
			return domain.NotFound("funcionario", id)
		}
		cur.Active = active
		st.staff[id] = cur
		return nil
	})
}

func (r *StaffRepo) Delete(_ context.Context, id string) error {
	return r.scope.view(func(st *state) error {
		if _, ok := st.staff[id]; !ok {
			return domain.NotFound("funcionario", id)
		}
		for _, m := range st.movements {
			if m.StaffMemberID == id {
				return domain.ErrReferenced
			}
		}
		delete(st.staff, id)
		return nil
	})
}
