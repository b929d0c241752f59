// Package memory implementa los repositorios sobre un estado en memoria con
// transacciones serializadas: Run toma el candado global, trabaja sobre una copia
// del estado y solo la publica si fn termina sin error.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

type state struct {
	items     map[string]entity.Item
	batches   map[string]entity.Batch
	movements []entity.Movement
	suppliers map[string]entity.Supplier
	staff     map[string]entity.StaffMember
}

func newState() *state {
	return &state{
		items:     map[string]entity.Item{},
		batches:   map[string]entity.Batch{},
		suppliers: map[string]entity.Supplier{},
		staff:     map[string]entity.StaffMember{},
	}
}

func (s *state) clone() *state {
	c := &state{
		items:     make(map[string]entity.Item, len(s.items)),
		batches:   make(map[string]entity.Batch, len(s.batches)),
		movements: append([]entity.Movement(nil), s.movements...),
		suppliers: make(map[string]entity.Supplier, len(s.suppliers)),
		staff:     make(map[string]entity.StaffMember, len(s.staff)),
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.batches {
		c.batches[k] = v
	}
	for k, v := range s.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range s.staff {
		c.staff[k] = v
	}
	return c
}

// Store estado compartido. Seguro para uso concurrente.
type Store struct {
	mu    sync.Mutex
	state *state
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{state: newState()}
}

// view ejecuta fn con acceso exclusivo al estado (fuera de transacción).
func (s *Store) view(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Run ejecuta fn sobre una copia del estado; Commit si fn no falla, descarte si falla.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txScope{st: s.state.clone()}
	if err := fn(tx.repositories()); err != nil {
		return err
	}
	s.state = tx.st
	return nil
}

// Repositories devuelve repositorios fuera de transacción (equivalente al pool).
func (s *Store) Repositories() inventory.TxRepositories {
	return inventory.TxRepositories{
		Items:     &ItemRepo{scope: s},
		Batches:   &BatchRepo{scope: s},
		Movements: &MovementRepo{scope: s},
		Suppliers: &SupplierRepo{scope: s},
		Staff:     &StaffRepo{scope: s},
	}
}

// Reports devuelve el repositorio de informes.
func (s *Store) Reports() *ReportRepo {
	return &ReportRepo{scope: s}
}

// scope abstrae "pool" (Store) y "tx" (txScope) para los repositorios.
type scope interface {
	view(fn func(st *state) error) error
}

type txScope struct {
	st *state
}

// view dentro de la transacción: el candado ya lo tiene Run.
func (t *txScope) view(fn func(st *state) error) error { return fn(t.st) }

func (t *txScope) repositories() inventory.TxRepositories {
	return inventory.TxRepositories{
		Items:     &ItemRepo{scope: t},
		Batches:   &BatchRepo{scope: t},
		Movements: &MovementRepo{scope: t},
		Suppliers: &SupplierRepo{scope: t},
		Staff:     &StaffRepo{scope: t},
	}
}
