package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/infrastructure/postgres"
)

// failingQuerier responde a toda consulta con el mismo error de PostgreSQL.
type failingQuerier struct {
	err error
}

func (q failingQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, q.err
}

func (q failingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, q.err
}

func (q failingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return errRow{err: q.err}
}

type errRow struct {
	err error
}

func (r errRow) Scan(...any) error { return r.err }

func TestGetByID_IdQueNoEsUUIDEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := failingQuerier{err: &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "no-existe"`}}
	repos := postgres.NewRepositories(q)

	item, err := repos.Items.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, item)
	batch, err := repos.Batches.GetForUpdate(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, batch)
	supplier, err := repos.Suppliers.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, supplier)
	staff, err := repos.Staff.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, staff)

	uc := inventory.NewStockMovementUseCase(nil, repos.Items, repos.Batches, nil, nil)
	_, err = uc.GetBatch(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetItem(ctx, "cualquiera")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordExit_LoteConIdInvalidoEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := failingQuerier{err: &pgconn.PgError{Code: "22P02"}}
	repos := postgres.NewRepositories(q)
	runner := txFunc(func(fn func(inventory.TxRepositories) error) error { return fn(repos) })

	uc := inventory.NewStockMovementUseCase(runner, repos.Items, repos.Batches, nil, nil)
	_, err := uc.RecordExit(ctx, inventory.ExitInput{BatchID: "no-existe", StaffMemberID: "s", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetByID_OtrosErroresSePropagan(t *testing.T) {
	q := failingQuerier{err: &pgconn.PgError{Code: "57014"}}
	_, err := postgres.NewItemRepository(q).GetByID(context.Background(), "x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

type txFunc func(fn func(inventory.TxRepositories) error) error

func (f txFunc) Run(_ context.Context, fn func(inventory.TxRepositories) error) error { return f(fn) }
