package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/insumos-api/internal/application/inventory"
	"github.com/jhoicas/insumos-api/internal/domain"
	"github.com/jhoicas/insumos-api/internal/domain/entity"
	"github.com/jhoicas/insumos-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	itemA    = "item-a"
	supplier = "sup-1"
	staff    = "staff-1"
)

var expiry = time.Date(2030, 3, 31, 0, 0, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	store *memory.Store
	repos inventory.TxRepositories
	uc    *inventory.StockMovementUseCase
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.MovementEvent
	err    error
}

func (p *recordingPublisher) PublishMovement(_ context.Context, e inventory.MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func newFixture(t *testing.T, pub inventory.MovementPublisher) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repositories()

	require.NoError(t, repos.Items.Create(ctx, &entity.Item{
		ID: itemA, Name: "Luva de procedimento", Category: entity.CategoryProtectiveEquipment,
		UnitMeasure: entity.UnitBox, ReorderThreshold: entity.DefaultReorderThreshold, Active: true,
	}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: supplier, Name: "Dental Sul", Active: true}))
	require.NoError(t, repos.Staff.Create(ctx, &entity.StaffMember{
		ID: staff, Name: "Ana Souza", Email: "ana@clinica.test", CPF: "111", Role: entity.RoleStandard, Active: true,
	}))

	uc := inventory.NewStockMovementUseCase(store, repos.Items, repos.Batches, pub, nil)
	return &fixture{ctx: ctx, store: store, repos: repos, uc: uc}
}

func (f *fixture) entry(t *testing.T, qty int64, total, lot string) *inventory.MovementResult {
	t.Helper()
	res, err := f.uc.RecordEntry(f.ctx, inventory.EntryInput{
		ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
		Quantity: qty, TotalCost: decimal.RequireFromString(total),
		LotNumber: lot, ExpiryDate: expiry,
	})
	require.NoError(t, err)
	return res
}

func (f *fixture) exit(qty int64, batchID string) (*inventory.MovementResult, error) {
	return f.uc.RecordExit(f.ctx, inventory.ExitInput{
		BatchID: batchID, StaffMemberID: staff, Quantity: qty, Reason: "uso em paciente",
	})
}

// assertBalanceMatchesBatches verifica balance == Σ remaining_quantity.
func (f *fixture) assertBalanceMatchesBatches(t *testing.T) {
	t.Helper()
	item, err := f.repos.Items.GetByID(f.ctx, itemA)
	require.NoError(t, err)
	batches, err := f.repos.Batches.ListByItem(f.ctx, itemA)
	require.NoError(t, err)
	var sum int64
	for _, b := range batches {
		assert.GreaterOrEqual(t, b.RemainingQuantity, int64(0))
		sum += b.RemainingQuantity
	}
	assert.Equal(t, sum, item.Balance, "el saldo del insumo debe ser la suma de sus lotes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordEntry_PrimeraEntradaFijaCostoPromedio(t *testing.T) {
	f := newFixture(t, nil)

	res := f.entry(t, 100, "500.00", "L-01")

	assert.Equal(t, int64(100), res.Item.Balance)
	assert.True(t, decimal.NewFromInt(5).Equal(res.Item.AverageCost))
	assert.Equal(t, entity.MovementKindEntry, res.Movement.Kind)
	require.NotNil(t, res.Movement.UnitCost)
	assert.True(t, decimal.NewFromInt(5).Equal(*res.Movement.UnitCost))
	assert.Equal(t, supplier, res.Movement.SupplierID)
	assert.Equal(t, int64(100), res.Batch.RemainingQuantity)
	f.assertBalanceMatchesBatches(t)
}

func TestRecordEntry_EscenarioCompletoConSalida(t *testing.T) {
	f := newFixture(t, nil)

	first := f.entry(t, 100, "500.00", "L-01")
	second := f.entry(t, 50, "300.00", "L-02")

	want := decimal.NewFromInt(800).Div(decimal.NewFromInt(150))
	assert.True(t, want.Equal(second.Item.AverageCost), "esperado %s, obtenido %s", want, second.Item.AverageCost)
	assert.Equal(t, "5.33333", second.Item.AverageCost.Round(5).String())
	assert.Equal(t, int64(150), second.Item.Balance)

	// 100 del lote L-01 y 20 del L-02
	out1, err := f.exit(100, first.Batch.ID)
	require.NoError(t, err)
	out2, err := f.exit(20, second.Batch.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(30), out2.Item.Balance)
	assert.True(t, want.Equal(*out1.Movement.UnitCost), "la salida registra el costo promedio vigente")
	assert.True(t, want.Equal(*out2.Movement.UnitCost))
	assert.True(t, want.Equal(out2.Item.AverageCost), "las salidas no recalculan el promedio")
	f.assertBalanceMatchesBatches(t)
}

func TestRecordEntry_MismoLoteSumaSinCambiarVencimiento(t *testing.T) {
	f := newFixture(t, nil)

	first := f.entry(t, 10, "20.00", "L-01")
	res, err := f.uc.RecordEntry(f.ctx, inventory.EntryInput{
		ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
		Quantity: 5, TotalCost: decimal.NewFromInt(10),
		LotNumber: "  L-01 ", ExpiryDate: expiry.AddDate(1, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, first.Batch.ID, res.Batch.ID, "no debe crear un segundo lote")
	assert.Equal(t, int64(15), res.Batch.RemainingQuantity)
	assert.True(t, expiry.Equal(res.Batch.ExpiryDate), "el vencimiento registrado primero prevalece")

	all, err := f.repos.Batches.ListByItem(f.ctx, itemA)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	f.assertBalanceMatchesBatches(t)
}

func TestRecordEntry_CostoCeroEsValido(t *testing.T) {
	f := newFixture(t, nil)
	f.entry(t, 10, "50", "L-01")

	res := f.entry(t, 10, "0", "DOACAO")
	assert.Equal(t, "2.5", res.Item.AverageCost.String())
}

func TestRecordEntry_Validaciones(t *testing.T) {
	f := newFixture(t, nil)
	base := inventory.EntryInput{
		ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
		Quantity: 1, TotalCost: decimal.NewFromInt(1), LotNumber: "L", ExpiryDate: expiry,
	}

	cases := map[string]func(in *inventory.EntryInput){
		"cantidad cero":     func(in *inventory.EntryInput) { in.Quantity = 0 },
		"cantidad negativa": func(in *inventory.EntryInput) { in.Quantity = -3 },
		"costo negativo":    func(in *inventory.EntryInput) { in.TotalCost = decimal.NewFromInt(-1) },
		"sin lote":          func(in *inventory.EntryInput) { in.LotNumber = "   " },
		"sin vencimiento":   func(in *inventory.EntryInput) { in.ExpiryDate = time.Time{} },
		"sin proveedor":     func(in *inventory.EntryInput) { in.SupplierID = "" },
		"cantidad enorme":   func(in *inventory.EntryInput) { in.Quantity = inventory.MaxMovementQuantity + 1 },
		"cantidad maxint":   func(in *inventory.EntryInput) { in.Quantity = math.MaxInt64 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := f.uc.RecordEntry(f.ctx, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestRecordEntry_ReferenciasInexistentes(t *testing.T) {
	f := newFixture(t, nil)
	base := inventory.EntryInput{
		ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
		Quantity: 1, TotalCost: decimal.NewFromInt(1), LotNumber: "L", ExpiryDate: expiry,
	}

	for name, mutate := range map[string]func(in *inventory.EntryInput){
		"insumo":      func(in *inventory.EntryInput) { in.ItemID = "nao-existe" },
		"proveedor":   func(in *inventory.EntryInput) { in.SupplierID = "nao-existe" },
		"funcionario": func(in *inventory.EntryInput) { in.StaffMemberID = "nao-existe" },
	} {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := f.uc.RecordEntry(f.ctx, in)
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}

	batches, err := f.repos.Batches.ListByItem(f.ctx, itemA)
	require.NoError(t, err)
	assert.Empty(t, batches, "una entrada fallida no debe crear lotes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Salidas
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordExit_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t, nil)
	in := f.entry(t, 30, "90.00", "L-01")

	_, err := f.exit(40, in.Batch.ID)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(40), insufficient.Requested)
	assert.Equal(t, int64(30), insufficient.Available)

	item, _ := f.repos.Items.GetByID(f.ctx, itemA)
	batch, _ := f.repos.Batches.GetByID(f.ctx, in.Batch.ID)
	assert.Equal(t, int64(30), item.Balance)
	assert.Equal(t, int64(30), batch.RemainingQuantity)
	movs, _ := f.repos.Movements.ListByBatch(f.ctx, in.Batch.ID)
	assert.Len(t, movs, 1, "solo la entrada queda registrada")
}

func TestRecordExit_LoteEnCeroSePreservaYSaleDeDisponibles(t *testing.T) {
	f := newFixture(t, nil)
	in := f.entry(t, 10, "10", "L-01")

	out, err := f.exit(10, in.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Batch.RemainingQuantity)
	assert.Empty(t, out.Movement.SupplierID)
	assert.Equal(t, "uso em paciente", out.Movement.Reason)

	available, err := f.uc.ListAvailableBatches(f.ctx, itemA)
	require.NoError(t, err)
	assert.Empty(t, available)

	kept, err := f.uc.GetBatch(f.ctx, in.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), kept.RemainingQuantity)
}

func TestRecordExit_Validaciones(t *testing.T) {
	f := newFixture(t, nil)
	in := f.entry(t, 10, "10", "L-01")

	_, err := f.exit(0, in.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.exit(1, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.exit(inventory.MaxMovementQuantity+1, in.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.RecordExit(f.ctx, inventory.ExitInput{BatchID: in.Batch.ID, StaffMemberID: "fantasma", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.assertBalanceMatchesBatches(t)
}

func TestMovimientos_FuncionarioInactivoNoRegistra(t *testing.T) {
	f := newFixture(t, nil)
	in := f.entry(t, 10, "10", "L-01")
	require.NoError(t, f.repos.Staff.SetActive(f.ctx, staff, false))

	_, err := f.uc.RecordEntry(f.ctx, inventory.EntryInput{
		ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
		Quantity: 5, TotalCost: decimal.NewFromInt(5), LotNumber: "L-01", ExpiryDate: expiry,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.exit(1, in.Batch.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	item, err := f.uc.GetItem(f.ctx, itemA)
	require.NoError(t, err)
	assert.Equal(t, int64(10), item.Balance)
	f.assertBalanceMatchesBatches(t)
}

func TestRecordEntry_SaldoNoDesborda(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.repos.Items.UpdateStock(f.ctx, itemA, math.MaxInt64-10, decimal.NewFromInt(1)))

	_, err := f.uc.RecordEntry(f.ctx, inventory.EntryInput{
		ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
		Quantity: 11, TotalCost: decimal.NewFromInt(11), LotNumber: "L-01", ExpiryDate: expiry,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecordExit_ConcurrentesNoSobregiranElLote(t *testing.T) {
	f := newFixture(t, nil)
	in := f.entry(t, 100, "100", "L-01")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.exit(60, in.Batch.ID)
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	batch, err := f.uc.GetBatch(f.ctx, in.Batch.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(40), batch.RemainingQuantity)
	f.assertBalanceMatchesBatches(t)
}

func TestListAvailableBatches_OrdenPorVencimiento(t *testing.T) {
	f := newFixture(t, nil)
	for _, lot := range []struct {
		name string
		exp  time.Time
	}{
		{"TARDE", expiry.AddDate(0, 6, 0)},
		{"PRONTO", expiry.AddDate(0, -6, 0)},
		{"MEDIO", expiry},
	} {
		_, err := f.uc.RecordEntry(f.ctx, inventory.EntryInput{
			ItemID: itemA, SupplierID: supplier, StaffMemberID: staff,
			Quantity: 1, TotalCost: decimal.NewFromInt(1), LotNumber: lot.name, ExpiryDate: lot.exp,
		})
		require.NoError(t, err)
	}

	list, err := f.uc.ListAvailableBatches(f.ctx, itemA)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"PRONTO", "MEDIO", "TARDE"}, []string{list[0].LotNumber, list[1].LotNumber, list[2].LotNumber})

	_, err = f.uc.ListAvailableBatches(f.ctx, "nao-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos
// ──────────────────────────────────────────────────────────────────────────────

func TestEventos_SePublicanSoloTrasCommit(t *testing.T) {
	pub := &recordingPublisher{}
	f := newFixture(t, pub)

	in := f.entry(t, 5, "25", "L-01")
	_, err := f.exit(9, in.Batch.ID)
	require.Error(t, err)

	require.Len(t, pub.events, 1)
	assert.Equal(t, entity.MovementKindEntry, pub.events[0].Kind)
	assert.Equal(t, int64(5), pub.events[0].Balance)
	assert.Equal(t, "L-01", pub.events[0].LotNumber)
}

func TestEventos_FalloAlPublicarNoRevierteMovimiento(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker caído")}
	f := newFixture(t, pub)

	res := f.entry(t, 5, "25", "L-01")
	assert.Equal(t, int64(5), res.Item.Balance)

	item, err := f.uc.GetItem(f.ctx, itemA)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Balance)
}
