package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pos/internal/application/inventory"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
	"github.com/tu-usuario/taller-pos/internal/domain/repository"
)

type memStockRepo struct {
	rows map[string]*entity.Stock
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{rows: make(map[string]*entity.Stock)}
}

func (r *memStockRepo) key(productID, locationID string) string {
	return productID + "|" + locationID
}

func (r *memStockRepo) seed(productID, locationID string, qty int64) {
	s := &entity.Stock{
		ProductID:  productID,
		LocationID: locationID,
		Quantity:   decimal.NewFromInt(qty),
	}
	s.Recalculate()
	r.rows[r.key(productID, locationID)] = s
}

func (r *memStockRepo) Get(productID, locationID string) (*entity.Stock, error) {
	s, ok := r.rows[r.key(productID, locationID)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memStockRepo) GetForUpdate(productID, locationID string) (*entity.Stock, error) {
	return r.Get(productID, locationID)
}

func (r *memStockRepo) Upsert(s *entity.Stock) error {
	cp := *s
	r.rows[r.key(s.ProductID, s.LocationID)] = &cp
	return nil
}

type memMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovementRepo) ListByProductLocation(productID, locationID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID && m.LocationID == locationID {
			out = append(out, m)
		}
	}
	return out, nil
}

var (
	_ repository.StockRepository         = (*memStockRepo)(nil)
	_ repository.StockMovementRepository = (*memMovementRepo)(nil)
)

func saleOp(qty int64) inventory.LedgerOp {
	return inventory.LedgerOp{
		ProductID:     "p1",
		ProductName:   "Pantalla",
		LocationID:    "loc-1",
		Quantity:      decimal.NewFromInt(qty),
		MovementType:  entity.MovementTypeSaleOut,
		ReferenceID:   "venta-1",
		ReferenceKind: entity.ReferenceKindSale,
		ActorID:       "seller-1",
		Now:           time.Now(),
	}
}

func TestLedgerDecrement(t *testing.T) {
	stocks := newMemStockRepo()
	movs := &memMovementRepo{}
	ledger := inventory.NewLedger(inventory.NewRecorder())
	stocks.seed("p1", "loc-1", 10)

	before, after, err := ledger.Decrement(stocks, movs, saleOp(3))
	require.NoError(t, err)
	assert.True(t, before.Equal(decimal.NewFromInt(10)))
	assert.True(t, after.Equal(decimal.NewFromInt(7)))

	s, _ := stocks.Get("p1", "loc-1")
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(7)))
	assert.True(t, s.AvailableQuantity.Equal(decimal.NewFromInt(7)))

	require.Len(t, movs.movements, 1)
	m := movs.movements[0]
	assert.Equal(t, entity.MovementTypeSaleOut, m.Type)
	assert.True(t, m.Quantity.Equal(decimal.NewFromInt(-3)), "la salida se registra con signo negativo")
	assert.True(t, m.QuantityAfter.Equal(m.QuantityBefore.Add(m.Quantity)))
}

func TestLedgerDecrement_SinFilaDeInventario(t *testing.T) {
	ledger := inventory.NewLedger(inventory.NewRecorder())
	_, _, err := ledger.Decrement(newMemStockRepo(), &memMovementRepo{}, saleOp(1))
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedgerDecrement_Faltante(t *testing.T) {
	stocks := newMemStockRepo()
	movs := &memMovementRepo{}
	ledger := inventory.NewLedger(inventory.NewRecorder())
	stocks.seed("p1", "loc-1", 2)

	_, _, err := ledger.Decrement(stocks, movs, saleOp(5))
	require.Error(t, err)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, "p1", shortage.ProductID)
	assert.Equal(t, "loc-1", shortage.LocationID)
	assert.True(t, shortage.Available.Equal(decimal.NewFromInt(2)))
	assert.True(t, shortage.Required.Equal(decimal.NewFromInt(5)))
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	// El faltante no muta existencia ni deja movimiento
	s, _ := stocks.Get("p1", "loc-1")
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(2)))
	assert.Empty(t, movs.movements)
}

func TestLedgerDecrement_ReservaRestaDisponibilidad(t *testing.T) {
	stocks := newMemStockRepo()
	ledger := inventory.NewLedger(inventory.NewRecorder())
	s := &entity.Stock{
		ProductID:        "p1",
		LocationID:       "loc-1",
		Quantity:         decimal.NewFromInt(10),
		ReservedQuantity: decimal.NewFromInt(8),
	}
	s.Recalculate()
	require.NoError(t, stocks.Upsert(s))

	// Hay 10 físicas pero solo 2 disponibles
	_, _, err := ledger.Decrement(stocks, &memMovementRepo{}, saleOp(3))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestLedgerIncrement_CreaFilaDesdeCero(t *testing.T) {
	stocks := newMemStockRepo()
	movs := &memMovementRepo{}
	ledger := inventory.NewLedger(inventory.NewRecorder())

	op := saleOp(4)
	op.MovementType = entity.MovementTypeReturnIn
	op.ReferenceKind = entity.ReferenceKindRefund

	before, after, err := ledger.Increment(stocks, movs, op)
	require.NoError(t, err)
	assert.True(t, before.IsZero())
	assert.True(t, after.Equal(decimal.NewFromInt(4)))

	s, _ := stocks.Get("p1", "loc-1")
	require.NotNil(t, s, "la reposición crea la fila si no existe")
	assert.True(t, s.AvailableQuantity.Equal(decimal.NewFromInt(4)))

	require.Len(t, movs.movements, 1)
	assert.True(t, movs.movements[0].Quantity.Equal(decimal.NewFromInt(4)))
}

func TestLedgerCheckAvailable(t *testing.T) {
	stocks := newMemStockRepo()
	ledger := inventory.NewLedger(inventory.NewRecorder())
	stocks.seed("p1", "loc-1", 3)

	ok, err := ledger.CheckAvailable(stocks, "p1", "loc-1", decimal.NewFromInt(3))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.CheckAvailable(stocks, "p1", "loc-1", decimal.NewFromInt(4))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.CheckAvailable(stocks, "nope", "loc-1", decimal.NewFromInt(1))
	require.NoError(t, err)
	assert.False(t, ok, "sin fila de inventario no hay disponibilidad")
}

func TestRecorderAppend_Validaciones(t *testing.T) {
	rec := inventory.NewRecorder()
	movs := &memMovementRepo{}
	now := time.Now()

	base := inventory.MovementEntry{
		ProductID:      "p1",
		LocationID:     "loc-1",
		QuantityBefore: decimal.NewFromInt(10),
		Now:            now,
	}

	t.Run("cantidad cero", func(t *testing.T) {
		e := base
		e.Type = entity.MovementTypeAdjust
		e.Quantity = decimal.Zero
		e.QuantityAfter = decimal.NewFromInt(10)
		require.ErrorIs(t, rec.Append(movs, e), domain.ErrInvalidInput)
	})
	t.Run("signo contrario al tipo", func(t *testing.T) {
		e := base
		e.Type = entity.MovementTypeSaleOut
		e.Quantity = decimal.NewFromInt(2) // la salida exige negativo
		e.QuantityAfter = decimal.NewFromInt(12)
		require.ErrorIs(t, rec.Append(movs, e), domain.ErrInvalidInput)
	})
	t.Run("aritmética inconsistente", func(t *testing.T) {
		e := base
		e.Type = entity.MovementTypeReturnIn
		e.Quantity = decimal.NewFromInt(2)
		e.QuantityAfter = decimal.NewFromInt(13) // 10 + 2 != 13
		require.ErrorIs(t, rec.Append(movs, e), domain.ErrInvalidInput)
	})
	assert.Empty(t, movs.movements, "ninguna entrada inválida se persiste")
}

func TestReplay_Conciliacion(t *testing.T) {
	stocks := newMemStockRepo()
	movs := &memMovementRepo{}
	ledger := inventory.NewLedger(inventory.NewRecorder())
	stocks.seed("p1", "loc-1", 10)

	_, _, err := ledger.Decrement(stocks, movs, saleOp(3))
	require.NoError(t, err)

	op := saleOp(1)
	op.MovementType = entity.MovementTypeReturnIn
	op.ReferenceKind = entity.ReferenceKindRefund
	_, _, err = ledger.Increment(stocks, movs, op)
	require.NoError(t, err)

	history, err := movs.ListByProductLocation("p1", "loc-1", 100, 0)
	require.NoError(t, err)
	replayed := inventory.Replay(decimal.NewFromInt(10), history)

	s, _ := stocks.Get("p1", "loc-1")
	assert.True(t, replayed.Equal(s.Quantity), "el libro reproduce la existencia actual: %s vs %s", replayed, s.Quantity)
}

type memTxRunner struct {
	stocks *memStockRepo
	movs   *memMovementRepo
}

func (r *memTxRunner) RunInventory(_ context.Context, fn func(repository.StockRepository, repository.StockMovementRepository) error) error {
	return fn(r.stocks, r.movs)
}

type memProductRepo struct {
	byID map[string]*entity.Product
}

func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.byID[id], nil
}

func TestRegisterEntry(t *testing.T) {
	stocks := newMemStockRepo()
	movs := &memMovementRepo{}
	products := &memProductRepo{byID: map[string]*entity.Product{
		"p1": {ID: "p1", Name: "Pantalla"},
	}}
	uc := inventory.NewEntryUseCase(
		&memTxRunner{stocks: stocks, movs: movs},
		inventory.NewLedger(inventory.NewRecorder()),
		products,
	)

	// Recepción de mercancía crea la fila y deja ENTRY_IN
	err := uc.RegisterEntry(context.Background(), inventory.EntryInput{
		ProductID:  "p1",
		LocationID: "loc-1",
		Quantity:   decimal.NewFromInt(5),
		Note:       "compra proveedor",
		ActorID:    "admin-1",
	})
	require.NoError(t, err)
	s, _ := stocks.Get("p1", "loc-1")
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(5)))
	require.Len(t, movs.movements, 1)
	assert.Equal(t, entity.MovementTypeEntryIn, movs.movements[0].Type)

	// Ajuste negativo (merma) descuenta con ADJUST
	err = uc.RegisterEntry(context.Background(), inventory.EntryInput{
		ProductID:  "p1",
		LocationID: "loc-1",
		Quantity:   decimal.NewFromInt(-2),
		Adjust:     true,
		Note:       "conteo físico",
		ActorID:    "admin-1",
	})
	require.NoError(t, err)
	s, _ = stocks.Get("p1", "loc-1")
	assert.True(t, s.Quantity.Equal(decimal.NewFromInt(3)))
	require.Len(t, movs.movements, 2)
	assert.Equal(t, entity.MovementTypeAdjust, movs.movements[1].Type)
	assert.True(t, movs.movements[1].Quantity.Equal(decimal.NewFromInt(-2)))
}

func TestRegisterEntry_Guardas(t *testing.T) {
	uc := inventory.NewEntryUseCase(
		&memTxRunner{stocks: newMemStockRepo(), movs: &memMovementRepo{}},
		inventory.NewLedger(inventory.NewRecorder()),
		&memProductRepo{byID: map[string]*entity.Product{}},
	)

	t.Run("recepción negativa sin ajuste", func(t *testing.T) {
		err := uc.RegisterEntry(context.Background(), inventory.EntryInput{
			ProductID: "p1", LocationID: "loc-1", Quantity: decimal.NewFromInt(-1),
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("producto inexistente", func(t *testing.T) {
		err := uc.RegisterEntry(context.Background(), inventory.EntryInput{
			ProductID: "nope", LocationID: "loc-1", Quantity: decimal.NewFromInt(1),
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("cantidad cero", func(t *testing.T) {
		err := uc.RegisterEntry(context.Background(), inventory.EntryInput{
			ProductID: "p1", LocationID: "loc-1", Quantity: decimal.Zero,
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
