package sales_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pos/internal/application/dto"
	"github.com/tu-usuario/taller-pos/internal/application/inventory"
	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
)

func newRefundUC(e *saleEnv, bound string) *sales.RefundUseCase {
	return sales.NewRefundUseCase(e.tx, inventory.NewLedger(inventory.NewRecorder()), e.saleRepo, bound)
}

func seedSaleWithItems(e *saleEnv, id string, total, paid int64) {
	seedSale(e, id, total, paid, entity.SaleStatusCompleted)
	e.store.items[id] = []*entity.SaleItem{
		{ID: "it-1", SaleID: id, ProductID: "p1", ProductName: "Pantalla", Quantity: dec(2), UnitPrice: dec(total / 2)},
	}
}

func TestCreateRefund_ParcialYTotal(t *testing.T) {
	e := newSaleEnv()
	uc := newRefundUC(e, sales.RefundBoundTotal)
	seedSaleWithItems(e, "s1", 100000, 100000)
	e.store.seedStock("p1", testLocationID, 0)

	// Devolución parcial con ítem físico: repone stock y marca PARTIAL_REFUND
	r1, err := uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(50000),
		Reason: "pantalla con defecto",
		Method: "efectivo",
		Items:  []dto.RefundItemRequest{{ProductID: "p1", Quantity: dec(1)}},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r1.Number, "REF-"), "número: %s", r1.Number)

	sale := e.store.sales["s1"]
	assert.Equal(t, entity.SaleStatusPartialRefund, sale.Status)
	assert.True(t, sale.Paid.Equal(dec(100000)), "paid queda como registro histórico")
	assert.True(t, e.store.stockQty("p1", testLocationID).Equal(dec(1)), "el ítem devuelto repone stock")
	require.Len(t, e.store.movements, 1)
	assert.Equal(t, entity.MovementTypeReturnIn, e.store.movements[0].Type)

	// Segunda devolución cubre el total: REFUNDED terminal
	_, err = uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(50000), Reason: "resto", Method: "efectivo",
	})
	require.NoError(t, err)
	sale = e.store.sales["s1"]
	assert.Equal(t, entity.SaleStatusRefunded, sale.Status)
	assert.Equal(t, entity.PaymentStatusRefunded, sale.PaymentStatus)
}

func TestCreateRefund_LimiteAcumulado(t *testing.T) {
	e := newSaleEnv()
	uc := newRefundUC(e, sales.RefundBoundTotal)
	seedSaleWithItems(e, "s1", 100000, 100000)

	_, err := uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(80000), Reason: "a", Method: "efectivo",
	})
	require.NoError(t, err)

	// 80000 + 30000 > 100000: rechazada y sin efectos
	_, err = uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(30000), Reason: "b", Method: "efectivo",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, e.store.refunds["s1"], 1, "la devolución rechazada no persiste")
}

func TestCreateRefund_LimitePorCobrado(t *testing.T) {
	e := newSaleEnv()
	uc := newRefundUC(e, sales.RefundBoundPaid)
	// Venta a crédito: total 100000, cobrado solo 40000
	seedSaleWithItems(e, "s1", 100000, 40000)

	// Con política "paid" no se devuelve más de lo cobrado
	_, err := uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(50000), Reason: "x", Method: "efectivo",
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(40000), Reason: "x", Method: "efectivo",
	})
	require.NoError(t, err)
}

func TestCreateRefund_CancelacionConcurrente(t *testing.T) {
	e := newSaleEnv()
	// El almacén ya tiene la venta cancelada; la lectura inicial aún la ve completada
	seedSaleWithItems(e, "s1", 100000, 100000)
	e.store.sales["s1"].Status = entity.SaleStatusCancelled
	stale := &staleStatusRepo{fakeSaleRepo: e.saleRepo, staleStatus: entity.SaleStatusCompleted}
	uc := sales.NewRefundUseCase(e.tx, inventory.NewLedger(inventory.NewRecorder()), stale, sales.RefundBoundTotal)

	_, err := uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
		Amount: dec(50000), Reason: "x", Method: "efectivo",
	})
	require.ErrorIs(t, err, domain.ErrInvalidState, "la guarda dentro de la tx debe atrapar la cancelación")
	assert.Empty(t, e.store.refunds["s1"], "ninguna devolución persiste contra una venta cancelada")
}

func TestCreateRefund_Guardas(t *testing.T) {
	e := newSaleEnv()
	uc := newRefundUC(e, "")
	seedSaleWithItems(e, "s1", 100000, 100000)
	seedSale(e, "s2", 50000, 0, entity.SaleStatusCancelled)

	t.Run("venta inexistente", func(t *testing.T) {
		_, err := uc.CreateRefund(context.Background(), "nope", testSellerID, dto.CreateRefundRequest{Amount: dec(100), Method: "efectivo"})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
	t.Run("venta cancelada", func(t *testing.T) {
		_, err := uc.CreateRefund(context.Background(), "s2", testSellerID, dto.CreateRefundRequest{Amount: dec(100), Method: "efectivo"})
		require.ErrorIs(t, err, domain.ErrInvalidState)
	})
	t.Run("producto ajeno a la venta", func(t *testing.T) {
		_, err := uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
			Amount: dec(100), Method: "efectivo",
			Items: []dto.RefundItemRequest{{ProductID: "p-ajeno", Quantity: dec(1)}},
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("cantidad devuelta mayor a la vendida", func(t *testing.T) {
		_, err := uc.CreateRefund(context.Background(), "s1", testSellerID, dto.CreateRefundRequest{
			Amount: dec(100), Method: "efectivo",
			Items: []dto.RefundItemRequest{{ProductID: "p1", Quantity: dec(99)}},
		})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
