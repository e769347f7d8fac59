package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/taller-pos/internal/application/dto"
	"github.com/tu-usuario/taller-pos/internal/application/sales"
	"github.com/tu-usuario/taller-pos/internal/domain"
	"github.com/tu-usuario/taller-pos/internal/domain/entity"
)

func newQueryUC(e *saleEnv) *sales.QueryUseCase {
	return sales.NewQueryUseCase(e.saleRepo, &fakePaymentRepo{e.store}, &fakeRefundRepo{e.store})
}

func TestGetSaleByID_ArmaDetalleCompleto(t *testing.T) {
	e := newSaleEnv()
	uc := newQueryUC(e)
	seedSale(e, "s1", 100000, 100000, entity.SaleStatusCompleted)
	e.store.items["s1"] = []*entity.SaleItem{
		{ID: "it-1", SaleID: "s1", ProductID: "p1", ProductName: "Pantalla", Quantity: dec(1), UnitPrice: dec(100000), Subtotal: dec(100000)},
	}
	e.store.payments["s1"] = []*entity.Payment{
		{ID: "pay-1", SaleID: "s1", Number: "PAY-SALE-2026-0007-1", Amount: dec(100000), Method: entity.PaymentMethodCash, Status: entity.PaymentConfirmed, CreatedAt: time.Now()},
	}
	e.store.refunds["s1"] = []*entity.Refund{
		{ID: "ref-1", SaleID: "s1", Number: "REF-2026-1", Amount: dec(20000), Method: entity.PaymentMethodCash, CreatedAt: time.Now()},
	}

	resp, err := uc.GetSaleByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "SALE-2026-0007", resp.Number)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Pantalla", resp.Items[0].ProductName)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "PAY-SALE-2026-0007-1", resp.Payments[0].Number)
	require.Len(t, resp.Refunds, 1)
	assert.True(t, resp.Refunds[0].Amount.Equal(dec(20000)))
}

func TestGetSaleByID_NoExiste(t *testing.T) {
	e := newSaleEnv()
	uc := newQueryUC(e)
	_, err := uc.GetSaleByID(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSales_FiltroYFechas(t *testing.T) {
	e := newSaleEnv()
	uc := newQueryUC(e)
	seedSale(e, "s1", 100000, 100000, entity.SaleStatusCompleted)
	seedSale(e, "s2", 50000, 0, entity.SaleStatusCancelled)

	out, err := uc.ListSales(context.Background(), dto.ListSalesRequest{Status: entity.SaleStatusCompleted})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "s1", out[0].ID)

	// Fecha mal formada rechazada antes de tocar el repositorio
	_, err = uc.ListSales(context.Background(), dto.ListSalesRequest{From: "31/01/2026"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
